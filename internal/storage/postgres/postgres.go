// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"travel-cards/internal/domain"
)

type Storage struct {
	db *pgxpool.Pool
}

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

// sanitizeString drops control and invisible characters from user input
// and collapses whitespace.
func sanitizeString(s string) string {
	result := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			result = append(result, ' ')
		case unicode.IsPrint(r):
			result = append(result, r)
		}
	}
	return strings.Join(strings.Fields(string(result)), " ")
}

// likePattern builds a case-insensitive substring pattern for ILIKE.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// === OfferStorage ===

func (s *Storage) ListOffers(ctx context.Context, filter domain.OfferFilter) ([]domain.TravelOffer, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if q := sanitizeString(filter.Search); q != "" {
		p := arg(likePattern(q))
		where = append(where, fmt.Sprintf("(brand_name ILIKE %s OR title ILIKE %s OR description ILIKE %s)", p, p, p))
	}
	if b := sanitizeString(filter.Brand); b != "" && b != "all" {
		where = append(where, "brand_name ILIKE "+arg(likePattern(b)))
	}
	if lo, hi, ok := filter.CashbackBounds(); ok {
		where = append(where, fmt.Sprintf("COALESCE(cashback_percentage, 0) BETWEEN %s AND %s", arg(lo), arg(hi)))
	}
	if filter.Category != "" && filter.Category != "all" {
		where = append(where, "category = "+arg(filter.Category))
	}

	query := `
		SELECT id, brand_name, cashback, cashback_percentage, title, description, category, terms_link, COALESCE(flat_off, '')
		FROM travel_offers`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY id"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	offers := []domain.TravelOffer{}
	for rows.Next() {
		var o domain.TravelOffer
		if err := rows.Scan(&o.ID, &o.BrandName, &o.Cashback, &o.CashbackPercentage, &o.Title,
			&o.Description, &o.Category, &o.TermsLink, &o.FlatOff); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offers: %w", err)
	}
	return offers, nil
}

// === LeadStorage ===

func (s *Storage) SaveLead(ctx context.Context, lead domain.Lead) (int64, error) {
	prefs, err := json.Marshal(lead.Preferences)
	if err != nil {
		return 0, fmt.Errorf("encode preferences: %w", err)
	}

	var id int64
	err = s.db.QueryRow(ctx, `
		INSERT INTO recommendation_leads (preferences, status, matched_count, source)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, prefs, string(lead.Status), lead.MatchedCount, lead.Source).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert lead: %w", err)
	}
	return id, nil
}

func (s *Storage) RecentLeads(ctx context.Context, limit int) ([]domain.Lead, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, preferences, status, matched_count, source, created_at
		FROM recommendation_leads
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent leads: %w", err)
	}

	leads, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Lead, error) {
		var (
			l      domain.Lead
			prefs  []byte
			status string
		)
		if err := row.Scan(&l.ID, &prefs, &status, &l.MatchedCount, &l.Source, &l.CreatedAt); err != nil {
			return l, err
		}
		l.Status = domain.RecommendationStatus(status)
		if err := json.Unmarshal(prefs, &l.Preferences); err != nil {
			return l, fmt.Errorf("decode preferences of lead %d: %w", l.ID, err)
		}
		return l, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan leads: %w", err)
	}
	return leads, nil
}

func (s *Storage) LeadStats(ctx context.Context) (domain.LeadStats, error) {
	var st domain.LeadStats
	err := s.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'matched'),
			COUNT(*) FILTER (WHERE status = 'partial'),
			COUNT(*) FILTER (WHERE status = 'no_matches')
		FROM recommendation_leads
	`).Scan(&st.Total, &st.Matched, &st.Partial, &st.NoMatches)
	if err != nil {
		return st, fmt.Errorf("lead stats: %w", err)
	}
	return st, nil
}
