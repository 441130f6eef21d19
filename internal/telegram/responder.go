// internal/telegram/responder.go

// Package telegram is the chat front end of the site: recommendations,
// featured cards, partner offers and the assistant, over a Telegram bot.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"travel-cards/internal/domain"
	"travel-cards/internal/money"
	"travel-cards/internal/recommend"
	"travel-cards/internal/storage"
	val "travel-cards/internal/validator"
)

const helpText = "✈️ *Travel Cards*\n\n" +
	"Commands:\n" +
	"`/cards 50000 75000 10 5` — cards for yearly hotel spend, yearly flight spend, domestic and international lounge visits per quarter\n" +
	"`/top` — our featured travel cards\n" +
	"`/offers` — partner cashback offers, `/offers hotels` for one category\n" +
	"Anything else goes to the travel card assistant."

const topCards = 5

type Recommender interface {
	Recommend(ctx context.Context, prefs domain.UserPreferences, source string) (domain.Recommendation, error)
}

type Catalog interface {
	Top(ctx context.Context, n int) ([]domain.CatalogCard, error)
}

type Assistant interface {
	Reply(ctx context.Context, msg string) (string, bool)
}

// Responder turns one incoming text into the Markdown reply.
type Responder struct {
	recommender Recommender
	catalog     Catalog
	offers      storage.OfferStorage
	assistant   Assistant
}

func NewResponder(r Recommender, c Catalog, offers storage.OfferStorage, a Assistant) *Responder {
	return &Responder{
		recommender: r,
		catalog:     c,
		offers:      offers,
		assistant:   a,
	}
}

func (r *Responder) Handle(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	cmd, args, _ := strings.Cut(text, " ")
	// commands may be addressed as /cmd@botname in groups
	cmd, _, _ = strings.Cut(cmd, "@")

	var (
		reply string
		err   error
	)
	switch cmd {
	case "/start", "/help":
		reply = helpText
	case "/cards":
		reply, err = r.handleCards(ctx, args)
	case "/top":
		reply, err = r.handleTop(ctx)
	case "/offers":
		reply, err = r.handleOffers(ctx, strings.TrimSpace(args))
	default:
		if strings.HasPrefix(text, "/") {
			return "Unknown command. Send /help"
		}
		if text == "" {
			return helpText
		}
		answer, _ := r.assistant.Reply(ctx, text)
		return escape(answer)
	}

	if err != nil {
		var inputErr *inputError
		if errors.As(err, &inputErr) {
			return "❌ " + inputErr.msg
		}
		slog.Error("telegram command failed", "command", cmd, "error", err)
		return "😅 Something went wrong. Don't worry, let's try again!"
	}
	return reply
}

type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

func parsePreferences(args string) (domain.UserPreferences, error) {
	fields := strings.Fields(args)
	if len(fields) != 4 {
		return domain.UserPreferences{}, &inputError{"Use: /cards <hotels per year> <flights per year> <domestic lounges per quarter> <international lounges per quarter>"}
	}
	var nums [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(strings.ReplaceAll(f, ",", ""), 64)
		if err != nil {
			return domain.UserPreferences{}, &inputError{fmt.Sprintf("%q is not a number", f)}
		}
		nums[i] = n
	}
	prefs := domain.UserPreferences{
		HotelsAnnual:                      nums[0],
		FlightsAnnual:                     nums[1],
		DomesticLoungeUsageQuarterly:      nums[2],
		InternationalLoungeUsageQuarterly: nums[3],
	}
	if err := val.Validate.Struct(prefs); err != nil {
		return domain.UserPreferences{}, &inputError{"All values must be non-negative numbers"}
	}
	return prefs, nil
}

func (r *Responder) handleCards(ctx context.Context, args string) (string, error) {
	prefs, err := parsePreferences(args)
	if err != nil {
		return "", err
	}

	rec, err := r.recommender.Recommend(ctx, prefs, recommend.SourceTelegram)
	if err != nil {
		return fmt.Sprintf("*%s*\n%s", escape(domain.ErrorNotice.Title), escape(domain.ErrorNotice.Description)), nil
	}

	lines := []string{
		fmt.Sprintf("*%s*\n%s", escape(rec.Notice.Title), escape(rec.Notice.Description)),
		fmt.Sprintf("_Hotels %s, flights %s a year; %s domestic and %s international lounge visits a quarter_",
			money.FormatINR(prefs.HotelsAnnual), money.FormatINR(prefs.FlightsAnnual),
			money.FormatCount(prefs.DomesticLoungeUsageQuarterly), money.FormatCount(prefs.InternationalLoungeUsageQuarterly)),
	}
	for i, card := range rec.Cards {
		lines = append(lines, renderRecommendation(i+1, card))
	}
	return strings.Join(lines, "\n\n"), nil
}

func renderRecommendation(pos int, card domain.CardRecommendation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. *%s*", pos, escape(card.DisplayName()))

	var saving float64
	if ok, err := card.Field("total_saving_yearly", &saving); ok && err == nil && saving > 0 {
		fmt.Fprintf(&b, "\n   💰 Saves about %s a year", money.FormatINR(saving))
	}
	if tb := card.TravelBenefits; tb != nil {
		fmt.Fprintf(&b, "\n   🛋️ %s domestic, %s international lounge visits",
			money.FormatCount(tb.Domestic()), money.FormatCount(tb.International()))
	}
	return b.String()
}

func (r *Responder) handleTop(ctx context.Context) (string, error) {
	cards, err := r.catalog.Top(ctx, topCards)
	if err != nil {
		return "", err
	}
	if len(cards) == 0 {
		return "📭 No cards to show right now.", nil
	}

	lines := []string{"🏆 *Top travel cards*"}
	for i, c := range cards {
		line := fmt.Sprintf("%d. *%s*", i+1, escape(c.Name))
		if c.CardType != "" {
			line += " · " + escape(c.CardType)
		}
		if c.JoiningFeeText != "" {
			if fee := c.JoiningFee(); fee > 0 {
				line += "\n   Joining fee " + money.FormatINR(float64(fee))
			} else {
				line += "\n   Joining fee: " + escape(c.JoiningFeeText)
			}
		}
		if commission := c.FormattedCommission(); commission != "" {
			line += "\n   🎁 " + escape(commission)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func (r *Responder) handleOffers(ctx context.Context, category string) (string, error) {
	offers, err := r.offers.ListOffers(ctx, domain.OfferFilter{Category: strings.ToLower(category)})
	if err != nil {
		return "", err
	}
	if len(offers) == 0 {
		return fmt.Sprintf("📭 No offers in *%s*", escape(category)), nil
	}

	heading := "🎯 *Travel cashback offers*"
	if category != "" {
		heading = fmt.Sprintf("🎯 *%s offers*", escape(cases.Title(language.English).String(category)))
	}
	lines := []string{heading}
	for _, o := range offers {
		line := fmt.Sprintf("- *%s* %s cashback: %s", escape(o.BrandName), escape(o.Cashback), escape(o.Title))
		if flat, err := strconv.ParseFloat(o.FlatOff, 64); err == nil && flat > 0 {
			line += fmt.Sprintf(" (flat %s off)", money.FormatINR(flat))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}
