package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/YasirGaji/thegoldmetrics/internal/market"
	"github.com/YasirGaji/thegoldmetrics/internal/model"
	"github.com/YasirGaji/thegoldmetrics/pkg/gold"
	"github.com/YasirGaji/thegoldmetrics/pkg/llm"
	"golang.org/x/sync/errgroup"
)

const (
	PriceUnavailable = "Unavailable"
	MaxAnswerWords   = 150

	// Thinking models count reasoning against the output budget, so the
	// one-field verdict still needs headroom.
	gateMaxTokens = 256

	newsCount     = 3
	newsThreshold = 0.5
)

type PriceReader interface {
	LatestSnapshot(ctx context.Context) (*model.PriceSnapshot, error)
}

type NewsRetriever interface {
	Retrieve(ctx context.Context, query string, k int, threshold float64) []model.RetrievedArticle
}

// Responder answers in two phases: a cheap classification call that refuses
// off-topic questions, then the analyst call grounded on price and news.
type Responder struct {
	completer llm.Completer
	prices    PriceReader
	news      NewsRetriever
	now       func() time.Time
}

func NewResponder(completer llm.Completer, prices PriceReader, news NewsRetriever) *Responder {
	return &Responder{completer: completer, prices: prices, news: news, now: time.Now}
}

type gateVerdict struct {
	Finance *bool `json:"finance"`
}

type analystAnswer struct {
	Refused bool   `json:"refused"`
	Answer  string `json:"answer"`
	Sources []int  `json:"sources"`
}

// Reply treats the last turn as the question and everything before it as
// history. It always returns a reply; upstream failures degrade the content.
func (r *Responder) Reply(ctx context.Context, turns []model.ChatTurn) *model.ChatReply {
	var question string
	var history []model.ChatTurn
	if len(turns) > 0 {
		question = turns[len(turns)-1].Text
		history = turns[:len(turns)-1]
	}
	historyText := renderHistory(history)

	status := market.StatusAt(r.now())

	if !r.isFinancial(ctx, historyText, question) {
		slog.Info("chat question refused by gate")
		return refusal(status)
	}

	price, articles := r.gatherContext(ctx, question)

	reply := &model.ChatReply{
		Sources:      []model.Citation{},
		MarketStatus: status.Label(),
		Price:        price,
	}

	content, err := r.completer.Complete(ctx, llm.CompletionRequest{
		System:      analystSystemPrompt,
		Prompt:      analystPrompt(price, status.Label(), renderNews(articles), historyText, question),
		JSON:        true,
		MaxTokens:   2048,
		Temperature: 0.4,
	})
	if err != nil {
		slog.Error("analyst completion failed", "error", err)
		reply.Text = UnavailableText
		return reply
	}

	var answer analystAnswer
	err = llm.DecodeJSON(content, &answer)
	if (err == nil && answer.Refused) || strings.Contains(content, RefusalText) {
		slog.Info("chat question refused by analyst")
		return refusal(status)
	}

	if err != nil || strings.TrimSpace(answer.Answer) == "" {
		slog.Warn("analyst returned unstructured answer", "error", err)
		reply.Text = CapWords(strings.TrimSpace(content), MaxAnswerWords)
		return reply
	}

	reply.Text = CapWords(strings.TrimSpace(answer.Answer), MaxAnswerWords)
	reply.Sources = citations(articles, answer.Sources)
	return reply
}

func refusal(status market.Status) *model.ChatReply {
	return &model.ChatReply{
		Text:         RefusalText,
		Refused:      true,
		Sources:      []model.Citation{},
		MarketStatus: status.Label(),
	}
}

// isFinancial fails open; the analyst prompt repeats the topic rule so an
// off-topic question is still refused when the gate is down.
func (r *Responder) isFinancial(ctx context.Context, history, question string) bool {
	content, err := r.completer.Complete(ctx, llm.CompletionRequest{
		System:    gateSystemPrompt,
		Prompt:    gatePrompt(history, question),
		JSON:      true,
		MaxTokens: gateMaxTokens,
	})
	if err != nil {
		slog.Warn("gate completion failed, allowing question", "error", err)
		return true
	}

	var verdict gateVerdict
	if err := llm.DecodeJSON(content, &verdict); err != nil || verdict.Finance == nil {
		slog.Warn("gate verdict unreadable, allowing question", "content", content, "error", err)
		return true
	}
	return *verdict.Finance
}

func (r *Responder) gatherContext(ctx context.Context, question string) (string, []model.RetrievedArticle) {
	price := PriceUnavailable
	articles := []model.RetrievedArticle{}

	var g errgroup.Group

	g.Go(func() error {
		snapshot, err := r.prices.LatestSnapshot(ctx)
		if err != nil {
			slog.Error("latest price lookup failed", "error", err)
			return nil
		}
		if snapshot != nil {
			ounce, _ := snapshot.PriceUSD.Float64()
			price = gold.NewUnitPrices(ounce).Describe("$")
		}
		return nil
	})

	g.Go(func() error {
		articles = r.news.Retrieve(ctx, question, newsCount, newsThreshold)
		return nil
	})

	_ = g.Wait()
	return price, articles
}

// citations maps 1-based indices to the stored articles. Out of range and
// repeated indices are dropped.
func citations(articles []model.RetrievedArticle, indices []int) []model.Citation {
	out := []model.Citation{}
	seen := make(map[int]bool)
	for _, idx := range indices {
		if idx < 1 || idx > len(articles) || seen[idx] {
			continue
		}
		seen[idx] = true
		a := articles[idx-1]
		out = append(out, model.Citation{Title: a.Title, URL: a.URL})
	}
	return out
}

// CapWords keeps the first n words of s, preserving the original spacing.
func CapWords(s string, n int) string {
	words := 0
	inWord := false
	for i, r := range s {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			words++
			inWord = true
			if words > n {
				return strings.TrimRightFunc(s[:i], unicode.IsSpace)
			}
		}
	}
	return s
}
