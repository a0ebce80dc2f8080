package cron

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/YasirGaji/thegoldmetrics/pkg/gold"
	"github.com/YasirGaji/thegoldmetrics/pkg/llm"
)

const (
	FallbackTrend = "Gold holds steady."
	maxTrendWords = 4
)

const postTemplate = `📊 Gold Price Update – {{.Date}}

🇺🇸
💰 Per Gram: ${{money .Report.USD.Gram}}
🏅 Per Ounce: ${{money .Report.USD.Ounce}}
📦 Per Kilo: ${{money .Report.USD.Kilo}}

🇬🇧
💰 Per Gram: £{{money .Report.GBP.Gram}}
🏅 Per Ounce: £{{money .Report.GBP.Ounce}}
📦 Per Kilo: £{{money .Report.GBP.Kilo}}

{{.Trend}}

#Gold #GoldPrice #Wealth #TheGoldMetrics`

const trendSystemPrompt = `You write the closing line of a gold price social media post.
Reply with ONE short, punchy sentence about the market trend. Maximum 4 words.
No hashtags, no emojis, no quotes, no prices.`

type PostFormatter struct {
	completer llm.Completer
	tmpl      *template.Template
}

// NewPostFormatter accepts a nil completer; the trend line then always falls
// back to a fixed phrase.
func NewPostFormatter(completer llm.Completer) *PostFormatter {
	tmpl := template.Must(template.New("post").
		Funcs(template.FuncMap{"money": gold.FormatMoney}).
		Parse(postTemplate))
	return &PostFormatter{completer: completer, tmpl: tmpl}
}

func (f *PostFormatter) Format(ctx context.Context, report *gold.Report, at time.Time) (string, error) {
	data := struct {
		Date   string
		Report *gold.Report
		Trend  string
	}{
		Date:   at.Format("January 2, 2006"),
		Report: report,
		Trend:  f.trend(ctx, report),
	}

	var buf bytes.Buffer
	if err := f.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render post: %w", err)
	}
	return buf.String(), nil
}

func (f *PostFormatter) trend(ctx context.Context, report *gold.Report) string {
	if f.completer == nil {
		return FallbackTrend
	}

	content, err := f.completer.Complete(ctx, llm.CompletionRequest{
		System:      trendSystemPrompt,
		Prompt:      fmt.Sprintf("Gold (XAU) is trading at $%s per ounce.", gold.FormatMoney(report.USD.Ounce)),
		MaxTokens:   32,
		Temperature: 0.4,
	})
	if err != nil {
		slog.Warn("trend line generation failed, using fallback", "error", err)
		return FallbackTrend
	}

	line := cleanTrend(content)
	if line == "" {
		return FallbackTrend
	}
	return line
}

func cleanTrend(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, "\"'` ")

	words := strings.Fields(s)
	if len(words) > maxTrendWords {
		words = words[:maxTrendWords]
	}
	return strings.Join(words, " ")
}
