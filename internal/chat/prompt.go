package chat

import (
	"fmt"
	"strings"

	"github.com/YasirGaji/thegoldmetrics/internal/model"
)

const RefusalText = "I am a financial analyst. I only discuss gold and financial market strategies."

const UnavailableText = "The market analyst is temporarily unavailable. Please try again in a few minutes."

const gateSystemPrompt = `You are a topic classifier for a gold market analysis service.
Decide whether the USER QUESTION is about money, investing, economics, markets, precious metals or gold.
Follow-up questions count as financial when the previous conversation is financial.
Questions about food, weather, sports, coding, relationships or anything else are not financial.

Respond with a JSON object and nothing else:
{"finance": true}
or
{"finance": false}`

const analystSystemPrompt = `You are "The Gold Consultant", a senior gold market strategist at The Gold Metrics.
Give institutional-grade analysis. Tone: professional, objective, direct. No filler.

First check the USER QUESTION. If it is not about money, investing, economics, markets,
precious metals or gold (for example food, weather, sports, coding or relationships), do not answer it.
Respond with exactly {"refused": true} and nothing else.

Rules:
1. Use the RECENT NEWS only when it is relevant to the question. Otherwise rely on general financial knowledge.
2. If the user mentions a budget in any currency, use it in your calculations. If the currency is unclear, ask for it.
3. Keep the answer under 150 words.
4. Do not write URLs or a sources list in the answer; cite news only through the sources numbers.

Respond with a JSON object and nothing else:
{"answer": "<your analysis>", "sources": [<numbers of the RECENT NEWS items you used facts from>]}
Use an empty sources list when you used no news item.`

const noHistory = "No previous context."

func renderHistory(turns []model.ChatTurn) string {
	if len(turns) == 0 {
		return noHistory
	}

	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		speaker := "Assistant"
		if t.Role == model.RoleUser {
			speaker = "User"
		}
		lines = append(lines, speaker+": "+t.Text)
	}
	return strings.Join(lines, "\n")
}

func renderNews(articles []model.RetrievedArticle) string {
	if len(articles) == 0 {
		return "No recent news available."
	}

	var b strings.Builder
	for i, a := range articles {
		fmt.Fprintf(&b, "[%d] %s\nURL: %s\n%s\n\n", i+1, a.Title, a.URL, a.Summary)
	}
	return strings.TrimSpace(b.String())
}

func gatePrompt(history, question string) string {
	return fmt.Sprintf("PREVIOUS CONVERSATION:\n%s\n\nUSER QUESTION:\n%s", history, question)
}

func analystPrompt(price, status, news, history, question string) string {
	return fmt.Sprintf(`CURRENT MARKET DATA:
- Price: %s
- Status: %s

RECENT NEWS:
%s

PREVIOUS CONVERSATION:
%s

USER QUESTION:
%s`, price, status, news, history, question)
}
