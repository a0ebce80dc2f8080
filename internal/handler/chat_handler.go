package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/YasirGaji/thegoldmetrics/internal/model"
	"github.com/gin-gonic/gin"
)

const chunkWords = 8

type ChatResponder interface {
	Reply(ctx context.Context, turns []model.ChatTurn) *model.ChatReply
}

type ChatHandler struct {
	responder ChatResponder
}

func NewChatHandler(responder ChatResponder) *ChatHandler {
	return &ChatHandler{responder: responder}
}

// Chat streams the reply as server-sent events: meta, text chunks, sources
// and done, in that order.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	turns := req.Turns()
	if len(turns) == 0 || strings.TrimSpace(turns[len(turns)-1].Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A question is required"})
		return
	}

	slog.Info("chat request", "turns", len(turns))
	reply := h.responder.Reply(c.Request.Context(), turns)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	sendEvent(c, "meta", ChatMeta{Refused: reply.Refused, MarketStatus: reply.MarketStatus, Price: reply.Price})
	for _, chunk := range chunkText(reply.Text, chunkWords) {
		sendEvent(c, "text", ChatText{Text: chunk})
	}
	sendEvent(c, "sources", reply.Sources)
	sendEvent(c, "done", gin.H{})
}

// sendEvent writes v as compact JSON without HTML escaping so citation URLs
// reach the client byte for byte.
func sendEvent(c *gin.Context, event string, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Error("error encoding chat event", "event", event, "error", err)
		return
	}

	c.SSEvent(event, strings.TrimSuffix(buf.String(), "\n"))
	c.Writer.Flush()
}

func chunkText(text string, words int) []string {
	var chunks []string
	var b strings.Builder
	count := 0
	for _, r := range text {
		b.WriteRune(r)
		if r == ' ' || r == '\n' {
			count++
			if count == words {
				chunks = append(chunks, b.String())
				b.Reset()
				count = 0
			}
		}
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}
