package handler

import (
	"strings"

	"github.com/YasirGaji/thegoldmetrics/internal/model"
)

type MessagePart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ChatMessage struct {
	Role  string        `json:"role"`
	Parts []MessagePart `json:"parts"`
}

type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// Turns flattens every message into plain text turns, keeping only text parts.
func (r ChatRequest) Turns() []model.ChatTurn {
	turns := make([]model.ChatTurn, 0, len(r.Messages))
	for _, m := range r.Messages {
		var b strings.Builder
		for _, p := range m.Parts {
			if p.Type == "text" {
				b.WriteString(p.Text)
			}
		}

		role := model.RoleAssistant
		if m.Role == model.RoleUser {
			role = model.RoleUser
		}
		turns = append(turns, model.ChatTurn{Role: role, Text: b.String()})
	}
	return turns
}

type ChatMeta struct {
	Refused      bool   `json:"refused"`
	MarketStatus string `json:"market_status"`
	Price        string `json:"price"`
}

type ChatText struct {
	Text string `json:"text"`
}

type JobResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
	Label  string `json:"label"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}
