package model

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatTurn struct {
	Role string
	Text string
}

type Citation struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type ChatReply struct {
	Text         string
	Refused      bool
	Sources      []Citation
	MarketStatus string
	Price        string
}
