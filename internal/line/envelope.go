// Package line speaks the chat transport: the inbound webhook envelope and
// the outbound reply API with its text, flex, and quick-reply payloads.
package line

// WebhookBody is the envelope delivered to the webhook endpoint. Each
// invocation carries the events batch; the adapter handles the first event
// of each request.
type WebhookBody struct {
	Events []Event `json:"events"`
}

// Event is one inbound chat event.
type Event struct {
	Type       string    `json:"type"`
	ReplyToken string    `json:"replyToken"`
	Source     *Source   `json:"source"`
	Message    *Message  `json:"message"`
	Postback   *Postback `json:"postback"`
}

// Source identifies the sender.
type Source struct {
	UserID string `json:"userId"`
}

// Message is the message payload of a message event.
type Message struct {
	Type      string  `json:"type"`
	Text      string  `json:"text"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Postback is the action payload of a postback event.
type Postback struct {
	Data string `json:"data"`
}

// SenderID returns the sender's user ID, or "anon" when the event carries
// no source.
func (e Event) SenderID() string {
	if e.Source == nil || e.Source.UserID == "" {
		return "anon"
	}
	return e.Source.UserID
}
