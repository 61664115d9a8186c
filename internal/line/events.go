// Package line holds the transport types and API client for the LINE
// Messaging platform: inbound webhook payloads, profile lookups, and the
// reply endpoint. Nothing in this package knows about ledgers or commands.
package line

// Event types delivered by the webhook.
const (
	EventTypeMessage  = "message"
	EventTypeFollow   = "follow"
	EventTypeUnfollow = "unfollow"
	EventTypeJoin     = "join"
	EventTypeLeave    = "leave"
)

// Source types on an event.
const (
	SourceTypeUser  = "user"
	SourceTypeGroup = "group"
	SourceTypeRoom  = "room"
)

// WebhookRequest is the top-level webhook payload.
type WebhookRequest struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event is a single webhook event.
type Event struct {
	Type       string  `json:"type"`
	ReplyToken string  `json:"replyToken,omitempty"`
	Timestamp  int64   `json:"timestamp"`
	Source     Source  `json:"source"`
	Message    Message `json:"message,omitempty"`
}

// Source identifies where an event came from.
type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// Message is the message object on a message event.
type Message struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type,omitempty"`
	Text string `json:"text,omitempty"`
}

// IsGroup reports whether the event originated in a group chat. Rooms are
// treated like groups for scoping purposes.
func (e *Event) IsGroup() bool {
	return e.Source.Type == SourceTypeGroup || e.Source.Type == SourceTypeRoom
}

// GroupID returns the group (or room) identifier, or empty for one-on-one
// chats.
func (e *Event) GroupID() string {
	if e.Source.GroupID != "" {
		return e.Source.GroupID
	}
	return e.Source.RoomID
}

// IsTextMessage reports whether the event is a text message event.
func (e *Event) IsTextMessage() bool {
	return e.Type == EventTypeMessage && e.Message.Type == "text"
}
