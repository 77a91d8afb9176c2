package model

import (
	"sort"
	"time"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TitleMaxLength is the number of characters kept when a title is derived
// from the first user message.
const TitleMaxLength = 30

// defaultTitle is shown for chats that have neither a title nor a user message.
const defaultTitle = "New chat"

// Message is one turn in a chat. It is never modified after creation.
type Message struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds.
}

// Chat is a titled, ordered sequence of messages plus the model used to answer them.
// Timestamp is the last time the chat was touched, not its creation time.
type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	Model     string    `json:"model"`
	Timestamp int64     `json:"timestamp"` // Unix milliseconds.
}

// Millis converts t to the millisecond timestamps used by Chat and Message.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// NewChat returns an empty chat stamped with now.
func NewChat(id, modelName string, now time.Time) *Chat {
	return &Chat{
		ID:        id,
		Title:     "",
		Messages:  []Message{},
		Model:     modelName,
		Timestamp: Millis(now),
	}
}

// NewMessage returns a message stamped with now.
func NewMessage(id, role, content string, now time.Time) Message {
	return Message{ID: id, Role: role, Content: content, Timestamp: Millis(now)}
}

// Append adds msg to the end of the chat and refreshes the chat timestamp.
// The title is derived from msg when it is the first message and no title has been set.
func (c *Chat) Append(msg Message, now time.Time) {
	c.Messages = append(c.Messages, msg)
	if c.Title == "" && len(c.Messages) == 1 && msg.Role == RoleUser {
		c.Title = Truncate(msg.Content, TitleMaxLength)
	}
	c.Touch(now)
}

// Touch refreshes the last-touched timestamp.
func (c *Chat) Touch(now time.Time) {
	c.Timestamp = Millis(now)
}

// DisplayTitle is the label shown in chat lists.
func (c *Chat) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			return Truncate(msg.Content, TitleMaxLength)
		}
	}
	return defaultTitle
}

// Clone returns a deep copy so callers cannot mutate shared message slices.
func (c *Chat) Clone() *Chat {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Messages = make([]Message, len(c.Messages))
	copy(cp.Messages, c.Messages)
	return &cp
}

// Truncate shortens s to n runes, appending "..." when anything was cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// SortByTimestamp returns a copy of chats ordered most recent first.
// Chats sharing a timestamp keep their relative order.
func SortByTimestamp(chats []Chat) []Chat {
	sorted := make([]Chat, len(chats))
	copy(sorted, chats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp > sorted[j].Timestamp
	})
	return sorted
}
