package models

import "time"

// Sender annotations relative to the requesting user.
const (
	SenderMe    = "me"
	SenderOther = "other"
)

// TimeFormat is the wire format for message and chat timestamps.
const TimeFormat = "15:04"

// Message is an immutable chat message with a server-assigned timestamp.
type Message struct {
	ID        int       `db:"id" json:"id"`
	ChatID    int       `db:"chat_id" json:"chat_id"`
	SenderID  int       `db:"sender_id" json:"sender_id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MessageView is the wire form of a message, annotated relative to the
// requesting user.
type MessageView struct {
	ID     int    `json:"id"`
	Text   string `json:"text"`
	Sender string `json:"sender"`
	Time   string `json:"time"`
}

// View renders the message for the given viewer.
func (m Message) View(viewerID int) MessageView {
	sender := SenderOther
	if m.SenderID == viewerID {
		sender = SenderMe
	}
	return MessageView{
		ID:     m.ID,
		Text:   m.Text,
		Sender: sender,
		Time:   m.CreatedAt.Format(TimeFormat),
	}
}
