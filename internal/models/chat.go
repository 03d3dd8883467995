package models

import (
	"database/sql"
	"time"
)

// Chat is a private conversation between exactly two users. Participant ids
// are stored sorted (user1_id < user2_id) so the unordered pair is unique.
type Chat struct {
	ID        int       `db:"id" json:"id"`
	User1ID   int       `db:"user1_id" json:"user1_id"`
	User2ID   int       `db:"user2_id" json:"user2_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ChatMember is one membership row. Every chat has exactly two.
type ChatMember struct {
	ChatID int `db:"chat_id" json:"chat_id"`
	UserID int `db:"user_id" json:"user_id"`
}

// ChatPeer is the counterpart block inside a chat summary.
type ChatPeer struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Online   bool   `json:"online"`
}

// ChatSummaryRecord is the raw chat-list row before presence annotation and
// time formatting. LastMessage and LastTime are NULL for an empty chat.
type ChatSummaryRecord struct {
	ChatID       int            `db:"chat_id"`
	PeerID       int            `db:"peer_id"`
	PeerUsername string         `db:"peer_username"`
	PeerName     string         `db:"peer_name"`
	PeerAvatar   sql.NullString `db:"peer_avatar"`
	PeerLastSeen sql.NullTime   `db:"peer_last_seen"`
	LastMessage  sql.NullString `db:"last_message"`
	LastTime     sql.NullTime   `db:"last_time"`
	Unread       int            `db:"unread"`
}

// ChatSummary is one row of the chat listing: the counterpart, the latest
// message (empty strings for an empty chat) and the unread count.
type ChatSummary struct {
	ID          int      `json:"id"`
	User        ChatPeer `json:"user"`
	LastMessage string   `json:"lastMessage"`
	Time        string   `json:"time"`
	Unread      int      `json:"unread"`
}
