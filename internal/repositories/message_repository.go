package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/pr-poehali-dev/messenger-android-launch/internal/models"
)

// MessageRepository abstracts the per-chat message log.
type MessageRepository interface {
	Create(ctx context.Context, chatID, senderID int, text string) (models.Message, error)
	List(ctx context.Context, chatID int) ([]models.Message, error)
}

// MessageRepo is a sqlx implementation of MessageRepository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create appends a message and reads back the server-assigned timestamp in a
// single statement, so a stored message never lacks its timestamp.
func (r *MessageRepo) Create(ctx context.Context, chatID, senderID int, text string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO messages (chat_id, sender_id, text) VALUES ($1, $2, $3)
         RETURNING id, chat_id, sender_id, text, created_at`,
		chatID, senderID, text).
		Scan(&msg.ID, &msg.ChatID, &msg.SenderID, &msg.Text, &msg.CreatedAt)
	return msg, err
}

// List returns the full chat log in insertion order.
func (r *MessageRepo) List(ctx context.Context, chatID int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, chat_id, sender_id, text, created_at FROM messages WHERE chat_id=$1 ORDER BY created_at ASC`,
		chatID)
	return msgs, err
}
