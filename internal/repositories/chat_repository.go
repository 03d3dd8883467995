package repositories

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/pr-poehali-dev/messenger-android-launch/internal/apperrors"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/models"
)

// ChatRepository abstracts chat and membership persistence.
type ChatRepository interface {
	CreateOrGet(ctx context.Context, userID, otherID int) (models.Chat, error)
	Get(ctx context.Context, chatID int) (models.Chat, error)
	IsMember(ctx context.Context, chatID, userID int) (bool, error)
	ListSummaries(ctx context.Context, userID int) ([]models.ChatSummaryRecord, error)
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	db *sqlx.DB
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(db *sqlx.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

// CreateOrGet returns the chat for the unordered user pair, creating it and
// both membership rows atomically when absent. The pair is stored sorted
// under a unique constraint, so two concurrent calls converge on one chat:
// the conditional insert either wins or yields to the committed row.
func (r *ChatRepo) CreateOrGet(ctx context.Context, userID, otherID int) (models.Chat, error) {
	if userID == otherID {
		return models.Chat{}, apperrors.ErrSelfChat
	}
	pair := []int{userID, otherID}
	sort.Ints(pair)
	user1, user2 := pair[0], pair[1]

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Chat{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var chat models.Chat
	err = tx.GetContext(ctx, &chat,
		`INSERT INTO chats (user1_id, user2_id) VALUES ($1, $2)
         ON CONFLICT (user1_id, user2_id) DO NOTHING
         RETURNING id, user1_id, user2_id, created_at`, user1, user2)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.GetContext(ctx, &chat,
			`SELECT id, user1_id, user2_id, created_at FROM chats WHERE user1_id=$1 AND user2_id=$2`,
			user1, user2)
	}
	if err != nil {
		return models.Chat{}, err
	}

	members := []models.ChatMember{
		{ChatID: chat.ID, UserID: user1},
		{ChatID: chat.ID, UserID: user2},
	}
	if _, err = tx.NamedExecContext(ctx,
		`INSERT INTO chat_members (chat_id, user_id) VALUES (:chat_id, :user_id) ON CONFLICT DO NOTHING`,
		members); err != nil {
		return models.Chat{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Chat{}, err
	}
	return chat, nil
}

// Get fetches a chat by id.
func (r *ChatRepo) Get(ctx context.Context, chatID int) (models.Chat, error) {
	var chat models.Chat
	err := r.db.GetContext(ctx, &chat, `SELECT id, user1_id, user2_id, created_at FROM chats WHERE id=$1`, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, apperrors.ErrChatNotFound
	}
	return chat, err
}

// IsMember checks whether the user has a membership row in the chat.
func (r *ChatRepo) IsMember(ctx context.Context, chatID, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM chat_members WHERE chat_id=$1 AND user_id=$2)`, chatID, userID)
	return exists, err
}

// ListSummaries returns one row per chat the user belongs to: the counterpart,
// the latest message and the unread count, newest activity first and empty
// chats last. Unread counts counterpart messages newer than the user's
// last_seen, treating a never-seen user as epoch.
func (r *ChatRepo) ListSummaries(ctx context.Context, userID int) ([]models.ChatSummaryRecord, error) {
	query := `SELECT c.id AS chat_id,
            u.id AS peer_id, u.username AS peer_username, u.display_name AS peer_name,
            u.avatar_url AS peer_avatar, u.last_seen AS peer_last_seen,
            m.text AS last_message, m.created_at AS last_time,
            (SELECT COUNT(*) FROM messages
             WHERE chat_id = c.id AND sender_id <> $1
               AND created_at > COALESCE((SELECT last_seen FROM users WHERE id=$1), 'epoch'::timestamptz)) AS unread
        FROM chats c
        JOIN chat_members cm ON cm.chat_id = c.id AND cm.user_id = $1
        JOIN chat_members cm2 ON cm2.chat_id = c.id AND cm2.user_id <> $1
        JOIN users u ON u.id = cm2.user_id
        LEFT JOIN LATERAL (
            SELECT text, created_at FROM messages
            WHERE chat_id = c.id
            ORDER BY created_at DESC
            LIMIT 1
        ) m ON TRUE
        ORDER BY m.created_at DESC NULLS LAST`
	var records []models.ChatSummaryRecord
	err := r.db.SelectContext(ctx, &records, query, userID)
	return records, err
}
