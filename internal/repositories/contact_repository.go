package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/pr-poehali-dev/messenger-android-launch/internal/models"
)

// ContactRepository abstracts the directed contact graph.
type ContactRepository interface {
	Add(ctx context.Context, ownerID, contactID int) error
	List(ctx context.Context, ownerID int) ([]models.User, error)
}

// ContactRepo is a sqlx implementation of ContactRepository.
type ContactRepo struct {
	db *sqlx.DB
}

// NewContactRepo constructs a ContactRepo.
func NewContactRepo(db *sqlx.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

// Add inserts the owner → contact edge. A duplicate insert is a no-op.
func (r *ContactRepo) Add(ctx context.Context, ownerID, contactID int) error {
	edge := models.Contact{UserID: ownerID, ContactUserID: contactID}
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO contacts (user_id, contact_user_id) VALUES (:user_id, :contact_user_id) ON CONFLICT DO NOTHING`,
		edge)
	return err
}

// List returns the owner's contacts ordered by display name.
func (r *ContactRepo) List(ctx context.Context, ownerID int) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users,
		`SELECT u.id, u.username, u.email, u.password_hash, u.display_name, u.avatar_url, u.bio, u.last_seen, u.created_at
         FROM contacts c
         JOIN users u ON u.id = c.contact_user_id
         WHERE c.user_id = $1
         ORDER BY u.display_name`, ownerID)
	return users, err
}
