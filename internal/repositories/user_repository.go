package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pr-poehali-dev/messenger-android-launch/internal/apperrors"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/models"
)

const userColumns = `id, username, email, password_hash, display_name, avatar_url, bio, last_seen, created_at`

// searchLimit caps user search results.
const searchLimit = 20

// UserRepository abstracts account persistence.
type UserRepository interface {
	Create(ctx context.Context, username, email, passwordHash, displayName string) (models.User, error)
	GetByID(ctx context.Context, id int) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	CredentialsTaken(ctx context.Context, username, email string) (bool, error)
	TouchLastSeen(ctx context.Context, id int) error
	Search(ctx context.Context, ownerID int, query string) ([]models.SearchHit, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new account. A unique-index violation surfaces as the
// credential-taken conflict so concurrent registrations still map cleanly.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash, displayName string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`INSERT INTO users (username, email, password_hash, display_name) VALUES ($1, $2, $3, $4) RETURNING `+userColumns,
		username, email, passwordHash, displayName)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.User{}, apperrors.ErrCredentialTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// GetByID fetches an account by id.
func (r *UserRepo) GetByID(ctx context.Context, id int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperrors.ErrUserNotFound
	}
	return user, err
}

// GetByUsername fetches an account by its normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE username=$1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperrors.ErrUserNotFound
	}
	return user, err
}

// CredentialsTaken reports whether the username or email is already in use.
// Both arguments are expected pre-normalized to lowercase.
func (r *UserRepo) CredentialsTaken(ctx context.Context, username, email string) (bool, error) {
	var taken bool
	err := r.db.GetContext(ctx, &taken,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username=$1 OR email=$2)`, username, email)
	return taken, err
}

// TouchLastSeen records activity for the user.
func (r *UserRepo) TouchLastSeen(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_seen = NOW() WHERE id=$1`, id)
	return err
}

// Search matches the query as a case-insensitive substring of username or
// display name, excluding the requester, annotated with the contact flag.
func (r *UserRepo) Search(ctx context.Context, ownerID int, query string) ([]models.SearchHit, error) {
	pattern := "%" + query + "%"
	var hits []models.SearchHit
	err := r.db.SelectContext(ctx, &hits, `SELECT u.id, u.username, u.email, u.password_hash, u.display_name, u.avatar_url, u.bio, u.last_seen, u.created_at,
            EXISTS(SELECT 1 FROM contacts WHERE user_id=$1 AND contact_user_id = u.id) AS is_contact
        FROM users u
        WHERE u.id <> $1 AND (u.username ILIKE $2 OR u.display_name ILIKE $2)
        ORDER BY u.username
        LIMIT $3`, ownerID, pattern, searchLimit)
	return hits, err
}
