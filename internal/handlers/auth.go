package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/pr-poehali-dev/messenger-android-launch/internal/apperrors"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/observability"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/repositories"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/telemetry"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/token"
)

// AuthHandler serves the action-dispatch auth endpoint: register, login and
// token verification.
type AuthHandler struct {
	userRepo repositories.UserRepository
	emitter  *telemetry.EventEmitter
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(userRepo repositories.UserRepository, emitter *telemetry.EventEmitter) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, emitter: emitter}
}

type authRequest struct {
	Action      string `json:"action"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Token       string `json:"token"`
}

// Handle dispatches on the action field of the POST body.
func (h *AuthHandler) Handle(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.InvalidArg("invalid request body"))
		return
	}

	switch req.Action {
	case "register":
		h.register(c, req)
	case "login":
		h.login(c, req)
	case "verify":
		h.verify(c, req)
	default:
		respondError(c, apperrors.ErrUnknownAction)
	}
}

func (h *AuthHandler) register(c *gin.Context, req authRequest) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	displayName := strings.TrimSpace(req.DisplayName)

	if username == "" || email == "" || req.Password == "" || displayName == "" {
		respondError(c, apperrors.ErrFieldsRequired)
		return
	}
	// Characters, not bytes: Cyrillic usernames are the common case.
	if n := utf8.RuneCountInString(username); n < 3 || n > 20 {
		respondError(c, apperrors.ErrUsernameLength)
		return
	}
	if len(req.Password) < 6 {
		respondError(c, apperrors.ErrPasswordTooShort)
		return
	}

	taken, err := h.userRepo.CredentialsTaken(c.Request.Context(), username, email)
	if err != nil {
		respondError(c, err)
		return
	}
	if taken {
		respondError(c, apperrors.ErrCredentialTaken)
		return
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.userRepo.Create(c.Request.Context(), username, email, string(digest), displayName)
	if err != nil {
		respondError(c, err)
		return
	}

	tok, err := token.Issue(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	observability.IncRegistration()
	h.emitter.Emit(c.Request.Context(), "user.registered", requestIDFromContext(c), user.ID, nil)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   tok,
		"user": gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"display_name": user.DisplayName,
			"email":        user.Email,
		},
	})
}

func (h *AuthHandler) login(c *gin.Context, req authRequest) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || req.Password == "" {
		respondError(c, apperrors.ErrFieldsRequired)
		return
	}

	user, err := h.userRepo.GetByUsername(c.Request.Context(), username)
	if err != nil {
		// One generic message for unknown user and wrong password.
		if apperrors.From(err) != nil {
			err = apperrors.ErrBadCredentials
		}
		respondError(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(c, apperrors.ErrBadCredentials)
		return
	}

	if err := h.userRepo.TouchLastSeen(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}

	tok, err := token.Issue(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.emitter.Emit(c.Request.Context(), "user.login", requestIDFromContext(c), user.ID, nil)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   tok,
		"user":    user.AuthView(),
	})
}

func (h *AuthHandler) verify(c *gin.Context, req authRequest) {
	userID, err := token.Decode(req.Token)
	if err != nil {
		respondError(c, apperrors.ErrInvalidToken)
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		if apperrors.From(err) != nil {
			err = apperrors.ErrInvalidToken
		}
		respondError(c, err)
		return
	}

	if err := h.userRepo.TouchLastSeen(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user.AuthView(),
	})
}
