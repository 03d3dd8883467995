package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pr-poehali-dev/messenger-android-launch/internal/apperrors"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/mocks"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/models"
)

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth", handler.Handle)
	return r
}

func postAuth(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestRegisterSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, nil)
	router := setupAuthRouter(handler)

	userRepo.On("CredentialsTaken", mock.Anything, "bob", "bob@x.com").Return(false, nil).Once()
	userRepo.On("Create", mock.Anything, "bob", "bob@x.com", mock.AnythingOfType("string"), "Bob B").
		Return(models.User{ID: 1, Username: "bob", Email: "bob@x.com", DisplayName: "Bob B"}, nil).Once()

	rec := postAuth(t, router, `{"action":"register","username":"Bob","email":"BOB@x.com","password":"secret1","display_name":"Bob B"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, true, resp["success"])
	assert.NotEmpty(t, resp["token"])
	user := resp["user"].(map[string]any)
	assert.Equal(t, "bob", user["username"])
	assert.Equal(t, "Bob B", user["display_name"])
	userRepo.AssertExpectations(t)
}

func TestRegisterHashesPassword(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, nil)
	router := setupAuthRouter(handler)

	var storedHash string
	userRepo.On("CredentialsTaken", mock.Anything, "bob", "bob@x.com").Return(false, nil).Once()
	userRepo.On("Create", mock.Anything, "bob", "bob@x.com", mock.AnythingOfType("string"), "Bob B").
		Run(func(args mock.Arguments) { storedHash = args.String(3) }).
		Return(models.User{ID: 1, Username: "bob"}, nil).Once()

	rec := postAuth(t, router, `{"action":"register","username":"bob","email":"bob@x.com","password":"secret1","display_name":"Bob B"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, "secret1", storedHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("secret1")))
}

func TestRegisterValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing fields", `{"action":"register","username":"bob"}`},
		{"short username", `{"action":"register","username":"ab","email":"a@x.com","password":"secret1","display_name":"A"}`},
		{"long username", `{"action":"register","username":"abcdefghijklmnopqrstu","email":"a@x.com","password":"secret1","display_name":"A"}`},
		{"long cyrillic username", `{"action":"register","username":"абвгдежзиклмнопрстуфх","email":"a@x.com","password":"secret1","display_name":"A"}`},
		{"short password", `{"action":"register","username":"bob","email":"a@x.com","password":"12345","display_name":"A"}`},
		{"blank display name", `{"action":"register","username":"bob","email":"a@x.com","password":"secret1","display_name":"   "}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewAuthHandler(new(mocks.UserRepositoryMock), nil)
			router := setupAuthRouter(handler)

			rec := postAuth(t, router, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegisterCyrillicUsernameCountsCharacters(t *testing.T) {
	// 11 characters but 22 bytes; length limits apply per character.
	const username = "приветмирок"

	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, nil)
	router := setupAuthRouter(handler)

	userRepo.On("CredentialsTaken", mock.Anything, username, "mir@x.com").Return(false, nil).Once()
	userRepo.On("Create", mock.Anything, username, "mir@x.com", mock.AnythingOfType("string"), "Мир").
		Return(models.User{ID: 3, Username: username, Email: "mir@x.com", DisplayName: "Мир"}, nil).Once()

	rec := postAuth(t, router, `{"action":"register","username":"`+username+`","email":"mir@x.com","password":"secret1","display_name":"Мир"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	user := resp["user"].(map[string]any)
	assert.Equal(t, username, user["username"])
	userRepo.AssertExpectations(t)
}

func TestRegisterConflict(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, nil)
	router := setupAuthRouter(handler)

	userRepo.On("CredentialsTaken", mock.Anything, "bob", "bob@x.com").Return(true, nil).Once()

	rec := postAuth(t, router, `{"action":"register","username":"BOB","email":"bob@x.com","password":"secret1","display_name":"Bob B"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec)
	assert.Contains(t, resp["error"], "already exists")
	userRepo.AssertExpectations(t)
}

func TestLoginSuccessCaseInsensitive(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := models.User{
		ID:           1,
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: string(hash),
		DisplayName:  "Alice A",
		Bio:          sql.NullString{String: "hi", Valid: true},
	}

	for _, username := range []string{"alice", "Alice", "ALICE"} {
		userRepo := new(mocks.UserRepositoryMock)
		handler := NewAuthHandler(userRepo, nil)
		router := setupAuthRouter(handler)

		// The handler must normalize before the lookup.
		userRepo.On("GetByUsername", mock.Anything, "alice").Return(stored, nil).Once()
		userRepo.On("TouchLastSeen", mock.Anything, 1).Return(nil).Once()

		rec := postAuth(t, router, `{"action":"login","username":"`+username+`","password":"secret1"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody(t, rec)
		user := resp["user"].(map[string]any)
		assert.Equal(t, "Alice A", user["display_name"])
		assert.Equal(t, "hi", user["bio"])
		userRepo.AssertExpectations(t)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, nil)
	router := setupAuthRouter(handler)

	userRepo.On("GetByUsername", mock.Anything, "bob").
		Return(models.User{ID: 1, Username: "bob", PasswordHash: string(hash)}, nil).Once()

	rec := postAuth(t, router, `{"action":"login","username":"bob","password":"wrongpw"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "invalid username or password", resp["error"])
}

func TestLoginUnknownUserSameError(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, nil)
	router := setupAuthRouter(handler)

	userRepo.On("GetByUsername", mock.Anything, "ghost").
		Return(models.User{}, apperrors.ErrUserNotFound).Once()

	rec := postAuth(t, router, `{"action":"login","username":"ghost","password":"secret1"}`)

	// Unknown user and wrong password are indistinguishable.
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "invalid username or password", resp["error"])
}

func TestLoginValidation(t *testing.T) {
	handler := NewAuthHandler(new(mocks.UserRepositoryMock), nil)
	router := setupAuthRouter(handler)

	rec := postAuth(t, router, `{"action":"login","username":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifySuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, nil)
	router := setupAuthRouter(handler)

	userRepo.On("GetByID", mock.Anything, 7).
		Return(models.User{ID: 7, Username: "bob", Email: "bob@x.com", DisplayName: "Bob B"}, nil).Once()
	userRepo.On("TouchLastSeen", mock.Anything, 7).Return(nil).Once()

	rec := postAuth(t, router, `{"action":"verify","token":"7:whatever"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	user := resp["user"].(map[string]any)
	assert.Equal(t, float64(7), user["id"])
	userRepo.AssertExpectations(t)
}

func TestVerifyInvalidToken(t *testing.T) {
	handler := NewAuthHandler(new(mocks.UserRepositoryMock), nil)
	router := setupAuthRouter(handler)

	for _, tok := range []string{"", "garbage", "abc:secret", ":secret"} {
		rec := postAuth(t, router, `{"action":"verify","token":"`+tok+`"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestVerifyDeletedUser(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, nil)
	router := setupAuthRouter(handler)

	userRepo.On("GetByID", mock.Anything, 99).Return(models.User{}, apperrors.ErrUserNotFound).Once()

	rec := postAuth(t, router, `{"action":"verify","token":"99:secret"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthUnknownAction(t *testing.T) {
	handler := NewAuthHandler(new(mocks.UserRepositoryMock), nil)
	router := setupAuthRouter(handler)

	rec := postAuth(t, router, `{"action":"frobnicate"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
