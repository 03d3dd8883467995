package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pr-poehali-dev/messenger-android-launch/internal/apperrors"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/mocks"
	"github.com/pr-poehali-dev/messenger-android-launch/internal/models"
)

func setupProtectedRouter(userRepo *mocks.UserRepositoryMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(userRepo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt(UserIDKey)})
	})
	return r
}

func doRequest(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthSetsUserID(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupProtectedRouter(userRepo)

	userRepo.On("GetByID", mock.Anything, 7).Return(models.User{ID: 7, Username: "bob"}, nil).Once()

	rec := doRequest(router, "Bearer 7:some-secret")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":7`)
	userRepo.AssertExpectations(t)
}

func TestAuthMissingHeader(t *testing.T) {
	router := setupProtectedRouter(new(mocks.UserRepositoryMock))
	rec := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMalformedHeader(t *testing.T) {
	router := setupProtectedRouter(new(mocks.UserRepositoryMock))
	for _, header := range []string{"7:secret", "Basic abc", "Bearer", "Bearer abc:secret"} {
		rec := doRequest(router, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthDeletedUser(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	router := setupProtectedRouter(userRepo)

	userRepo.On("GetByID", mock.Anything, 42).Return(models.User{}, apperrors.ErrUserNotFound).Once()

	rec := doRequest(router, "Bearer 42:secret")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
