package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vkarpov/yatube/middleware"
	"github.com/vkarpov/yatube/models"
	"github.com/vkarpov/yatube/utils"
)

func authRouter(users *MockUserRepository) *gin.Engine {
	ctrl := NewAuthController(users)
	r := gin.New()
	r.GET("/auth/login/", ctrl.LoginForm)
	r.POST("/auth/login/", ctrl.Login)
	r.POST("/auth/signup/", ctrl.Register)
	r.POST("/auth/logout/", ctrl.Logout)
	return r
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	t.Run("creates a user with a hashed password", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUsername", mock.Anything, "tigr").Return(nil, gorm.ErrRecordNotFound)

		var created *models.User
		users.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*models.User) }).
			Return(nil)

		rr := postForm(authRouter(users), "/auth/signup/", url.Values{
			"username": {"tigr"},
			"password": {"s3cret-pass"},
		})

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, created)
		assert.Equal(t, "tigr", created.Username)
		assert.NotEqual(t, "s3cret-pass", created.PasswordHash)
		assert.True(t, utils.CheckPassword(created.PasswordHash, "s3cret-pass"))
	})

	t.Run("taken username is a conflict", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUsername", mock.Anything, "tigr").
			Return(&models.User{ID: 1, Username: "tigr"}, nil)

		rr := postForm(authRouter(users), "/auth/signup/", url.Values{
			"username": {"tigr"},
			"password": {"s3cret-pass"},
		})

		assert.Equal(t, http.StatusConflict, rr.Code)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		users := new(MockUserRepository)

		rr := postForm(authRouter(users), "/auth/signup/", url.Values{
			"username": {"tigr"},
			"password": {"short"},
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)
	account := &models.User{ID: 7, Username: "tigr", PasswordHash: hash}

	t.Run("valid credentials set the session cookie", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUsername", mock.Anything, "tigr").Return(account, nil)

		rr := postForm(authRouter(users), "/auth/login/", url.Values{
			"username": {"tigr"},
			"password": {"s3cret-pass"},
		})

		assert.Equal(t, http.StatusOK, rr.Code)
		cookie := sessionCookie(rr)
		require.NotNil(t, cookie)
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)

		claims, err := utils.ParseToken(cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.UserID)
	})

	t.Run("next parameter redirects after login", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUsername", mock.Anything, "tigr").Return(account, nil)

		rr := postForm(authRouter(users), "/auth/login/?next=%2Fcreate%2F", url.Values{
			"username": {"tigr"},
			"password": {"s3cret-pass"},
		})

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/create/", rr.Header().Get("Location"))
	})

	t.Run("absolute next targets are not followed", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUsername", mock.Anything, "tigr").Return(account, nil)

		rr := postForm(authRouter(users), "/auth/login/?next="+url.QueryEscape("http://evil.example"), url.Values{
			"username": {"tigr"},
			"password": {"s3cret-pass"},
		})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("Location"))
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUsername", mock.Anything, "tigr").Return(account, nil)

		rr := postForm(authRouter(users), "/auth/login/", url.Values{
			"username": {"tigr"},
			"password": {"wrong-pass"},
		})

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, sessionCookie(rr))
	})

	t.Run("unknown username is rejected with the same error", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("GetByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

		rr := postForm(authRouter(users), "/auth/login/", url.Values{
			"username": {"ghost"},
			"password": {"s3cret-pass"},
		})

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid username or password")
	})
}

func TestLogout(t *testing.T) {
	users := new(MockUserRepository)

	rr := postForm(authRouter(users), "/auth/logout/", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.MaxAge < 0)
	assert.True(t, strings.Contains(rr.Body.String(), "logged out"))
}
