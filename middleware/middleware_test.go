package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vkarpov/yatube/config"
	"github.com/vkarpov/yatube/models"
	"github.com/vkarpov/yatube/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.SetForTesting(config.AppConfig{
		JWTSecret:          "test-secret",
		PageSize:           10,
		RateLimitPerMinute: 1000,
	})
	os.Exit(m.Run())
}

// stubUsers serves a single known user by id.
type stubUsers struct {
	user *models.User
}

func (s *stubUsers) Create(ctx context.Context, user *models.User) error { return nil }

func (s *stubUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.user != nil && s.user.Username == username {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func identityRouter(users *stubUsers) *gin.Engine {
	r := gin.New()
	r.Use(CurrentUser(users))
	r.GET("/whoami", func(ctx *gin.Context) {
		if user, ok := UserFrom(ctx); ok {
			ctx.String(http.StatusOK, user.Username)
			return
		}
		ctx.String(http.StatusOK, "anonymous")
	})
	return r
}

func TestCurrentUser(t *testing.T) {
	user := &models.User{ID: 7, Username: "tigr"}
	token, err := utils.GenerateToken(user.ID, user.Username, time.Hour)
	require.NoError(t, err)

	t.Run("bearer token resolves the identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		identityRouter(&stubUsers{user: user}).ServeHTTP(rr, req)

		assert.Equal(t, "tigr", rr.Body.String())
	})

	t.Run("session cookie resolves the identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		rr := httptest.NewRecorder()
		identityRouter(&stubUsers{user: user}).ServeHTTP(rr, req)

		assert.Equal(t, "tigr", rr.Body.String())
	})

	t.Run("garbage token degrades to anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rr := httptest.NewRecorder()
		identityRouter(&stubUsers{user: user}).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "anonymous", rr.Body.String())
	})

	t.Run("token for a deleted user degrades to anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		identityRouter(&stubUsers{}).ServeHTTP(rr, req)

		assert.Equal(t, "anonymous", rr.Body.String())
	})
}

func TestLoginRequired(t *testing.T) {
	t.Run("anonymous request is redirected with the return path", func(t *testing.T) {
		r := gin.New()
		r.GET("/create/", LoginRequired(), func(ctx *gin.Context) {
			t.Fatal("handler must not run for anonymous requests")
		})

		req := httptest.NewRequest(http.MethodGet, "/create/", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/auth/login/?next=%2Fcreate%2F", rr.Header().Get("Location"))
	})

	t.Run("authenticated request passes through", func(t *testing.T) {
		r := gin.New()
		r.Use(func(ctx *gin.Context) {
			ctx.Set(ContextUserKey, &models.User{ID: 7, Username: "tigr"})
		})
		r.GET("/create/", LoginRequired(), func(ctx *gin.Context) {
			ctx.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/create/", nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestCachePage(t *testing.T) {
	newCachedRouter := func(store utils.Store, hits *int, status int) *gin.Engine {
		r := gin.New()
		r.GET("/", CachePage(store, 300*time.Second), func(ctx *gin.Context) {
			*hits++
			ctx.String(status, "rendered %d", *hits)
		})
		return r
	}

	t.Run("second request within the ttl is served from the cache", func(t *testing.T) {
		store := utils.NewMemoryStore(4)
		hits := 0
		r := newCachedRouter(store, &hits, http.StatusOK)

		first := httptest.NewRecorder()
		r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
		second := httptest.NewRecorder()
		r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, 1, hits)
		assert.Equal(t, first.Body.String(), second.Body.String())
	})

	t.Run("query string is part of the cache key", func(t *testing.T) {
		store := utils.NewMemoryStore(4)
		hits := 0
		r := newCachedRouter(store, &hits, http.StatusOK)

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?page=1", nil))
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?page=2", nil))

		assert.Equal(t, 2, hits)
	})

	t.Run("non-success responses are not cached", func(t *testing.T) {
		store := utils.NewMemoryStore(4)
		hits := 0
		r := newCachedRouter(store, &hits, http.StatusInternalServerError)

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, 2, hits)
	})
}
