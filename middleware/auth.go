package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vkarpov/yatube/models"
	"github.com/vkarpov/yatube/repository"
	"github.com/vkarpov/yatube/utils"
)

const (
	// ContextUserKey stores the resolved current user in the Gin context.
	ContextUserKey = "current_user"
	// ContextUserIDKey stores the authenticated user ID in the Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside the Gin context.
	ContextUsernameKey = "username"

	// LoginPath is where unauthenticated users are sent; the originally
	// requested path travels along in the next parameter.
	LoginPath = "/auth/login/"

	// SessionCookie is the cookie carrying the session token for browser clients.
	SessionCookie = "session"
)

// CurrentUser resolves the request identity from a bearer token or session
// cookie and threads it through the context. Anonymous requests pass through
// untouched; protected routes enforce presence via LoginRequired.
func CurrentUser(users repository.UserRepository) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := bearerToken(ctx)
		if token == "" {
			if c, err := ctx.Cookie(SessionCookie); err == nil {
				token = c
			}
		}
		if token == "" {
			ctx.Next()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			ctx.Next()
			return
		}
		user, err := users.GetByID(ctx.Request.Context(), claims.UserID)
		if err != nil {
			ctx.Next()
			return
		}

		ctx.Set(ContextUserKey, user)
		ctx.Set(ContextUserIDKey, user.ID)
		ctx.Set(ContextUsernameKey, user.Username)
		ctx.Next()
	}
}

// LoginRequired redirects anonymous requests to the login page, preserving
// the originally requested path for the post-login redirect.
func LoginRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, ok := UserFrom(ctx); !ok {
			next := url.QueryEscape(ctx.Request.URL.Path)
			ctx.Redirect(http.StatusFound, LoginPath+"?next="+next)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// UserFrom returns the authenticated user threaded into the context.
func UserFrom(ctx *gin.Context) (*models.User, bool) {
	value, exists := ctx.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

func bearerToken(ctx *gin.Context) string {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
