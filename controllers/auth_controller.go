package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vkarpov/yatube/middleware"
	"github.com/vkarpov/yatube/models"
	"github.com/vkarpov/yatube/repository"
	"github.com/vkarpov/yatube/utils"
)

const sessionDuration = 7 * 24 * time.Hour

// AuthController is the minimal credential side of the auth subsystem: it
// registers users and issues session tokens. Everything beyond that (password
// reset, profile management) lives outside this service.
type AuthController struct {
	users repository.UserRepository
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(users repository.UserRepository) *AuthController {
	return &AuthController{users: users}
}

type credentials struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required,min=6"`
}

// Register creates a user with a bcrypt-hashed password.
func (a *AuthController) Register(ctx *gin.Context) {
	var req credentials
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "username cannot be empty")
		return
	}

	if _, err := a.users.GetByUsername(ctx.Request.Context(), username); err == nil {
		utils.Error(ctx, http.StatusConflict, 40910, "username already taken")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to check username")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to hash password")
		return
	}
	user := models.User{Username: username, PasswordHash: hash}
	if err := a.users.Create(ctx.Request.Context(), &user); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to create user")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

// LoginForm renders the login entry point. The next parameter carries the
// originally requested path for the post-login redirect.
func (a *AuthController) LoginForm(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"template": "auth/login",
		"next":     ctx.Query("next"),
	})
}

// Login verifies credentials, sets the session cookie and redirects to the
// next path when one was supplied.
func (a *AuthController) Login(ctx *gin.Context) {
	var req credentials
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}

	user, err := a.users.GetByUsername(ctx.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, sessionDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to issue token")
		return
	}
	ctx.SetCookie(middleware.SessionCookie, token, int(sessionDuration.Seconds()), "/", "", false, true)

	if next := ctx.Query("next"); next != "" && strings.HasPrefix(next, "/") {
		ctx.Redirect(http.StatusFound, next)
		return
	}
	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Logout clears the session cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	ctx.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	utils.Success(ctx, gin.H{"message": "logged out"})
}
