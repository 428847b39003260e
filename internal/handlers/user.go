package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gomall/internal/ids"
	"gomall/internal/middleware"
	"gomall/internal/models"
	"gomall/internal/repository"
	"gomall/internal/security"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// loginResponse is the payload the client session store rebuilds its state
// from.
type loginResponse struct {
	Token    string          `json:"token"`
	UserID   string          `json:"userId"`
	UserName string          `json:"userName"`
	Role     models.UserRole `json:"role"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "username and password required")
		return
	}

	user, err := h.users.FindByUsername(c.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			fail(c, http.StatusBadRequest, "incorrect username or password")
			return
		}
		h.log.Error().Err(err).Msg("login lookup failed")
		fail(c, http.StatusInternalServerError, "login failed")
		return
	}

	if user.Status != models.UserStatusActive {
		fail(c, http.StatusForbidden, "account disabled")
		return
	}

	match, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		fail(c, http.StatusBadRequest, "incorrect username or password")
		return
	}

	token, err := security.GenerateSessionToken(
		h.cfg.Security.JWTSecret, user.ID, user.Username, string(user.Role), h.cfg.Security.JWTTTL)
	if err != nil {
		h.log.Error().Err(err).Msg("token generation failed")
		fail(c, http.StatusInternalServerError, "login failed")
		return
	}

	ok(c, loginResponse{
		Token:    token,
		UserID:   user.ID,
		UserName: user.Username,
		Role:     user.Role,
	})
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"required,email"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	username := strings.TrimSpace(req.Username)
	if _, err := h.users.FindByUsername(c.Request.Context(), username); err == nil {
		fail(c, http.StatusBadRequest, "username already taken")
		return
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		h.log.Error().Err(err).Msg("register lookup failed")
		fail(c, http.StatusInternalServerError, "registration failed")
		return
	}

	passwordHash, err := security.HashPassword(req.Password)
	if err != nil {
		h.log.Error().Err(err).Msg("password hash failed")
		fail(c, http.StatusInternalServerError, "registration failed")
		return
	}

	user := models.User{
		ID:           ids.New(),
		Username:     username,
		Email:        strings.TrimSpace(strings.ToLower(req.Email)),
		PasswordHash: passwordHash,
		Role:         models.UserRoleUser,
		Status:       models.UserStatusActive,
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		h.log.Error().Err(err).Msg("user create failed")
		fail(c, http.StatusInternalServerError, "registration failed")
		return
	}

	ok(c, gin.H{"id": user.ID})
}

func (h HandlerSet) UserInfo(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	ok(c, user)
}

type updateUserRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.UpdateProfile(c.Request.Context(), user.ID, strings.TrimSpace(strings.ToLower(req.Email))); err != nil {
		h.log.Error().Err(err).Msg("profile update failed")
		fail(c, http.StatusInternalServerError, "update failed")
		return
	}
	ok(c, nil)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func (h HandlerSet) ChangePassword(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	match, err := security.VerifyPassword(req.OldPassword, user.PasswordHash)
	if err != nil || !match {
		fail(c, http.StatusBadRequest, "incorrect password")
		return
	}

	passwordHash, err := security.HashPassword(req.NewPassword)
	if err != nil {
		h.log.Error().Err(err).Msg("password hash failed")
		fail(c, http.StatusInternalServerError, "password change failed")
		return
	}

	if err := h.users.UpdatePassword(c.Request.Context(), user.ID, passwordHash); err != nil {
		h.log.Error().Err(err).Msg("password update failed")
		fail(c, http.StatusInternalServerError, "password change failed")
		return
	}
	ok(c, nil)
}
