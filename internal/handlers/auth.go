package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"folio/internal/middleware"
	"folio/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h HandlerSet) Register(c *gin.Context) {
	var req registerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    newUserView(user),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.accounts.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user":  newUserView(result.User),
	})
}

func (h HandlerSet) Me(c *gin.Context) {
	principal := h.accounts.Me(*middleware.CurrentUser(c))
	c.JSON(http.StatusOK, gin.H{"user": principalView(principal)})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h HandlerSet) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.accounts.ChangePassword(c.Request.Context(), *middleware.CurrentUser(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		h.respondError(c, err)
		return
	}

	message(c, http.StatusOK, "Password changed successfully")
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

func (h HandlerSet) DeleteAccount(c *gin.Context) {
	var req deleteAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.accounts.DeleteAccount(c.Request.Context(), *middleware.CurrentUser(c), req.Password); err != nil {
		h.respondError(c, err)
		return
	}

	message(c, http.StatusOK, "Account deleted successfully")
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.accounts.UpdateProfile(c.Request.Context(), *middleware.CurrentUser(c), req.Name, req.Username)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    newUserView(user),
	})
}
