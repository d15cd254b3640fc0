package handlers

import (
	"net/http"
	"strings"

	"foodtruck-pos/internal/apperr"
	"foodtruck-pos/internal/auth"
	"foodtruck-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var input LoginRequest
	// 1. Validate Input JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badInput(c, "Invalid input")
		return
	}

	// 2. Find User in DB
	user, err := h.Users.FindUserByUsername(c.Request.Context(), input.Username)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			h.respondError(c, apperr.Backend(err, "Failed to load user"))
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "kind": "unauthorized"})
		return
	}

	// 3. Verify Password (Bcrypt)
	if !auth.CheckPassword(user.PasswordHash, input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "kind": "unauthorized"})
		return
	}

	// 4. Generate JWT Token
	token, err := h.Tokens.Generate(user.ID)
	if err != nil {
		h.respondError(c, apperr.Backend(err, "Failed to generate token"))
		return
	}

	// 5. The client also needs to know whether a truck is registered yet
	truck, err := h.Catalog.TruckForOwner(c.Request.Context(), user.ID)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"username": user.Username,
		"truck":    truck,
	})
}

func (h *Handler) Register(c *gin.Context) {
	var input LoginRequest

	// 1. Parse JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badInput(c, "Invalid input")
		return
	}
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" {
		h.badInput(c, "Username is required")
		return
	}

	// 2. Usernames are unique
	_, err := h.Users.FindUserByUsername(c.Request.Context(), input.Username)
	if err == nil {
		h.respondError(c, apperr.Conflict("Username is already taken"))
		return
	}
	if !errors.Is(err, models.ErrNotFound) {
		h.respondError(c, apperr.Backend(err, "Failed to load user"))
		return
	}

	// 3. Hash the Password
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		h.respondError(c, apperr.Backend(err, "Failed to hash password"))
		return
	}

	// 4. Save to DB
	user := models.User{Username: input.Username, PasswordHash: hash}
	if err := h.Users.CreateUser(c.Request.Context(), &user); err != nil {
		h.respondError(c, apperr.Backend(err, "Failed to create user"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully!", "id": user.ID})
}
