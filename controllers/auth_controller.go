package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/samudaya/community-events-go/models"
	"github.com/samudaya/community-events-go/repositories"
	"github.com/samudaya/community-events-go/services"
	"github.com/samudaya/community-events-go/utils"
)

const resetTokenTTL = 30 * time.Minute

type AuthController struct {
	users     repositories.UserRepository
	email     *services.EmailService
	jwtSecret string
	logger    zerolog.Logger
}

func NewAuthController(users repositories.UserRepository, email *services.EmailService, jwtSecret string, logger zerolog.Logger) *AuthController {
	return &AuthController{
		users:     users,
		email:     email,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ---------------- REGISTER ----------------
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		ac.logger.Error().Err(err).Msg("failed to hash password")
		utils.SendInternalError(c)
		return
	}

	user := models.User{
		Name:           req.Name,
		Email:          req.Email,
		Password:       string(hashed),
		Role:           "member",
		JoinDate:       time.Now(),
		EventsCreated:  0,
		VolunteerHours: 0,
		Status:         "active",
	}

	// Uniqueness rides on the email index, so concurrent registrations with the
	// same address cannot both succeed.
	id, err := ac.users.Create(c.Request.Context(), &user)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			utils.SendError(c, http.StatusConflict, "email already exists")
			return
		}
		ac.logger.Error().Err(err).Msg("failed to create user")
		utils.SendInternalError(c)
		return
	}
	user.ID = id

	token, err := utils.GenerateToken(id.Hex(), user.Role, ac.jwtSecret)
	if err != nil {
		ac.logger.Error().Err(err).Msg("failed to generate token")
		utils.SendInternalError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user":    user.Public(),
	})
}

// ---------------- LOGIN ----------------
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := ac.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.SendError(c, http.StatusNotFound, "user not found")
			return
		}
		ac.logger.Error().Err(err).Msg("failed to look up user")
		utils.SendInternalError(c)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.SendError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Role, ac.jwtSecret)
	if err != nil {
		ac.logger.Error().Err(err).Msg("failed to generate token")
		utils.SendInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    user.Public(),
	})
}

// ---------------- FORGOT PASSWORD ----------------
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := ac.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Do not reveal whether the address exists.
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "if the email exists, a reset token has been issued",
			})
			return
		}
		ac.logger.Error().Err(err).Msg("failed to look up user")
		utils.SendInternalError(c)
		return
	}

	reset := models.PasswordReset{
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(resetTokenTTL).Format(time.RFC3339),
	}
	if err := ac.users.SetPasswordReset(c.Request.Context(), user.ID, reset); err != nil {
		ac.logger.Error().Err(err).Msg("failed to store reset token")
		utils.SendInternalError(c)
		return
	}

	// Mail delivery is a stand-in; the token is returned to the caller either way.
	if err := ac.email.SendPasswordResetEmail(user.Email, user.Name, reset.Token); err != nil {
		ac.logger.Warn().Err(err).Msg("reset email delivery failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "if the email exists, a reset token has been issued",
		"token":   reset.Token,
	})
}

// ---------------- RESET PASSWORD ----------------
func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := ac.users.GetByResetToken(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.SendError(c, http.StatusBadRequest, "invalid or expired token")
			return
		}
		ac.logger.Error().Err(err).Msg("failed to look up reset token")
		utils.SendInternalError(c)
		return
	}

	expiresAt, err := time.Parse(time.RFC3339, user.PasswordReset.ExpiresAt)
	if err != nil || time.Now().After(expiresAt) {
		utils.SendError(c, http.StatusBadRequest, "invalid or expired token")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		ac.logger.Error().Err(err).Msg("failed to hash password")
		utils.SendInternalError(c)
		return
	}

	if err := ac.users.CompletePasswordReset(c.Request.Context(), user.ID, string(hashed)); err != nil {
		ac.logger.Error().Err(err).Msg("failed to reset password")
		utils.SendInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "password has been reset"})
}
