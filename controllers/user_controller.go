package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/samudaya/community-events-go/models"
	"github.com/samudaya/community-events-go/repositories"
	"github.com/samudaya/community-events-go/utils"
)

type UserController struct {
	users  repositories.UserRepository
	logger zerolog.Logger
}

func NewUserController(users repositories.UserRepository, logger zerolog.Logger) *UserController {
	return &UserController{users: users, logger: logger}
}

// ---------------- LIST ----------------
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.users.List(c.Request.Context())
	if err != nil {
		uc.logger.Error().Err(err).Msg("failed to list users")
		utils.SendInternalError(c)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ---------------- GET ----------------
func (uc *UserController) GetUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := uc.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.SendError(c, http.StatusNotFound, "user not found")
			return
		}
		uc.logger.Error().Err(err).Msg("failed to get user")
		utils.SendInternalError(c)
		return
	}
	c.JSON(http.StatusOK, user)
}

type UpdateUserRequest struct {
	Name       string                   `json:"name"`
	Email      string                   `json:"email"`
	Bio        string                   `json:"bio"`
	Role       string                   `json:"role"`
	Status     string                   `json:"status"`
	EmailPrefs *models.EmailPreferences `json:"emailPreferences"`
	Password   string                   `json:"password"`
}

// ---------------- UPDATE ----------------
// Either a password change or an allow-listed profile update. Fields outside the
// allow-list are dropped.
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var input UpdateUserRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	update := bson.M{}
	if input.Name != "" {
		update["name"] = input.Name
	}
	if input.Email != "" {
		update["email"] = input.Email
	}
	if input.Bio != "" {
		update["bio"] = input.Bio
	}
	if input.Role != "" {
		update["role"] = input.Role
	}
	if input.Status != "" {
		update["status"] = input.Status
	}
	if input.EmailPrefs != nil {
		update["email_preferences"] = input.EmailPrefs
	}
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			uc.logger.Error().Err(err).Msg("failed to hash password")
			utils.SendInternalError(c)
			return
		}
		update["password"] = string(hashed)
	}

	if len(update) == 0 {
		utils.SendError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	if err := uc.users.Update(c.Request.Context(), id, update); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			utils.SendError(c, http.StatusNotFound, "user not found")
		case errors.Is(err, repositories.ErrDuplicateEmail):
			utils.SendError(c, http.StatusConflict, "email already exists")
		default:
			uc.logger.Error().Err(err).Msg("failed to update user")
			utils.SendInternalError(c)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
