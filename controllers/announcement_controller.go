package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/samudaya/community-events-go/models"
	"github.com/samudaya/community-events-go/repositories"
	"github.com/samudaya/community-events-go/utils"
)

type AnnouncementController struct {
	announcements repositories.AnnouncementRepository
	logger        zerolog.Logger
}

func NewAnnouncementController(announcements repositories.AnnouncementRepository, logger zerolog.Logger) *AnnouncementController {
	return &AnnouncementController{announcements: announcements, logger: logger}
}

// ---------------- CREATE ----------------
func (ac *AnnouncementController) CreateAnnouncement(c *gin.Context) {
	var input struct {
		Title     string `json:"title" binding:"required"`
		Content   string `json:"content" binding:"required"`
		Type      string `json:"type"`
		Author    string `json:"author"`
		ExpiresOn string `json:"expiresOn"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	announcement := models.Announcement{
		Title:     input.Title,
		Content:   input.Content,
		Type:      input.Type,
		Author:    input.Author,
		Date:      time.Now(),
		ExpiresOn: input.ExpiresOn,
	}

	id, err := ac.announcements.Create(c.Request.Context(), &announcement)
	if err != nil {
		ac.logger.Error().Err(err).Msg("failed to create announcement")
		utils.SendInternalError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "announcementId": id.Hex()})
}

// ---------------- LIST ----------------
func (ac *AnnouncementController) ListAnnouncements(c *gin.Context) {
	announcements, err := ac.announcements.ListRecent(c.Request.Context())
	if err != nil {
		ac.logger.Error().Err(err).Msg("failed to list announcements")
		utils.SendInternalError(c)
		return
	}
	c.JSON(http.StatusOK, announcements)
}

// ---------------- DELETE ----------------
func (ac *AnnouncementController) DeleteAnnouncement(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "invalid announcement id")
		return
	}

	if err := ac.announcements.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.SendError(c, http.StatusNotFound, "announcement not found")
			return
		}
		ac.logger.Error().Err(err).Msg("failed to delete announcement")
		utils.SendInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": id.Hex()})
}
