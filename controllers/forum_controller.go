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

type ForumController struct {
	threads repositories.ForumRepository
	logger  zerolog.Logger
}

func NewForumController(threads repositories.ForumRepository, logger zerolog.Logger) *ForumController {
	return &ForumController{threads: threads, logger: logger}
}

// ---------------- CREATE ----------------
func (fc *ForumController) CreateThread(c *gin.Context) {
	var input struct {
		Title    string   `json:"title" binding:"required"`
		Author   string   `json:"author"`
		Category string   `json:"category"`
		Tags     []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now()
	thread := models.ForumThread{
		Title:        input.Title,
		Author:       input.Author,
		Category:     input.Category,
		Replies:      0,
		Likes:        0,
		Tags:         tags,
		IsPinned:     false,
		Flags:        0,
		CreatedAt:    now,
		LastActivity: now,
	}

	id, err := fc.threads.Create(c.Request.Context(), &thread)
	if err != nil {
		fc.logger.Error().Err(err).Msg("failed to create thread")
		utils.SendInternalError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "threadId": id.Hex()})
}

// ---------------- LIST ----------------
func (fc *ForumController) ListThreads(c *gin.Context) {
	threads, err := fc.threads.ListRecent(c.Request.Context())
	if err != nil {
		fc.logger.Error().Err(err).Msg("failed to list threads")
		utils.SendInternalError(c)
		return
	}
	c.JSON(http.StatusOK, threads)
}

// ---------------- DELETE ----------------
func (fc *ForumController) DeleteThread(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "invalid thread id")
		return
	}

	if err := fc.threads.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.SendError(c, http.StatusNotFound, "thread not found")
			return
		}
		fc.logger.Error().Err(err).Msg("failed to delete thread")
		utils.SendInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": id.Hex()})
}

// ---------------- PIN ----------------
func (fc *ForumController) PinThread(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "invalid thread id")
		return
	}

	if err := fc.threads.Pin(c.Request.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.SendError(c, http.StatusNotFound, "thread not found")
			return
		}
		fc.logger.Error().Err(err).Msg("failed to pin thread")
		utils.SendInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
