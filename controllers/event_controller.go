package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/samudaya/community-events-go/models"
	"github.com/samudaya/community-events-go/repositories"
	"github.com/samudaya/community-events-go/utils"
)

type EventController struct {
	events repositories.EventRepository
	users  repositories.UserRepository
	logger zerolog.Logger
}

func NewEventController(events repositories.EventRepository, users repositories.UserRepository, logger zerolog.Logger) *EventController {
	return &EventController{events: events, users: users, logger: logger}
}

type CreateEventRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Date        string   `json:"date" binding:"required"`
	Time        string   `json:"time"`
	Location    string   `json:"location"`
	Category    string   `json:"category"`
	Capacity    int      `json:"capacity" binding:"required,gt=0"`
	ImageURL    string   `json:"imageUrl"`
	Creator     string   `json:"creator" binding:"required"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
}

// ---------------- CREATE ----------------
func (ec *EventController) CreateEvent(c *gin.Context) {
	var input CreateEventRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	creator, err := primitive.ObjectIDFromHex(input.Creator)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "invalid creator id")
		return
	}

	// Publishing goes through the approval queue.
	status := "draft"
	if input.Status == "published" {
		status = "pending"
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	event := models.Event{
		Title:           input.Title,
		Description:     input.Description,
		Date:            input.Date,
		Time:            input.Time,
		Location:        input.Location,
		Category:        input.Category,
		Capacity:        input.Capacity,
		Registered:      0,
		RegisteredUsers: []primitive.ObjectID{},
		ImageURL:        input.ImageURL,
		Creator:         creator,
		Status:          status,
		Tags:            tags,
		CreatedAt:       time.Now(),
	}

	id, err := ec.events.Create(c.Request.Context(), &event)
	if err != nil {
		ec.logger.Error().Err(err).Msg("failed to create event")
		utils.SendInternalError(c)
		return
	}

	if err := ec.users.IncrementEventsCreated(c.Request.Context(), creator); err != nil {
		ec.logger.Warn().Err(err).Str("creator", input.Creator).Msg("failed to bump events_created")
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "eventId": id.Hex()})
}

// ---------------- LIST ----------------
// Returns published and pending events. With ?userId=, each event carries an
// isRegistered flag for that caller.
func (ec *EventController) ListEvents(c *gin.Context) {
	events, err := ec.events.ListVisible(c.Request.Context())
	if err != nil {
		ec.logger.Error().Err(err).Msg("failed to list events")
		utils.SendInternalError(c)
		return
	}

	if uid := c.Query("userId"); uid != "" {
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			utils.SendError(c, http.StatusBadRequest, "invalid user id")
			return
		}
		for i := range events {
			registered := false
			for _, r := range events[i].RegisteredUsers {
				if r == userID {
					registered = true
					break
				}
			}
			events[i].IsRegistered = &registered
		}
	}

	c.JSON(http.StatusOK, events)
}

// ---------------- GET ----------------
func (ec *EventController) GetEvent(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "invalid event id")
		return
	}

	event, err := ec.events.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.SendError(c, http.StatusNotFound, "event not found")
			return
		}
		ec.logger.Error().Err(err).Msg("failed to get event")
		utils.SendInternalError(c)
		return
	}
	c.JSON(http.StatusOK, event)
}

// ---------------- LIST BY CREATOR ----------------
func (ec *EventController) ListUserEvents(c *gin.Context) {
	creator, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	events, err := ec.events.ListByCreator(c.Request.Context(), creator)
	if err != nil {
		ec.logger.Error().Err(err).Msg("failed to list user events")
		utils.SendInternalError(c)
		return
	}
	c.JSON(http.StatusOK, events)
}

type UpdateEventRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Location    string   `json:"location"`
	Category    string   `json:"category"`
	Capacity    int      `json:"capacity"`
	ImageURL    string   `json:"imageUrl"`
	Tags        []string `json:"tags"`
}

// ---------------- UPDATE ----------------
func (ec *EventController) UpdateEvent(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "invalid event id")
		return
	}

	var input UpdateEventRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	update := bson.M{}
	if input.Title != "" {
		update["title"] = input.Title
	}
	if input.Description != "" {
		update["description"] = input.Description
	}
	if input.Date != "" {
		update["date"] = input.Date
	}
	if input.Time != "" {
		update["time"] = input.Time
	}
	if input.Location != "" {
		update["location"] = input.Location
	}
	if input.Category != "" {
		update["category"] = input.Category
	}
	if input.Capacity > 0 {
		update["capacity"] = input.Capacity
	}
	if input.ImageURL != "" {
		update["image_url"] = input.ImageURL
	}
	if input.Tags != nil {
		update["tags"] = input.Tags
	}

	if len(update) == 0 {
		utils.SendError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	if err := ec.events.Update(c.Request.Context(), id, update); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.SendError(c, http.StatusNotFound, "event not found")
			return
		}
		ec.logger.Error().Err(err).Msg("failed to update event")
		utils.SendInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---------------- DELETE ----------------
func (ec *EventController) DeleteEvent(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "invalid event id")
		return
	}

	// Read first so the stored image can be cleaned up after the delete.
	event, err := ec.events.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.SendError(c, http.StatusNotFound, "event not found")
			return
		}
		ec.logger.Error().Err(err).Msg("failed to get event")
		utils.SendInternalError(c)
		return
	}

	if err := ec.events.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.SendError(c, http.StatusNotFound, "event not found")
			return
		}
		ec.logger.Error().Err(err).Msg("failed to delete event")
		utils.SendInternalError(c)
		return
	}

	// Best effort: a failed image cleanup does not undo the delete.
	if event.ImageURL != "" {
		if err := utils.DeleteFromCloudinary(event.ImageURL); err != nil {
			ec.logger.Warn().Err(err).Str("event", id.Hex()).Msg("failed to delete event image")
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": id.Hex()})
}

// ---------------- REGISTER ----------------
// Membership and capacity are enforced in a single conditional store update, so
// simultaneous sign-ups cannot overshoot capacity.
func (ec *EventController) RegisterForEvent(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "invalid event id")
		return
	}

	var input struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := primitive.ObjectIDFromHex(input.UserID)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := ec.events.Register(c.Request.Context(), id, userID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			utils.SendError(c, http.StatusNotFound, "event not found")
		case errors.Is(err, repositories.ErrAlreadyRegistered):
			utils.SendError(c, http.StatusConflict, "already registered for this event")
		case errors.Is(err, repositories.ErrEventFull):
			utils.SendError(c, http.StatusBadRequest, "event is full")
		default:
			ec.logger.Error().Err(err).Msg("failed to register for event")
			utils.SendInternalError(c)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---------------- UPLOAD IMAGE ----------------
func (ec *EventController) UploadEventImage(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "invalid event id")
		return
	}

	event, err := ec.events.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.SendError(c, http.StatusNotFound, "event not found")
			return
		}
		ec.logger.Error().Err(err).Msg("failed to get event")
		utils.SendInternalError(c)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "image file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ec.logger.Error().Err(err).Msg("failed to open uploaded file")
		utils.SendInternalError(c)
		return
	}
	defer file.Close()

	url, err := utils.UploadToCloudinary(file, fileHeader)
	if err != nil {
		ec.logger.Error().Err(err).Msg("image upload failed")
		utils.SendInternalError(c)
		return
	}

	if err := ec.events.SetImageURL(c.Request.Context(), id, url); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.SendError(c, http.StatusNotFound, "event not found")
			return
		}
		ec.logger.Error().Err(err).Msg("failed to save image url")
		utils.SendInternalError(c)
		return
	}

	// Best effort: drop the replaced image.
	if event.ImageURL != "" && event.ImageURL != url {
		if err := utils.DeleteFromCloudinary(event.ImageURL); err != nil {
			ec.logger.Warn().Err(err).Str("event", id.Hex()).Msg("failed to delete replaced image")
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "imageUrl": url})
}
