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

type VolunteerController struct {
	volunteers repositories.VolunteerRepository
	users      repositories.UserRepository
	events     repositories.EventRepository
	logger     zerolog.Logger
}

func NewVolunteerController(
	volunteers repositories.VolunteerRepository,
	users repositories.UserRepository,
	events repositories.EventRepository,
	logger zerolog.Logger,
) *VolunteerController {
	return &VolunteerController{
		volunteers: volunteers,
		users:      users,
		events:     events,
		logger:     logger,
	}
}

type VolunteerSignupRequest struct {
	UserID  string  `json:"userId" binding:"required"`
	EventID string  `json:"eventId" binding:"required"`
	Role    string  `json:"role"`
	Hours   float64 `json:"hours" binding:"omitempty,gte=0"`
	Status  string  `json:"status"`
}

// ---------------- REGISTER ----------------
func (vc *VolunteerController) RegisterVolunteer(c *gin.Context) {
	var input VolunteerSignupRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendError(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := primitive.ObjectIDFromHex(input.UserID)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "invalid user id")
		return
	}
	eventID, err := primitive.ObjectIDFromHex(input.EventID)
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "invalid event id")
		return
	}

	status := input.Status
	if status == "" {
		status = "upcoming"
	}

	record := models.VolunteerRecord{
		UserID:       userID,
		EventID:      eventID,
		Role:         input.Role,
		Hours:        input.Hours,
		Status:       status,
		RegisteredAt: time.Now(),
	}

	// One record per (user, event); the unique index makes this atomic.
	id, err := vc.volunteers.Create(c.Request.Context(), &record)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateSignup) {
			utils.SendError(c, http.StatusConflict, "already signed up for this event")
			return
		}
		vc.logger.Error().Err(err).Msg("failed to create volunteer record")
		utils.SendInternalError(c)
		return
	}

	// Hours count toward the user only once the shift is completed.
	if status == "completed" && input.Hours > 0 {
		if err := vc.users.AddVolunteerHours(c.Request.Context(), userID, input.Hours); err != nil {
			vc.logger.Warn().Err(err).Str("user", input.UserID).Msg("failed to add volunteer hours")
		}
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "volunteerId": id.Hex()})
}

// ---------------- LIST ----------------
func (vc *VolunteerController) ListVolunteers(c *gin.Context) {
	records, err := vc.volunteers.List(c.Request.Context())
	if err != nil {
		vc.logger.Error().Err(err).Msg("failed to list volunteers")
		utils.SendInternalError(c)
		return
	}
	c.JSON(http.StatusOK, records)
}

// ---------------- USER HISTORY ----------------
// Each record is enriched with the referenced event's title and date.
func (vc *VolunteerController) ListUserHistory(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	records, err := vc.volunteers.ListByUser(c.Request.Context(), userID)
	if err != nil {
		vc.logger.Error().Err(err).Msg("failed to list volunteer history")
		utils.SendInternalError(c)
		return
	}

	for i := range records {
		event, err := vc.events.GetByID(c.Request.Context(), records[i].EventID)
		if err != nil {
			continue
		}
		records[i].EventTitle = event.Title
		records[i].EventDate = event.Date
	}

	c.JSON(http.StatusOK, records)
}

// ---------------- EVENT VOLUNTEERS ----------------
// Each record is enriched with the referenced user's name and email.
func (vc *VolunteerController) ListEventVolunteers(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "invalid event id")
		return
	}

	records, err := vc.volunteers.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		vc.logger.Error().Err(err).Msg("failed to list event volunteers")
		utils.SendInternalError(c)
		return
	}

	for i := range records {
		user, err := vc.users.GetByID(c.Request.Context(), records[i].UserID)
		if err != nil {
			continue
		}
		records[i].UserName = user.Name
		records[i].UserEmail = user.Email
	}

	c.JSON(http.StatusOK, records)
}
