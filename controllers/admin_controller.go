package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/samudaya/community-events-go/repositories"
	"github.com/samudaya/community-events-go/utils"
)

type AdminController struct {
	users      repositories.UserRepository
	events     repositories.EventRepository
	volunteers repositories.VolunteerRepository
	threads    repositories.ForumRepository
	logger     zerolog.Logger
}

func NewAdminController(
	users repositories.UserRepository,
	events repositories.EventRepository,
	volunteers repositories.VolunteerRepository,
	threads repositories.ForumRepository,
	logger zerolog.Logger,
) *AdminController {
	return &AdminController{
		users:      users,
		events:     events,
		volunteers: volunteers,
		threads:    threads,
		logger:     logger,
	}
}

type TopEvent struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Registered int    `json:"registered"`
	Capacity   int    `json:"capacity"`
}

// ---------------- STATS ----------------
func (ac *AdminController) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	activeUsers, err := ac.users.CountActive(ctx)
	if err != nil {
		ac.logger.Error().Err(err).Msg("failed to count users")
		utils.SendInternalError(c)
		return
	}

	publishedEvents, err := ac.events.CountByStatus(ctx, "published")
	if err != nil {
		ac.logger.Error().Err(err).Msg("failed to count events")
		utils.SendInternalError(c)
		return
	}

	totalVolunteers, err := ac.volunteers.Count(ctx)
	if err != nil {
		ac.logger.Error().Err(err).Msg("failed to count volunteers")
		utils.SendInternalError(c)
		return
	}

	forumThreads, err := ac.threads.Count(ctx)
	if err != nil {
		ac.logger.Error().Err(err).Msg("failed to count threads")
		utils.SendInternalError(c)
		return
	}

	// Trailing 30-day window from now.
	newUsers, err := ac.users.CountJoinedSince(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		ac.logger.Error().Err(err).Msg("failed to count new users")
		utils.SendInternalError(c)
		return
	}

	events, err := ac.events.TopRegistered(ctx, 5)
	if err != nil {
		ac.logger.Error().Err(err).Msg("failed to fetch top events")
		utils.SendInternalError(c)
		return
	}

	topEvents := make([]TopEvent, 0, len(events))
	for _, ev := range events {
		topEvents = append(topEvents, TopEvent{
			ID:         ev.ID.Hex(),
			Title:      ev.Title,
			Registered: ev.Registered,
			Capacity:   ev.Capacity,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"activeUsers":        activeUsers,
		"publishedEvents":    publishedEvents,
		"totalVolunteers":    totalVolunteers,
		"forumThreads":       forumThreads,
		"newUsersLast30Days": newUsers,
		"topEvents":          topEvents,
	})
}

// ---------------- PENDING QUEUE ----------------
// Events awaiting moderation, with the creator id resolved to a display name
// where possible.
func (ac *AdminController) ListPendingEvents(c *gin.Context) {
	events, err := ac.events.ListPending(c.Request.Context())
	if err != nil {
		ac.logger.Error().Err(err).Msg("failed to list pending events")
		utils.SendInternalError(c)
		return
	}

	for i := range events {
		user, err := ac.users.GetByID(c.Request.Context(), events[i].Creator)
		if err != nil {
			continue
		}
		events[i].CreatorName = user.Name
	}

	c.JSON(http.StatusOK, events)
}

// ---------------- APPROVE ----------------
func (ac *AdminController) ApproveEvent(c *gin.Context) {
	ac.setEventStatus(c, "published")
}

// ---------------- REJECT ----------------
func (ac *AdminController) RejectEvent(c *gin.Context) {
	ac.setEventStatus(c, "rejected")
}

func (ac *AdminController) setEventStatus(c *gin.Context, status string) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, "invalid event id")
		return
	}

	if err := ac.events.SetStatus(c.Request.Context(), id, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.SendError(c, http.StatusNotFound, "event not found")
			return
		}
		ac.logger.Error().Err(err).Msg("failed to set event status")
		utils.SendInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": status})
}
