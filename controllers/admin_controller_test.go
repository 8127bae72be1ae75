package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/samudaya/community-events-go/middleware"
	"github.com/samudaya/community-events-go/models"
	"github.com/samudaya/community-events-go/utils"
)

type adminFixture struct {
	router     *gin.Engine
	users      *fakeUserRepo
	events     *fakeEventRepo
	volunteers *fakeVolunteerRepo
	threads    *fakeForumRepo
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		users:      newFakeUserRepo(),
		events:     newFakeEventRepo(),
		volunteers: newFakeVolunteerRepo(),
		threads:    newFakeForumRepo(),
	}
	ac := NewAdminController(f.users, f.events, f.volunteers, f.threads, zerolog.Nop())

	r := gin.New()
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(testJWTSecret), middleware.AdminOnly())
	{
		admin.GET("/stats", ac.GetStats)
		admin.GET("/events/pending", ac.ListPendingEvents)
		admin.PUT("/events/:id/approve", ac.ApproveEvent)
		admin.PUT("/events/:id/reject", ac.RejectEvent)
	}
	f.router = r
	return f
}

func performAdminRequest(t *testing.T, router http.Handler, method, path, role string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, err := utils.GenerateToken(primitive.NewObjectID().Hex(), role, testJWTSecret)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminRequiresToken(t *testing.T) {
	f := newAdminFixture()

	w := performAdminRequest(t, f.router, http.MethodGet, "/api/admin/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRejectsBadToken(t *testing.T) {
	f := newAdminFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRejectsNonAdminRole(t *testing.T) {
	f := newAdminFixture()

	w := performAdminRequest(t, f.router, http.MethodGet, "/api/admin/stats", "member", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetStats(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	active := seedUser(t, f.users, "Asha", "asha@example.com", "secret123")
	inactive := seedUser(t, f.users, "Ben", "ben@example.com", "secret123")
	require.NoError(t, f.users.Update(ctx, inactive, bson.M{"status": "inactive"}))

	// One joiner outside the trailing 30-day window.
	_, err := f.users.Create(ctx, &models.User{
		Name:     "Old Timer",
		Email:    "old@example.com",
		JoinDate: time.Now().AddDate(0, -3, 0),
		Status:   "active",
	})
	require.NoError(t, err)

	popular := seedEvent(t, f.events, "Popular", "published", 100, primitive.NewObjectID())
	seedEvent(t, f.events, "Quiet", "published", 100, primitive.NewObjectID())
	seedEvent(t, f.events, "Draft", "draft", 100, primitive.NewObjectID())
	require.NoError(t, f.events.Register(ctx, popular, primitive.NewObjectID()))
	require.NoError(t, f.events.Register(ctx, popular, primitive.NewObjectID()))

	_, err = f.volunteers.Create(ctx, &models.VolunteerRecord{
		UserID:  active,
		EventID: popular,
		Status:  "upcoming",
	})
	require.NoError(t, err)

	_, err = f.threads.Create(ctx, &models.ForumThread{Title: "Ideas", CreatedAt: time.Now()})
	require.NoError(t, err)

	w := performAdminRequest(t, f.router, http.MethodGet, "/api/admin/stats", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(w)
	assert.Equal(t, float64(2), body["activeUsers"])
	assert.Equal(t, float64(2), body["publishedEvents"])
	assert.Equal(t, float64(1), body["totalVolunteers"])
	assert.Equal(t, float64(1), body["forumThreads"])
	assert.Equal(t, float64(2), body["newUsersLast30Days"])

	topEvents := body["topEvents"].([]interface{})
	require.Len(t, topEvents, 2)
	first := topEvents[0].(map[string]interface{})
	assert.Equal(t, "Popular", first["title"])
	assert.Equal(t, float64(2), first["registered"])
}

func TestListPendingEvents(t *testing.T) {
	f := newAdminFixture()

	creator := seedUser(t, f.users, "Asha", "asha@example.com", "secret123")
	seedEvent(t, f.events, "Awaiting Review", "pending", 10, creator)
	seedEvent(t, f.events, "Still Drafting", "draft", 10, creator)
	seedEvent(t, f.events, "Live", "published", 10, creator)

	w := performAdminRequest(t, f.router, http.MethodGet, "/api/admin/events/pending", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	for _, ev := range listed {
		assert.NotEqual(t, "published", ev.Status)
		assert.Equal(t, "Asha", ev.CreatorName)
	}
}

func TestApproveEvent(t *testing.T) {
	f := newAdminFixture()
	id := seedEvent(t, f.events, "Awaiting Review", "pending", 10, primitive.NewObjectID())

	w := performAdminRequest(t, f.router, http.MethodPut, "/api/admin/events/"+id.Hex()+"/approve", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := f.events.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "published", stored.Status)

	// Approving an already-published event succeeds.
	w = performAdminRequest(t, f.router, http.MethodPut, "/api/admin/events/"+id.Hex()+"/approve", "admin", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRejectEvent(t *testing.T) {
	f := newAdminFixture()
	id := seedEvent(t, f.events, "Awaiting Review", "pending", 10, primitive.NewObjectID())

	w := performAdminRequest(t, f.router, http.MethodPut, "/api/admin/events/"+id.Hex()+"/reject", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := f.events.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "rejected", stored.Status)
}

func TestApproveEventNotFound(t *testing.T) {
	f := newAdminFixture()

	w := performAdminRequest(t, f.router, http.MethodPut, "/api/admin/events/"+primitive.NewObjectID().Hex()+"/approve", "admin", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
