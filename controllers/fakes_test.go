package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/samudaya/community-events-go/models"
	"github.com/samudaya/community-events-go/repositories"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}

// ---------------- fake user repository ----------------

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	for _, u := range f.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repositories.ErrDuplicateEmail
		}
	}
	id := primitive.NewObjectID()
	stored := *user
	stored.ID = id
	f.users[id] = &stored
	return id, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) GetByResetToken(_ context.Context, token string) (*models.User, error) {
	for _, u := range f.users {
		if u.PasswordReset != nil && u.PasswordReset.Token == token {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "name":
			u.Name = value.(string)
		case "email":
			u.Email = value.(string)
		case "bio":
			u.Bio = value.(string)
		case "role":
			u.Role = value.(string)
		case "status":
			u.Status = value.(string)
		case "password":
			u.Password = value.(string)
		case "email_preferences":
			u.EmailPrefs = value.(*models.EmailPreferences)
		case "password_reset":
			reset := value.(models.PasswordReset)
			u.PasswordReset = &reset
		}
	}
	return nil
}

func (f *fakeUserRepo) SetPasswordReset(ctx context.Context, id primitive.ObjectID, reset models.PasswordReset) error {
	return f.Update(ctx, id, bson.M{"password_reset": reset})
}

func (f *fakeUserRepo) CompletePasswordReset(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Password = passwordHash
	u.PasswordReset = nil
	return nil
}

func (f *fakeUserRepo) IncrementEventsCreated(_ context.Context, id primitive.ObjectID) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.EventsCreated++
	return nil
}

func (f *fakeUserRepo) AddVolunteerHours(_ context.Context, id primitive.ObjectID, hours float64) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.VolunteerHours += hours
	return nil
}

func (f *fakeUserRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.Status == "active" {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepo) CountJoinedSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.JoinDate.After(since) {
			n++
		}
	}
	return n, nil
}

// ---------------- fake event repository ----------------

type fakeEventRepo struct {
	events map[primitive.ObjectID]*models.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[primitive.ObjectID]*models.Event)}
}

func (f *fakeEventRepo) Create(_ context.Context, event *models.Event) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *event
	stored.ID = id
	f.events[id] = &stored
	return id, nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *ev
	return &copied, nil
}

func (f *fakeEventRepo) listByStatus(statuses ...string) []models.Event {
	out := []models.Event{}
	for _, ev := range f.events {
		for _, s := range statuses {
			if ev.Status == s {
				out = append(out, *ev)
				break
			}
		}
	}
	return out
}

func (f *fakeEventRepo) ListVisible(_ context.Context) ([]models.Event, error) {
	return f.listByStatus("published", "pending"), nil
}

func (f *fakeEventRepo) ListByCreator(_ context.Context, creator primitive.ObjectID) ([]models.Event, error) {
	out := []models.Event{}
	for _, ev := range f.events {
		if ev.Creator == creator {
			out = append(out, *ev)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListPending(_ context.Context) ([]models.Event, error) {
	return f.listByStatus("pending", "draft"), nil
}

func (f *fakeEventRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	ev, ok := f.events[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "title":
			ev.Title = value.(string)
		case "description":
			ev.Description = value.(string)
		case "date":
			ev.Date = value.(string)
		case "time":
			ev.Time = value.(string)
		case "location":
			ev.Location = value.(string)
		case "category":
			ev.Category = value.(string)
		case "capacity":
			ev.Capacity = value.(int)
		case "image_url":
			ev.ImageURL = value.(string)
		case "tags":
			ev.Tags = value.([]string)
		case "status":
			ev.Status = value.(string)
		}
	}
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.events[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) Register(_ context.Context, eventID, userID primitive.ObjectID) error {
	ev, ok := f.events[eventID]
	if !ok {
		return repositories.ErrNotFound
	}
	for _, uid := range ev.RegisteredUsers {
		if uid == userID {
			return repositories.ErrAlreadyRegistered
		}
	}
	if len(ev.RegisteredUsers) >= ev.Capacity {
		return repositories.ErrEventFull
	}
	ev.RegisteredUsers = append(ev.RegisteredUsers, userID)
	ev.Registered++
	return nil
}

func (f *fakeEventRepo) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	return f.Update(ctx, id, bson.M{"status": status})
}

func (f *fakeEventRepo) SetImageURL(ctx context.Context, id primitive.ObjectID, url string) error {
	return f.Update(ctx, id, bson.M{"image_url": url})
}

func (f *fakeEventRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, ev := range f.events {
		if ev.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeEventRepo) TopRegistered(_ context.Context, limit int64) ([]models.Event, error) {
	published := f.listByStatus("published")
	sort.Slice(published, func(i, j int) bool {
		return published[i].Registered > published[j].Registered
	})
	if int64(len(published)) > limit {
		published = published[:limit]
	}
	return published, nil
}

// ---------------- fake announcement repository ----------------

type fakeAnnouncementRepo struct {
	announcements map[primitive.ObjectID]*models.Announcement
}

func newFakeAnnouncementRepo() *fakeAnnouncementRepo {
	return &fakeAnnouncementRepo{announcements: make(map[primitive.ObjectID]*models.Announcement)}
}

func (f *fakeAnnouncementRepo) Create(_ context.Context, a *models.Announcement) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *a
	stored.ID = id
	f.announcements[id] = &stored
	return id, nil
}

func (f *fakeAnnouncementRepo) ListRecent(_ context.Context) ([]models.Announcement, error) {
	out := []models.Announcement{}
	for _, a := range f.announcements {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeAnnouncementRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.announcements[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.announcements, id)
	return nil
}

// ---------------- fake forum repository ----------------

type fakeForumRepo struct {
	threads map[primitive.ObjectID]*models.ForumThread
}

func newFakeForumRepo() *fakeForumRepo {
	return &fakeForumRepo{threads: make(map[primitive.ObjectID]*models.ForumThread)}
}

func (f *fakeForumRepo) Create(_ context.Context, t *models.ForumThread) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *t
	stored.ID = id
	f.threads[id] = &stored
	return id, nil
}

func (f *fakeForumRepo) ListRecent(_ context.Context) ([]models.ForumThread, error) {
	out := []models.ForumThread{}
	for _, t := range f.threads {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeForumRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.threads[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.threads, id)
	return nil
}

func (f *fakeForumRepo) Pin(_ context.Context, id primitive.ObjectID) error {
	t, ok := f.threads[id]
	if !ok {
		return repositories.ErrNotFound
	}
	t.IsPinned = true
	return nil
}

func (f *fakeForumRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.threads)), nil
}

// ---------------- fake volunteer repository ----------------

type fakeVolunteerRepo struct {
	records map[primitive.ObjectID]*models.VolunteerRecord
}

func newFakeVolunteerRepo() *fakeVolunteerRepo {
	return &fakeVolunteerRepo{records: make(map[primitive.ObjectID]*models.VolunteerRecord)}
}

func (f *fakeVolunteerRepo) Create(_ context.Context, rec *models.VolunteerRecord) (primitive.ObjectID, error) {
	for _, r := range f.records {
		if r.UserID == rec.UserID && r.EventID == rec.EventID {
			return primitive.NilObjectID, repositories.ErrDuplicateSignup
		}
	}
	id := primitive.NewObjectID()
	stored := *rec
	stored.ID = id
	f.records[id] = &stored
	return id, nil
}

func (f *fakeVolunteerRepo) List(_ context.Context) ([]models.VolunteerRecord, error) {
	out := []models.VolunteerRecord{}
	for _, r := range f.records {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeVolunteerRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.VolunteerRecord, error) {
	out := []models.VolunteerRecord{}
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeVolunteerRepo) ListByEvent(_ context.Context, eventID primitive.ObjectID) ([]models.VolunteerRecord, error) {
	out := []models.VolunteerRecord{}
	for _, r := range f.records {
		if r.EventID == eventID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeVolunteerRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.records)), nil
}
