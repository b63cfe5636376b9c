package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/shloka/internal/audit"
	"github.com/mrlokans/shloka/internal/auth"
	"github.com/mrlokans/shloka/internal/cache"
	"github.com/mrlokans/shloka/internal/database"
	"github.com/mrlokans/shloka/internal/database/catalog"
	"github.com/mrlokans/shloka/internal/database/journeys"
	"github.com/mrlokans/shloka/internal/database/notifications"
	prefsrepo "github.com/mrlokans/shloka/internal/database/preferences"
	"github.com/mrlokans/shloka/internal/database/store"
	"github.com/mrlokans/shloka/internal/entities"
	"github.com/mrlokans/shloka/internal/preferences"
	"github.com/mrlokans/shloka/internal/rewards"
	"github.com/mrlokans/shloka/internal/scripture"
	"github.com/mrlokans/shloka/internal/session"
)

type apiFixture struct {
	db            *database.Database
	library       *scripture.Library
	sessions      *session.Manager
	store         *store.Repository
	journeys      *journeys.Repository
	notifications *notifications.Repository
	auditor       *recordingAuditor
	router        *gin.Engine
}

func setupAPITest(t *testing.T) (*apiFixture, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_api_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	library, err := scripture.LoadLibrary(context.Background(), catalog.NewRepository(db.DB))
	require.NoError(t, err)

	journeysRepo := journeys.NewRepository(db.DB)
	storeRepo := store.NewRepository(db.DB)
	sessions := session.NewManager(journeysRepo, library, time.UTC, rewards.DefaultConfig())

	notificationsRepo := notifications.NewRepository(db.DB)

	f := &apiFixture{
		db:            db,
		library:       library,
		sessions:      sessions,
		store:         storeRepo,
		journeys:      journeysRepo,
		notifications: notificationsRepo,
		auditor:       &recordingAuditor{},
	}
	f.router = NewRouter(RouterConfig{
		Database:    db,
		Library:     library,
		Daily:       cache.NewDailyVerse(nil, library, 0, nil),
		Sessions:    sessions,
		Location:    time.UTC,
		Purchases:   journeysRepo,
		Stats:       journeysRepo,
		Store:       storeRepo,
		Preferences: preferences.NewService(prefsrepo.NewRepository(db.DB), library),
		Feed:        notificationsRepo,
		Auditor:     f.auditor,
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return f, cleanup
}

// do sends a request, adding the reader header when userID is set.
func do(router http.Handler, method, path, userID string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(HeaderUserID, userID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

type recordingAuditor struct {
	mu      sync.Mutex
	actions []audit.Action
	errs    []error
}

func (a *recordingAuditor) LogAction(action audit.Action, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
	a.errs = append(a.errs, err)
}

func (a *recordingAuditor) Events(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []entities.AuditEvent
	for _, action := range a.actions {
		if eventType != "" && action.Type != eventType {
			continue
		}
		out = append(out, entities.AuditEvent{Actor: action.Actor, EventType: action.Type, Action: action.Name})
	}
	total := int64(len(out))
	if offset >= len(out) {
		return []entities.AuditEvent{}, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (a *recordingAuditor) last() (audit.Action, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.actions) == 0 {
		return audit.Action{}, nil
	}
	return a.actions[len(a.actions)-1], a.errs[len(a.errs)-1]
}

// adminRouter mounts a handler behind a fake admin identity.
func adminRouter() *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(auth.ContextKeyAdmin, "admin")
		c.Next()
	})
	return router
}
