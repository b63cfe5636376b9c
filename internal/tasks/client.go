package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

// Processors are the stores the queued tasks write to.
type Processors struct {
	Notifications NotificationSaver
	AuditEvents   AuditEventCleaner
}

// Client is the backlite-backed notification and maintenance queue. It owns a
// separate SQLite file so workers never contend with request writes.
type Client struct {
	backlite *backlite.Client
	db       *sql.DB
	workers  int
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// QueueDBPath returns the task database path for a main database path:
// "./shloka.db" becomes "./shloka-tasks.db".
func QueueDBPath(mainDBPath string) string {
	dir, base := filepath.Split(mainDBPath)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+"-tasks"+ext)
}

// NewClient opens the task database, installs the backlite schema and
// registers the send_notification and cleanup_audit_events queues.
func NewClient(mainDBPath string, cfg Config, procs Processors, logger *zap.Logger) (*Client, error) {
	if procs.Notifications == nil || procs.AuditEvents == nil {
		return nil, errors.New("tasks: notification and audit processors are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}

	db, err := sql.Open("sqlite3", QueueDBPath(mainDBPath)+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Workers + 2)
	db.SetConnMaxLifetime(time.Hour)

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          &zapLogger{sugar: logger.Named("tasks").Sugar()},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create backlite client: %w", err)
	}
	if err := client.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to install backlite schema: %w", err)
	}

	client.Register(NewSendNotificationQueue(procs.Notifications, logger))
	client.Register(NewCleanupAuditEventsQueue(procs.AuditEvents, logger))

	return &Client{
		backlite: client,
		db:       db,
		workers:  cfg.Workers,
		logger:   logger,
	}, nil
}

// Start launches the workers. Calling it twice is a no-op.
func (c *Client) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.backlite.Start(ctx)
	c.logger.Info("task queue started", zap.Int("workers", c.workers))
}

func (c *Client) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// Shutdown waits for in-flight tasks until ctx expires, then closes the task
// database. Tasks still queued are picked up on the next start.
func (c *Client) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		if c.backlite.Stop(ctx) {
			c.logger.Info("task queue stopped")
		} else {
			c.logger.Warn("task queue stop timed out, unfinished tasks will be retried")
		}
		cancel()
	}
	return c.db.Close()
}

// Status reports the state of a queued task, e.g. a notification id.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.backlite.Status(ctx, taskID)
}

// zapLogger implements backlite.Logger on top of zap.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (l *zapLogger) Info(message string, params ...any) {
	l.sugar.Infow(message, params...)
}

func (l *zapLogger) Error(message string, params ...any) {
	l.sugar.Errorw(message, params...)
}
