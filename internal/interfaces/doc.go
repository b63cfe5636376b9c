// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Catalog
//
//   - scripture.Repository: persistence behind the in-memory Library (internal/scripture/library.go)
//   - http.VerseReader, http.VerseEditor, http.LanguageEditor: controller views of the Library (internal/http/stores.go)
//   - cache.VerseSource: what the verse of the day cache reads (internal/cache/daily.go)
//
// ## Readers
//
//   - session.StateStore: load and commit one reader's state (internal/session/session.go)
//   - session.Catalog: the verse facts a session validates against
//   - http.SessionProvider: hands out the session for an X-User-ID
//
// ## Background Work
//
//   - tasks.Enqueuer: backlite client or inline runner (internal/tasks/enqueue.go)
//   - scheduler.ReminderSettings: reminder schedule with database > environment > default priority
//
// # Adding a New Notification Kind
//
//  1. Add the type to entities.NotificationType
//
//  2. Enqueue it from a controller or scheduler:
//
//     err := queue.Enqueue(ctx, tasks.SendNotificationTask{
//         ID:    uuid.NewString(),
//         Type:  entities.NotificationStreak,
//         Title: "...",
//     })
//
//  3. The send queue persists it through tasks.NotificationSaver
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Register its entities in database.NewDatabase's AutoMigrate call
//
//  4. Add a compile-time check to checks.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
