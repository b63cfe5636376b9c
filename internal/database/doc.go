// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, store seeding
//	├── catalog/         # Languages and verses backing scripture.Library
//	├── journeys/        # Reader progress, bookmarks, coins and purchases
//	├── store/           # Store item CRUD
//	├── notifications/   # Sent notification history
//	├── audit/           # Admin and auth audit trail
//	├── preferences/     # Per-reader language and reminder settings
//	└── settings/        # Runtime settings (reminder schedule)
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./shloka.db")
//
//	library, err := scripture.LoadLibrary(ctx, catalog.NewRepository(db.DB))
//	sessions := session.NewManager(journeys.NewRepository(db.DB), library, loc, cfg)
//
// # Interface Implementations
//
//   - catalog.Repository: implements scripture.Repository
//   - journeys.Repository: implements session.StateStore, http.PurchaseHistory
//   - store.Repository: implements http.StoreCatalog
//   - notifications.Repository: implements tasks.NotificationSaver
//   - audit.Repository: implements tasks.AuditEventCleaner
//   - settings.Repository: implements settingsstore.Backend
//   - preferences.Repository: implements preferences.Store
//   - notifications.Repository: also implements http.NotificationFeed
//
// All checks live in internal/interfaces.
package database
