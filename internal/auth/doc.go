// Package auth gates the admin API behind a cookie session.
//
// There is a single administrator whose username and bcrypt password hash
// come from configuration:
//
//	ADMIN_USERNAME=admin
//	ADMIN_PASSWORD_HASH=$2a$12$...        # see the hash-password command
//	ADMIN_SESSION_LIFETIME=12h
//	ADMIN_SECURE_COOKIES=true              # HTTPS-only cookies
//	ADMIN_LOGIN_RATE_PER_MINUTE=5
//
// # Usage
//
//	sessions, _ := auth.NewSessionManager(sqlDB, cfg.Admin)
//	ctrl := auth.NewController(auth.NewService(cfg.Admin), sessions, limiter, auditor, logger)
//	router.Use(sessions.SessionLoadSave())
//	admin := router.Group("/api/admin", auth.RequireAdmin(sessions))
//
// Handlers read the logged in administrator with auth.GetAdmin(c).
package auth
