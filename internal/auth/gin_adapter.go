package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// adminPath reports whether a request can carry the admin session. Reader
// endpoints never touch the session store.
func adminPath(path string) bool {
	return strings.HasPrefix(path, "/admin/") || strings.HasPrefix(path, "/api/admin/")
}

// cookieWriter commits the session and sets its cookie right before the
// first byte of the response goes out, since handlers write JSON bodies
// directly.
type cookieWriter struct {
	gin.ResponseWriter
	sm   *SessionManager
	req  *http.Request
	done bool
}

func (w *cookieWriter) commit() {
	if w.done {
		return
	}
	w.done = true

	ctx := w.req.Context()
	switch w.sm.Status(ctx) {
	case scs.Modified:
		token, expiry, err := w.sm.Commit(ctx)
		if err != nil {
			zap.L().Error("admin session commit failed", zap.Error(err))
			return
		}
		w.sm.WriteSessionCookie(ctx, w.ResponseWriter, token, expiry)
	case scs.Destroyed:
		w.sm.WriteSessionCookie(ctx, w.ResponseWriter, "", time.Time{})
	}
}

func (w *cookieWriter) WriteHeader(code int) {
	w.commit()
	w.ResponseWriter.WriteHeader(code)
}

func (w *cookieWriter) WriteHeaderNow() {
	w.commit()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *cookieWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *cookieWriter) WriteString(s string) (int, error) {
	w.commit()
	return w.ResponseWriter.WriteString(s)
}

// SessionLoadSave loads the admin session for /admin and /api/admin requests
// and saves it when the response is written. It must run before RequireAdmin.
func (sm *SessionManager) SessionLoadSave() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !adminPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		var token string
		if cookie, err := c.Request.Cookie(sm.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := sm.Load(c.Request.Context(), token)
		if err != nil {
			zap.L().Error("admin session load failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "failed to load session",
				"code":  "INTERNAL_ERROR",
			})
			return
		}
		c.Request = c.Request.WithContext(ctx)

		cw := &cookieWriter{ResponseWriter: c.Writer, sm: sm, req: c.Request}
		c.Writer = cw
		c.Next()

		// Handlers that only set a status never hit Write
		cw.commit()
	}
}
