package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shloka/internal/rewards"
	"github.com/mrlokans/shloka/internal/scripture"
	"github.com/mrlokans/shloka/internal/session"
	"github.com/mrlokans/shloka/internal/shop"
)

// ReadRequest is the body of POST /api/me/reads.
type ReadRequest struct {
	Chapter int `json:"chapter" binding:"required"`
	Verse   int `json:"verse" binding:"required"`
}

// CoinsResponse is the reader's wallet.
type CoinsResponse struct {
	Balance   int             `json:"balance"`
	Entries   []rewards.Entry `json:"entries"`
	Purchases []shop.Purchase `json:"purchases"`
}

// MeController serves the reader's own progress, bookmarks and coins.
type MeController struct {
	sessions  SessionProvider
	purchases PurchaseHistory
	now       func() time.Time
}

func NewMeController(sessions SessionProvider, purchases PurchaseHistory) *MeController {
	return &MeController{
		sessions:  sessions,
		purchases: purchases,
		now:       time.Now,
	}
}

func (mc *MeController) session(c *gin.Context) (*session.Session, bool) {
	s, err := mc.sessions.Get(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return s, true
}

// Progress returns streaks, completion, chapter progress and badges.
// GET /api/me/progress
func (mc *MeController) Progress(c *gin.Context) {
	s, ok := mc.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Progress(mc.now()))
}

// RecordRead marks a verse as read.
// POST /api/me/reads
func (mc *MeController) RecordRead(c *gin.Context) {
	var req ReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "chapter and verse are required")
		return
	}
	ref, err := scripture.NewRef(req.Chapter, req.Verse)
	if err != nil {
		respondError(c, err)
		return
	}

	s, ok := mc.session(c)
	if !ok {
		return
	}
	result, err := s.RecordRead(c.Request.Context(), ref, mc.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// History lists read events, most recent first.
// GET /api/me/history
func (mc *MeController) History(c *gin.Context) {
	s, ok := mc.session(c)
	if !ok {
		return
	}
	history := s.History()
	if history == nil {
		history = []scripture.ReadEvent{}
	}
	c.JSON(http.StatusOK, history)
}

// Bookmarks lists bookmarked verses.
// GET /api/me/bookmarks
func (mc *MeController) Bookmarks(c *gin.Context) {
	s, ok := mc.session(c)
	if !ok {
		return
	}
	refs := s.Bookmarks()
	if refs == nil {
		refs = []scripture.Ref{}
	}
	c.JSON(http.StatusOK, refs)
}

// AddBookmark bookmarks a verse.
// POST /api/me/bookmarks/:chapter/:verse
func (mc *MeController) AddBookmark(c *gin.Context) {
	ref, ok := parseRefParams(c)
	if !ok {
		return
	}
	s, ok := mc.session(c)
	if !ok {
		return
	}

	result, err := s.AddBookmark(c.Request.Context(), ref)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RemoveBookmark removes a bookmark. Removing a missing bookmark succeeds.
// DELETE /api/me/bookmarks/:chapter/:verse
func (mc *MeController) RemoveBookmark(c *gin.Context) {
	ref, ok := parseRefParams(c)
	if !ok {
		return
	}
	s, ok := mc.session(c)
	if !ok {
		return
	}

	if err := s.RemoveBookmark(c.Request.Context(), ref); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Coins returns the balance, coin history and purchases.
// GET /api/me/coins
func (mc *MeController) Coins(c *gin.Context) {
	s, ok := mc.session(c)
	if !ok {
		return
	}

	resp := CoinsResponse{
		Balance:   s.Balance(),
		Entries:   s.Entries(),
		Purchases: []shop.Purchase{},
	}
	if resp.Entries == nil {
		resp.Entries = []rewards.Entry{}
	}
	if mc.purchases != nil {
		purchases, err := mc.purchases.Purchases(c.Request.Context(), s.UserID())
		if err != nil {
			respondInternalError(c, err, "list purchases")
			return
		}
		if purchases != nil {
			resp.Purchases = purchases
		}
	}
	c.JSON(http.StatusOK, resp)
}
