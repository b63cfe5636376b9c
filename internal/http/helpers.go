package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/shloka/internal/audit"
	"github.com/mrlokans/shloka/internal/auth"
	"github.com/mrlokans/shloka/internal/entities"
	"github.com/mrlokans/shloka/internal/progress"
	"github.com/mrlokans/shloka/internal/rewards"
	"github.com/mrlokans/shloka/internal/scripture"
	"github.com/mrlokans/shloka/internal/session"
	"github.com/mrlokans/shloka/internal/shop"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`              // machine-readable error code
	Details any    `json:"details,omitempty"` // per-field validation problems
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	HasMore    bool  `json:"has_more"`
	TotalPages int   `json:"total_pages,omitempty"`
}

func newPaginatedResponse(data any, total int64, limit, offset int) PaginatedResponse {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PaginatedResponse{
		Data:       data,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
		HasMore:    int64(offset+limit) < total,
		TotalPages: pages,
	}
}

// --- Error Mapping ---

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{scripture.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{shop.ErrItemNotFound, http.StatusNotFound, "NOT_FOUND"},
	{scripture.ErrEmptyCatalog, http.StatusNotFound, "EMPTY_CATALOG"},
	{scripture.ErrDuplicateReference, http.StatusConflict, "DUPLICATE_REFERENCE"},
	{scripture.ErrDuplicateCode, http.StatusConflict, "DUPLICATE_CODE"},
	{scripture.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
	{scripture.ErrMissingTranslation, http.StatusBadRequest, "MISSING_TRANSLATION"},
	{scripture.ErrLanguageDisabled, http.StatusBadRequest, "LANGUAGE_DISABLED"},
	{progress.ErrInvalidTotal, http.StatusBadRequest, "INVALID_TOTAL"},
	{rewards.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
	{session.ErrInvalidUserID, http.StatusBadRequest, "INVALID_USER"},
	{scripture.ErrCannotDisableDefault, http.StatusUnprocessableEntity, "CANNOT_DISABLE_DEFAULT"},
	{scripture.ErrCannotRemoveDefault, http.StatusUnprocessableEntity, "CANNOT_REMOVE_DEFAULT"},
	{rewards.ErrInsufficientBalance, http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE"},
	{shop.ErrOutOfStock, http.StatusUnprocessableEntity, "OUT_OF_STOCK"},
	{shop.ErrItemInactive, http.StatusUnprocessableEntity, "ITEM_INACTIVE"},
}

// statusFor maps a domain error to its HTTP status and error code.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// --- Error Response Helpers ---

// respondError maps err to a status and writes the error body. Server errors
// are logged and their message is not exposed to the client.
func respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		respondInternalError(c, err, c.FullPath())
		return
	}

	resp := ErrorResponse{Error: err.Error(), Code: code}
	var verr *scripture.ValidationError
	if errors.As(err, &verr) {
		resp.Details = verr.Fields
	}
	c.JSON(status, resp)
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: "VALIDATION_ERROR"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	zap.L().Error("request failed",
		zap.String("context", context),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"})
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// parseRefParams reads the :chapter and :verse URL parameters.
func parseRefParams(c *gin.Context) (scripture.Ref, bool) {
	chapter, err := strconv.Atoi(c.Param("chapter"))
	if err != nil {
		respondBadRequest(c, "invalid chapter")
		return scripture.Ref{}, false
	}
	verse, err := strconv.Atoi(c.Param("verse"))
	if err != nil {
		respondBadRequest(c, "invalid verse")
		return scripture.Ref{}, false
	}
	ref, err := scripture.NewRef(chapter, verse)
	if err != nil {
		respondError(c, err)
		return scripture.Ref{}, false
	}
	return ref, true
}

// parsePagination reads limit and offset query parameters.
func parsePagination(c *gin.Context, defaultLimit, maxLimit int) (limit, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// newAction builds an audit action for the admin making this request.
func newAction(c *gin.Context, typ entities.AuditEventType, name, entityType, entityID, description string) audit.Action {
	return audit.Action{
		Actor:       auth.GetAdmin(c),
		Type:        typ,
		Name:        name,
		Description: description,
		EntityType:  entityType,
		EntityID:    entityID,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	}
}
