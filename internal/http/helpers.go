package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/calibre-xmnote/internal/calibre"
	"github.com/mrlokans/calibre-xmnote/internal/logger"
	"github.com/mrlokans/calibre-xmnote/internal/services"
	"github.com/mrlokans/calibre-xmnote/internal/validate"
	"github.com/mrlokans/calibre-xmnote/internal/xmnote"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (dialog text, partial results)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidSettings = "invalid_settings"
	CodeNetwork         = "network_error"
	CodeDeviceStatus    = "device_error"
	CodeParse           = "parse_error"
	CodeNotFound        = "not_found"
	CodeNoSelection     = "no_selection"
	CodeNoLibrary       = "no_library"
)

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: CodeNotFound})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, log logger.Logger, err error, context string) {
	log.Error("internal error", logger.String("context", context), logger.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondDialogError maps a domain error to a status code and the dialog text
// the user should see. details, when non-nil, is sent instead of the message.
func respondDialogError(c *gin.Context, err error, details any) {
	msg := services.ErrorMessage(err)
	status, code := classifyError(err)
	if details == nil {
		details = msg
	}
	c.JSON(status, ErrorResponse{Error: msg.Title, Code: code, Details: details})
}

// respondActionError sends known domain errors as dialog errors and anything
// else as an internal error.
func respondActionError(c *gin.Context, log logger.Logger, err error, context string) {
	if status, _ := classifyError(err); status == http.StatusInternalServerError {
		respondInternalError(c, log, err, context)
		return
	}
	respondDialogError(c, err, nil)
}

func classifyError(err error) (int, string) {
	var (
		valErr    *validate.ValidationError
		netErr    *xmnote.NetworkError
		statusErr *xmnote.StatusError
		parseErr  *xmnote.ParseError
	)
	switch {
	case errors.Is(err, services.ErrNoLibrary):
		return http.StatusServiceUnavailable, CodeNoLibrary
	case errors.As(err, &valErr):
		return http.StatusBadRequest, CodeInvalidSettings
	case errors.Is(err, services.ErrNoBooksSelected):
		return http.StatusBadRequest, CodeNoSelection
	case errors.Is(err, calibre.ErrBookNotFound), errors.Is(err, services.ErrEmptyLibrary):
		return http.StatusNotFound, CodeNotFound
	case errors.As(err, &netErr):
		return http.StatusBadGateway, CodeNetwork
	case errors.As(err, &statusErr):
		return http.StatusBadGateway, CodeDeviceStatus
	case errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity, CodeParse
	default:
		return http.StatusInternalServerError, ""
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parseBookIDs reads book ids from repeated or comma-separated query values,
// e.g. ?book_id=1&book_id=2 or ?book_id=1,2. Order is preserved.
// Responds with a 400 error and returns nil, false on malformed input.
func parseBookIDs(c *gin.Context, paramName string) ([]int64, bool) {
	var ids []int64
	for _, raw := range c.QueryArray(paramName) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				respondBadRequest(c, "invalid "+paramName)
				return nil, false
			}
			ids = append(ids, id)
		}
	}
	return ids, true
}

// parseLimit reads an optional positive limit query parameter.
func parseLimit(c *gin.Context, fallback, max int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
