package transport

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Rogue-Bear-Innovations/bookmarks-api/internal/service"
)

// ErrorResp is the body of every non-2xx response.
type ErrorResp struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// ErrorHandler is the single funnel turning handler errors into responses.
// Messages of unexpected errors are logged, never returned.
func (s *HTTPServer) ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, message := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Errorw("unhandled error",
			"error", err,
			"method", c.Request().Method,
			"path", c.Path(),
		)
	}

	var respErr error
	if c.Request().Method == http.MethodHead {
		respErr = c.NoContent(status)
	} else {
		respErr = c.JSON(status, ErrorResp{
			Code:    statusCode(status),
			Message: message,
			Status:  status,
		})
	}
	if respErr != nil {
		s.logger.Errorw("write error response", "error", respErr)
	}
}

func statusOf(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code, fmt.Sprint(he.Message)
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, service.ErrEmailTaken.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, service.ErrInvalidCredentials.Error()
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, service.ErrUserNotFound.Error()
	case errors.Is(err, service.ErrBookmarkNotFound):
		return http.StatusNotFound, service.ErrBookmarkNotFound.Error()
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

// statusCode turns "Not Found" into "NOT_FOUND".
func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}
