package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Response is the JSON body for every error response.
type Response struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// HTTPErrorHandler returns an echo error handler that maps domain errors to
// status codes. Internal failures are logged with their cause and surfaced
// as an opaque message.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := Response{Code: Code(KindInternal), Error: "internal server error"}

		var appErr *Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = HTTPStatus(appErr.Kind)
			if appErr.Kind == KindInternal {
				logger.Error().Err(appErr.Err).
					Str("path", c.Request().URL.Path).
					Msg(appErr.Msg)
			} else {
				body = Response{Code: Code(appErr.Kind), Error: appErr.Msg}
			}
		case errors.As(err, &httpErr):
			// Routing-level errors (404 on unknown path, 405, bind failures).
			status = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				body = Response{Code: http.StatusText(status), Error: msg}
			}
		default:
			logger.Error().Err(err).
				Str("path", c.Request().URL.Path).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
