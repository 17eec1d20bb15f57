package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"relDB/internal/errs"
	"relDB/internal/logger"
)

type CustomContext struct {
	echo.Context
	RequestID string
}

func CreateReqContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := uuid.NewString()
		ctx := context.WithValue(c.Request().Context(), logger.ReqIDKey, reqID)
		ctx = log.WithContext(ctx)
		c.SetRequest(c.Request().WithContext(ctx))
		logger := zerolog.Ctx(ctx)
		logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("reqID", reqID)
		})
		cc := &CustomContext{
			Context:   c,
			RequestID: reqID,
		}
		return next(cc)
	}
}

// Casts to custom context for the handler, so this doesn't have to be done per handler
func ccHandler(h func(*CustomContext) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h(c.(*CustomContext))
	}
}

func (c *CustomContext) internalErrorMessage() string {
	return "internal error, request id: " + c.RequestID
}

func (c *CustomContext) InternalError(err error, msg string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		zerolog.Ctx(c.Request().Context()).Warn().CallerSkipFrame(1).Msg(err.Error())
	} else {
		zerolog.Ctx(c.Request().Context()).Error().CallerSkipFrame(1).Err(err).Msg(msg)
	}
	return c.String(http.StatusInternalServerError, c.internalErrorMessage())
}

// Fail answers with the status matching err's kind. Errors outside the
// engine's taxonomy are internal.
func (c *CustomContext) Fail(err error, msg string) error {
	var verr validator.ValidationErrors
	switch {
	case errors.Is(err, errs.ErrTableNotFound), errors.Is(err, errs.ErrIndexOutOfRange):
		return c.String(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrTableExists):
		return c.String(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrSchemaMismatch),
		errors.Is(err, errs.ErrUnknownAttribute),
		errors.Is(err, errs.ErrTypeMismatch),
		errors.Is(err, errs.ErrInvalidForeignKey),
		errors.Is(err, errs.ErrUnsupportedOperator),
		errors.Is(err, errs.ErrMalformedCondition),
		errors.Is(err, errs.ErrIndexUnavailable),
		errors.As(err, &verr):
		return c.String(http.StatusBadRequest, err.Error())
	}
	return c.InternalError(err, msg)
}
