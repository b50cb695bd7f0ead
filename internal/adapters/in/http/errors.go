package http

import (
	"errors"
	"net/http"

	"deliverystate/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// domainError translates application errors into HTTP responses. Missing
// objects map to 404, lost races and rejected lifecycle moves to 409, bad
// input to 400, anything else to 500.
func domainError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrIllegalTransition),
		errors.Is(err, errs.ErrConflictingUpdate),
		errors.Is(err, errs.ErrInvalidOperatorAction):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrMissingFailureReason),
		errors.Is(err, errs.ErrUnexpectedFailureReason),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, ErrorResponse{Code: code, Message: err.Error()})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
