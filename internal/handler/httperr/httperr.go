package httperr

import (
	"net/http"

	"marketplace-booking/internal/domain/availability"
	"marketplace-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeSlotUnavailable   = "SLOT_UNAVAILABLE"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternal          = "INTERNAL_ERROR"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	AbortWithCode(c, status, codeFor(status), err, msg, detail)
}

func AbortWithCode(c *gin.Context, status int, code string, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Error.Code = code
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// AbortWithKind maps an error kind set by the use case layer onto a response.
// validationStatus differs per surface: availability input is 400, booking
// input is 422.
func AbortWithKind(c *gin.Context, err error, validationStatus int) {
	switch {
	case errs.Is(err, errs.ErrValidation):
		AbortWithCode(c, validationStatus, CodeValidation, err, "Invalid request", validationDetail(err))
	case errs.Is(err, errs.ErrSlotUnavailable), errs.Is(err, errs.ErrConflict):
		AbortWithCode(c, http.StatusConflict, CodeSlotUnavailable, err, "Slot unavailable", nil)
	case errs.Is(err, errs.ErrInvalidTransition):
		AbortWithCode(c, http.StatusConflict, CodeInvalidTransition, err, "Invalid status transition", nil)
	case errs.Is(err, errs.ErrUnauthorizedAction):
		AbortWithCode(c, http.StatusForbidden, CodeForbidden, err, "Forbidden", nil)
	case errs.Is(err, errs.ErrNotFound):
		AbortWithCode(c, http.StatusNotFound, CodeNotFound, err, "Not found", nil)
	default:
		AbortWithCode(c, http.StatusInternalServerError, CodeInternal, err, "Internal error", nil)
	}
}

func validationDetail(err error) any {
	var ve *availability.ValidationError
	if errs.As(err, &ve) {
		d := gin.H{"reason": ve.Reason, "window": ve.First.String()}
		if ve.Second != nil {
			d["conflicts_with"] = ve.Second.String()
		}
		return d
	}
	return err.Error()
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusTooManyRequests:
		return CodeRateLimited
	default:
		return CodeInternal
	}
}
