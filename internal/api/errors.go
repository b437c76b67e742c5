package api

import (
	"errors"
	"net/http"

	"studiodesk/internal/apperr"
	"studiodesk/internal/logger"

	"github.com/gin-gonic/gin"
)

var statusByKind = map[apperr.Kind]int{
	apperr.KindValidation:          http.StatusBadRequest,
	apperr.KindNotFound:            http.StatusNotFound,
	apperr.KindUnauthorized:        http.StatusUnauthorized,
	apperr.KindForbidden:           http.StatusForbidden,
	apperr.KindConflict:            http.StatusConflict,
	apperr.KindDuplicateBooking:    http.StatusConflict,
	apperr.KindAlreadyBooked:       http.StatusConflict,
	apperr.KindAlreadyCancelled:    http.StatusConflict,
	apperr.KindInvalidState:        http.StatusConflict,
	apperr.KindNoCredit:            http.StatusPaymentRequired,
	apperr.KindSlotFull:            http.StatusConflict,
	apperr.KindReferentialConflict: http.StatusConflict,
}

// StatusFor maps an engine error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// RespondError writes err using the error taxonomy. Internal errors are
// logged and their cause is never sent to the client.
func RespondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := StatusFor(kind)

	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(status, ErrorResponse{Error: "internal server error", Code: string(apperr.KindInternal)})
		return
	}

	c.JSON(status, ErrorResponse{
		Error:   messageOf(err),
		Code:    string(kind),
		Details: apperr.DetailsOf(err),
	})
}

func messageOf(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
