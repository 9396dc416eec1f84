package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tsawler/tabmark/pages"
	"github.com/tsawler/tabmark/reader"
)

// ConvertResponse is the body of a successful conversion.
type ConvertResponse struct {
	RequestID    string   `json:"request_id"`
	Pages        int      `json:"pages"`
	ScannedPages []int    `json:"scanned_pages"`
	Warnings     []string `json:"warnings"`
	Markdown     string   `json:"markdown"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
}

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{RequestID: requestID(c), Error: msg})
}

// statusFor maps a conversion error onto an HTTP status and a client-safe
// message.
func statusFor(err error) (int, string) {
	var perr *pages.ParseError
	switch {
	case errors.As(err, &perr):
		return http.StatusBadRequest, perr.Error()
	case errors.Is(err, reader.ErrPasswordRequired):
		return http.StatusUnauthorized, reader.ErrPasswordRequired.Error()
	case errors.Is(err, reader.ErrWrongPassword):
		return http.StatusUnauthorized, reader.ErrWrongPassword.Error()
	case errors.Is(err, reader.ErrOpen):
		return http.StatusUnprocessableEntity, "uploaded file is not a readable PDF"
	default:
		return http.StatusInternalServerError, "an internal error occurred"
	}
}

// handleError maps err and sends the error response.
func handleError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("conversion failed", "request_id", requestID(c), "error", err)
	} else {
		logger.Debug("conversion rejected", "request_id", requestID(c), "status", status, "error", err)
	}
	respondError(c, status, msg)
}
