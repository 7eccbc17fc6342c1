package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hamadismail/xpeed-cng/internal/repository/mongodb"
	"github.com/hamadismail/xpeed-cng/internal/service/invoice"
	"github.com/hamadismail/xpeed-cng/internal/service/logs"
	"github.com/hamadismail/xpeed-cng/internal/service/whatsapp"
	whatsappclient "github.com/hamadismail/xpeed-cng/pkg/clients/whatsapp"
)

// envelope is the body shape of every JSON response.
type envelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
	Error      string      `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: false, Error: message})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, invoice.ErrInvalidPriceTable),
		errors.Is(err, invoice.ErrInvalidShiftSet),
		errors.Is(err, logs.ErrInvalidDate),
		errors.Is(err, logs.ErrRecipientMissing),
		errors.Is(err, mongodb.ErrInvalidID),
		errors.Is(err, whatsappclient.ErrEmptyRecipient):
		return http.StatusBadRequest
	case errors.Is(err, mongodb.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, whatsapp.ErrMessagingDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, whatsapp.ErrSendFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internal error details on 5xx responses.
func publicMessage(status int, err error, fallback string) string {
	if status < http.StatusInternalServerError || status == http.StatusServiceUnavailable || status == http.StatusBadGateway {
		return err.Error()
	}
	return fallback
}
