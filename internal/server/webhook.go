package server

import (
	"errors"
	"io"
	"net/http"

	paymentdomain "github.com/Pexry/pexry2-sub001/internal/payment/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const webhookBodyLimit = 1 << 20

// @Summary      Payment Webhook
// @Description  Ingest a NOWPayments IPN callback
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /webhooks/nowpayments [post]
func (s *Server) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, webhookBodyLimit))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	result, err := s.paymentSvc.IngestWebhook(
		c.Request.Context(),
		"nowpayments",
		c.ContentType(),
		body,
	)
	switch {
	case errors.Is(err, paymentdomain.ErrUnsupportedContentType):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported content type"})
		return
	case errors.Is(err, paymentdomain.ErrInvalidPayload):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	case err != nil:
		// The processor retries on non-2xx; after the event is
		// recorded, internal failures must not trigger a retry storm.
		s.log.Error("webhook processing failed",
			zap.String("provider", "nowpayments"),
			zap.Error(err),
		)
	default:
		s.log.Info("webhook processed",
			zap.String("provider", "nowpayments"),
			zap.String("result", string(result)),
		)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
