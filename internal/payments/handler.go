package payments

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"rocksalt/internal/logger"
	"rocksalt/internal/metrics"
	"rocksalt/internal/wallet"

	"github.com/gin-gonic/gin"
)

// Event is the confirmed-payment callback delivered by the payment provider.
// The provider may redeliver the same event; idempotency rests on the wallet
// service keying credits by ProviderTransactionID.
type Event struct {
	ProviderTransactionID string   `json:"provider_transaction_id" binding:"required"`
	Amount                int64    `json:"amount" binding:"required,gt=0"`
	Metadata              Metadata `json:"metadata" binding:"required"`
}

type Metadata struct {
	OwnerKind string `json:"owner_kind" binding:"required"`
	OwnerID   int    `json:"owner_id" binding:"required,gt=0"`
	PackageID string `json:"package_id"`
}

type Handler struct {
	wallets wallet.Service
	secret  string
}

func NewHandler(wallets wallet.Service, secret string) *Handler {
	return &Handler{wallets: wallets, secret: secret}
}

// HandleEvent godoc
// @Summary      Payment provider callback
// @Description  Credits the target wallet for a confirmed purchase. Safe to redeliver: duplicate events are acknowledged without crediting twice. Non-2xx tells the provider to retry.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        X-Webhook-Secret  header  string  true  "Shared webhook secret"
// @Param        event             body    Event   true  "Confirmed payment event"
// @Success      200  {object}  gin.H
// @Failure      400  {object}  gin.H
// @Failure      401  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /webhooks/payments [post]
func (h *Handler) HandleEvent(c *gin.Context) {
	if h.secret != "" {
		provided := c.GetHeader("X-Webhook-Secret")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
			return
		}
	}

	var event Event
	if err := c.ShouldBindJSON(&event); err != nil {
		metrics.RecordPaymentEvent("malformed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment event payload"})
		return
	}

	kind, ok := wallet.ParseOwnerKind(event.Metadata.OwnerKind)
	if !ok {
		// Reporting concern, not a core invariant: acknowledge so the
		// provider stops redelivering a payload we can never apply.
		logger.Error("payment event with unknown owner kind dropped",
			"provider_transaction_id", event.ProviderTransactionID,
			"owner_kind", event.Metadata.OwnerKind,
		)
		metrics.RecordPaymentEvent("dropped")
		c.JSON(http.StatusOK, gin.H{"status": "dropped"})
		return
	}

	description := "Salt Rocks purchase"
	if event.Metadata.PackageID != "" {
		description = "Salt Rocks purchase: " + event.Metadata.PackageID
	}

	tx, created, err := h.wallets.Credit(
		c.Request.Context(),
		kind,
		event.Metadata.OwnerID,
		event.Amount,
		wallet.KindEarnPurchase,
		description,
		event.ProviderTransactionID,
	)
	if err != nil {
		if errors.Is(err, wallet.ErrOwnerNotFound) {
			logger.Error("payment event for unrecognized owner dropped",
				"provider_transaction_id", event.ProviderTransactionID,
				"owner_kind", kind,
				"owner_id", event.Metadata.OwnerID,
			)
			metrics.RecordPaymentEvent("dropped")
			c.JSON(http.StatusOK, gin.H{"status": "dropped"})
			return
		}
		// Transient store failure: non-2xx so the provider redelivers.
		logger.Errorf("failed to credit payment event %s: %v", event.ProviderTransactionID, err)
		metrics.RecordPaymentEvent("error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply payment event"})
		return
	}

	if !created {
		metrics.RecordPaymentEvent("duplicate")
		c.JSON(http.StatusOK, gin.H{"status": "duplicate", "transaction_id": tx.ID})
		return
	}

	metrics.RecordPaymentEvent("credited")
	c.JSON(http.StatusOK, gin.H{"status": "credited", "transaction_id": tx.ID})
}
