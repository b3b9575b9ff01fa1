package wallet

import (
	"errors"
	"net/http"
	"strconv"

	"rocksalt/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func ownerFromPath(c *gin.Context) (OwnerKind, int, bool) {
	kind, ok := ParseOwnerKind(c.Param("ownerKind"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner kind must be band, venue or supporter"})
		return "", 0, false
	}

	ownerID, err := strconv.Atoi(c.Param("ownerID"))
	if err != nil || ownerID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid owner id"})
		return "", 0, false
	}

	return kind, ownerID, true
}

// GetBalance godoc
// @Summary      Get wallet balance
// @Description  Returns the wallet balance and recent transactions, newest first. Caller must own the entity.
// @Tags         wallet
// @Security     BearerAuth
// @Produce      json
// @Param        ownerKind  path   string  true  "band, venue or supporter"
// @Param        ownerID    path   int     true  "Owner entity id"
// @Param        limit      query  int     false "Max transactions to return (default 50)"
// @Param        offset     query  int     false "Pagination offset"
// @Success      200  {object}  BalanceResponse
// @Failure      400  {object}  gin.H
// @Failure      403  {object}  gin.H
// @Router       /wallets/{ownerKind}/{ownerID} [get]
func (h *Handler) GetBalance(c *gin.Context) {
	callerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	kind, ownerID, ok := ownerFromPath(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := h.svc.GetBalance(c.Request.Context(), kind, ownerID, callerID, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "you do not own this wallet"})
		case errors.Is(err, ErrOwnerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "owner entity not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load wallet"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Spend godoc
// @Summary      Spend Salt Rocks
// @Description  Debits the wallet atomically. Fails with 422 when the balance is too low.
// @Tags         wallet
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        ownerKind  path  string        true  "band, venue or supporter"
// @Param        ownerID    path  int           true  "Owner entity id"
// @Param        request    body  SpendRequest  true  "Spend details"
// @Success      200  {object}  SpendResponse
// @Failure      400  {object}  gin.H
// @Failure      403  {object}  gin.H
// @Failure      422  {object}  gin.H
// @Router       /wallets/{ownerKind}/{ownerID}/spend [post]
func (h *Handler) Spend(c *gin.Context) {
	callerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	kind, ownerID, ok := ownerFromPath(c)
	if !ok {
		return
	}

	var req SpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount and kind are required, amount must be positive"})
		return
	}

	resp, err := h.svc.Spend(c.Request.Context(), kind, ownerID, callerID, req.Amount, req.Kind, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "you do not own this wallet"})
		case errors.Is(err, ErrInvalidTransactionKind), errors.Is(err, ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrOwnerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "owner entity not found"})
		case errors.Is(err, ErrInsufficientBalance):
			h.respondInsufficientBalance(c, kind, ownerID, callerID)
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to spend"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// respondInsufficientBalance includes the current balance so the client can
// offer a top-up.
func (h *Handler) respondInsufficientBalance(c *gin.Context, kind OwnerKind, ownerID, callerID int) {
	resp, err := h.svc.GetBalance(c.Request.Context(), kind, ownerID, callerID, 0, 0)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "insufficient balance"})
		return
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":   "insufficient balance",
		"balance": resp.Wallet.Balance,
	})
}

// ListTransactions godoc
// @Summary      List wallet transactions
// @Tags         wallet
// @Security     BearerAuth
// @Produce      json
// @Param        ownerKind  path   string  true  "band, venue or supporter"
// @Param        ownerID    path   int     true  "Owner entity id"
// @Param        limit      query  int     false "Max transactions (default 50)"
// @Param        offset     query  int     false "Pagination offset"
// @Success      200  {array}   Transaction
// @Failure      403  {object}  gin.H
// @Router       /wallets/{ownerKind}/{ownerID}/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	callerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	kind, ownerID, ok := ownerFromPath(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := h.svc.GetBalance(c.Request.Context(), kind, ownerID, callerID, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "you do not own this wallet"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		}
		return
	}

	c.JSON(http.StatusOK, resp.Transactions)
}
