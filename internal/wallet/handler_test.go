package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupHandlerRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// inject the caller identity the auth middleware would normally set
	r.Use(func(c *gin.Context) {
		c.Set("user_id", 10)
		c.Next()
	})

	h := NewHandler(svc)
	r.GET("/wallets/:ownerKind/:ownerID", h.GetBalance)
	r.POST("/wallets/:ownerKind/:ownerID/spend", h.Spend)
	r.GET("/wallets/:ownerKind/:ownerID/transactions", h.ListTransactions)
	return r
}

func newHandlerService(t *testing.T) Service {
	t.Helper()
	svc := newTestService(newFakeRepo())
	_, _, err := svc.Credit(context.Background(), OwnerBand, 1, 20, KindEarnPromo, "", "")
	require.NoError(t, err)
	return svc
}

func TestHandlerSpendSuccess(t *testing.T) {
	r := setupHandlerRouter(newHandlerService(t))

	body, _ := json.Marshal(SpendRequest{Amount: BoostCost, Kind: KindSpendBoost})
	req := httptest.NewRequest(http.MethodPost, "/wallets/band/1/spend", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp SpendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(20), resp.PreviousBalance)
	require.Equal(t, int64(10), resp.NewBalance)
}

func TestHandlerSpendInsufficientIncludesBalance(t *testing.T) {
	r := setupHandlerRouter(newHandlerService(t))

	body, _ := json.Marshal(SpendRequest{Amount: FeaturedWeekCost, Kind: KindSpendFeatured})
	req := httptest.NewRequest(http.MethodPost, "/wallets/band/1/spend", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Error   string `json:"error"`
		Balance int64  `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "insufficient balance", resp.Error)
	require.Equal(t, int64(20), resp.Balance)
}

func TestHandlerSpendForbiddenForNonOwner(t *testing.T) {
	svc := newTestService(newFakeRepo())
	r := setupHandlerRouter(svc)

	// venue 1 is claimed by user 20, the injected caller is 10
	body, _ := json.Marshal(SpendRequest{Amount: BoostCost, Kind: KindSpendBoost})
	req := httptest.NewRequest(http.MethodPost, "/wallets/venue/1/spend", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandlerRejectsUnknownOwnerKind(t *testing.T) {
	r := setupHandlerRouter(newTestService(newFakeRepo()))

	req := httptest.NewRequest(http.MethodGet, "/wallets/label/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerGetBalance(t *testing.T) {
	r := setupHandlerRouter(newHandlerService(t))

	req := httptest.NewRequest(http.MethodGet, "/wallets/band/1?limit=10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp BalanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(20), resp.Wallet.Balance)
	require.Len(t, resp.Transactions, 1)
}
