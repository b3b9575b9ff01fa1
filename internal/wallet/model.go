package wallet

import (
	"strings"
	"time"
)

// OwnerKind identifies which kind of entity a wallet belongs to.
type OwnerKind string

const (
	OwnerBand      OwnerKind = "band"
	OwnerVenue     OwnerKind = "venue"
	OwnerSupporter OwnerKind = "supporter"
)

func ParseOwnerKind(s string) (OwnerKind, bool) {
	switch OwnerKind(s) {
	case OwnerBand, OwnerVenue, OwnerSupporter:
		return OwnerKind(s), true
	}
	return "", false
}

// Transaction kinds. Spends mirror the Salt Rocks price list; earns come from
// the payment bridge or promo grants.
const (
	KindSpendBoost    = "spend_boost"
	KindSpendFeatured = "spend_featured"
	KindSpendContract = "spend_contract"
	KindSpendSongSlot = "spend_song_slot"
	KindEarnPurchase  = "earn_purchase"
	KindEarnPromo     = "earn_promo"
)

// Salt Rocks prices for the well-known spends.
const (
	BoostCost        int64 = 10
	ContractCost     int64 = 25
	SongSlotCost     int64 = 10
	FeaturedWeekCost int64 = 100
)

var spendKinds = map[string]bool{
	KindSpendBoost:    true,
	KindSpendFeatured: true,
	KindSpendContract: true,
	KindSpendSongSlot: true,
}

var earnKinds = map[string]bool{
	KindEarnPurchase: true,
	KindEarnPromo:    true,
}

func IsSpendKind(kind string) bool {
	return strings.HasPrefix(kind, "spend_") && spendKinds[kind]
}

func IsEarnKind(kind string) bool {
	return strings.HasPrefix(kind, "earn_") && earnKinds[kind]
}

// Wallet holds the Salt Rocks balance for one owner entity.
// Balance is always the sum of all transaction amounts for the wallet.
type Wallet struct {
	ID        int       `db:"id" json:"id"`
	OwnerKind OwnerKind `db:"owner_kind" json:"owner_kind"`
	OwnerID   int       `db:"owner_id" json:"owner_id"`
	Balance   int64     `db:"balance" json:"balance"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Transaction is one immutable ledger entry. Amount is positive for credits,
// negative for spends. BalanceAfter snapshots the wallet balance at write time.
type Transaction struct {
	ID                int       `db:"id" json:"id"`
	WalletID          int       `db:"wallet_id" json:"wallet_id"`
	Amount            int64     `db:"amount" json:"amount"`
	Kind              string    `db:"kind" json:"kind"`
	Description       *string   `db:"description" json:"description,omitempty"`
	ExternalReference *string   `db:"external_reference" json:"external_reference,omitempty"`
	BalanceAfter      int64     `db:"balance_after" json:"balance_after"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

type SpendRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Kind        string `json:"kind" binding:"required"`
	Description string `json:"description"`
}

type SpendResponse struct {
	TransactionID   int   `json:"transaction_id"`
	PreviousBalance int64 `json:"previous_balance"`
	NewBalance      int64 `json:"new_balance"`
}

type BalanceResponse struct {
	Wallet       Wallet        `json:"wallet"`
	Transactions []Transaction `json:"transactions"`
}
