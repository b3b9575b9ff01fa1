package wallet

import "context"

type Repository interface {
	GetOrCreateWallet(ctx context.Context, kind OwnerKind, ownerID int) (*Wallet, error)
	Credit(ctx context.Context, kind OwnerKind, ownerID int, amount int64, txKind, description, externalRef string) (*Transaction, bool, error)
	Spend(ctx context.Context, kind OwnerKind, ownerID int, amount int64, txKind, description string) (*Transaction, error)
	GetTransactions(ctx context.Context, kind OwnerKind, ownerID, limit, offset int) ([]Transaction, error)
}
