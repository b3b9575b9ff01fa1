package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
)

const uniqueViolation = "23505"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreateWallet(ctx context.Context, kind OwnerKind, ownerID int) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w,
		`SELECT id, owner_kind, owner_id, balance, created_at, updated_at
		 FROM wallets
		 WHERE owner_kind = $1 AND owner_id = $2`,
		kind, ownerID,
	)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Upsert so two concurrent first-time accesses agree on one wallet row.
	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO wallets (owner_kind, owner_id)
		 VALUES ($1, $2)
		 ON CONFLICT (owner_kind, owner_id) DO UPDATE SET updated_at = NOW()
		 RETURNING id, owner_kind, owner_id, balance, created_at, updated_at`,
		kind, ownerID,
	).StructScan(w)
	if err != nil {
		return nil, err
	}

	return w, nil
}

// lockWallet selects the wallet row FOR UPDATE inside tx, creating it first if
// absent. The upsert locks the conflicting row, so the returned balance is
// stable until commit.
func (r *repository) lockWallet(ctx context.Context, tx *sqlx.Tx, kind OwnerKind, ownerID int, createIfMissing bool) (*Wallet, error) {
	var w Wallet
	err := tx.QueryRowxContext(ctx,
		`SELECT id, owner_kind, owner_id, balance, created_at, updated_at
		 FROM wallets
		 WHERE owner_kind = $1 AND owner_id = $2
		 FOR UPDATE`,
		kind, ownerID,
	).StructScan(&w)
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if !createIfMissing {
		return nil, sql.ErrNoRows
	}

	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallets (owner_kind, owner_id)
		 VALUES ($1, $2)
		 ON CONFLICT (owner_kind, owner_id) DO UPDATE SET updated_at = NOW()
		 RETURNING id, owner_kind, owner_id, balance, created_at, updated_at`,
		kind, ownerID,
	).StructScan(&w)
	if err != nil {
		return nil, err
	}

	return &w, nil
}

func (r *repository) insertTransaction(ctx context.Context, tx *sqlx.Tx, walletID int, amount int64, txKind, description, externalRef string, balanceAfter int64) (*Transaction, error) {
	t := &Transaction{
		WalletID:     walletID,
		Amount:       amount,
		Kind:         txKind,
		BalanceAfter: balanceAfter,
	}
	var desc, ref *string
	if description != "" {
		desc = &description
		t.Description = desc
	}
	if externalRef != "" {
		ref = &externalRef
		t.ExternalReference = ref
	}

	err := tx.QueryRowxContext(ctx,
		`INSERT INTO wallet_transactions (wallet_id, amount, kind, description, external_reference, balance_after)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		walletID, amount, txKind, desc, ref, balanceAfter,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *repository) findByReference(ctx context.Context, q sqlx.QueryerContext, externalRef string) (*Transaction, error) {
	var t Transaction
	err := sqlx.GetContext(ctx, q, &t,
		`SELECT id, wallet_id, amount, kind, description, external_reference, balance_after, created_at
		 FROM wallet_transactions
		 WHERE external_reference = $1`,
		externalRef,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Credit appends a positive transaction. When externalRef is non-empty the
// operation is idempotent: a transaction already carrying that reference is
// returned unchanged and the balance is not touched. The bool result reports
// whether a new transaction was written.
func (r *repository) Credit(ctx context.Context, kind OwnerKind, ownerID int, amount int64, txKind, description, externalRef string) (*Transaction, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	if externalRef != "" {
		existing, err := r.findByReference(ctx, tx, externalRef)
		if err == nil {
			return existing, false, tx.Commit()
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, false, err
		}
	}

	w, err := r.lockWallet(ctx, tx, kind, ownerID, true)
	if err != nil {
		return nil, false, err
	}

	newBalance := w.Balance + amount

	if _, err := tx.ExecContext(ctx,
		`UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`,
		newBalance, w.ID,
	); err != nil {
		return nil, false, err
	}

	t, err := r.insertTransaction(ctx, tx, w.ID, amount, txKind, description, externalRef, newBalance)
	if err != nil {
		// Unique index on external_reference is the backstop against a
		// concurrent credit for the same event slipping past the lookup.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			tx.Rollback()
			existing, ferr := r.findByReference(ctx, r.db, externalRef)
			if ferr != nil {
				return nil, false, ferr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	return t, true, tx.Commit()
}

// Spend appends a negative transaction. The balance check and decrement run
// inside one transaction with the wallet row locked, so two concurrent spends
// can never both succeed past the balance.
func (r *repository) Spend(ctx context.Context, kind OwnerKind, ownerID int, amount int64, txKind, description string) (*Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	w, err := r.lockWallet(ctx, tx, kind, ownerID, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Never-created wallet is a zero balance, not an error.
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}

	newBalance := w.Balance - amount
	if newBalance < 0 {
		return nil, ErrInsufficientBalance
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`,
		newBalance, w.ID,
	); err != nil {
		return nil, err
	}

	t, err := r.insertTransaction(ctx, tx, w.ID, -amount, txKind, description, "", newBalance)
	if err != nil {
		return nil, err
	}

	return t, tx.Commit()
}

func (r *repository) GetTransactions(ctx context.Context, kind OwnerKind, ownerID, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var walletID int
	err := r.db.GetContext(ctx, &walletID,
		`SELECT id FROM wallets WHERE owner_kind = $1 AND owner_id = $2`,
		kind, ownerID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Transaction{}, nil
		}
		return nil, err
	}

	var txs []Transaction
	err = r.db.SelectContext(ctx, &txs, `
		SELECT id, wallet_id, amount, kind, description, external_reference, balance_after, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3
	`, walletID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}
