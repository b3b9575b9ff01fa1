package wallet

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

func walletRow(id int, kind OwnerKind, ownerID int, balance int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "owner_kind", "owner_id", "balance", "created_at", "updated_at"}).
		AddRow(id, string(kind), ownerID, balance, now, now)
}

const (
	lockWalletSQL    = `SELECT id, owner_kind, owner_id, balance, created_at, updated_at FROM wallets WHERE owner_kind = $1 AND owner_id = $2 FOR UPDATE`
	updateBalanceSQL = `UPDATE wallets SET balance = $1, updated_at = NOW() WHERE id = $2`
	insertTxSQL      = `INSERT INTO wallet_transactions (wallet_id, amount, kind, description, external_reference, balance_after) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	findByRefSQL     = `SELECT id, wallet_id, amount, kind, description, external_reference, balance_after, created_at FROM wallet_transactions WHERE external_reference = $1`
)

func TestSpendDecrementsBalanceAtomically(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockWalletSQL)).
		WithArgs("band", 7).
		WillReturnRows(walletRow(3, OwnerBand, 7, 25))
	mock.ExpectExec(regexp.QuoteMeta(updateBalanceSQL)).
		WithArgs(int64(15), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(insertTxSQL)).
		WithArgs(3, int64(-10), KindSpendBoost, nil, nil, int64(15)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(42, time.Now()))
	mock.ExpectCommit()

	tx, err := repo.Spend(context.Background(), OwnerBand, 7, 10, KindSpendBoost, "")
	require.NoError(t, err)
	require.Equal(t, 42, tx.ID)
	require.Equal(t, int64(-10), tx.Amount)
	require.Equal(t, int64(15), tx.BalanceAfter)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSpendInsufficientBalance(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockWalletSQL)).
		WithArgs("band", 7).
		WillReturnRows(walletRow(3, OwnerBand, 7, 5))
	mock.ExpectRollback()

	_, err := repo.Spend(context.Background(), OwnerBand, 7, 10, KindSpendBoost, "")
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSpendMissingWalletIsInsufficient(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockWalletSQL)).
		WithArgs("supporter", 99).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Spend(context.Background(), OwnerSupporter, 99, 1, KindSpendSongSlot, "")
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditWritesTransaction(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockWalletSQL)).
		WithArgs("venue", 4).
		WillReturnRows(walletRow(8, OwnerVenue, 4, 0))
	mock.ExpectExec(regexp.QuoteMeta(updateBalanceSQL)).
		WithArgs(int64(100), 8).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(insertTxSQL)).
		WithArgs(8, int64(100), KindEarnPromo, nil, nil, int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, time.Now()))
	mock.ExpectCommit()

	tx, created, err := repo.Credit(context.Background(), OwnerVenue, 4, 100, KindEarnPromo, "", "")
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, int64(100), tx.BalanceAfter)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditIdempotentByReference(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(findByRefSQL)).
		WithArgs("evt_123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "wallet_id", "amount", "kind", "description", "external_reference", "balance_after", "created_at"}).
			AddRow(11, 3, 100, KindEarnPurchase, nil, "evt_123", 100, now))
	mock.ExpectCommit()

	tx, created, err := repo.Credit(context.Background(), OwnerBand, 7, 100, KindEarnPurchase, "", "evt_123")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, 11, tx.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditUniqueViolationReturnsExisting(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(findByRefSQL)).
		WithArgs("evt_9").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(lockWalletSQL)).
		WithArgs("band", 2).
		WillReturnRows(walletRow(5, OwnerBand, 2, 50))
	mock.ExpectExec(regexp.QuoteMeta(updateBalanceSQL)).
		WithArgs(int64(60), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(insertTxSQL)).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()
	mock.ExpectQuery(regexp.QuoteMeta(findByRefSQL)).
		WithArgs("evt_9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "wallet_id", "amount", "kind", "description", "external_reference", "balance_after", "created_at"}).
			AddRow(30, 5, 10, KindEarnPurchase, nil, "evt_9", 60, now))

	tx, created, err := repo.Credit(context.Background(), OwnerBand, 2, 10, KindEarnPurchase, "", "evt_9")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, 30, tx.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateWalletUpsertsOnMiss(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, owner_kind, owner_id, balance, created_at, updated_at FROM wallets WHERE owner_kind = $1 AND owner_id = $2`)).
		WithArgs("supporter", 9).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO wallets (owner_kind, owner_id) VALUES ($1, $2) ON CONFLICT (owner_kind, owner_id) DO UPDATE SET updated_at = NOW() RETURNING id, owner_kind, owner_id, balance, created_at, updated_at`)).
		WithArgs("supporter", 9).
		WillReturnRows(walletRow(12, OwnerSupporter, 9, 0))

	w, err := repo.GetOrCreateWallet(context.Background(), OwnerSupporter, 9)
	require.NoError(t, err)
	require.Equal(t, 12, w.ID)
	require.Equal(t, int64(0), w.Balance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransactionsMissingWallet(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM wallets WHERE owner_kind = $1 AND owner_id = $2`)).
		WithArgs("band", 1).
		WillReturnError(sql.ErrNoRows)

	txs, err := repo.GetTransactions(context.Background(), OwnerBand, 1, 50, 0)
	require.NoError(t, err)
	require.Empty(t, txs)
	require.NoError(t, mock.ExpectationsWereMet())
}
