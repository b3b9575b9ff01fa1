package wallet

import (
	"context"
	"database/sql"
	"errors"

	"rocksalt/internal/metrics"
)

var (
	ErrNotAuthorized          = errors.New("not authorized for this wallet")
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrOwnerNotFound          = errors.New("owner entity not found")
)

// OwnerDirectory resolves claim ownership for one kind of marketplace entity
// (bands or venues). ClaimedBy returns sql.ErrNoRows when the entity does not
// exist and nil when it exists but is unclaimed.
type OwnerDirectory interface {
	ClaimedBy(ctx context.Context, id int) (*int, error)
}

// UserDirectory checks that a supporter account exists.
type UserDirectory interface {
	Exists(ctx context.Context, id int) (bool, error)
}

type Service interface {
	GetBalance(ctx context.Context, kind OwnerKind, ownerID, callerID, limit, offset int) (*BalanceResponse, error)
	Credit(ctx context.Context, kind OwnerKind, ownerID int, amount int64, txKind, description, externalRef string) (*Transaction, bool, error)
	Spend(ctx context.Context, kind OwnerKind, ownerID, callerID int, amount int64, txKind, description string) (*SpendResponse, error)
}

type service struct {
	repo   Repository
	bands  OwnerDirectory
	venues OwnerDirectory
	users  UserDirectory
}

func NewService(repo Repository, bands, venues OwnerDirectory, users UserDirectory) Service {
	return &service{
		repo:   repo,
		bands:  bands,
		venues: venues,
		users:  users,
	}
}

// authorize is the single ownership predicate: the caller must hold the claim
// on the band/venue, or be the account behind a supporter wallet.
func (s *service) authorize(ctx context.Context, kind OwnerKind, ownerID, callerID int) error {
	switch kind {
	case OwnerSupporter:
		if ownerID != callerID {
			return ErrNotAuthorized
		}
		return nil
	case OwnerBand, OwnerVenue:
		dir := s.bands
		if kind == OwnerVenue {
			dir = s.venues
		}
		claimedBy, err := dir.ClaimedBy(ctx, ownerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrOwnerNotFound
			}
			return err
		}
		if claimedBy == nil || *claimedBy != callerID {
			return ErrNotAuthorized
		}
		return nil
	}
	return ErrNotAuthorized
}

// ownerExists validates a credit target without requiring a caller identity.
func (s *service) ownerExists(ctx context.Context, kind OwnerKind, ownerID int) error {
	switch kind {
	case OwnerSupporter:
		exists, err := s.users.Exists(ctx, ownerID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrOwnerNotFound
		}
		return nil
	case OwnerBand, OwnerVenue:
		dir := s.bands
		if kind == OwnerVenue {
			dir = s.venues
		}
		if _, err := dir.ClaimedBy(ctx, ownerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrOwnerNotFound
			}
			return err
		}
		return nil
	}
	return ErrOwnerNotFound
}

func (s *service) GetBalance(ctx context.Context, kind OwnerKind, ownerID, callerID, limit, offset int) (*BalanceResponse, error) {
	if err := s.authorize(ctx, kind, ownerID, callerID); err != nil {
		return nil, err
	}

	w, err := s.repo.GetOrCreateWallet(ctx, kind, ownerID)
	if err != nil {
		return nil, err
	}

	txs, err := s.repo.GetTransactions(ctx, kind, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}

	return &BalanceResponse{Wallet: *w, Transactions: txs}, nil
}

func (s *service) Credit(ctx context.Context, kind OwnerKind, ownerID int, amount int64, txKind, description, externalRef string) (*Transaction, bool, error) {
	if amount <= 0 {
		return nil, false, ErrInvalidAmount
	}
	if !IsEarnKind(txKind) {
		return nil, false, ErrInvalidTransactionKind
	}
	if err := s.ownerExists(ctx, kind, ownerID); err != nil {
		return nil, false, err
	}

	t, created, err := s.repo.Credit(ctx, kind, ownerID, amount, txKind, description, externalRef)
	if err != nil {
		return nil, false, err
	}
	if created {
		metrics.RecordCredit(txKind)
	}
	return t, created, nil
}

func (s *service) Spend(ctx context.Context, kind OwnerKind, ownerID, callerID int, amount int64, txKind, description string) (*SpendResponse, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !IsSpendKind(txKind) {
		return nil, ErrInvalidTransactionKind
	}
	if err := s.authorize(ctx, kind, ownerID, callerID); err != nil {
		return nil, err
	}

	t, err := s.repo.Spend(ctx, kind, ownerID, amount, txKind, description)
	if err != nil {
		if errors.Is(err, ErrInsufficientBalance) {
			metrics.RecordInsufficientBalance()
		}
		return nil, err
	}
	metrics.RecordSpend(txKind)

	return &SpendResponse{
		TransactionID:   t.ID,
		PreviousBalance: t.BalanceAfter + amount,
		NewBalance:      t.BalanceAfter,
	}, nil
}
