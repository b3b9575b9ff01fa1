package band

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
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

func riderRows(id, bandID int, status RiderStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "band_id", "guarantee_min", "guarantee_max", "min_stage_width_feet",
		"min_stage_depth_feet", "min_input_channels", "requires_house_drums", "age_restriction",
		"status", "published_at", "created_at", "updated_at",
	}).AddRow(id, bandID, 20000, 50000, 16, 12, 16, false, "18+", string(status), nil, now, now)
}

func TestCreateBand(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO bands (name, slug) VALUES ($1, $2) RETURNING id, name, slug, claimed_by, created_at`)).
		WithArgs("Spider Riders", "spider-riders").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "claimed_by", "created_at"}).
			AddRow(1, "Spider Riders", "spider-riders", nil, now))

	b, err := repo.CreateBand(context.Background(), "Spider Riders", "spider-riders")
	require.NoError(t, err)
	require.Equal(t, 1, b.ID)
	require.Nil(t, b.ClaimedBy)
}

func TestClaimBandFirstComeOnly(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	claimSQL := regexp.QuoteMeta(`UPDATE bands SET claimed_by = $1 WHERE id = $2 AND claimed_by IS NULL`)

	mock.ExpectExec(claimSQL).
		WithArgs(10, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ClaimBand(context.Background(), 1, 10))

	// second claim hits zero rows, band exists -> already claimed
	mock.ExpectExec(claimSQL).
		WithArgs(11, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, slug, claimed_by, created_at FROM bands WHERE id = $1`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "claimed_by", "created_at"}).
			AddRow(1, "Spider Riders", "spider-riders", 10, time.Now()))

	err := repo.ClaimBand(context.Background(), 1, 11)
	require.ErrorIs(t, err, ErrAlreadyClaimed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRiderOnlyWhileDraft(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	updateSQL := `UPDATE riders SET guarantee_min = \$1.*WHERE id = \$8 AND status = 'draft'.*`

	// draft rider updates
	mock.ExpectQuery(updateSQL).
		WillReturnRows(riderRows(5, 1, RiderDraft))

	rider, err := repo.UpdateRider(context.Background(), 5, RiderInput{})
	require.NoError(t, err)
	require.Equal(t, RiderDraft, rider.Status)

	// published rider: the guarded update misses, the follow-up read finds it
	mock.ExpectQuery(updateSQL).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT id, band_id, guarantee_min.*FROM riders WHERE id = \$1`).
		WithArgs(5).
		WillReturnRows(riderRows(5, 1, RiderPublished))

	_, err = repo.UpdateRider(context.Background(), 5, RiderInput{})
	require.ErrorIs(t, err, ErrRiderNotDraft)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishRiderSupersedesPrevious(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT band_id FROM riders WHERE id = $1 AND status = 'draft'`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"band_id"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE riders SET status = 'withdrawn', updated_at = NOW() WHERE band_id = $1 AND status = 'published'`)).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE riders SET status = 'published', published_at = NOW(), updated_at = NOW() WHERE id = $1 RETURNING`)).
		WithArgs(7).
		WillReturnRows(riderRows(7, 2, RiderPublished))
	mock.ExpectCommit()

	rider, err := repo.PublishRider(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, RiderPublished, rider.Status)
	require.Equal(t, 2, rider.BandID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawRiderRequiresPublished(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	withdrawSQL := regexp.QuoteMeta(`UPDATE riders SET status = 'withdrawn', updated_at = NOW() WHERE id = $1 AND status = 'published'`)

	mock.ExpectExec(withdrawSQL).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.WithdrawRider(context.Background(), 7))

	mock.ExpectExec(withdrawSQL).
		WithArgs(8).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.WithdrawRider(context.Background(), 8), ErrRiderNotFound)
}

func TestListPublishedRiders(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	rows := riderRows(1, 1, RiderPublished)
	now := time.Now()
	rows.AddRow(4, 2, nil, nil, nil, nil, nil, true, nil, "published", now, now, now)

	mock.ExpectQuery(`SELECT id, band_id, guarantee_min.*FROM riders WHERE status = 'published' ORDER BY id`).
		WillReturnRows(rows)

	riders, err := repo.ListPublishedRiders(context.Background())
	require.NoError(t, err)
	require.Len(t, riders, 2)
	require.Nil(t, riders[1].GuaranteeMin)
	require.True(t, riders[1].RequiresHouseDrums)
}
