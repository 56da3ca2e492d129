package booking

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SpaBookingService/pkg/ptr"
)

var monday = time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock, db
}

func TestRepository_SumPartySize_ExcludesEditedBooking(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(party_size\), 0\) FROM bookings WHERE .*booking_date = \$1.*service_id = \$2.*slot = \$3.*status = \$4.*id <> \$5`).
		WithArgs(sqlmock.AnyArg(), int64(1), "12:00", "active", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(4))

	committed, err := repo.SumPartySize(context.Background(), domain.SlotKey{ServiceID: 1, Date: monday, Slot: "12:00"}, ptr.Ptr(int64(7)))

	require.NoError(t, err)
	assert.Equal(t, 4, committed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SumPartySize_StorageFailure(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectQuery(`SELECT COALESCE`).WillReturnError(errors.New("connection reset"))

	_, err := repo.SumPartySize(context.Background(), domain.SlotKey{ServiceID: 1, Date: monday, Slot: "12:00"}, nil)

	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestRepository_SumPartySizeBySlot(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectQuery(`SELECT slot, COALESCE\(SUM\(party_size\), 0\) FROM bookings WHERE .* GROUP BY slot`).
		WillReturnRows(sqlmock.NewRows([]string{"slot", "sum"}).
			AddRow("12:00", 4).
			AddRow("14:30", 6))

	result, err := repo.SumPartySizeBySlot(context.Background(), 1, monday)

	require.NoError(t, err)
	assert.Equal(t, 4, result["12:00"])
	assert.Equal(t, 6, result["14:30"])
}

func TestRepository_LockSlot_RequiresTransaction(t *testing.T) {
	repo, _, _ := newMock(t)

	err := repo.LockSlot(context.Background(), domain.SlotKey{ServiceID: 1, Date: monday, Slot: "12:00"})

	assert.ErrorIs(t, err, ErrTransaction)
}

func TestRepository_LockSlot_InTransaction(t *testing.T) {
	repo, mock, db := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtext\(\$1\)\)`).
		WithArgs("bookings/1/2025-11-10/12:00").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), &dbmetrics.SqlTxWrapper{Tx: tx})

	require.NoError(t, repo.LockSlot(ctx, domain.SlotKey{ServiceID: 1, Date: monday, Slot: "12:00"}))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Cancel_NotActive(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectExec(`UPDATE bookings SET status = \$1, cancellation_reason = \$2, cancelled_at = NOW\(\), updated_at = NOW\(\) WHERE`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Cancel(context.Background(), 10, "guest request")

	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectQuery(`SELECT id, checkout_ref, .* FROM bookings WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_Create(t *testing.T) {
	repo, mock, _ := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO bookings .* RETURNING id, status, created_at, updated_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at", "updated_at"}).
			AddRow(int64(5), "active", now, now))

	b, err := repo.Create(context.Background(), &domain.Booking{
		CheckoutRef: "7b0c4c1e-8c57-4f43-9a2e-8f4e0d0b7a11",
		ServiceID:   1,
		Date:        monday,
		Slot:        "12:00",
		PartySize:   4,
		ServiceName: "HotTub",
		Category:    domain.CategoryHotTub,
		UnitPrice:   30000,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), b.ID)
	assert.Equal(t, domain.StatusActive, b.Status)
}
