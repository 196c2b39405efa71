package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/oms/avatax/internal/domain/avatax"
	"github.com/oms/avatax/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockTransactionRepository creates a GormAvataxTransactionRepository with a mocked SQL connection
func newMockTransactionRepository(t *testing.T) (*GormAvataxTransactionRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return NewGormAvataxTransactionRepository(gormDB), mock, mockDB
}

func transactionRows(tx *avatax.Transaction) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "created_at", "updated_at", "order_id", "transaction_type", "code", "status", "voided_at"}).
		AddRow(tx.ID, tx.CreatedAt, tx.UpdatedAt, tx.OrderID, string(tx.Type), tx.Code, string(tx.Status), tx.VoidedAt)
}

func TestGormAvataxTransactionRepository_Record(t *testing.T) {
	t.Run("updates the code of an existing active transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		existing := avatax.NewTransaction(orderID, avatax.TransactionTypeSalesOrder, "OLD-CODE")

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "avatax_transactions" WHERE order_id = \$1 AND transaction_type = \$2 AND status = \$3 ORDER BY .* LIMIT .* FOR UPDATE`).
			WillReturnRows(transactionRows(existing))
		mock.ExpectExec(`UPDATE "avatax_transactions" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		recorded, err := repo.Record(context.Background(), orderID, avatax.TransactionTypeSalesOrder, "NEW-CODE")

		require.NoError(t, err)
		assert.Equal(t, existing.ID, recorded.ID)
		assert.Equal(t, "NEW-CODE", recorded.Code)
		assert.True(t, recorded.IsActive())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates a transaction when none is active", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "avatax_transactions" WHERE .* FOR UPDATE`).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectExec(`INSERT INTO "avatax_transactions"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		recorded, err := repo.Record(context.Background(), orderID, avatax.TransactionTypeSalesInvoice, "R100001")

		require.NoError(t, err)
		assert.Equal(t, orderID, recorded.OrderID)
		assert.Equal(t, avatax.TransactionTypeSalesInvoice, recorded.Type)
		assert.Equal(t, "R100001", recorded.Code)
		assert.True(t, recorded.IsActive())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost insert race maps to a concurrency conflict", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "avatax_transactions" WHERE .* FOR UPDATE`).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectExec(`INSERT INTO "avatax_transactions"`).
			WillReturnError(gorm.ErrDuplicatedKey)
		mock.ExpectRollback()

		_, err := repo.Record(context.Background(), uuid.New(), avatax.TransactionTypeSalesOrder, "R100001")

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAvataxTransactionRepository_FindActive(t *testing.T) {
	t.Run("finds the active transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		existing := avatax.NewTransaction(orderID, avatax.TransactionTypeSalesInvoice, "R100001")

		mock.ExpectQuery(`SELECT \* FROM "avatax_transactions" WHERE order_id = \$1 AND transaction_type = \$2 AND status = \$3 ORDER BY .* LIMIT .*`).
			WillReturnRows(transactionRows(existing))

		found, err := repo.FindActive(context.Background(), orderID, avatax.TransactionTypeSalesInvoice)

		require.NoError(t, err)
		assert.Equal(t, existing.ID, found.ID)
		assert.Equal(t, "R100001", found.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to not found", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "avatax_transactions" WHERE .*`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindActive(context.Background(), uuid.New(), avatax.TransactionTypeSalesOrder)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAvataxTransactionRepository_Void(t *testing.T) {
	t.Run("voids an active transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		tx := avatax.NewTransaction(uuid.New(), avatax.TransactionTypeSalesInvoice, "R100001")

		mock.ExpectExec(`UPDATE "avatax_transactions" SET .* WHERE id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Void(context.Background(), tx)

		require.NoError(t, err)
		assert.False(t, tx.IsActive())
		assert.NotNil(t, tx.VoidedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already voided transaction touches nothing", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		tx := avatax.NewTransaction(uuid.New(), avatax.TransactionTypeSalesInvoice, "R100001")
		tx.MarkVoided()
		voidedAt := *tx.VoidedAt

		err := repo.Void(context.Background(), tx)

		require.NoError(t, err)
		assert.Equal(t, voidedAt, *tx.VoidedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero affected rows is fine: another caller won", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		tx := avatax.NewTransaction(uuid.New(), avatax.TransactionTypeSalesInvoice, "R100001")

		mock.ExpectExec(`UPDATE "avatax_transactions" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.Void(context.Background(), tx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAvataxTransactionRepository_FindAllByOrder(t *testing.T) {
	t.Run("returns newest first, voided included", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		newer := avatax.NewTransaction(orderID, avatax.TransactionTypeSalesInvoice, "R100001")
		older := avatax.NewTransaction(orderID, avatax.TransactionTypeSalesOrder, "R100001")
		older.CreatedAt = older.CreatedAt.Add(-time.Hour)
		older.MarkVoided()

		rows := transactionRows(newer).
			AddRow(older.ID, older.CreatedAt, older.UpdatedAt, older.OrderID, string(older.Type), older.Code, string(older.Status), older.VoidedAt)

		mock.ExpectQuery(`SELECT \* FROM "avatax_transactions" WHERE order_id = \$1 ORDER BY created_at DESC`).
			WillReturnRows(rows)

		txs, err := repo.FindAllByOrder(context.Background(), orderID)

		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, newer.ID, txs[0].ID)
		assert.Equal(t, avatax.TransactionStatusVoided, txs[1].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result for an unknown order", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "avatax_transactions" WHERE order_id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		txs, err := repo.FindAllByOrder(context.Background(), uuid.New())

		require.NoError(t, err)
		assert.Empty(t, txs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
