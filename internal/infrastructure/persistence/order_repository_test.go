package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/oms/avatax/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockOrderRepository creates a GormOrderRepository with a mocked SQL connection
func newMockOrderRepository(t *testing.T) (*GormOrderRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormOrderRepository(gormDB), mock, mockDB
}

func emptyChildRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "order_id"})
}

func TestGormOrderRepository_FindByID(t *testing.T) {
	t.Run("loads the order with its associations", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		now := time.Now()

		orderRows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at", "version",
			"number", "currency_code", "customer_code", "status",
			"tax_zone_name", "tax_included_in_price", "has_tax_zone",
			"tax_line1", "tax_city",
		}).AddRow(
			orderID, now, now, 1,
			"R100001", "USD", "CUST-1", "CONFIRMED",
			"US-CA", false, true,
			"1 Main St", "Sacramento",
		)

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WillReturnRows(orderRows)
		mock.ExpectQuery(`SELECT \* FROM "order_line_items" WHERE "order_line_items"."order_id" = \$1`).
			WillReturnRows(emptyChildRows())
		mock.ExpectQuery(`SELECT \* FROM "order_shipments" WHERE "order_shipments"."order_id" = \$1`).
			WillReturnRows(emptyChildRows())
		mock.ExpectQuery(`SELECT \* FROM "order_tax_adjustments" WHERE "order_tax_adjustments"."order_id" = \$1`).
			WillReturnRows(emptyChildRows())

		o, err := repo.FindByID(context.Background(), orderID)

		require.NoError(t, err)
		assert.Equal(t, orderID, o.ID)
		assert.Equal(t, "R100001", o.Number)
		require.NotNil(t, o.TaxZone)
		assert.Equal(t, "US-CA", o.TaxZone.Name)
		require.NotNil(t, o.TaxAddress)
		assert.Equal(t, "1 Main St", o.TaxAddress.Line1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing order to not found", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_FindByNumber(t *testing.T) {
	t.Run("maps missing order to not found", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE number = \$1`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByNumber(context.Background(), "R404")

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
