package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/udelbo/acme-admin/internal/domain"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Customer{}, &domain.Invoice{}))
	return db
}

func TestCustomerRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCustomerRepository(testDB(t))

	customer := &domain.Customer{
		ID:       101,
		Name:     "Evil Rabbit",
		Email:    "evil@rabbit.com",
		ImageUrl: "/customers/evil-rabbit.png",
	}
	require.NoError(t, repo.Create(ctx, customer))

	got, err := repo.GetByID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, "Evil Rabbit", got.Name)

	err = repo.Update(ctx, 101, map[string]interface{}{
		"name":      "Good Rabbit",
		"email":     "good@rabbit.com",
		"image_url": "/customers/good_20240101_000000_000.png",
	})
	require.NoError(t, err)

	got, err = repo.GetByID(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, "Good Rabbit", got.Name)
	assert.Equal(t, "good@rabbit.com", got.Email)
	assert.Equal(t, "/customers/good_20240101_000000_000.png", got.ImageUrl)

	require.NoError(t, repo.Delete(ctx, 101))
	_, err = repo.GetByID(ctx, 101)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCustomerRepositoryDeleteAbsent(t *testing.T) {
	repo := NewGormCustomerRepository(testDB(t))
	assert.NoError(t, repo.Delete(context.Background(), 999))
}

func TestInvoiceRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewGormInvoiceRepository(testDB(t))

	invoice := &domain.Invoice{
		ID:         501,
		CustomerId: 101,
		Amount:     1050,
		Status:     domain.InvoiceStatusPending,
		Date:       "2024-03-07",
	}
	require.NoError(t, repo.Create(ctx, invoice))

	got, err := repo.GetByID(ctx, 501)
	require.NoError(t, err)
	assert.Equal(t, int64(1050), got.Amount)
	assert.Equal(t, "2024-03-07", got.Date)

	err = repo.Update(ctx, 501, map[string]interface{}{
		"customer_id": int64(102),
		"amount":      int64(333),
		"status":      domain.InvoiceStatusPaid,
	})
	require.NoError(t, err)

	got, err = repo.GetByID(ctx, 501)
	require.NoError(t, err)
	assert.Equal(t, int64(102), got.CustomerId)
	assert.Equal(t, int64(333), got.Amount)
	assert.Equal(t, domain.InvoiceStatusPaid, got.Status)
	assert.Equal(t, "2024-03-07", got.Date, "untouched columns keep their value")

	require.NoError(t, repo.Delete(ctx, 501))
	_, err = repo.GetByID(ctx, 501)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
