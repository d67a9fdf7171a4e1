package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udelbo/acme-admin/config"
	"github.com/udelbo/acme-admin/internal/domain"
	"github.com/udelbo/acme-admin/pkg/common"
)

func testApplication(t *testing.T) *Application {
	t.Helper()
	workdir := t.TempDir()
	cfg := config.DefaultAppConfig()
	cfg.System.Workdir = workdir
	cfg.System.DemoData = true
	cfg.Database.Type = "sqlite"
	cfg.Uploads.Dir = filepath.Join(workdir, "public", "customers")

	a := NewApplication(cfg)
	a.Init(cfg)
	require.NoError(t, a.MigrateDB())
	return a
}

func TestInitDbSeedsSuperAdmin(t *testing.T) {
	a := testApplication(t)
	a.InitDb()

	var opr domain.SysOpr
	require.NoError(t, a.DB().Where("username = ?", "admin").First(&opr).Error)
	assert.Equal(t, "super", opr.Level)
	assert.Equal(t, common.ENABLED, opr.Status)

	_, err := a.Auth().SignIn(context.Background(), "admin", "changeme")
	require.NoError(t, err)
}

func TestInitDbReenablesDisabledSuperAdmin(t *testing.T) {
	a := testApplication(t)
	a.InitDb()

	require.NoError(t, a.DB().Model(&domain.SysOpr{}).
		Where("username = ?", "admin").
		Update("status", common.DISABLED).Error)

	a.InitDb()

	var opr domain.SysOpr
	require.NoError(t, a.DB().Where("username = ?", "admin").First(&opr).Error)
	assert.Equal(t, common.ENABLED, opr.Status)
}

func TestInitDbDemoDataIdempotent(t *testing.T) {
	a := testApplication(t)
	a.InitDb()
	a.InitDb()

	var customers, invoices, revenue int64
	a.DB().Model(&domain.Customer{}).Count(&customers)
	a.DB().Model(&domain.Invoice{}).Count(&invoices)
	a.DB().Model(&domain.Revenue{}).Count(&revenue)
	assert.Equal(t, int64(6), customers)
	assert.Equal(t, int64(13), invoices)
	assert.Equal(t, int64(12), revenue)
}

func TestRollupRevenue(t *testing.T) {
	a := testApplication(t)
	db := a.DB()

	rows := []domain.Invoice{
		{ID: common.UUIDint64(), CustomerId: 1, Amount: 1000, Status: domain.InvoiceStatusPaid, Date: "2023-06-17"},
		{ID: common.UUIDint64(), CustomerId: 1, Amount: 250, Status: domain.InvoiceStatusPaid, Date: "2023-06-03"},
		{ID: common.UUIDint64(), CustomerId: 2, Amount: 9999, Status: domain.InvoiceStatusPending, Date: "2023-06-09"},
		{ID: common.UUIDint64(), CustomerId: 2, Amount: 500, Status: domain.InvoiceStatusPaid, Date: "2023-07-01"},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	a.RollupRevenue()

	var jun domain.Revenue
	require.NoError(t, db.Where("month = ?", "Jun").First(&jun).Error)
	assert.Equal(t, int64(1250), jun.Revenue, "pending invoices do not count")

	var jul domain.Revenue
	require.NoError(t, db.Where("month = ?", "Jul").First(&jul).Error)
	assert.Equal(t, int64(500), jul.Revenue)

	// Rerun with more paid revenue; the month row is updated, not duplicated.
	require.NoError(t, db.Create(&domain.Invoice{
		ID: common.UUIDint64(), CustomerId: 1, Amount: 750,
		Status: domain.InvoiceStatusPaid, Date: "2023-06-20",
	}).Error)
	a.RollupRevenue()

	var months int64
	db.Model(&domain.Revenue{}).Where("month = ?", "Jun").Count(&months)
	assert.Equal(t, int64(1), months)
	require.NoError(t, db.Where("month = ?", "Jun").First(&jun).Error)
	assert.Equal(t, int64(2000), jun.Revenue)
}

func TestSweepOrphanUploads(t *testing.T) {
	a := testApplication(t)
	dir := a.appConfig.Uploads.Dir

	old := time.Now().Add(-48 * time.Hour)
	writeUpload := func(name string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("img"), 0o600))
		require.NoError(t, os.Chtimes(p, old, old))
		return p
	}

	orphan := writeUpload("gone_20240101_010203_000.png")
	kept := writeUpload("kept_20240101_010203_001.png")
	plain := writeUpload("default.png")

	fresh := filepath.Join(dir, "new_20240101_010203_002.png")
	require.NoError(t, os.WriteFile(fresh, []byte("img"), 0o600))

	require.NoError(t, a.DB().Create(&domain.Customer{
		ID:       common.UUIDint64(),
		Name:     "Keeper",
		Email:    "keeper@example.com",
		ImageUrl: "/customers/kept_20240101_010203_001.png",
	}).Error)

	a.SweepOrphanUploads()

	assert.NoFileExists(t, orphan, "unreferenced stamped upload is removed")
	assert.FileExists(t, kept, "referenced upload survives")
	assert.FileExists(t, plain, "non-stamped files are never touched")
	assert.FileExists(t, fresh, "recent files survive")
}
