package app

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/udelbo/acme-admin/internal/auth"
	"github.com/udelbo/acme-admin/internal/domain"
	"github.com/udelbo/acme-admin/pkg/common"
)

func dbTables() []interface{} {
	return domain.Tables
}

// InitDb seeds the minimum data the dashboard needs to come up: the super
// operator and, when demo data is enabled, placeholder customers, invoices
// and revenue rows.
func (a *Application) InitDb() {
	a.checkSuper()
	if a.appConfig.System.DemoData {
		a.checkDemoData()
	}
}

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "changeme"

	var operator domain.SysOpr
	err := a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashed, herr := auth.HashPassword(defaultPassword)
		if herr != nil {
			zap.L().Error("hash default password failed", zap.Error(herr))
			return
		}
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Email:     "admin@example.com",
			Username:  superUsername,
			Password:  hashed,
			Level:     "super",
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	if strings.EqualFold(operator.Status, common.ENABLED) {
		return
	}
	if err := a.gormDB.Model(&domain.SysOpr{}).
		Where("id = ?", operator.ID).
		Updates(map[string]interface{}{"status": common.ENABLED, "updated_at": time.Now()}).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}
	zap.L().Warn("re-enabled default super admin account", zap.String("username", superUsername))
}

// checkDemoData initializes placeholder dashboard data
func (a *Application) checkDemoData() {
	var count int64
	a.gormDB.Model(&domain.Customer{}).Count(&count)
	if count > 0 {
		return
	}

	demoCustomers := []domain.Customer{
		{Name: "Evil Rabbit", Email: "evil@rabbit.com", ImageUrl: "/customers/evil-rabbit.png"},
		{Name: "Delba de Oliveira", Email: "delba@oliveira.com", ImageUrl: "/customers/delba-de-oliveira.png"},
		{Name: "Lee Robinson", Email: "lee@robinson.com", ImageUrl: "/customers/lee-robinson.png"},
		{Name: "Michael Novotny", Email: "michael@novotny.com", ImageUrl: "/customers/michael-novotny.png"},
		{Name: "Amy Burns", Email: "amy@burns.com", ImageUrl: "/customers/amy-burns.png"},
		{Name: "Balazs Orban", Email: "balazs@orban.com", ImageUrl: "/customers/balazs-orban.png"},
	}
	for i := range demoCustomers {
		demoCustomers[i].ID = common.UUIDint64()
		if err := a.gormDB.Create(&demoCustomers[i]).Error; err != nil {
			zap.L().Error("failed to create demo customer", zap.String("name", demoCustomers[i].Name), zap.Error(err))
		}
	}

	demoInvoices := []struct {
		customer int
		amount   int64
		status   string
		date     string
	}{
		{0, 15795, domain.InvoiceStatusPending, "2022-12-06"},
		{1, 20348, domain.InvoiceStatusPending, "2022-11-14"},
		{4, 3040, domain.InvoiceStatusPaid, "2022-10-29"},
		{3, 44800, domain.InvoiceStatusPaid, "2023-09-10"},
		{5, 34577, domain.InvoiceStatusPending, "2023-08-05"},
		{2, 54246, domain.InvoiceStatusPending, "2023-07-16"},
		{0, 66666, domain.InvoiceStatusPending, "2023-06-27"},
		{3, 32545, domain.InvoiceStatusPaid, "2023-06-09"},
		{4, 1250, domain.InvoiceStatusPaid, "2023-06-17"},
		{5, 8546, domain.InvoiceStatusPaid, "2023-06-07"},
		{1, 500, domain.InvoiceStatusPaid, "2023-08-19"},
		{5, 8945, domain.InvoiceStatusPaid, "2023-06-03"},
		{2, 1000, domain.InvoiceStatusPaid, "2022-06-05"},
	}
	for _, inv := range demoInvoices {
		if err := a.gormDB.Create(&domain.Invoice{
			ID:         common.UUIDint64(),
			CustomerId: demoCustomers[inv.customer].ID,
			Amount:     inv.amount,
			Status:     inv.status,
			Date:       inv.date,
		}).Error; err != nil {
			zap.L().Error("failed to create demo invoice", zap.Error(err))
		}
	}

	demoRevenue := map[string]int64{
		"Jan": 200000, "Feb": 180000, "Mar": 220000, "Apr": 250000,
		"May": 230000, "Jun": 320000, "Jul": 350000, "Aug": 370000,
		"Sep": 250000, "Oct": 280000, "Nov": 300000, "Dec": 480000,
	}
	for month, revenue := range demoRevenue {
		if err := a.gormDB.Create(&domain.Revenue{
			ID:      common.UUIDint64(),
			Month:   month,
			Revenue: revenue,
		}).Error; err != nil {
			zap.L().Error("failed to create demo revenue", zap.String("month", month), zap.Error(err))
		}
	}

	zap.L().Info("initialized demo dashboard data",
		zap.Int("customers", len(demoCustomers)),
		zap.Int("invoices", len(demoInvoices)))
}
