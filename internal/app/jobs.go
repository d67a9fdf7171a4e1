package app

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/udelbo/acme-admin/internal/actions"
	"github.com/udelbo/acme-admin/internal/cacheview"
	"github.com/udelbo/acme-admin/internal/domain"
	"github.com/udelbo/acme-admin/internal/uploads"
	"github.com/udelbo/acme-admin/pkg/common"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// StartJobs schedules the maintenance tasks: hourly revenue rollup, daily
// orphaned-upload sweep and operation log purge.
func (a *Application) StartJobs() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	if _, err = a.sched.AddFunc("@hourly", a.RollupRevenue); err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	if _, err = a.sched.AddFunc("@daily", func() {
		a.SweepOrphanUploads()
		a.gormDB.
			Where("opt_time < ? ", time.Now().
				Add(-time.Hour*24*365)).Delete(domain.SysOprLog{})
	}); err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// StopJobs stops the scheduler, waiting for running jobs.
func (a *Application) StopJobs() {
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
}

// RollupRevenue recomputes the revenue table from paid invoices, grouped by
// calendar month, and invalidates the dashboard view.
func (a *Application) RollupRevenue() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	var invoices []domain.Invoice
	if err := a.gormDB.Where("status = ?", domain.InvoiceStatusPaid).Find(&invoices).Error; err != nil {
		zap.L().Error("revenue rollup query failed", zap.Error(err))
		return
	}

	totals := map[string]int64{}
	for _, inv := range invoices {
		day, err := time.Parse("2006-01-02", inv.Date)
		if err != nil {
			continue
		}
		totals[day.Month().String()[:3]] += inv.Amount
	}

	for month, revenue := range totals {
		var row domain.Revenue
		err := a.gormDB.Where("month = ?", month).First(&row).Error
		switch {
		case err == nil:
			a.gormDB.Model(&domain.Revenue{}).Where("id = ?", row.ID).Update("revenue", revenue)
		case errors.Is(err, gorm.ErrRecordNotFound):
			a.gormDB.Create(&domain.Revenue{ID: common.UUIDint64(), Month: month, Revenue: revenue})
		default:
			zap.L().Error("revenue rollup upsert failed", zap.String("month", month), zap.Error(err))
		}
	}

	cacheview.BusInvalidator{Bus: a.bus}.Invalidate(actions.ViewDashboard)
}

// stampedUpload matches filenames produced by uploads.StampedName; the sweep
// never touches anything else in the directory.
var stampedUpload = regexp.MustCompile(`_\d{8}_\d{6}_\d{3}\.[^.]+$`)

// SweepOrphanUploads deletes uploaded images no customer references anymore.
// A crash between the file write and the record mutation can leave such
// orphans behind; they are reclaimed here rather than inside the pipeline.
func (a *Application) SweepOrphanUploads() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	dirstore, ok := a.uploadStore.(*uploads.DirStore)
	if !ok {
		return
	}

	entries, err := os.ReadDir(dirstore.Dir())
	if err != nil {
		zap.L().Error("read uploads dir failed", zap.Error(err))
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !stampedUpload.MatchString(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || time.Since(info.ModTime()) < 24*time.Hour {
			continue
		}
		imageURL := "/" + a.appConfig.Uploads.PublicPrefix + "/" + entry.Name()
		var refs int64
		if err := a.gormDB.Model(&domain.Customer{}).
			Where("image_url = ?", imageURL).
			Count(&refs).Error; err != nil {
			zap.L().Error("orphan sweep count failed", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		if refs > 0 {
			continue
		}
		if err := os.Remove(filepath.Join(dirstore.Dir(), entry.Name())); err != nil {
			zap.L().Error("orphan sweep remove failed", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		zap.L().Info("removed orphaned uploads", zap.Int("count", removed))
	}
}
