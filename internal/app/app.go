package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/labstack/gommon/random"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/udelbo/acme-admin/config"
	"github.com/udelbo/acme-admin/internal/actions"
	"github.com/udelbo/acme-admin/internal/auth"
	"github.com/udelbo/acme-admin/internal/cacheview"
	"github.com/udelbo/acme-admin/internal/store"
	"github.com/udelbo/acme-admin/internal/uploads"
)

type Application struct {
	appConfig   *config.AppConfig
	gormDB      *gorm.DB
	sched       *cron.Cron
	bus         EventBus.Bus
	views       *cacheview.Cache
	uploadStore uploads.Store
	customers   *actions.Customers
	invoices    *actions.Invoices
	authService *auth.Service
}

// Ensure Application implements all interfaces
var (
	_ DBProvider     = (*Application)(nil)
	_ ConfigProvider = (*Application)(nil)
	_ ViewsProvider  = (*Application)(nil)
)

var gapp *Application

// GApp returns the global application instance.
func GApp() *Application {
	return gapp
}

func InitGlobalApplication(cfg *config.AppConfig) *Application {
	gapp = NewApplication(cfg)
	gapp.Init(cfg)
	return gapp
}

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

func (a *Application) Views() *cacheview.Cache {
	return a.views
}

func (a *Application) Uploads() uploads.Store {
	return a.uploadStore
}

func (a *Application) CustomerActions() *actions.Customers {
	return a.customers
}

func (a *Application) InvoiceActions() *actions.Invoices {
	return a.invoices
}

func (a *Application) Auth() *auth.Service {
	return a.authService
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	if cfg.Web.Secret == "" {
		cfg.Web.Secret = random.String(32)
		zap.L().Warn("web secret not configured, generated an ephemeral one; sessions will not survive a restart")
	}

	a.initDB(cfg)

	a.bus = EventBus.New()
	a.views = cacheview.New()
	if err := a.views.BindBus(a.bus); err != nil {
		zap.L().Error("bind view cache to bus failed", zap.Error(err))
	}

	a.uploadStore = a.initUploadStore(cfg)

	invalidator := cacheview.BusInvalidator{Bus: a.bus}
	a.customers = actions.NewCustomers(store.NewGormCustomerRepository(a.gormDB), a.uploadStore, invalidator, nil)
	a.invoices = actions.NewInvoices(store.NewGormInvoiceRepository(a.gormDB), invalidator, nil)
	a.authService = auth.NewService(a.gormDB, cfg.Web.Secret, time.Duration(cfg.Web.JwtExpireHr)*time.Hour)
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	var err error
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zapConfig.EncoderConfig),
				zapcore.Lock(zapcore.AddSync(os.Stdout)),
				zapConfig.Level,
			),
		)
		logger = zap.New(core)
	} else {
		logger, err = zapConfig.Build()
		if err != nil {
			panic(fmt.Errorf("build logger: %w", err))
		}
	}
	zap.ReplaceGlobals(logger)
}

func (a *Application) initDB(cfg *config.AppConfig) {
	logMode := gormlogger.Silent
	if cfg.Database.Debug {
		logMode = gormlogger.Info
	}
	gormConfig := &gorm.Config{Logger: gormlogger.Default.LogMode(logMode)}

	var dialector gorm.Dialector
	switch cfg.Database.Type {
	case "sqlite":
		dialector = sqlite.Open(filepath.Join(cfg.System.Workdir, cfg.Database.Name+".db"))
	default:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=%s",
			cfg.Database.Host, cfg.Database.User, cfg.Database.Passwd,
			cfg.Database.Name, cfg.Database.Port, cfg.System.Location)
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		zap.S().Fatalf("connect database failed: %s", err)
	}
	a.gormDB = db
}

func (a *Application) initUploadStore(cfg *config.AppConfig) uploads.Store {
	if cfg.Uploads.Backend == "s3" {
		s3store, err := uploads.NewS3Store(cfg.Uploads.S3, cfg.Uploads.PublicPrefix)
		if err != nil {
			zap.S().Fatalf("init s3 upload store failed: %s", err)
		}
		return s3store
	}
	dirstore, err := uploads.NewDirStore(cfg.Uploads.Dir, cfg.Uploads.PublicPrefix)
	if err != nil {
		zap.S().Fatalf("init uploads dir failed: %s", err)
	}
	return dirstore
}

// MigrateDB creates or updates all tables.
func (a *Application) MigrateDB() error {
	return a.gormDB.AutoMigrate(dbTables()...)
}
