package app

import (
	"github.com/asaskevich/EventBus"
	"gorm.io/gorm"

	"github.com/udelbo/acme-admin/config"
	"github.com/udelbo/acme-admin/internal/cacheview"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// ViewsProvider provides the cached listing views and the event bus that
// invalidates them
type ViewsProvider interface {
	Views() *cacheview.Cache
	Bus() EventBus.Bus
}
