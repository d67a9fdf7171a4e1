package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	DemoData bool   `yaml:"demo_data" json:"demo_data"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host        string `yaml:"host" json:"host"`
	Port        int    `yaml:"port" json:"port"`
	Secret      string `yaml:"secret" json:"secret"`
	JwtExpireHr int    `yaml:"jwt_expire_hr" json:"jwt_expire_hr"`
}

type DBConfig struct {
	Type   string `yaml:"type" json:"type"`
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Name   string `yaml:"name" json:"name"`
	User   string `yaml:"user" json:"user"`
	Passwd string `yaml:"passwd" json:"passwd"`
	Debug  bool   `yaml:"debug" json:"debug"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint" json:"endpoint"`
	AccessKey string `yaml:"access_key" json:"access_key"`
	SecretKey string `yaml:"secret_key" json:"secret_key"`
	Bucket    string `yaml:"bucket" json:"bucket"`
	UseSSL    bool   `yaml:"use_ssl" json:"use_ssl"`
}

// UploadsConfig selects where profile images are persisted. Backend is
// "dir" (flat directory on local disk) or "s3".
type UploadsConfig struct {
	Backend      string   `yaml:"backend" json:"backend"`
	Dir          string   `yaml:"dir" json:"dir"`
	PublicPrefix string   `yaml:"public_prefix" json:"public_prefix"`
	S3           S3Config `yaml:"s3" json:"s3"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system" json:"system"`
	Web      WebConfig     `yaml:"web" json:"web"`
	Database DBConfig      `yaml:"database" json:"database"`
	Uploads  UploadsConfig `yaml:"uploads" json:"uploads"`
	Logger   LogConfig     `yaml:"logger" json:"logger"`
}

func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "acmeadmin",
			Location: "UTC",
			Workdir:  "/var/acmeadmin",
			DemoData: true,
		},
		Web: WebConfig{
			Host:        "0.0.0.0",
			Port:        1816,
			Secret:      "",
			JwtExpireHr: 24,
		},
		Database: DBConfig{
			Type:   "postgres",
			Host:   "127.0.0.1",
			Port:   5432,
			Name:   "acmeadmin",
			User:   "postgres",
			Passwd: "postgres",
		},
		Uploads: UploadsConfig{
			Backend:      "dir",
			Dir:          "/var/acmeadmin/public/customers",
			PublicPrefix: "customers",
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   "/var/acmeadmin/acmeadmin.log",
		},
	}
}

func setEnvString(env string, target *string) {
	if v := os.Getenv(env); v != "" {
		*target = v
	}
}

func setEnvInt(env string, target *int) {
	if v := os.Getenv(env); v != "" {
		*target = cast.ToInt(v)
	}
}

func setEnvBool(env string, target *bool) {
	if v := os.Getenv(env); v != "" {
		*target = cast.ToBool(v)
	}
}

// LoadConfig reads the YAML config file when it exists and overlays
// ACMEADMIN_* environment variables on top of it.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig()
	if cfile != "" {
		if data, err := os.ReadFile(filepath.Clean(cfile)); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvString("ACMEADMIN_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvString("ACMEADMIN_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBool("ACMEADMIN_SYSTEM_DEMO_DATA", &cfg.System.DemoData)
	setEnvBool("ACMEADMIN_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvString("ACMEADMIN_WEB_HOST", &cfg.Web.Host)
	setEnvInt("ACMEADMIN_WEB_PORT", &cfg.Web.Port)
	setEnvString("ACMEADMIN_WEB_SECRET", &cfg.Web.Secret)

	setEnvString("ACMEADMIN_DB_TYPE", &cfg.Database.Type)
	setEnvString("ACMEADMIN_DB_HOST", &cfg.Database.Host)
	setEnvInt("ACMEADMIN_DB_PORT", &cfg.Database.Port)
	setEnvString("ACMEADMIN_DB_NAME", &cfg.Database.Name)
	setEnvString("ACMEADMIN_DB_USER", &cfg.Database.User)
	setEnvString("ACMEADMIN_DB_PWD", &cfg.Database.Passwd)
	setEnvBool("ACMEADMIN_DB_DEBUG", &cfg.Database.Debug)

	setEnvString("ACMEADMIN_UPLOADS_BACKEND", &cfg.Uploads.Backend)
	setEnvString("ACMEADMIN_UPLOADS_DIR", &cfg.Uploads.Dir)
	setEnvString("ACMEADMIN_S3_ENDPOINT", &cfg.Uploads.S3.Endpoint)
	setEnvString("ACMEADMIN_S3_ACCESS_KEY", &cfg.Uploads.S3.AccessKey)
	setEnvString("ACMEADMIN_S3_SECRET_KEY", &cfg.Uploads.S3.SecretKey)
	setEnvString("ACMEADMIN_S3_BUCKET", &cfg.Uploads.S3.Bucket)

	setEnvString("ACMEADMIN_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBool("ACMEADMIN_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvString("ACMEADMIN_LOGGER_FILENAME", &cfg.Logger.Filename)

	return cfg
}
