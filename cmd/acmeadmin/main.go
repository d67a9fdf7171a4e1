package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/udelbo/acme-admin/config"
	"github.com/udelbo/acme-admin/internal/adminapi"
	"github.com/udelbo/acme-admin/internal/app"
	"github.com/udelbo/acme-admin/internal/webserver"
)

var (
	BuildVersion string

	conffile = flag.String("c", "/etc/acmeadmin.yml", "config file")
	initdb   = flag.Bool("initdb", false, "run migrations and seed data, then exit")
	showVer  = flag.Bool("v", false, "print version and exit")
)

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println("acmeadmin", BuildVersion)
		os.Exit(0)
	}

	cfg := config.LoadConfig(*conffile)
	application := app.InitGlobalApplication(cfg)

	if err := application.MigrateDB(); err != nil {
		zap.S().Fatalf("migrate database failed: %s", err)
	}
	application.InitDb()
	if *initdb {
		return
	}

	application.StartJobs()
	defer application.StopJobs()

	adminapi.Init()
	if err := webserver.Listen(application); err != nil {
		zap.S().Fatalf("web server stopped: %s", err)
	}
}
