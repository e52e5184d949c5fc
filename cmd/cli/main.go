package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/companyadmin/internal/buildinfo"
	"github.com/dmitrijs2005/companyadmin/internal/client/api"
	"github.com/dmitrijs2005/companyadmin/internal/client/cli"
	"github.com/dmitrijs2005/companyadmin/internal/client/client"
	"github.com/dmitrijs2005/companyadmin/internal/client/config"
	"github.com/dmitrijs2005/companyadmin/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/companyadmin/internal/client/services"
	"github.com/dmitrijs2005/companyadmin/internal/client/session"
	"github.com/dmitrijs2005/companyadmin/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewConsoleLogger(os.Stderr, cfg.LogLevel)

	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	store := credentials.NewSQLiteStore(db)

	gw, err := client.NewGateway(cfg.ServerURL, store,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("%v", err)
	}

	endpoints := api.New(gw)
	manager := session.NewManager(store, gw, endpoints.Auth, logger)
	gw.OnSessionExpired(manager.Logout)

	app := cli.NewApp(cli.Deps{
		Config:    cfg,
		Logger:    logger,
		Session:   manager,
		Auth:      services.NewAuthService(endpoints.Auth, manager, store),
		Companies: services.NewCompanyService(endpoints.Companies),
		Admins:    services.NewAdminService(endpoints.Dashboard),
		Profile:   services.NewProfileService(endpoints.Profile),
		History:   endpoints.History,
	})
	gw.SetNotifier(app)
	gw.SetNavigator(app)

	app.Run(ctx)

}
