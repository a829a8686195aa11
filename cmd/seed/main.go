package main

import (
	"os"

	"github.com/sportaccessories/storefront/config"
	"github.com/sportaccessories/storefront/internal/db"
	"github.com/sportaccessories/storefront/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "seed",
		Usage: "load catalog data and manage admin accounts",
		Before: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.Initialize(logger.Config{
				Level:       cfg.Server.LogLevel,
				Format:      "console",
				EnableColor: true,
			})
			if err := db.Initialize(&cfg.Database); err != nil {
				return err
			}
			return db.Migrate()
		},
		After: func(c *cli.Context) error {
			if db.GetDB() == nil {
				return nil
			}
			return db.Close()
		},
		Commands: []*cli.Command{
			productsCommand(),
			adminCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal("Seed command failed", err)
	}
}
