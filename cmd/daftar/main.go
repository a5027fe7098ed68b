package main

import (
	"os"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/madaris/daftar/internal/clock"
	"github.com/madaris/daftar/internal/config"
	"github.com/madaris/daftar/internal/engine"
	"github.com/madaris/daftar/internal/joblog"
	"github.com/madaris/daftar/internal/observability/logger"
	"github.com/madaris/daftar/internal/seed"
	"github.com/madaris/daftar/internal/server"
	"github.com/madaris/daftar/internal/store"
)

var version = "dev"

func main() {
	server.Version = version
	app := fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		store.Module,
		fx.Invoke(func(conn *gorm.DB) error {
			if err := seed.EnsureSchool(conn); err != nil {
				return err
			}
			if os.Getenv("DAFTAR_SEED_DEMO") == "1" {
				return seed.EnsureDemoData(conn)
			}
			return nil
		}),
		joblog.Module,
		engine.Module,
		server.Module,
	)
	app.Run()
}
