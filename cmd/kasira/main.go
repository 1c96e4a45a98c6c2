package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kasira/internal/catalog"
	"github.com/smallbiznis/kasira/internal/clock"
	"github.com/smallbiznis/kasira/internal/config"
	"github.com/smallbiznis/kasira/internal/idgen"
	"github.com/smallbiznis/kasira/internal/logger"
	"github.com/smallbiznis/kasira/internal/migration"
	"github.com/smallbiznis/kasira/internal/observability/metrics"
	"github.com/smallbiznis/kasira/internal/remote"
	"github.com/smallbiznis/kasira/internal/server"
	"github.com/smallbiznis/kasira/internal/session"
	"github.com/smallbiznis/kasira/internal/syncer"
	"github.com/smallbiznis/kasira/internal/syncstate"
	"github.com/smallbiznis/kasira/internal/transaction"
	"github.com/smallbiznis/kasira/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		logger.Module,
		metrics.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		idgen.Module,
		session.Module,
		migration.Module,

		// Functional Domains
		catalog.Module,
		transaction.Module,
		syncstate.Module,
		remote.Module,
		syncer.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
