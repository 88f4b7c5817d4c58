package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smithline/atelier/internal/clock"
	"github.com/smithline/atelier/internal/config"
	"github.com/smithline/atelier/internal/migration"
	"github.com/smithline/atelier/internal/observability"
	"github.com/smithline/atelier/internal/server"
	"github.com/smithline/atelier/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
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
