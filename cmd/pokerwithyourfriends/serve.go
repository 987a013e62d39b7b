package main

import (
	"context"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/vanishedd/pokerwithyourfriends/cmd/pokerwithyourfriends/shared"
	"github.com/vanishedd/pokerwithyourfriends/internal/room"
	"github.com/vanishedd/pokerwithyourfriends/internal/server"
	"github.com/vanishedd/pokerwithyourfriends/internal/store"
)

// ServeCmd runs the room server
type ServeCmd struct {
	Config string `kong:"default='pokerwithyourfriends.hcl',help='Path to HCL config file'"`
	Addr   string `kong:"help='Override listen address (host:port)'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := shared.SetupLogger(c.Debug, cfg.Server.LogLevel)

	var backing store.Store = store.Noop{}
	if cfg.Database.Enabled {
		gormStore, err := store.OpenPostgres(cfg.Database.DSN)
		if err != nil {
			return err
		}
		if err := gormStore.Init(context.Background()); err != nil {
			return err
		}
		backing = gormStore
		logger.Info("audit database connected")
	} else {
		logger.Info("audit database disabled, writes discarded")
	}
	writer := store.NewWriter(backing, logger, store.DefaultQueueSize)

	coordinator := room.New(logger, quartz.NewReal(), writer, room.Config{
		SmallBlind:    cfg.Game.SmallBlind,
		BigBlind:      cfg.Game.BigBlind,
		StartingStack: cfg.Game.StartingStack,
		MinPlayers:    2,
		MaxPlayers:    cfg.Game.MaxPlayers,
		NextHandDelay: cfg.NextHandDelay(),
	})

	srv := server.New(logger, cfg, coordinator)

	addr := c.Addr
	if addr == "" {
		addr = cfg.GetServerAddress()
	}
	logger.Info("starting server",
		"address", addr,
		"small_blind", cfg.Game.SmallBlind,
		"big_blind", cfg.Game.BigBlind,
		"starting_stack", cfg.Game.StartingStack,
		"max_players", cfg.Game.MaxPlayers)

	ctx := shared.SetupSignalHandler(logger)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(ctx, addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		return writer.Close()
	})
	return g.Wait()
}
