package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/slotbook/internal/logger"
	"github.com/julianstephens/slotbook/internal/server"
)

type ServeCmd struct {
	Port int `help:"Port to listen on. Overrides the config file."`
}

func (c *ServeCmd) Run(ctx *Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.PerformAutomaticBackup(sigCtx)

	store, err := ctx.OpenStore(sigCtx)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := ctx.Config.Server
	if c.Port != 0 {
		cfg.Port = c.Port
	}

	logger.Info("Starting save endpoint", "port", cfg.Port, "store", store.Describe())
	return server.New(cfg, store, ctx.Lockfile()).Run(sigCtx)
}
