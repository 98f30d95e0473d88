package app

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/etec-programacion-3/electrotech-client/internal/cartsync"
	"github.com/etec-programacion-3/electrotech-client/internal/catalog"
	"github.com/etec-programacion-3/electrotech-client/internal/checkout"
	"github.com/etec-programacion-3/electrotech-client/internal/gateway"
	"github.com/etec-programacion-3/electrotech-client/internal/history"
	"github.com/etec-programacion-3/electrotech-client/internal/session"
	"github.com/etec-programacion-3/electrotech-client/internal/shop"
	"github.com/etec-programacion-3/electrotech-client/pkg/tokenstore"
)

// Run creates all dependencies and drives the interactive presenter until the
// context is cancelled. It is the single wiring point for the client.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("api_url", cfg.APIURL))

	tokenDir := cfg.TokenDir
	if tokenDir == "" {
		var err error
		tokenDir, err = tokenstore.DefaultDir()
		if err != nil {
			return errors.Wrap(err, "resolve token dir")
		}
	}
	store := tokenstore.NewFile(tokenDir)
	sess := session.NewManager(store, lg.Named("session"))

	gw, err := gateway.New(gateway.Config{
		BaseURL:        cfg.APIURL,
		Timeout:        cfg.HTTPTimeout,
		TracerProvider: m.TracerProvider(),
		MeterProvider:  m.MeterProvider(),
	}, sess, sess.Invalidate, lg.Named("gateway"))
	if err != nil {
		return errors.Wrap(err, "create gateway")
	}

	cartSync := cartsync.New(gw)
	hist := history.New(gw)
	engine := catalog.New(ctx, catalog.Config{
		PageSize: cfg.PageSize,
		Quiet:    cfg.Quiet,
	}, gw, []catalog.Refresher{cartSync, hist}, lg.Named("catalog"))
	defer engine.Stop()

	mach := checkout.New(gw, cartSync, hist, lg.Named("checkout"))
	client := shop.New(sess, gw, engine, cartSync, hist, mach, lg)

	return runPresenter(ctx, client)
}
