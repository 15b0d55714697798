package bootstrap

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"attn/internal/client/api"
	"attn/internal/client/cache"
	sessioninadapter "attn/internal/modules/session/adapter/in"
	sessionoutadapter "attn/internal/modules/session/adapter/out"
	sessionservice "attn/internal/modules/session/service"
	sessionusecase "attn/internal/modules/session/usecase"
	statsinadapter "attn/internal/modules/stats/adapter/in"
	statsservice "attn/internal/modules/stats/service"
	statsusecase "attn/internal/modules/stats/usecase"
	"attn/internal/platform/clock"
	"attn/internal/platform/config"
	"attn/internal/platform/id"
	"attn/internal/server"
	uiapp "attn/internal/ui/app"
)

// App is the local wiring: usecases over the sqlite store, used by the
// one-shot CLI commands that bypass the server.
type App struct {
	SessionCLI sessioninadapter.CLIHandler
	StatsCLI   statsinadapter.CLIHandler

	closeStore func() error
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{Loc: cfg.Location()}
	ids := id.UUID{}

	store, err := sessionoutadapter.NewSQLiteSessionStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	sessionUC := sessionusecase.NewInteractor(sessionservice.NewSessionService(clk, ids, store))
	statsUC := statsusecase.NewInteractor(statsservice.NewStatsService(clk, store))

	return &App{
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		StatsCLI:   statsinadapter.NewCLIHandler(statsUC),
		closeStore: store.Close,
	}, nil
}

func (a *App) Close() error { return a.closeStore() }

// RunServer serves the REST API until ctx is canceled.
func RunServer(ctx context.Context, cfg config.Config) error {
	clk := clock.SystemClock{Loc: cfg.Location()}
	ids := id.UUID{}

	store, err := sessionoutadapter.NewSQLiteSessionStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	sessionUC := sessionusecase.NewInteractor(sessionservice.NewSessionService(clk, ids, store))
	statsUC := statsusecase.NewInteractor(statsservice.NewStatsService(clk, store))

	router := server.NewRouter(sessionUC, statsUC, cfg.AuthToken)
	return server.Run(ctx, cfg.ListenAddr, router)
}

// RunTUI runs the terminal client against the configured server.
func RunTUI(cfg config.Config) error {
	clk := clock.SystemClock{Loc: cfg.Location()}
	client := api.NewClient(cfg.ServerURL, cfg.AuthToken)
	cacheStore := cache.NewFileStore(cfg.StateDir, clk)

	program := tea.NewProgram(uiapp.NewModel(client, cacheStore, clk), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
