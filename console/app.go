package main

import (
	"context"
	"errors"

	"user-grid/console/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// App is the console's root value: built once at start, closed once at exit.
type App struct {
	ctx     context.Context
	cancel  context.CancelFunc
	program *tea.Program
	log     zerolog.Logger
}

// NewApp builds the shell and its program. Cancelling parent, or calling
// Close, aborts in-flight requests and stops the program.
func NewApp(parent context.Context, api ui.API, log zerolog.Logger, opts ...tea.ProgramOption) *App {
	ctx, cancel := context.WithCancel(parent)
	root := ui.NewRootModel(ctx, api, log)
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	return &App{
		ctx:     ctx,
		cancel:  cancel,
		program: tea.NewProgram(root, opts...),
		log:     log,
	}
}

// Run blocks until the user quits or the app is closed.
func (a *App) Run() error {
	a.log.Info().Msg("console started")
	_, err := a.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && a.ctx.Err() != nil {
		err = nil
	}
	a.log.Info().Err(err).Msg("console stopped")
	return err
}

// Close tears the app down. Results still in flight are discarded.
func (a *App) Close() {
	a.cancel()
}
