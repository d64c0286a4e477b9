package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-promise-sync/internal/logger"
	"github.com/MKhiriev/go-promise-sync/models"
	tea "github.com/charmbracelet/bubbletea"
)

// TUI runs the widget full screen.
type TUI struct {
	source    EntrySource
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(source EntrySource, buildInfo models.AppBuildInfo, log *logger.Logger) (*TUI, error) {
	if source == nil {
		return nil, errors.New("tui: nil entry source")
	}
	return &TUI{source: source, buildInfo: buildInfo, logger: log}, nil
}

// Run blocks until the user quits or ctx is done.
func (t *TUI) Run(ctx context.Context) error {
	_, err := tea.NewProgram(NewWidget(t.source, t.buildInfo), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		t.logger.Info().Str("func", "TUI.Run").Msg("widget stopped by context")
		return nil
	}
	return err
}
