package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/ytarc/internal/classify"
	"github.com/desertthunder/ytarc/internal/models"
	"github.com/desertthunder/ytarc/internal/shared"
	"github.com/desertthunder/ytarc/internal/ui"
)

// TUI launches the interactive terminal UI for a download.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	url := cmd.StringArg("url")
	if url == "" {
		return fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}

	ref, err := classify.Classify(url)
	if err != nil {
		return err
	}

	pref, err := r.preference(cmd)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/ytarc-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine, _, closeDB, err := r.openEngine()
	if err != nil {
		return err
	}
	defer closeDB()

	opts := r.runOpts(cmd, pref)

	var model *ui.Model
	if ref.Kind == classify.KindVideo {
		model = ui.NewItemModel(ctx, engine, []models.ItemReference{ref.Item()}, opts)
	} else {
		model = ui.NewModel(ctx, engine, ref, cmd.String("select"), opts)
	}

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
