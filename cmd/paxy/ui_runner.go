package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"paxy/internal/buildpipeline"
	"paxy/internal/driver"
	"paxy/internal/ui"
)

type buildOutcome struct {
	report *driver.BuildReport
	err    error
}

// runBuildWithUI drives CompileFiles while a progress view consumes its events.
func runBuildWithUI(ctx context.Context, title string, files []string, opts driver.BuildOptions) (*driver.BuildReport, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	go func() {
		opts.Sink = buildpipeline.ChannelSink{Ch: events}
		report, err := driver.CompileFiles(ctx, files, opts)
		outcomeCh <- buildOutcome{report: report, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
