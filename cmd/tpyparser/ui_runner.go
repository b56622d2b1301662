package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"tpyparser/internal/driver"
	"tpyparser/internal/source"
	"tpyparser/internal/ui"
)

type batchOutcome struct {
	fileSet *source.FileSet
	results []driver.FileResult
	err     error
}

// runCheckWithUI runs the batch in the background and renders its progress
// until the last file is done.
func runCheckWithUI(ctx context.Context, out io.Writer, files []string, opts driver.BatchOptions) (*source.FileSet, []driver.FileResult, error) {
	events := make(chan ui.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	opts.Observer = func(ev driver.PhaseEvent) {
		if !ev.Done {
			events <- ui.Event{File: ev.Path, Stage: ui.ParseStage(ev.Name), Status: ui.StatusWorking}
		}
	}
	onFile := opts.OnFile
	opts.OnFile = func(r driver.FileResult) {
		events <- fileEvent(r)
		if onFile != nil {
			onFile(r)
		}
	}

	go func() {
		fs, results, err := driver.CheckFiles(ctx, files, opts)
		outcomeCh <- batchOutcome{fileSet: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("checking", files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()
	// после выхода из UI (ctrl+c, ошибка) воркеры не должны встать на канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}

func fileEvent(r driver.FileResult) ui.Event {
	ev := ui.Event{File: r.Path, Status: ui.StatusDone}
	switch {
	case r.Err != nil:
		ev.Status = ui.StatusError
		return ev
	case r.Cached:
		ev.Status = ui.StatusCached
	}
	ev.Errors, ev.Warnings = r.Bag.Count()
	if ev.Errors > 0 {
		ev.Status = ui.StatusError
	}
	return ev
}
