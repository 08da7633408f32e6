package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"specclean/internal/driver"
	"specclean/internal/ui"
)

type cleanOutcome struct {
	results []driver.CleanResult
	err     error
}

// runCleanWithUI drives the batch clean behind a Bubble Tea progress view.
// The pipeline runs in a goroutine and streams events into the model.
func runCleanWithUI(cmd *cobra.Command, args []string, opts driver.Options) ([]driver.CleanResult, error) {
	files, err := driver.CollectSpecFiles(cmd.Context(), args)
	if err != nil {
		return nil, err
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan cleanOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		results, runErr := driver.CleanPaths(cmd.Context(), args, optsCopy)
		outcomeCh <- cleanOutcome{results: results, err: runErr}
		close(events)
	}()

	model := ui.NewProgressModel("cleaning spec files", files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
