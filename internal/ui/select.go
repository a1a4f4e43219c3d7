package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/ktr0731/go-fuzzyfinder"
)

// ErrSelectionCancelled is returned when the user aborts a picker.
var ErrSelectionCancelled = errors.New("selection cancelled")

func init() {
	// Detect the terminal before the fuzzy finder takes over the screen,
	// otherwise escape sequences leak into the finder input.
	_ = lipgloss.NewStyle().Render("")
	_ = lipgloss.HasDarkBackground()
}

// SelectOne opens a fuzzy finder over options and returns the chosen one.
func SelectOne(prompt string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("nothing to select for %q", prompt)
	}
	os.Stdout.Sync()
	os.Stderr.Sync()

	idx, err := fuzzyfinder.Find(
		options,
		func(i int) string { return options[i] },
		fuzzyfinder.WithPromptString(prompt+"> "),
	)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return "", ErrSelectionCancelled
	}
	if err != nil {
		return "", fmt.Errorf("fuzzy finder: %w", err)
	}
	return options[idx], nil
}
