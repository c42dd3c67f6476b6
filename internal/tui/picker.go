package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// ErrNoChoices is returned by Pick when there is nothing to choose from.
var ErrNoChoices = errors.New("nothing to choose from")

// Interactive reports whether stdin and stdout are both terminals.
func Interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// Pick asks the user to choose one of choices. A single choice is returned
// without prompting.
func Pick(title string, choices []string) (string, error) {
	switch len(choices) {
	case 0:
		return "", ErrNoChoices
	case 1:
		return choices[0], nil
	}

	var choice string
	sel := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(choices...)...).
		Value(&choice)

	err := huh.NewForm(huh.NewGroup(sel)).WithTheme(huh.ThemeBase16()).Run()
	if err != nil {
		return "", fmt.Errorf("selection aborted: %w", err)
	}
	return choice, nil
}
