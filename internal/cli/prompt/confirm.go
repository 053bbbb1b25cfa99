// Package prompt asks for confirmation on the terminal before commands
// overwrite user files.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/marmos91/ntstm/internal/logger"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C).
var ErrAborted = errors.New("aborted")

// IsAborted reports whether err means the user cancelled the prompt.
func IsAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, ErrAborted)
}

// Confirmer asks yes/no questions. The zero value uses the process
// terminal.
type Confirmer struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// Confirm prompts for yes/no confirmation. An empty answer selects
// defaultYes.
func (c Confirmer) Confirm(label string, defaultYes bool) (bool, error) {
	defaultStr := "y/N"
	if defaultYes {
		defaultStr = "Y/n"
	}

	p := promptui.Prompt{
		Label:     fmt.Sprintf("%s [%s]", label, defaultStr),
		IsConfirm: true,
		Stdin:     c.Stdin,
		Stdout:    c.Stdout,
	}

	result, err := p.Run()
	if err != nil {
		switch {
		case errors.Is(err, promptui.ErrInterrupt):
			return false, ErrAborted
		case errors.Is(err, promptui.ErrAbort):
			// promptui reports any answer other than "y" as ErrAbort.
			if result == "" {
				return defaultYes, nil
			}
			return false, nil
		default:
			return false, err
		}
	}

	answer := strings.ToLower(strings.TrimSpace(result))
	return answer == "y" || answer == "yes", nil
}

// ConfirmOverwrite decides whether path may be replaced. force skips the
// question; without a terminal on stdin the answer is no.
func ConfirmOverwrite(path string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	if !logger.IsTerminal(os.Stdin) {
		return false, nil
	}
	return Confirmer{}.Confirm(fmt.Sprintf("Overwrite %s", path), false)
}
