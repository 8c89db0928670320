package outwriter

import (
	"os"

	"github.com/huangsam/incentive/internal/contract"
	"golang.org/x/term"
)

const (
	fallbackTermWidth = 80
	tableChrome       = 20
	minNameWidth      = 10
	maxNameWidth      = 40
)

// terminalWidth prefers --width, then the size of stdout.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return fallbackTermWidth
}

// getMaxNameWidth is the room left for leader names once the fixed columns
// of a view are laid out, kept within [minNameWidth, maxNameWidth].
func getMaxNameWidth(cfg *contract.Config, fixedWidth int) int {
	return min(max(terminalWidth(cfg)-fixedWidth-tableChrome, minNameWidth), maxNameWidth)
}
