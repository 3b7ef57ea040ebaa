package tui

import (
	"context"
	"io"
	"os"

	"github.com/aymanbagabas/go-osc52/v2"
)

// OSC52Clipboard writes to the system clipboard through the terminal's
// OSC 52 escape sequence, which works locally and over ssh without
// external clipboard tools.
type OSC52Clipboard struct {
	out io.Writer
}

// NewOSC52Clipboard targets stderr so the sequence does not interleave
// with the rendered UI on stdout.
func NewOSC52Clipboard() *OSC52Clipboard {
	return &OSC52Clipboard{out: os.Stderr}
}

func (c *OSC52Clipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := osc52.New(text).WriteTo(c.out)
	return err
}
