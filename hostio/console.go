package hostio

/*------------------------------------------------------------------
 *
 * Purpose: Raw-mode debug console on stdin, for interactively watching
 *          decoded seconds/quality without line buffering eating
 *          keystrokes. Grounded directly on serial_port.go's
 *          term.Open(..., term.RawMode) usage.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"

	"github.com/pkg/term"
)

// Console is a raw-mode terminal session on stdin/stdout.
type Console struct {
	fd *term.Term
}

// OpenConsole puts the controlling terminal into raw mode.
func OpenConsole() (*Console, error) {
	fd, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("hostio: open console: %w", err)
	}
	return &Console{fd: fd}, nil
}

// ReadKey blocks for a single keypress.
func (c *Console) ReadKey() (byte, error) {
	buf := make([]byte, 1)
	if _, err := c.fd.Read(buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// Close restores the terminal's prior mode.
func (c *Console) Close() error {
	return c.fd.Close()
}
