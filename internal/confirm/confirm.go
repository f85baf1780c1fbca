// Package confirm is the gate in front of every mutation that needs the
// user's sign-off (approving a budget, changing an order's status).
//
// A declined confirmation is reported through the error channel as
// ErrCancelled so it composes with the mutation call, but callers must
// treat it as a silent no-op, never as a failure to display.
package confirm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrCancelled means the user declined the confirmation prompt.
var ErrCancelled = errors.New("confirm: cancelled by user")

// Cancelled reports whether err is a declined confirmation.
func Cancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// Confirmer asks the user to approve an action before it is committed.
// A nil return means approved; ErrCancelled means declined.
type Confirmer interface {
	Confirm(action string) error
}

// Terminal prompts on the console with a y/N question.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

// NewTerminal returns a Terminal bound to stdin/stdout.
func NewTerminal() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stdout}
}

func (t *Terminal) Confirm(action string) error {
	fmt.Fprintf(t.Out, "%s [y/N]: ", action)

	line, err := bufio.NewReader(t.In).ReadString('\n')
	if err != nil && line == "" {
		return ErrCancelled
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return nil
	}
	return ErrCancelled
}

// Scripted is a test double with a fixed answer. It records the prompts it
// was asked so tests can assert on them.
type Scripted struct {
	Approve bool
	Asked   []string
}

func (s *Scripted) Confirm(action string) error {
	s.Asked = append(s.Asked, action)
	if s.Approve {
		return nil
	}
	return ErrCancelled
}
