package sink

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// DefaultCommand is the program used by the Command sink.
const DefaultCommand = "xsetroot"

// DefaultCommandTimeout bounds a single invocation of the command.
const DefaultCommandTimeout = 2 * time.Second

// Command displays text by running `<name> -name <text>`, the way
// xsetroot sets the root window name.
type Command struct {
	name    string
	timeout time.Duration
}

// NewCommand creates a Command sink. An empty name selects DefaultCommand.
func NewCommand(name string, timeout time.Duration) *Command {
	if name == "" {
		name = DefaultCommand
	}
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &Command{name: name, timeout: timeout}
}

// Display runs the command and waits for it to exit.
func (c *Command) Display(text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, c.name, "-name", text).CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			return fmt.Errorf("%s: %w: %s", c.name, err, out)
		}
		return fmt.Errorf("%s: %w", c.name, err)
	}
	return nil
}
