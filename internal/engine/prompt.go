package engine

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/edopica/expect-test/internal/diff"
)

// Command is one interactive resolution choice.
type Command byte

const (
	// CommandAccept ("y") overwrites the baseline with the new value.
	CommandAccept Command = 'y'
	// CommandReject ("n") keeps the baseline and fails the evaluation.
	CommandReject Command = 'n'
	// CommandDiff ("d") re-prints the diff and prompts again.
	CommandDiff Command = 'd'
	// CommandQuit ("q") aborts the whole run.
	CommandQuit Command = 'q'
)

// Prompt is the engine's interface to the developer during interactive
// conflict resolution. Implementations decide presentation; the engine
// decides consequences.
type Prompt interface {
	// ShowDiff renders the pending changes for key.
	ShowDiff(key string, changes []diff.Change)
	// ReadCommand blocks until the developer issues a valid command.
	ReadCommand(key string) (Command, error)
}

// TerminalPrompt drives conflict resolution over a line-oriented terminal.
type TerminalPrompt struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompt wraps a reader/writer pair, typically stdin/stderr.
func NewTerminalPrompt(in io.Reader, out io.Writer) *TerminalPrompt {
	return &TerminalPrompt{in: bufio.NewReader(in), out: out}
}

// ShowDiff prints the rendered diff for key.
func (p *TerminalPrompt) ShowDiff(key string, changes []diff.Change) {
	fmt.Fprintf(p.out, "snapshot %q changed:\n%s", key, diff.Render(changes))
}

// ReadCommand prompts until it reads one of y, n, d, or q. Unrecognized
// input re-prompts; end of input maps to reject so a closed stdin cannot
// silently accept changes.
func (p *TerminalPrompt) ReadCommand(key string) (Command, error) {
	for {
		fmt.Fprintf(p.out, "accept new value for %q? [y]es / [n]o / [d]iff / [q]uit: ", key)
		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return CommandReject, nil
			}
			return 0, fmt.Errorf("read command: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return CommandAccept, nil
		case "n", "no":
			return CommandReject, nil
		case "d", "diff":
			return CommandDiff, nil
		case "q", "quit":
			return CommandQuit, nil
		}
		fmt.Fprintln(p.out, "unrecognized command")
	}
}
