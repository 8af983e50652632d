package testutil

import (
	"fmt"

	"github.com/edopica/expect-test/internal/diff"
	"github.com/edopica/expect-test/internal/engine"
)

// ScriptedPrompt feeds a fixed command sequence to the engine's interactive
// resolution loop and records what it was shown.
type ScriptedPrompt struct {
	Commands []engine.Command

	// DiffsShown counts ShowDiff calls across all keys.
	DiffsShown int
	// LastChanges holds the changes from the most recent ShowDiff call.
	LastChanges []diff.Change

	next int
}

// NewScriptedPrompt builds a prompt answering with cmds in order.
func NewScriptedPrompt(cmds ...engine.Command) *ScriptedPrompt {
	return &ScriptedPrompt{Commands: cmds}
}

// ShowDiff records the rendered changes.
func (p *ScriptedPrompt) ShowDiff(key string, changes []diff.Change) {
	p.DiffsShown++
	p.LastChanges = changes
}

// ReadCommand returns the next scripted command, or an error when the
// script runs dry.
func (p *ScriptedPrompt) ReadCommand(key string) (engine.Command, error) {
	if p.next >= len(p.Commands) {
		return 0, fmt.Errorf("scripted prompt exhausted at key %q", key)
	}
	cmd := p.Commands[p.next]
	p.next++
	return cmd, nil
}
