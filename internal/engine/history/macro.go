package history

import (
	"fmt"

	"github.com/dshills/scriv/internal/engine/document"
)

// MacroCommand groups multiple commands as one undo unit.
// Execution is atomic: if any step fails, the steps already executed are
// undone before the error is returned.
type MacroCommand struct {
	Name     string
	Commands []Command
}

// NewMacroCommand creates a new macro command.
func NewMacroCommand(name string, commands ...Command) *MacroCommand {
	return &MacroCommand{
		Name:     name,
		Commands: commands,
	}
}

// Execute runs all commands in order.
func (c *MacroCommand) Execute(doc *document.Document) error {
	for i, cmd := range c.Commands {
		if err := cmd.Execute(doc); err != nil {
			// Roll back the executed prefix
			for j := i - 1; j >= 0; j-- {
				_ = c.Commands[j].Undo(doc)
			}
			return fmt.Errorf("macro %q step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Undo reverses all commands in reverse order.
func (c *MacroCommand) Undo(doc *document.Document) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(doc); err != nil {
			return fmt.Errorf("undo macro %q step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Description returns the macro's name, or a summary when unnamed.
func (c *MacroCommand) Description() string {
	if c.Name != "" {
		return fmt.Sprintf("%s (%d operations)", c.Name, len(c.Commands))
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}

// Add appends a command to the macro.
func (c *MacroCommand) Add(cmd Command) {
	c.Commands = append(c.Commands, cmd)
}

// Len returns the number of commands in the macro.
func (c *MacroCommand) Len() int {
	return len(c.Commands)
}

// IsEmpty returns true if the macro has no commands.
func (c *MacroCommand) IsEmpty() bool {
	return len(c.Commands) == 0
}
