package history

import (
	"fmt"

	"github.com/dshills/trimsave/internal/engine/buffer"
	"github.com/dshills/trimsave/internal/engine/cursor"
)

// Command represents an edit action that can be executed and undone.
type Command interface {
	// Execute performs the command and returns an error if it fails.
	Execute(buf *buffer.Buffer, caret *cursor.Cursor) error

	// Undo reverses the command and returns an error if it fails.
	Undo(buf *buffer.Buffer, caret *cursor.Cursor) error

	// Description returns a human-readable description of the command.
	Description() string
}

// EditCommand replays a single recorded Operation.
type EditCommand struct {
	Op *Operation
}

// NewEditCommand wraps an operation that has already been applied.
func NewEditCommand(op *Operation) *EditCommand {
	return &EditCommand{Op: op}
}

// Execute re-applies the edit (used for redo).
func (c *EditCommand) Execute(buf *buffer.Buffer, caret *cursor.Cursor) error {
	if _, err := buf.Replace(c.Op.Range.Start, c.Op.Range.End, c.Op.NewText); err != nil {
		return fmt.Errorf("apply edit at %s: %w", c.Op.Range, err)
	}
	*caret = c.Op.CaretAfter
	return nil
}

// Undo reverses the edit.
func (c *EditCommand) Undo(buf *buffer.Buffer, caret *cursor.Cursor) error {
	inv := c.Op.Invert()
	if _, err := buf.Replace(inv.Range.Start, inv.Range.End, inv.NewText); err != nil {
		return fmt.Errorf("undo edit at %s: %w", c.Op.Range, err)
	}
	*caret = inv.CaretAfter
	return nil
}

// Description returns a human-readable description.
func (c *EditCommand) Description() string {
	switch {
	case c.Op.IsInsert():
		return "Insert"
	case c.Op.IsDelete():
		return "Delete"
	default:
		return "Replace"
	}
}

// CompoundCommand groups multiple commands as one undo unit.
type CompoundCommand struct {
	Name     string
	Commands []Command
}

// NewCompoundCommand creates a new compound command.
func NewCompoundCommand(name string, commands ...Command) *CompoundCommand {
	return &CompoundCommand{
		Name:     name,
		Commands: commands,
	}
}

// Execute runs all commands in order.
func (c *CompoundCommand) Execute(buf *buffer.Buffer, caret *cursor.Cursor) error {
	for i, cmd := range c.Commands {
		if err := cmd.Execute(buf, caret); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.Commands[j].Undo(buf, caret)
			}
			return fmt.Errorf("compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Undo reverses all commands in reverse order.
func (c *CompoundCommand) Undo(buf *buffer.Buffer, caret *cursor.Cursor) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(buf, caret); err != nil {
			return fmt.Errorf("undo compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Description returns the compound command's name.
func (c *CompoundCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}
