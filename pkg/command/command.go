// Package command models the result of a refactoring invocation as a value.
// An analysis produces a Command describing what should happen — nothing,
// an error message, a navigation, or a file edit — and a Performer executes
// it later against a FileWriter. Producing a command has no side effects,
// so "not applicable" is simply the Nothing command, never an error.
package command

import (
	"errors"
	"fmt"

	"github.com/dekot-dev/dekot/pkg/edit"
)

// ErrNilWriter indicates a Performer was constructed without a FileWriter.
var ErrNilWriter = errors.New("command: nil file writer")

// Command is the sum of all executable refactoring outcomes.
type Command interface {
	// IsNothing reports whether executing the command has no effect.
	IsNothing() bool
}

// Nothing is the command that does nothing.
type Nothing struct{}

// IsNothing always reports true.
func (Nothing) IsNothing() bool { return true }

// ShowError displays an error message to the user without touching files.
type ShowError struct {
	Message string
}

// IsNothing reports false; the message is still surfaced.
func (ShowError) IsNothing() bool { return false }

// Navigate moves the user's attention to a byte range in a file.
type Navigate struct {
	Path  string
	Start uint
	End   uint
	Caret uint
}

// IsNothing reports false.
func (Navigate) IsNothing() bool { return false }

// ApplyEdits applies an atomic edit set to one file.
type ApplyEdits struct {
	Path  string
	Edits *edit.EditSet
}

// IsNothing reports true when the edit set is empty.
func (c ApplyEdits) IsNothing() bool {
	return c.Edits == nil || c.Edits.Len() == 0
}

// Composite executes a sequence of commands in order.
type Composite struct {
	Commands []Command
}

// IsNothing reports true when every member command is nothing.
func (c Composite) IsNothing() bool {
	for _, cmd := range c.Commands {
		if !cmd.IsNothing() {
			return false
		}
	}

	return true
}

// Nop returns the command that does nothing.
func Nop() Command {
	return Nothing{}
}

// Error returns a command that surfaces the given message.
func Error(message string) Command {
	return ShowError{Message: message}
}

// Select returns a command that navigates to [start, end) in path with the
// caret at the range start.
func Select(path string, start, end uint) Command {
	return Navigate{Path: path, Start: start, End: end, Caret: start}
}

// Update returns a command that applies edits to path.
func Update(path string, edits *edit.EditSet) Command {
	return ApplyEdits{Path: path, Edits: edits}
}

// Compose flattens commands into one. Nothing members are dropped; a single
// survivor is returned unwrapped, and no survivors collapse to Nop.
func Compose(commands ...Command) Command {
	flat := make([]Command, 0, len(commands))

	for _, cmd := range commands {
		if cmd == nil || cmd.IsNothing() {
			continue
		}

		if composite, ok := cmd.(Composite); ok {
			flat = append(flat, composite.Commands...)

			continue
		}

		flat = append(flat, cmd)
	}

	switch len(flat) {
	case 0:
		return Nothing{}
	case 1:
		return flat[0]
	default:
		return Composite{Commands: flat}
	}
}

// FileWriter persists edited file content. Implementations decide where the
// bytes go (disk, memory, an intercepting decorator).
type FileWriter interface {
	// ReadFile returns the current content of path.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the content of path.
	WriteFile(path string, data []byte) error
}

// Performer executes commands against a FileWriter.
type Performer struct {
	writer FileWriter

	// OnMessage receives ShowError messages; nil discards them.
	OnMessage func(message string)

	// OnNavigate receives navigation targets; nil discards them.
	OnNavigate func(nav Navigate)
}

// NewPerformer creates a Performer writing through writer.
func NewPerformer(writer FileWriter) *Performer {
	return &Performer{writer: writer}
}

// Perform executes cmd. File edits are read-modify-write and atomic per
// command: the write happens only after the whole edit set applied cleanly.
func (p *Performer) Perform(cmd Command) error {
	switch c := cmd.(type) {
	case nil, Nothing:
		return nil

	case ShowError:
		if p.OnMessage != nil {
			p.OnMessage(c.Message)
		}

		return nil

	case Navigate:
		if p.OnNavigate != nil {
			p.OnNavigate(c)
		}

		return nil

	case ApplyEdits:
		return p.performEdits(c)

	case Composite:
		for _, member := range c.Commands {
			if err := p.Perform(member); err != nil {
				return err
			}
		}

		return nil

	default:
		return fmt.Errorf("command: unknown command type %T", cmd) //nolint:err113 // programmer error
	}
}

func (p *Performer) performEdits(c ApplyEdits) error {
	if c.IsNothing() {
		return nil
	}

	if p.writer == nil {
		return ErrNilWriter
	}

	source, err := p.writer.ReadFile(c.Path)
	if err != nil {
		return fmt.Errorf("command: read %s: %w", c.Path, err)
	}

	edited, err := c.Edits.Apply(source)
	if err != nil {
		return fmt.Errorf("command: apply edits to %s: %w", c.Path, err)
	}

	if writeErr := p.writer.WriteFile(c.Path, edited); writeErr != nil {
		return fmt.Errorf("command: write %s: %w", c.Path, writeErr)
	}

	return nil
}
