// Package ui holds the terminal prompts and output used by the interactive
// converter.
package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// ErrAborted is returned when the user leaves a prompt with ctrl+c or esc.
var ErrAborted = errors.New("operation cancelled by user")

// Prompter asks the user for input.
type Prompter interface {
	// Input asks for a line of text. placeholder is shown while the field is
	// empty and is not returned.
	Input(title, placeholder string) (string, error)
	Confirm(title string) (bool, error)
	// Spin runs action while showing title.
	Spin(ctx context.Context, title string, action func(ctx context.Context) error) error
}

// HuhPrompter prompts on the terminal with huh.
type HuhPrompter struct{}

func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{}
}

func (p *HuhPrompter) Input(title, placeholder string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value).
		Run()
	return value, aborted(err)
}

func (p *HuhPrompter) Confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, aborted(err)
}

func (p *HuhPrompter) Spin(ctx context.Context, title string, action func(ctx context.Context) error) error {
	return spinner.New().
		Title(title).
		Context(ctx).
		ActionWithErr(action).
		Run()
}

func aborted(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}
