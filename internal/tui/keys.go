package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Toggle     key.Binding
	Edit       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
	Submit     key.Binding
	Cancel     key.Binding
	PrevStatus key.Binding
	NextStatus key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Left:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h", "left")),
		Right:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l", "right")),
		Toggle:     key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("x", "toggle")),
		Edit:       key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Quit:       key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		PrevStatus: key.NewBinding(key.WithKeys("shift+tab", "ctrl+p"), key.WithHelp("shift+tab", "prev status")),
		NextStatus: key.NewBinding(key.WithKeys("tab", "ctrl+n"), key.WithHelp("tab", "next status")),
	}
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+":"+h.Desc)
	}
	return strings.Join(parts, " ")
}

func (k keyMap) boardHelp() string {
	return helpLine(k.Toggle, k.Edit, k.Quit)
}

func (k keyMap) formHelp() string {
	return helpLine(k.Submit, k.NextStatus, k.Cancel)
}
