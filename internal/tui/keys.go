package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/metcalfc/talkbox/internal/config"
)

type keyMap struct {
	Confirm key.Binding
	Toggle  key.Binding
	Quit    key.Binding
}

func newKeyMap(k config.KeysConfig) keyMap {
	return keyMap{
		Confirm: binding(k.Confirm, "next"),
		Toggle:  binding(k.Toggle, "hide/show"),
		Quit:    binding(k.Quit, "quit"),
	}
}

func binding(keys []string, desc string) key.Binding {
	label := ""
	if len(keys) > 0 {
		label = keys[0]
		if label == " " {
			label = "space"
		}
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Toggle, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
