package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	reload key.Binding
	about  key.Binding
	esc    key.Binding
	quit   key.Binding
}

var keys = keyMap{
	reload: key.NewBinding(key.WithKeys("r")),
	about:  key.NewBinding(key.WithKeys("v")),
	esc:    key.NewBinding(key.WithKeys("esc")),
	quit:   key.NewBinding(key.WithKeys("q", "ctrl+c")),
}
