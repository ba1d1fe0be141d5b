package hud

import "example.com/game/ui"

// Menu lists the entries of a screen.
type Menu struct {
	ui.VisualElement

	title string
}

//uibind:trait("title", "Main")
func (m *Menu) SetTitle(v string) {
	m.title = v
}

// Title returns the heading of the menu.
func (m *Menu) Title() string {
	return m.title
}
