package hud

import "example.com/game/ui"

// HealthBar shows the remaining health of the player.
type HealthBar struct {
	ui.VisualElement

	//uibind:trait("player-health", 100)
	PlayerHealth int

	//uibind:element("title")
	Title *ui.Label

	//uibind:component(Parent)
	Frame *ui.Panel
}
