package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/actorfsm/stage"
)

const stickDeadzone = 0.2

var slotKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3}

// pollControls reads keyboard, mouse and the first gamepad. The layout size
// matches the arena, so cursor coordinates are arena coordinates.
func pollControls() stage.Controls {
	var c stage.Controls

	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		c.MoveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		c.MoveX += 1
	}
	c.Jump = ebiten.IsKeyPressed(ebiten.KeySpace)
	c.Dash = ebiten.IsKeyPressed(ebiten.KeyShiftLeft)
	c.Attack = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	c.Reload = ebiten.IsKeyPressed(ebiten.KeyR)
	c.ToggleHover = inpututil.IsKeyJustPressed(ebiten.KeyH)

	x, y := ebiten.CursorPosition()
	c.Cursor = cp.Vector{X: float64(x), Y: float64(y)}
	c.HasCursor = true

	for i, k := range slotKeys {
		if inpututil.IsKeyJustPressed(k) {
			c.Slot = i + 1
		}
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		leftX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(leftX) > stickDeadzone {
			c.MoveX = leftX
		}
		c.Jump = c.Jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		c.Dash = c.Dash || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightRight)
		c.Attack = c.Attack || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		c.Reload = c.Reload || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightLeft)
	}
	return c
}
