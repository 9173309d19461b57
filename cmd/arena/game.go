package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/actorfsm/stage"
)

type Game struct {
	world   *stage.World
	debug   bool
	palette palette
	err     error
}

func NewGame(world *stage.World, debug bool) *Game {
	return &Game{world: world, debug: debug, palette: newPalette(world.Spec)}
}

func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	if err := g.world.Update(pollControls()); err != nil {
		g.err = err
		return err
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawArena(screen)
	for _, a := range g.world.Actors() {
		g.drawActor(screen, a)
	}
	if g.debug {
		g.drawDebug(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.world.Spec.Width), int(g.world.Spec.Height)
}
