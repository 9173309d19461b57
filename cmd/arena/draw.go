package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/milk9111/actorfsm/combat"
	"github.com/milk9111/actorfsm/prefabs"
	"github.com/milk9111/actorfsm/stage"
)

type palette struct {
	platform, player, boss, tracer, sensor, spear color.Color
}

func newPalette(spec *prefabs.ArenaSpec) palette {
	c := spec.Colors
	return palette{
		platform: c.Platform.Or(colornames.Slategray),
		player:   c.Player.Or(colornames.Skyblue),
		boss:     c.Boss.Or(colornames.Crimson),
		tracer:   c.Tracer.Or(colornames.Gold),
		sensor:   c.Sensor.Or(colornames.Lightgreen),
		spear:    colornames.Lightgrey,
	}
}

func line(dst *ebiten.Image, a, b cp.Vector, width float32, clr color.Color) {
	vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), width, clr, true)
}

func (g *Game) drawArena(screen *ebiten.Image) {
	for _, p := range g.world.Arena.Platforms() {
		line(screen, p.A, p.B, float32(p.Thickness), g.palette.platform)
	}
}

func (g *Game) drawActor(screen *ebiten.Image, a *stage.Actor) {
	clr := g.palette.player
	if a == g.world.Boss {
		clr = g.palette.boss
	}

	body := a.Parts.Body
	pos := body.Position()
	w, h := body.Size()
	vector.FillRect(screen, float32(pos.X-w/2), float32(pos.Y-h/2), float32(w), float32(h), clr, false)

	muzzle := a.Parts.Muzzle.Position()
	angle, _ := a.Parts.Muzzle.Rotation()
	line(screen, muzzle, muzzle.Add(cp.ForAngle(angle*cp.RadianConst).Mult(14)), 2, colornames.White)

	switch weapon := a.Combat().(type) {
	case *combat.Gun:
		if tr := weapon.Tracer(); tr.Visible() {
			line(screen, tr.Origin, tr.End, 2, g.palette.tracer)
		}
	case *combat.Spear:
		from, to := a.Parts.Projectile.Segment()
		line(screen, from, to, 3, g.palette.spear)
	}
}

type stated interface {
	State() string
}

func stateOf(m any) string {
	if s, ok := m.(stated); ok {
		return s.State()
	}
	return "-"
}

func (g *Game) drawDebug(screen *ebiten.Image) {
	var b strings.Builder
	fmt.Fprintf(&b, "TPS: %.1f  t=%.2f\n", ebiten.ActualTPS(), g.world.Clock.Now())
	for _, a := range g.world.Actors() {
		fmt.Fprintf(&b, "%s  %s:%s  %s:%s\n", a.Name(),
			a.MovementKind(), stateOf(a.Movement()),
			a.CombatKind(), stateOf(a.Combat()))
		if gun, ok := a.Combat().(*combat.Gun); ok {
			fmt.Fprintf(&b, "  charge %d\n", gun.Charge())
		}
	}
	ebitenutil.DebugPrint(screen, b.String())

	boss := g.world.Boss
	if boss == nil || boss.Sensors == nil {
		return
	}
	origin := boss.Parts.Body.Position()
	for _, sig := range boss.Sensors.Snapshot().Signals {
		if sig.Detected {
			line(screen, origin, sig.Hit.Point, 1, g.palette.sensor)
		}
	}
	if g.world.Brain != nil && g.world.Brain.Chasing() {
		ebitenutil.DebugPrintAt(screen, "chasing", int(origin.X)-20, int(origin.Y)-50)
	}
}
