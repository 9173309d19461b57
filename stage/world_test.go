package stage

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/milk9111/actorfsm/combat"
	"github.com/milk9111/actorfsm/input"
	"github.com/milk9111/actorfsm/movement"
	"github.com/milk9111/actorfsm/physics"
	"github.com/milk9111/actorfsm/prefabs"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	spec, err := prefabs.LoadArenaSpec("arena.yaml")
	if err != nil {
		t.Fatalf("load arena: %v", err)
	}
	w, err := NewWorld(spec, Options{SpecFile: "arena.yaml"})
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return w
}

func TestFactoryBuildsEveryKind(t *testing.T) {
	spec, err := prefabs.LoadArenaSpec("arena.yaml")
	if err != nil {
		t.Fatalf("load arena: %v", err)
	}
	player, err := prefabs.LoadActorSpec("player.yaml")
	if err != nil {
		t.Fatalf("load player: %v", err)
	}
	boss, err := prefabs.LoadActorSpec("boss.yaml")
	if err != nil {
		t.Fatalf("load boss: %v", err)
	}

	f := &Factory{Arena: physics.NewArena(spec)}
	tests := []struct {
		spec   prefabs.ActorSpec
		kind   string
		system input.SystemType
		check  func(any) bool
	}{
		{player, KindRbMover, input.SystemMovement, func(m any) bool { _, ok := m.(*movement.RbMover); return ok }},
		{player, KindPointMover, input.SystemMovement, func(m any) bool { _, ok := m.(*movement.PointMover); return ok }},
		{boss, KindBossMover, input.SystemMovement, func(m any) bool { _, ok := m.(*movement.BossMover); return ok }},
		{player, KindRifle, input.SystemCombat, func(m any) bool { _, ok := m.(*combat.Gun); return ok }},
		{player, KindAutomaticGun, input.SystemCombat, func(m any) bool { _, ok := m.(*combat.Gun); return ok }},
		{player, KindSpear, input.SystemCombat, func(m any) bool { _, ok := m.(*combat.Spear); return ok }},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			parts, err := f.Parts(tt.spec, tt.spec.Name)
			if err != nil {
				t.Fatalf("parts: %v", err)
			}
			m, err := f.Controller(tt.spec, tt.kind, parts)
			if err != nil {
				t.Fatalf("controller: %v", err)
			}
			if !tt.check(m) {
				t.Fatalf("unexpected controller type %T", m)
			}
			if got := SystemOf(tt.kind); got != tt.system {
				t.Fatalf("SystemOf(%s) = %v, want %v", tt.kind, got, tt.system)
			}
		})
	}

	parts, err := f.Parts(boss, "boss")
	if err != nil {
		t.Fatalf("parts: %v", err)
	}
	if _, err := f.Controller(boss, KindSpear, parts); err == nil {
		t.Fatalf("expected an error for a kind the prefab does not configure")
	}
	if _, err := f.Controller(player, "jetpack", parts); err == nil {
		t.Fatalf("expected an error for an unknown kind")
	}
	if _, err := f.Parts(prefabs.ActorSpec{Name: "ghost"}, nil); err == nil {
		t.Fatalf("expected an error for a body without size")
	}
}

func TestWorldAssembly(t *testing.T) {
	w := newTestWorld(t)

	want := []string{"clock", "input", "devices", "sensors", "characters", "physics", "reload"}
	if got := w.Steps(); !slices.Equal(got, want) {
		t.Fatalf("Steps() = %v, want %v", got, want)
	}
	if w.Player.MovementKind() != KindRbMover || w.Player.CombatKind() != KindRifle {
		t.Fatalf("unexpected player controllers %s/%s", w.Player.MovementKind(), w.Player.CombatKind())
	}
	if w.Boss == nil || w.Boss.MovementKind() != KindBossMover || w.Boss.CombatKind() != KindAutomaticGun {
		t.Fatalf("expected the boss with its prefab controllers")
	}
	if w.Boss.Sensors == nil || w.Brain == nil {
		t.Fatalf("expected the boss to sense and think")
	}
	if !w.Boss.Parts.Feet.Grounded() {
		t.Fatalf("expected the boss to spawn on the floor")
	}

	start := w.Player.Parts.Body.Position()
	for i := 0; i < 30; i++ {
		if err := w.Update(Controls{}); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if got := w.Player.Parts.Body.Position(); got.Y <= start.Y {
		t.Fatalf("expected the player to fall toward the floor, %v -> %v", start, got)
	}
	if w.Clock.Now() <= 0 {
		t.Fatalf("expected the clock to advance")
	}
}

func TestWorldSwapsControllers(t *testing.T) {
	w := newTestWorld(t)

	steps := []struct {
		name     string
		c        Controls
		movement string
		combat   string
	}{
		{name: "spear slot", c: Controls{Slot: 3}, movement: KindRbMover, combat: KindSpear},
		{name: "missing slot keeps weapon", c: Controls{Slot: 9}, movement: KindRbMover, combat: KindSpear},
		{name: "automatic slot", c: Controls{Slot: 2}, movement: KindRbMover, combat: KindAutomaticGun},
		{name: "hover on", c: Controls{ToggleHover: true}, movement: KindPointMover, combat: KindAutomaticGun},
		{name: "hover off", c: Controls{ToggleHover: true}, movement: KindRbMover, combat: KindAutomaticGun},
	}
	for _, s := range steps {
		t.Run(s.name, func(t *testing.T) {
			if err := w.Update(s.c); err != nil {
				t.Fatalf("update: %v", err)
			}
			if w.Player.MovementKind() != s.movement || w.Player.CombatKind() != s.combat {
				t.Fatalf("got %s/%s, want %s/%s", w.Player.MovementKind(), w.Player.CombatKind(), s.movement, s.combat)
			}
		})
	}
}

func TestReloaderAppliesChanges(t *testing.T) {
	w := newTestWorld(t)
	changes := make(chan prefabs.Change, 4)
	w.Watch(changes)

	if err := w.Player.Use(KindPointMover); err != nil {
		t.Fatalf("use: %v", err)
	}
	before := w.Player.Movement()

	changes <- prefabs.Change{Kind: prefabs.ChangeScript, Name: "hover.tengo"}
	if err := w.Update(Controls{}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if w.Player.Movement() == before {
		t.Fatalf("expected a script change to rebuild the point mover")
	}

	if err := w.Player.Equip(3); err != nil {
		t.Fatalf("equip: %v", err)
	}
	changes <- prefabs.Change{Kind: prefabs.ChangeSpec, Name: "player.yaml"}
	changes <- prefabs.Change{Kind: prefabs.ChangeSpec, Name: "arena.yaml"}
	if err := w.Update(Controls{}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if w.Player.MovementKind() != KindPointMover || w.Player.CombatKind() != KindSpear {
		t.Fatalf("reload must keep the active kinds, got %s/%s", w.Player.MovementKind(), w.Player.CombatKind())
	}

	bossMover := w.Boss.Movement()
	if err := NewReloader(w, nil, nil).Apply(prefabs.Change{Kind: prefabs.ChangeSpec, Name: "hover.yaml"}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if w.Boss.Movement() != bossMover {
		t.Fatalf("a graph change must leave actors without a point mover alone")
	}

	close(changes)
	if err := w.Update(Controls{}); err != nil {
		t.Fatalf("update after close: %v", err)
	}
}

func TestReloaderKeepsMoverOnBrokenScript(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "scripts"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	prev := prefabs.Dir
	prefabs.Dir = dir
	t.Cleanup(func() { prefabs.Dir = prev })

	w := newTestWorld(t)
	changes := make(chan prefabs.Change, 1)
	w.Watch(changes)
	if err := w.Player.Use(KindPointMover); err != nil {
		t.Fatalf("use: %v", err)
	}
	before := w.Player.Movement()

	broken := []byte("hover_speed := func( {\n")
	if err := os.WriteFile(filepath.Join(dir, "scripts", "hover.tengo"), broken, 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	changes <- prefabs.Change{Kind: prefabs.ChangeScript, Name: "hover.tengo"}
	if err := w.Update(Controls{}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if w.Player.Movement() != before {
		t.Fatalf("expected the running point mover to survive a broken script, got %T", w.Player.Movement())
	}
	if w.Player.MovementKind() != KindPointMover {
		t.Fatalf("expected kind %s, got %s", KindPointMover, w.Player.MovementKind())
	}
	for range 40 {
		if err := w.Update(Controls{}); err != nil {
			t.Fatalf("update after failed reload: %v", err)
		}
	}
	mover, ok := w.Player.Movement().(*movement.PointMover)
	if !ok {
		t.Fatalf("expected a point mover, got %T", w.Player.Movement())
	}
	if mover.State() != "Rise" {
		t.Fatalf("expected the kept graph to keep running, got state %s", mover.State())
	}
}
