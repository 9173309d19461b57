package stage

import (
	"github.com/charmbracelet/log"

	"github.com/milk9111/actorfsm/prefabs"
)

// Reloader applies prefab edits to a running world between ticks.
type Reloader struct {
	world   *World
	changes <-chan prefabs.Change
	logger  *log.Logger
}

func NewReloader(w *World, changes <-chan prefabs.Change, logger *log.Logger) *Reloader {
	return &Reloader{world: w, changes: changes, logger: logger}
}

// Update applies every change already waiting and returns without
// blocking. A change that fails to apply is logged and the world keeps
// running with its previous controllers.
func (r *Reloader) Update() error {
	for {
		select {
		case change, ok := <-r.changes:
			if !ok {
				r.changes = nil
				return nil
			}
			if err := r.Apply(change); err != nil && r.logger != nil {
				r.logger.Error("prefab reload failed", "name", change.Name, "err", err)
			}
		default:
			return nil
		}
	}
}

// Apply rebuilds whatever depends on the changed file.
func (r *Reloader) Apply(change prefabs.Change) error {
	if change.Kind == prefabs.ChangeScript {
		for _, a := range r.world.Actors() {
			if a.MovementKind() != KindPointMover {
				continue
			}
			if err := a.Rebuild(); err != nil {
				return err
			}
			r.info("script reloaded", change.Name, a)
		}
		return nil
	}

	if change.Name == r.world.SpecFile || change.Name == "audio.yaml" {
		if r.logger != nil {
			r.logger.Warn("restart to apply prefab", "name", change.Name)
		}
		return nil
	}

	for _, a := range r.world.Actors() {
		switch {
		case change.Name == a.File:
			spec, err := prefabs.LoadActorSpec(a.File)
			if err != nil {
				return err
			}
			if err := a.Reload(spec); err != nil {
				return err
			}
			r.info("actor reloaded", change.Name, a)
		case change.Name == GraphFile(a.Spec) && a.MovementKind() == KindPointMover:
			if err := a.Rebuild(); err != nil {
				return err
			}
			r.info("graph reloaded", change.Name, a)
		}
	}
	return nil
}

func (r *Reloader) info(msg, name string, a *Actor) {
	if r.logger != nil {
		r.logger.Info(msg, "name", name, "actor", a.Name())
	}
}
