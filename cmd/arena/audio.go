package main

import (
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/milk9111/actorfsm/prefabs"
	"github.com/milk9111/actorfsm/sound"
)

// Audio plays synthesized cues. Each cue has one player, so a cue that is
// still sounding restarts instead of layering.
type Audio struct {
	players map[string]*audio.Player
	logger  *log.Logger
}

func NewAudio(ctx *audio.Context, spec *prefabs.AudioSpec, logger *log.Logger) *Audio {
	a := &Audio{players: map[string]*audio.Player{}, logger: logger}
	for name, pcm := range sound.Bank(spec) {
		if len(pcm) == 0 {
			continue
		}
		a.players[name] = ctx.NewPlayerFromBytes(pcm)
	}
	return a
}

// Play implements actor.Audio. Unknown cues are logged and ignored.
func (a *Audio) Play(cue string) error {
	p, ok := a.players[cue]
	if !ok {
		a.logger.Debug("unknown audio cue", "cue", cue)
		return nil
	}
	if err := p.Rewind(); err != nil {
		return err
	}
	p.Play()
	return nil
}
