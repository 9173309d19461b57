package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/milk9111/actorfsm/actor"
	"github.com/milk9111/actorfsm/prefabs"
	"github.com/milk9111/actorfsm/stage"
)

func main() {
	debug := flag.Bool("debug", false, "draw sensors and controller states")
	arenaName := flag.String("arena", "arena.yaml", "arena prefab to load")
	mute := flag.Bool("mute", false, "disable audio")
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal("config", "err", err)
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("logger", "err", err)
	}
	prefabs.Dir = cfg.PrefabDir

	spec, err := prefabs.LoadArenaSpec(*arenaName)
	if err != nil {
		logger.Fatal("load arena", "name", *arenaName, "err", err)
	}

	var sfx actor.Audio = actor.NopAudio{}
	if !*mute {
		a, err := newAudio(logger)
		if err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			sfx = a
		}
	}

	world, err := stage.NewWorld(spec, stage.Options{
		SpecFile: *arenaName,
		TPS:      cfg.TPS,
		Audio:    sfx,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("build world", "err", err)
	}

	if cfg.Watch {
		if _, err := os.Stat(cfg.PrefabDir); err == nil {
			watcher, err := prefabs.NewWatcher(
				[]string{cfg.PrefabDir, cfg.PrefabDir + "/scripts"},
				prefabs.WithWatchLogger(logger),
			)
			if err != nil {
				logger.Warn("hot reload disabled", "err", err)
			} else {
				defer watcher.Close()
				world.Watch(watcher.Changes)
				go logWatchErrors(logger, watcher.Errors)
			}
		}
	}

	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(int(spec.Width), int(spec.Height))
	ebiten.SetWindowTitle(spec.Name)

	if err := ebiten.RunGame(NewGame(world, *debug)); err != nil {
		logger.Fatal("run", "err", err)
	}
}

func logWatchErrors(logger *log.Logger, errs <-chan error) {
	for err := range errs {
		logger.Warn("prefab watcher", "err", err)
	}
}

func newAudio(logger *log.Logger) (*Audio, error) {
	spec, err := prefabs.LoadAudioSpec()
	if err != nil {
		return nil, err
	}
	return NewAudio(audio.NewContext(spec.SampleRate), spec, logger), nil
}
