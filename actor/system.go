package actor

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/milk9111/actorfsm/input"
	"github.com/milk9111/actorfsm/notify"
)

// DefaultTransitionSubscribers is the subscriber capacity of a system's
// transition stream when none is given.
const DefaultTransitionSubscribers = 4

// System owns one active controller and forwards driving calls to it.
type System struct {
	name        string
	active      Machine
	transitions *notify.Stream[notify.Unit]
	logger      *log.Logger
}

func NewSystem(name string, subscribers int, logger *log.Logger) *System {
	if subscribers <= 0 {
		subscribers = DefaultTransitionSubscribers
	}
	s := &System{
		name:        name,
		transitions: notify.NewStream[notify.Unit](name+" transitions", subscribers),
	}
	if logger != nil {
		s.logger = logger.With("system", name)
	}
	return s
}

// Transitions is the stream controllers publish autonomous commits on.
func (s *System) Transitions() *notify.Stream[notify.Unit] { return s.transitions }

func (s *System) Active() Machine { return s.active }

// SetActive ends the current controller and initializes m in its place. A
// nil m leaves the system idle. If m fails to initialize the previous
// controller is initialized again and stays active.
func (s *System) SetActive(m Machine) error {
	prev := s.active
	if prev != nil {
		if err := prev.End(); err != nil {
			return fmt.Errorf("actor: %s end: %w", s.name, err)
		}
	}
	s.active = m
	if m == nil {
		return nil
	}
	if err := m.Init(s.transitions); err != nil {
		err = fmt.Errorf("actor: %s init: %w", s.name, err)
		s.active = prev
		if prev != nil {
			if rerr := prev.Init(s.transitions); rerr != nil {
				s.active = nil
				return errors.Join(err, fmt.Errorf("actor: %s restore: %w", s.name, rerr))
			}
		}
		return err
	}
	if s.logger != nil {
		s.logger.Debug("controller active", "type", fmt.Sprintf("%T", m))
	}
	return nil
}

func (s *System) HandleInput(sig input.Signal) error {
	if s.active == nil {
		return nil
	}
	return s.active.HandleInput(sig)
}

func (s *System) Update() error {
	if s.active == nil {
		return nil
	}
	return s.active.Update()
}
