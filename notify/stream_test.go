package notify

import (
	"errors"
	"testing"
)

func TestStreamCapacity(t *testing.T) {
	s := NewStream[int]("test", 2)
	noop := func(int) error { return nil }

	if err := s.Subscribe(noop); err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	if err := s.Subscribe(noop); err != nil {
		t.Fatalf("second subscribe: %v", err)
	}
	if err := s.Subscribe(noop); !errors.Is(err, ErrFull) {
		t.Fatalf("expected ErrFull, got %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 subscribers, got %d", s.Len())
	}
}

func TestStreamPublishStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	s := NewStream[string]("test", 3)
	var got []string
	_ = s.Subscribe(func(v string) error { got = append(got, "a:"+v); return nil })
	_ = s.Subscribe(func(v string) error { return boom })
	_ = s.Subscribe(func(v string) error { got = append(got, "c:"+v); return nil })

	if err := s.Publish("x"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(got) != 1 || got[0] != "a:x" {
		t.Fatalf("unexpected deliveries %v", got)
	}
}
