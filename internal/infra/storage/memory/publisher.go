package memory

import (
	"context"
	"sync"

	"stayhub/internal/domain/booking"
	"stayhub/internal/usecase/commands"
)

// CapturePublisher records published events for assertions.
type CapturePublisher struct {
	mu     sync.Mutex
	events []booking.Event
}

func NewCapturePublisher() *CapturePublisher {
	return &CapturePublisher{}
}

var _ commands.EventPublisher = (*CapturePublisher)(nil)

func (p *CapturePublisher) Publish(_ context.Context, ev booking.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *CapturePublisher) Events() []booking.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]booking.Event, len(p.events))
	copy(out, p.events)
	return out
}

func (p *CapturePublisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.events))
	for i, ev := range p.events {
		names[i] = ev.EventName()
	}
	return names
}
