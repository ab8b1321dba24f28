// Package viewport mirrors the camera state owned by the basemap
// collaborator. The editor only reads it to seed spatial defaults, and
// propagation to listeners is throttled so bursty camera movement collapses
// into one trailing update per window.
package viewport

import (
	"sync"
	"time"

	"github.com/khankhulgun/khanedit/throttle"
)

// State is a camera snapshot.
type State struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Zoom      float64 `json:"zoom"`
}

type Provider struct {
	mu        sync.RWMutex
	state     State
	debouncer *throttle.Debouncer
	listeners []func(State)
}

// PropagationInterval bounds how often listeners observe camera movement.
const PropagationInterval = 100 * time.Millisecond

func NewProvider(initial State) *Provider {
	return &Provider{
		state:     initial,
		debouncer: throttle.NewDebouncer(PropagationInterval),
	}
}

// Current returns the latest camera snapshot, unthrottled.
func (p *Provider) Current() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// OnChange registers a throttled listener.
func (p *Provider) OnChange(fn func(State)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Update records camera movement and schedules trailing propagation.
func (p *Provider) Update(state State) {
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()

	p.debouncer.Schedule(func() {
		p.mu.RLock()
		current := p.state
		listeners := make([]func(State), len(p.listeners))
		copy(listeners, p.listeners)
		p.mu.RUnlock()
		for _, fn := range listeners {
			fn(current)
		}
	})
}

// Close cancels the propagation timer. Updates after Close are recorded but
// never propagated.
func (p *Provider) Close() {
	p.debouncer.Stop()
}
