package timer

import (
	"sync"
	"time"
)

// Periodic is a ticker that can be suspended and resumed without being
// recreated.
type Periodic struct {
	mu       sync.Mutex
	interval time.Duration
	ticker   *time.Ticker
	running  bool
}

// NewPeriodic returns a suspended source.
func NewPeriodic(interval time.Duration) *Periodic {
	t := time.NewTicker(interval)
	t.Stop()
	return &Periodic{interval: interval, ticker: t}
}

// C delivers ticks while the source is running.
func (p *Periodic) C() <-chan time.Time { return p.ticker.C }

func (p *Periodic) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.ticker.Reset(p.interval)
	p.running = true
}

func (p *Periodic) Suspend() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ticker.Stop()
	p.running = false
}

func (p *Periodic) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
