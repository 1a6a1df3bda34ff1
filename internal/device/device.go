// Package device wires the timer engines, navigator, ledger and link into
// one appliance and runs its tasks. All state lives behind a single lock
// that every task takes with a bounded wait; a task that cannot get it in
// time skips its update.
package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/sadopc/focusknob/internal/cache"
	"github.com/sadopc/focusknob/internal/clock"
	"github.com/sadopc/focusknob/internal/ledger"
	"github.com/sadopc/focusknob/internal/link"
	"github.com/sadopc/focusknob/internal/nav"
	"github.com/sadopc/focusknob/internal/timer"
)

const (
	// RefreshInterval redraws the clock even when nothing else changed.
	RefreshInterval = time.Second
	// LinkPass is how often the link task checks liveness and retries
	// deferred input.
	LinkPass = 100 * time.Millisecond
)

// ErrBusy is returned when the state lock could not be taken in time.
var ErrBusy = errors.New("device: state busy")

// Display draws snapshots.
type Display interface {
	Render(Snapshot)
}

type Haptic interface {
	Pulse()
}

type nopDisplay struct{}

func (nopDisplay) Render(Snapshot) {}

type nopHaptic struct{}

func (nopHaptic) Pulse() {}

type Device struct {
	mu *stateLock

	wall   *clock.Wall
	ledger *ledger.Ledger
	caches *cache.Caches
	link   *link.Engine
	nav    *nav.Navigator

	focus      *timer.Engine
	task       *timer.Engine
	focusTicks *timer.Periodic
	taskTicks  *timer.Periodic

	display Display
	haptic  Haptic
	render  chan struct{}

	now func() time.Time
	log *log.Logger
}

type options struct {
	linkOut      io.Writer
	display      Display
	haptic       Haptic
	themes       nav.ThemeStore
	theme        int
	focusMinutes int
	taskMinutes  int
	now          func() time.Time
	logger       *log.Logger
}

type Option func(*options)

// WithLinkWriter sets where outbound protocol lines go.
func WithLinkWriter(w io.Writer) Option {
	return func(o *options) { o.linkOut = w }
}

func WithDisplay(disp Display) Option {
	return func(o *options) { o.display = disp }
}

func WithHaptic(h Haptic) Option {
	return func(o *options) { o.haptic = h }
}

// WithThemeStore persists the theme and sets the initial one.
func WithThemeStore(s nav.ThemeStore, current int) Option {
	return func(o *options) {
		o.themes = s
		o.theme = current
	}
}

// WithTimerMinutes sets the initial durations of the two timers.
func WithTimerMinutes(focus, task int) Option {
	return func(o *options) {
		o.focusMinutes = focus
		o.taskMinutes = task
	}
}

// WithClock sets the monotonic clock for debounce, heartbeat and TaskDone
// deadlines.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New assembles a device around the wall clock and ledger.
func New(wall *clock.Wall, l *ledger.Ledger, opts ...Option) *Device {
	o := options{
		linkOut:      io.Discard,
		display:      nopDisplay{},
		haptic:       nopHaptic{},
		focusMinutes: timer.DefaultMinutes,
		taskMinutes:  timer.DefaultMinutes,
		now:          time.Now,
		logger:       log.New(io.Discard),
	}
	for _, fn := range opts {
		fn(&o)
	}

	d := &Device{
		mu:         newStateLock(),
		wall:       wall,
		ledger:     l,
		caches:     &cache.Caches{},
		focusTicks: timer.NewPeriodic(time.Second),
		taskTicks:  timer.NewPeriodic(time.Second),
		display:    o.display,
		haptic:     o.haptic,
		render:     make(chan struct{}, 1),
		now:        o.now,
		log:        o.logger,
	}

	d.link = link.New(o.linkOut, d.caches, wall, l,
		link.WithClock(o.now),
		link.WithObserver(d),
		link.WithLogger(o.logger.WithPrefix("link")))

	d.focus = timer.New(timer.Generic,
		timer.WithMinutes(o.focusMinutes),
		timer.WithRecorder(l),
		timer.WithHaptic(o.haptic),
		timer.WithSource(d.focusTicks),
		timer.WithClock(o.now),
		timer.WithLogger(o.logger.WithPrefix("timer")))

	d.task = timer.New(timer.TaskLinked,
		timer.WithMinutes(o.taskMinutes),
		timer.WithRecorder(l),
		timer.WithReporter(d.link),
		timer.WithHaptic(o.haptic),
		timer.WithSource(d.taskTicks),
		timer.WithClock(o.now),
		timer.WithLogger(o.logger.WithPrefix("task-timer")),
		timer.OnDone(func(task timer.TaskRef, minutes int) {
			d.nav.TaskTimerFinished(task, minutes)
		}))

	navOpts := []nav.Option{
		nav.WithHost(d.link),
		nav.WithHaptic(o.haptic),
		nav.WithTheme(o.theme),
		nav.WithClock(o.now),
		nav.WithLogger(o.logger.WithPrefix("nav")),
	}
	if o.themes != nil {
		navOpts = append(navOpts, nav.WithThemeStore(o.themes))
	}
	d.nav = nav.New(d.focus, d.task, d.caches, navOpts...)
	return d
}

// update runs fn under the state lock and requests a render if it changed
// anything. It reports false when the lock was not available.
func (d *Device) update(task string, fn func() bool) bool {
	if !d.mu.TryAcquire(LockTimeout) {
		d.log.Warn("state busy, update skipped", "task", task)
		return false
	}
	changed := fn()
	d.mu.Release()
	if changed {
		d.RequestRender()
	}
	return true
}

// Dispatch routes one input event.
func (d *Device) Dispatch(in nav.Input) bool {
	return d.update("input", func() bool { return d.nav.Dispatch(in) })
}

// FeedLink hands raw bytes from the host to the protocol engine.
func (d *Device) FeedLink(p []byte) bool {
	return d.update("link", func() bool {
		d.link.Feed(p)
		return false
	})
}

// LogManual records a session entered by hand.
func (d *Device) LogManual(kind ledger.Kind, minutes int) error {
	var err error
	ok := d.update("manual-log", func() bool {
		err = d.ledger.AddSession(kind, minutes)
		return !errors.Is(err, ledger.ErrInvalidDuration)
	})
	if !ok {
		return ErrBusy
	}
	if err != nil {
		return fmt.Errorf("log session: %w", err)
	}
	return nil
}

// QueueNote queues a note for the host.
func (d *Device) QueueNote(text string) error {
	var err error
	ok := d.update("note", func() bool {
		err = d.link.QueueNote(text)
		return err == nil
	})
	if !ok {
		return ErrBusy
	}
	return err
}

// Snapshot copies the current state.
func (d *Device) Snapshot() (Snapshot, error) {
	if !d.mu.TryAcquire(LockTimeout) {
		return Snapshot{}, ErrBusy
	}
	defer d.mu.Release()
	return d.snapshot(), nil
}

// RequestRender asks the render task for a redraw. Requests coalesce.
func (d *Device) RequestRender() {
	select {
	case d.render <- struct{}{}:
	default:
	}
}

// TasksUpdated, TaskLogResult and LinkChanged are called by the link
// engine, which already runs under the state lock.
func (d *Device) TasksUpdated() {
	d.nav.TasksUpdated()
	d.RequestRender()
}

func (d *Device) TaskLogResult(ok bool, msg string) {
	d.nav.TaskLogResult(ok, msg)
	d.RequestRender()
}

func (d *Device) LinkChanged() { d.RequestRender() }

// Run drives the device until ctx is done. inputs carries knob and touch
// events; port, if not nil, is the host link and is closed when Run returns.
func (d *Device) Run(ctx context.Context, inputs <-chan nav.Input, port io.Reader) error {
	defer d.focusTicks.Suspend()
	defer d.taskTicks.Suspend()

	g, ctx := errgroup.WithContext(ctx)

	var chunks chan []byte
	if port != nil {
		chunks = make(chan []byte, 16)
		if c, ok := port.(io.Closer); ok {
			go func() {
				<-ctx.Done()
				c.Close()
			}()
		}
		g.Go(func() error {
			if err := link.Pump(ctx, port, chunks); err != nil {
				d.log.Error("link reader stopped", "err", err)
			}
			return nil
		})
	}

	g.Go(func() error { return d.inputLoop(ctx, inputs) })
	g.Go(func() error { return d.linkLoop(ctx, chunks) })
	g.Go(func() error { return d.tickLoop(ctx, "tick", d.focus, d.focusTicks) })
	g.Go(func() error { return d.tickLoop(ctx, "task-tick", d.task, d.taskTicks) })
	g.Go(func() error { return d.renderLoop(ctx) })

	d.RequestRender()
	return g.Wait()
}

func (d *Device) inputLoop(ctx context.Context, inputs <-chan nav.Input) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case in, ok := <-inputs:
			if !ok {
				return nil
			}
			d.Dispatch(in)
		}
	}
}

// linkLoop feeds inbound bytes and checks liveness once per pass. Bytes that
// could not be fed because the lock was busy are retried next pass.
func (d *Device) linkLoop(ctx context.Context, chunks <-chan []byte) error {
	ticker := time.NewTicker(LinkPass)
	defer ticker.Stop()

	var deferred [][]byte
	flush := func() {
		for len(deferred) > 0 {
			if !d.FeedLink(deferred[0]) {
				return
			}
			deferred = deferred[1:]
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case p := <-chunks:
			deferred = append(deferred, p)
			flush()
		case <-ticker.C:
			flush()
			d.update("liveness", d.link.CheckLiveness)
		}
	}
}

func (d *Device) tickLoop(ctx context.Context, name string, e *timer.Engine, src *timer.Periodic) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-src.C():
			d.update(name, func() bool { return e.Handle(timer.Tick) })
		}
	}
}

// renderLoop draws on request and once per RefreshInterval, firing the
// navigator's deadlines on each refresh.
func (d *Device) renderLoop(ctx context.Context) error {
	ticker := time.NewTicker(RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.update("poll", d.nav.Poll)
		case <-d.render:
		}

		snap, err := d.Snapshot()
		if err != nil {
			d.log.Debug("render skipped", "err", err)
			continue
		}
		d.display.Render(snap)
	}
}
