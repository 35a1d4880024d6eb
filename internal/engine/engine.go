package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"spooltag/internal/config"
	"spooltag/internal/form"
	"spooltag/internal/logging"
	"spooltag/internal/material"
	"spooltag/internal/rfidapi"
	"spooltag/internal/services"
	"spooltag/internal/tags"
)

// DefaultConfirmDelay is the wait before re-reading a written or erased channel.
const DefaultConfirmDelay = time.Second

// Device is the remote RFID service. *rfidapi.Client implements it.
type Device interface {
	ListTags(ctx context.Context) ([]tags.ChannelRecord, error)
	GetTag(ctx context.Context, channel int) (tags.ChannelRecord, error)
	WriteOpenSpool(ctx context.Context, payload form.WritePayload) (rfidapi.OperationResult, error)
	Erase(ctx context.Context, payload form.ErasePayload) (rfidapi.OperationResult, error)
}

// Options configures an Engine. Zero values are usable.
type Options struct {
	Store          *tags.Store
	Status         StatusSink
	Widgets        form.Widgets
	Logger         *slog.Logger
	ConfirmDelay   time.Duration
	DefaultChannel int
	// AfterFunc schedules confirmation refreshes; defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func())
}

// OptionsFromConfig fills timing and selection settings from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{}
	}
	return Options{
		ConfirmDelay:   cfg.ConfirmDelay(),
		DefaultChannel: cfg.Sync.DefaultChannel,
	}
}

// Engine is one operator session: the channel store, the write form, the
// erase form and the state of each request cycle. It is safe for concurrent
// use; confirmation refreshes run on timer goroutines.
type Engine struct {
	device Device
	store  *tags.Store
	status StatusSink
	logger *slog.Logger

	confirmDelay   time.Duration
	defaultChannel int
	after          func(time.Duration, func())

	pendingMu sync.Mutex
	pending   int
	idle      chan struct{}

	mu             sync.Mutex
	form           *form.Synchronizer
	writeChannel   int
	eraseChannel   int
	eraseConfirmed bool
	states         map[Op]State
}

// New builds an engine around device.
func New(device Device, opts Options) *Engine {
	e := &Engine{
		device:         device,
		store:          opts.Store,
		status:         opts.Status,
		logger:         logging.NewComponentLogger(opts.Logger, "engine"),
		confirmDelay:   opts.ConfirmDelay,
		defaultChannel: opts.DefaultChannel,
		after:          opts.AfterFunc,
		form:           form.NewSynchronizer(opts.Widgets),
		states:         make(map[Op]State, len(Ops)),
	}
	if e.store == nil {
		e.store = tags.NewStore()
	}
	if e.status == nil {
		e.status = discardStatus{}
	}
	if e.confirmDelay <= 0 {
		e.confirmDelay = DefaultConfirmDelay
	}
	if e.after == nil {
		e.after = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	e.writeChannel = e.defaultChannel
	e.eraseChannel = e.defaultChannel
	e.form.Reset(e.defaultChannel)
	return e
}

// Store exposes the channel store.
func (e *Engine) Store() *tags.Store { return e.store }

// Channels returns every known channel in device order.
func (e *Engine) Channels() []tags.ChannelRecord { return e.store.All() }

// Channel returns one channel or ErrNotFound.
func (e *Engine) Channel(channel int) (tags.ChannelRecord, error) {
	rec, ok := e.store.Get(channel)
	if !ok {
		return tags.ChannelRecord{}, services.Wrap(services.ErrNotFound, "channel", fmt.Sprintf("channel %d not reported by device", channel), nil)
	}
	return rec, nil
}

// State returns the latest state of op.
func (e *Engine) State(op Op) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.states[op]
}

func (e *Engine) setState(op Op, s State) {
	e.mu.Lock()
	e.states[op] = s
	e.mu.Unlock()
}

// Form returns a snapshot of the write form.
func (e *Engine) Form() form.Values {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form.Values()
}

// Placeholders returns the auto-fill hints of the selected material.
func (e *Engine) Placeholders() material.Placeholders {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form.Placeholders()
}

// TouchedSlots lists the secondary colour slots that will be sent.
func (e *Engine) TouchedSlots() []form.Slot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form.TouchedSlots()
}

// Edit runs fn with exclusive access to the write form. Use it to route
// colour widget events.
func (e *Engine) Edit(fn func(s *form.Synchronizer)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.form)
}

// Apply replays typed field edits on the write form.
func (e *Engine) Apply(data url.Values) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form.Apply(data)
}

// SelectWriteChannel picks the write target and loads its tag into the form.
// A channel the store does not know only changes the selection.
func (e *Engine) SelectWriteChannel(channel int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.writeChannel = channel
	if rec, ok := e.store.Get(channel); ok {
		e.form.Load(rec)
		return
	}
	e.form.SetChannel(channel)
}

// WriteChannel returns the selected write target.
func (e *Engine) WriteChannel() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.writeChannel
}

// SelectEraseChannel picks the erase target.
func (e *Engine) SelectEraseChannel(channel int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.eraseChannel = channel
}

// EraseChannel returns the selected erase target.
func (e *Engine) EraseChannel() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.eraseChannel
}

// SetEraseConfirm records the operator's erase confirmation.
func (e *Engine) SetEraseConfirm(confirmed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.eraseConfirmed = confirmed
}

// WriteCapability evaluates the gate for the selected write channel.
func (e *Engine) WriteCapability() tags.Capability {
	return tags.Gate(e.record(e.WriteChannel()))
}

// EraseCapability evaluates the gate for the selected erase channel.
func (e *Engine) EraseCapability() tags.Capability {
	return tags.Gate(e.record(e.EraseChannel()))
}

func (e *Engine) record(channel int) tags.ChannelRecord {
	rec, ok := e.store.Get(channel)
	if !ok {
		return tags.ChannelRecord{Channel: channel}
	}
	return rec
}

// Wait blocks until scheduled confirmation refreshes have finished or ctx
// is done.
func (e *Engine) Wait(ctx context.Context) error {
	e.pendingMu.Lock()
	idle := e.idle
	e.pendingMu.Unlock()
	if idle == nil {
		return nil
	}
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending reports how many confirmation refreshes have not finished.
func (e *Engine) Pending() int {
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()
	return e.pending
}

func (e *Engine) addPending() {
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()
	if e.pending == 0 {
		e.idle = make(chan struct{})
	}
	e.pending++
}

func (e *Engine) donePending() {
	e.pendingMu.Lock()
	defer e.pendingMu.Unlock()
	e.pending--
	if e.pending == 0 {
		close(e.idle)
		e.idle = nil
	}
}

// reproject reloads the form when the selected write channel changed in the
// store. Operator edits on other channels are left alone.
func (e *Engine) reproject(channels ...int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(channels) > 0 && !containsChannel(channels, e.writeChannel) {
		return
	}
	if rec, ok := e.store.Get(e.writeChannel); ok {
		e.form.Load(rec)
	}
}

func containsChannel(list []int, ch int) bool {
	for _, c := range list {
		if c == ch {
			return true
		}
	}
	return false
}
