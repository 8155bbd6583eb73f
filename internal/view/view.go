package view

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/grillz/web/internal/domain"
	"github.com/grillz/web/internal/probe"
)

var (
	// ErrInFlight is returned when a ping is requested while another one on
	// the same view has not settled. It is the server-side twin of the
	// disabled button.
	ErrInFlight = errors.New("ping already in flight")
	// ErrClosed is returned once the view has been torn down.
	ErrClosed = domain.ErrViewClosed
)

// State is an immutable snapshot of both cells.
type State struct {
	InFlight bool   `json:"in_flight"`
	Result   string `json:"result"`
}

// View is one view instance: the in-flight flag, the last result, and the
// ping action that drives them. Every subscriber receives a fresh State
// after each cell update.
type View struct {
	probe  probe.Probe
	logger *zap.Logger

	mu       sync.Mutex
	inFlight Cell[bool]
	result   Cell[string]
	subs     map[int]chan State
	nextSub  int
	dirty    bool
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(p probe.Probe, logger *zap.Logger) *View {
	ctx, cancel := context.WithCancel(context.Background())
	v := &View{
		probe:  p,
		logger: logger,
		subs:   make(map[int]chan State),
		ctx:    ctx,
		cancel: cancel,
	}
	v.inFlight = newCell("in_flight", false, v.changedLocked)
	v.result = newCell("result", "", v.changedLocked)
	return v
}

func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// Ping runs the action and blocks until it settles. The probe itself is
// bound only to the view's lifecycle: cancelling ctx stops the wait and
// returns ctx.Err(), but the ping still settles into the view for every
// other subscriber. A view closed before settlement keeps its old state.
func (v *View) Ping(ctx context.Context) (domain.Outcome, error) {
	done, err := v.run()
	if err != nil {
		return domain.Outcome{}, err
	}
	select {
	case out := <-done:
		return out, nil
	case <-ctx.Done():
		return domain.Outcome{}, ctx.Err()
	}
}

// Start runs the action in the background. It returns as soon as the
// in-flight flag is set.
func (v *View) Start() error {
	_, err := v.run()
	return err
}

func (v *View) run() (<-chan domain.Outcome, error) {
	if err := v.begin(); err != nil {
		return nil, err
	}
	done := make(chan domain.Outcome, 1)
	go func() {
		defer v.wg.Done()
		out := v.probe.Check(v.ctx)
		v.settle(out)
		done <- out
	}()
	return done, nil
}

func (v *View) begin() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	if v.inFlight.Get() {
		return ErrInFlight
	}
	v.wg.Add(1)
	v.inFlight.Set(true)
	v.result.Set("")
	v.publishLocked()
	return nil
}

func (v *View) settle(out domain.Outcome) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		v.logger.Debug("ping settled after view closed, dropping result", zap.String("kind", out.Kind()))
		return
	}
	v.result.Set(out.Text())
	v.inFlight.Set(false)
	v.publishLocked()

	if out.OK() {
		v.logger.Debug("ping settled", zap.String("kind", out.Kind()))
	} else {
		v.logger.Info("ping failed", zap.String("kind", out.Kind()), zap.String("message", out.Text()))
	}
}

// Subscribe returns a channel that receives the latest State after every
// change. Slow readers only ever see the most recent snapshot. The channel
// is closed by the returned cancel function or when the view closes.
func (v *View) Subscribe() (<-chan State, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	ch := make(chan State, 1)
	if v.closed {
		close(ch)
		return ch, func() {}
	}

	id := v.nextSub
	v.nextSub++
	v.subs[id] = ch

	return ch, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if c, ok := v.subs[id]; ok {
			delete(v.subs, id)
			close(c)
		}
	}
}

// Close tears the view down: outstanding pings are cancelled and their
// settlement becomes a no-op. Close is idempotent.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.closed = true
	v.cancel()
	for id, ch := range v.subs {
		delete(v.subs, id)
		close(ch)
	}
}

// Wait blocks until every ping started on this view has returned.
func (v *View) Wait() { v.wg.Wait() }

func (v *View) snapshotLocked() State {
	return State{InFlight: v.inFlight.Get(), Result: v.result.Get()}
}

// changedLocked is the cells' notify hook. It only marks the view dirty;
// publishLocked sends one snapshot once every cell of a phase is written,
// so subscribers never see a half-applied update.
func (v *View) changedLocked(string) {
	v.dirty = true
}

func (v *View) publishLocked() {
	if !v.dirty {
		return
	}
	v.dirty = false
	s := v.snapshotLocked()
	for _, ch := range v.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}
