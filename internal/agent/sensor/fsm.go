package sensor

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
)

// Lifecycle states of a sensor instance.
const (
	StateInitializing = "initializing"
	StateReady        = "ready"
	StateRefreshing   = "refreshing"

	// StateInvalid is absorbing: a sensor enters it on a fatal credential
	// failure and never leaves.
	StateInvalid = "invalid"
)

// Lifecycle events.
const (
	eventActivate   = "activate"
	eventRefresh    = "refresh"
	eventComplete   = "complete"
	eventInvalidate = "invalidate"
)

// errNotRefreshable is returned by beginRefresh when a refresh cannot start.
var errNotRefreshable = errors.New("sensor is not ready to refresh")

// lifecycle wraps the sensor's state machine. The refresh transition doubles
// as the at-most-one-in-flight guard: a second refresh event while one cycle
// runs is rejected, and that tick is skipped.
type lifecycle struct {
	*fsm.FSM
}

func newLifecycle() *lifecycle {
	events := fsm.Events{
		{Name: eventActivate, Src: []string{StateInitializing}, Dst: StateReady},
		{Name: eventRefresh, Src: []string{StateReady}, Dst: StateRefreshing},
		{Name: eventComplete, Src: []string{StateRefreshing}, Dst: StateReady},
		{Name: eventInvalidate, Src: []string{StateInitializing, StateReady, StateRefreshing}, Dst: StateInvalid},
	}

	return &lifecycle{
		FSM: fsm.NewFSM(StateInitializing, events, fsm.Callbacks{}),
	}
}

// activate moves a freshly constructed sensor into service.
func (l *lifecycle) activate(ctx context.Context) error {
	return l.Event(ctx, eventActivate)
}

// beginRefresh claims the single in-flight refresh slot.
func (l *lifecycle) beginRefresh(ctx context.Context) error {
	if err := l.Event(ctx, eventRefresh); err != nil {
		return errors.Join(errNotRefreshable, err)
	}
	return nil
}

// finishRefresh releases the refresh slot. A sensor invalidated mid-cycle
// stays invalid.
func (l *lifecycle) finishRefresh(ctx context.Context) {
	if l.Current() == StateRefreshing {
		_ = l.Event(ctx, eventComplete)
	}
}

// invalidate moves the sensor into the absorbing invalid state.
func (l *lifecycle) invalidate(ctx context.Context) {
	if l.Current() != StateInvalid {
		_ = l.Event(ctx, eventInvalidate)
	}
}
