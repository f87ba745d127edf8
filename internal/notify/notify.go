// Package notify delivers reminder messages over a set of output channels.
// Every channel is best-effort except the in-app banner feed, which always
// records the message.
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Message is one human-readable reminder.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
}

// Channel is a single delivery mechanism.
type Channel interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// PermissionDecision is the user's answer to a permission request.
type PermissionDecision string

const (
	PermissionUnset   PermissionDecision = "unset"
	PermissionGranted PermissionDecision = "granted"
	PermissionDenied  PermissionDecision = "denied"
)

// Permission tracks the desktop-notification permission state machine:
// unset -> granted or unset -> denied, set only by an explicit request.
type Permission struct {
	mu    sync.RWMutex
	state PermissionDecision
}

// NewPermission starts in the unset state.
func NewPermission() *Permission {
	return &Permission{state: PermissionUnset}
}

// State returns the current decision.
func (p *Permission) State() PermissionDecision {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Set records the user's decision. Unknown values are ignored.
func (p *Permission) Set(decision PermissionDecision) {
	if decision != PermissionGranted && decision != PermissionDenied {
		return
	}
	p.mu.Lock()
	p.state = decision
	p.mu.Unlock()
}

// Granted reports whether permission-gated channels may fire.
func (p *Permission) Granted() bool {
	return p.State() == PermissionGranted
}

// Dispatcher fans a message out to every registered channel. A failing
// channel is logged and skipped; the remaining channels still fire.
type Dispatcher struct {
	channels []Channel
	logger   *zap.Logger
	observer func(channel string, err error)
}

// NewDispatcher builds a dispatcher over the given channels. The banner
// channel should be registered first so the message is recorded even if a
// later channel misbehaves.
func NewDispatcher(logger *zap.Logger, channels ...Channel) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{channels: channels, logger: logger}
}

// SetObserver installs a per-delivery callback, used for metrics.
func (d *Dispatcher) SetObserver(fn func(channel string, err error)) {
	d.observer = fn
}

// Dispatch sends the message on every channel.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) {
	for _, ch := range d.channels {
		err := ch.Send(ctx, msg)
		if err != nil {
			d.logger.Sugar().Warnw("notification channel failed",
				"channel", ch.Name(), "tag", msg.Tag, "error", err)
		}
		if d.observer != nil {
			d.observer(ch.Name(), err)
		}
	}
}
