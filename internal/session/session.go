// Package session runs a transfer off the caller's goroutine and streams
// its progress back, allowing only one run at a time.
package session

import (
	"errors"
	"sync/atomic"

	"github.com/tonimelisma/phototransfer/internal/organizer"
)

var ErrRunInProgress = errors.New("a run is already in progress")

const defaultBuffer = 64

// Runner is satisfied by *organizer.Engine.
type Runner interface {
	Run(opts organizer.Options, onProgress func(organizer.Progress)) (organizer.Result, error)
}

// Event carries either a progress update or, last, the outcome of the run.
type Event struct {
	Progress *organizer.Progress
	Result   *organizer.Result
	Err      error
}

func (e Event) Final() bool { return e.Progress == nil }

type Session struct {
	running atomic.Bool
	buffer  int
}

func New() *Session {
	return &Session{buffer: defaultBuffer}
}

// Running reports whether a run is in flight.
func (s *Session) Running() bool {
	return s.running.Load()
}

// Start launches r.Run with opts and returns its event stream. Progress
// events are dropped rather than blocking the run when the reader falls
// behind; the final event is always delivered and the channel is closed
// after it. The caller must drain the channel.
func (s *Session) Start(r Runner, opts organizer.Options) (<-chan Event, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}

	events := make(chan Event, s.buffer)
	go func() {
		defer close(events)
		defer s.running.Store(false)

		result, err := r.Run(opts, func(p organizer.Progress) {
			select {
			case events <- Event{Progress: &p}:
			default:
			}
		})

		final := Event{Err: err}
		if err == nil {
			final.Result = &result
		}
		events <- final
	}()

	return events, nil
}
