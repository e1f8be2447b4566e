// Package stream adapts push-based RPC streams and single-shot RPC calls
// into uniform cancellable event sequences. Every sequence delivers zero or
// more items followed by exactly one terminal condition: completion or a
// transport error. Errors are never re-wrapped, so callers can inspect
// protocol-specific status fields with google.golang.org/grpc/status.
package stream

import (
	"context"
	"errors"
	"io"
	"sync"

	"google.golang.org/grpc/status"

	"github.com/devicewatch/devicewatch/pkg/logger"
)

// Receiver is the client-side shape of a push stream. gRPC client streams
// satisfy it directly. Recv implementations must unblock when the context
// passed to the issuing call is cancelled.
type Receiver[T any] interface {
	Recv() (T, error)
}

// Subscription is one live event sequence backed by exactly one underlying
// call. Consume items from Events until it closes, then check Err for the
// terminal condition. Cancel stops the underlying call; no further events
// are emitted after cancellation and cancellation is never reported as an
// error.
type Subscription[T any] struct {
	// events is unbuffered: an item is only ever handed directly to an
	// actively receiving consumer, so nothing can sit queued past a
	// cancellation.
	events chan T
	done   chan struct{}

	// sendMu makes delivery and cancellation mutually exclusive. Cancel
	// acquires it after cancelling the context, so any in-flight hand-off
	// settles before Cancel returns and later hand-offs are refused.
	sendMu sync.Mutex

	cancelOnce sync.Once
	cancel     context.CancelFunc

	// err is written at most once before done closes; read it only after
	// Events closes or Done fires.
	err error
}

// Events returns the item channel. It closes after the terminal event.
func (s *Subscription[T]) Events() <-chan T {
	return s.events
}

// Done closes once the sequence has terminated for any reason.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Err reports the transport error that terminated the sequence, or nil for
// normal completion or cancellation. Only valid after Done fires.
func (s *Subscription[T]) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Cancel releases the underlying call. Idempotent; the transport's cancel
// operation runs exactly once. No event is delivered after Cancel returns.
// Transport teardown may complete asynchronously.
func (s *Subscription[T]) Cancel() {
	s.cancelOnce.Do(func() {
		s.cancel()

		// Wait out a delivery that was already racing the cancellation.
		s.sendMu.Lock()
		//nolint:staticcheck // empty critical section is the handshake
		s.sendMu.Unlock()
	})
}

func newSubscription[T any](cancel context.CancelFunc) *Subscription[T] {
	return &Subscription[T]{
		events: make(chan T),
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

// deliver hands one item to the consumer. It reports false when the
// sequence was cancelled before the consumer accepted the item.
func (s *Subscription[T]) deliver(ctx context.Context, item T) bool {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if ctx.Err() != nil {
		return false
	}

	select {
	case s.events <- item:
		return true
	case <-ctx.Done():
		return false
	}
}

// finish records the terminal condition and closes the sequence. A
// cancelled context suppresses the error: cancellation is a consumer
// decision, not a failure.
func (s *Subscription[T]) finish(ctx context.Context, err error) {
	if err != nil && ctx.Err() == nil && !errors.Is(err, io.EOF) {
		s.err = err
	}

	close(s.events)
	close(s.done)
}

// Bridge issues a streaming call once and forwards its items until the
// transport reports EOF (completion) or an error. The call is never
// reissued; create a new subscription to retry.
func Bridge[T any](ctx context.Context, log logger.Logger, issue func(context.Context) (Receiver[T], error)) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	sub := newSubscription[T](cancel)

	go func() {
		defer cancel()

		rx, err := issue(ctx)
		if err != nil {
			sub.finish(ctx, err)
			log.Debug().Err(sub.err).Msg("Stream call failed to start")

			return
		}

		for {
			item, err := rx.Recv()
			if err != nil {
				sub.finish(ctx, err)
				log.Debug().Err(sub.err).Msg("Stream terminated")

				return
			}

			if !sub.deliver(ctx, item) {
				sub.finish(ctx, nil)
				return
			}
		}
	}()

	return sub
}

// BridgeUnary issues a request/response call once and delivers the result
// as a single item followed by completion, or a single error, never both.
// The gRPC status observed after the terminal event is logged as a
// side-channel debug event; it carries no contract weight and consumers
// must never depend on it.
func BridgeUnary[T any](ctx context.Context, log logger.Logger, issue func(context.Context) (T, error)) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	sub := newSubscription[T](cancel)

	go func() {
		defer cancel()

		resp, err := issue(ctx)
		if err == nil {
			sub.deliver(ctx, resp)
		}

		sub.finish(ctx, err)

		log.Debug().
			Str("grpc_status", status.Code(err).String()).
			Msg("Unary call finished")
	}()

	return sub
}
