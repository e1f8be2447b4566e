// Package topo consumes the topology-entity feed over a websocket and
// adapts it to the stream.Receiver shape so it can be bridged like any
// other source.
package topo

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/devicewatch/devicewatch/pkg/logger"
	"github.com/devicewatch/devicewatch/pkg/models"
	"github.com/devicewatch/devicewatch/pkg/stream"
)

const (
	messageTypeData     = "data"
	messageTypeError    = "error"
	messageTypeComplete = "complete"
	messageTypePing     = "ping"
)

// Config captures the topology feed endpoint settings.
type Config struct {
	// URL is the websocket endpoint, e.g. wss://host/api/topology/stream.
	URL string `json:"url"`

	// Token is the optional bearer credential sent on the upgrade request.
	Token string `json:"token,omitempty"`
}

// envelope mirrors the feed's wire framing. Entities arrive in "data"
// messages; "ping" keeps the socket alive and carries nothing.
type envelope struct {
	Type   string                 `json:"type"`
	Entity *models.TopologyEntity `json:"entity,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// Service dials the topology feed. Implements the subscription package's
// TopologyService.
type Service struct {
	cfg    Config
	dialer *websocket.Dialer
	logger logger.Logger
}

// NewService creates a topology feed client.
func NewService(cfg Config, log logger.Logger) *Service {
	return &Service{
		cfg:    cfg,
		dialer: websocket.DefaultDialer,
		logger: log,
	}
}

// Watch opens one websocket to the feed. The returned receiver unblocks
// when ctx is cancelled; the socket closes asynchronously.
func (s *Service) Watch(ctx context.Context) (stream.Receiver[*models.TopologyEntity], error) {
	header := http.Header{}
	if s.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+s.cfg.Token)
	}

	conn, resp, err := s.dialer.DialContext(ctx, s.cfg.URL, header)
	if err != nil {
		return nil, fmt.Errorf("failed to dial topology feed %s: %w", s.cfg.URL, err)
	}

	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	s.logger.Info().Str("url", s.cfg.URL).Msg("Topology feed connected")

	// Websocket reads do not watch the context; close the socket to
	// unblock the receiver when the subscription is cancelled.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	return &socketReceiver{conn: conn, logger: s.logger}, nil
}

type socketReceiver struct {
	conn   *websocket.Conn
	logger logger.Logger
}

// Recv returns the next entity. Ping frames are skipped; a "complete"
// message maps to io.EOF; an "error" message surfaces the feed's reason.
func (r *socketReceiver) Recv() (*models.TopologyEntity, error) {
	for {
		var env envelope

		if err := r.conn.ReadJSON(&env); err != nil {
			return nil, err
		}

		switch env.Type {
		case messageTypeData:
			if env.Entity == nil {
				r.logger.Warn().Msg("Topology data message without entity, skipping")
				continue
			}

			return env.Entity, nil
		case messageTypeComplete:
			return nil, io.EOF
		case messageTypeError:
			return nil, fmt.Errorf("%w: %s", ErrFeedFailure, env.Error)
		case messageTypePing:
			continue
		default:
			r.logger.Warn().Str("type", env.Type).Msg("Unknown topology message type, skipping")
		}
	}
}
