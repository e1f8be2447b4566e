// Package grpc wraps connection setup for the configuration service's RPC
// surface: transport security and the per-call authorization credential.
package grpc

import (
	"crypto/tls"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// ClientConfig captures the settings required to reach the configuration
// service.
type ClientConfig struct {
	// Address is the host:port of the gRPC endpoint.
	Address string `json:"address"`

	// Insecure disables transport security. Development only.
	Insecure bool `json:"insecure,omitempty"`

	// Token supplies the bearer credential attached to every call. The core
	// treats it as opaque; acquisition and refresh belong to the caller.
	Token TokenFunc `json:"-"`
}

// Client owns one gRPC connection.
type Client struct {
	conn *grpc.ClientConn
}

// NewClient builds a connection from the config. The connection dials
// lazily; failures surface on the first RPC.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Address == "" {
		return nil, ErrAddressRequired
	}

	var opts []grpc.DialOption

	if cfg.Insecure {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	} else {
		opts = append(opts, grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS13})))
	}

	if cfg.Token != nil {
		opts = append(opts, grpc.WithPerRPCCredentials(NewTokenCredentials(cfg.Token, !cfg.Insecure)))
	}

	conn, err := grpc.NewClient(cfg.Address, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client connection to %s: %w", cfg.Address, err)
	}

	return &Client{conn: conn}, nil
}

// Conn exposes the underlying connection for stub construction.
func (c *Client) Conn() *grpc.ClientConn {
	return c.conn
}

// Close tears down the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}

	return c.conn.Close()
}
