/*
 * Copyright 2026 Devicewatch Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/devicewatch/devicewatch/pkg/config"
	grpcclient "github.com/devicewatch/devicewatch/pkg/grpc"
	"github.com/devicewatch/devicewatch/pkg/logger"
	"github.com/devicewatch/devicewatch/pkg/registry"
	"github.com/devicewatch/devicewatch/pkg/simulator"
	"github.com/devicewatch/devicewatch/pkg/stream"
	"github.com/devicewatch/devicewatch/pkg/subscription"
	"github.com/devicewatch/devicewatch/pkg/topo"
)

var errFailedToLoadConfig = fmt.Errorf("failed to load config")

// watcherConfig is the top-level configuration for the devicewatch binary.
// With no config file the watcher runs fully simulated.
type watcherConfig struct {
	Logging        *logger.Config `json:"logging,omitempty"`
	SnapshotFilter string         `json:"snapshot_filter,omitempty"`

	// Devices and IntervalSeconds size the simulated fleet.
	Devices         int `json:"devices,omitempty"`
	IntervalSeconds int `json:"interval_seconds,omitempty"`

	// ReportSeconds is how often the registry contents are logged.
	ReportSeconds int `json:"report_seconds,omitempty"`

	// Topology, when set, replaces the simulated topology feed with the
	// live websocket feed.
	Topology topo.Config `json:"topology,omitempty"`

	// ConfigService, when set, is health-watched over gRPC.
	ConfigService configServiceConfig `json:"config_service,omitempty"`
}

type configServiceConfig struct {
	Address  string `json:"address,omitempty"`
	Insecure bool   `json:"insecure,omitempty"`
	Token    string `json:"token,omitempty"`
}

func (c *watcherConfig) Validate() error {
	if c.Devices < 0 {
		return fmt.Errorf("devices must not be negative, got %d", c.Devices)
	}

	return nil
}

func defaultWatcherConfig() *watcherConfig {
	return &watcherConfig{
		Devices:         4,
		IntervalSeconds: 2,
		ReportSeconds:   10,
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to watcher config file (empty runs built-in defaults)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := defaultWatcherConfig()

	if *configPath != "" {
		cfgLoader := config.NewConfig()

		if err := cfgLoader.LoadAndValidate(ctx, *configPath, cfg); err != nil {
			return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
		}
	}

	watcherLogger, err := logger.NewComponentLogger("devicewatch", cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	reg := registry.New(watcherLogger)

	fleet := simulator.New(cfg.Devices, time.Duration(cfg.IntervalSeconds)*time.Second, watcherLogger)

	var topology subscription.TopologyService = fleet
	if cfg.Topology.URL != "" {
		topology = topo.NewService(cfg.Topology, watcherLogger)
	}

	ctrl, err := subscription.New(subscription.Config{
		Registry:       reg,
		Snapshots:      fleet,
		Topology:       topology,
		Admin:          fleet,
		SnapshotFilter: cfg.SnapshotFilter,
	}, watcherLogger)
	if err != nil {
		return err
	}

	defer ctrl.Shutdown()

	onStreamError := func(err error) {
		watcherLogger.Error().Err(err).Msg("Watch failed")
	}

	ctrl.WatchConfigurations(ctx, onStreamError)
	ctrl.WatchTopology(ctx, onStreamError)

	if cfg.ConfigService.Address != "" {
		client, err := grpcclient.NewClient(grpcclient.ClientConfig{
			Address:  cfg.ConfigService.Address,
			Insecure: cfg.ConfigService.Insecure,
			Token:    grpcclient.StaticToken(cfg.ConfigService.Token),
		})
		if err != nil {
			return fmt.Errorf("failed to create config service client: %w", err)
		}

		defer func() {
			if err := client.Close(); err != nil {
				watcherLogger.Warn().Err(err).Msg("Failed to close config service client")
			}
		}()

		go watchServiceHealth(ctx, client, watcherLogger)
	}

	reportEvery := time.Duration(cfg.ReportSeconds) * time.Second
	if reportEvery <= 0 {
		reportEvery = 10 * time.Second
	}

	ticker := time.NewTicker(reportEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			watcherLogger.Info().Msg("Shutting down")
			return nil
		case <-ticker.C:
			reportRegistry(reg, watcherLogger)
		}
	}
}

// watchServiceHealth follows the configuration service's health stream and
// logs every status transition.
func watchServiceHealth(ctx context.Context, client *grpcclient.Client, log logger.Logger) {
	health := grpc_health_v1.NewHealthClient(client.Conn())

	sub := stream.Bridge(ctx, log, func(ctx context.Context) (stream.Receiver[*grpc_health_v1.HealthCheckResponse], error) {
		return health.Watch(ctx, &grpc_health_v1.HealthCheckRequest{})
	})

	for resp := range sub.Events() {
		log.Info().Str("status", resp.GetStatus().String()).Msg("Configuration service health")
	}

	if err := sub.Err(); err != nil {
		log.Warn().Err(err).Msg("Configuration service health watch ended")
	}
}

func reportRegistry(reg *registry.Registry, log logger.Logger) {
	entries := reg.ListDevices(registry.SortStatusDescending)

	log.Info().
		Int("devices", reg.DeviceCount()).
		Int("snapshots", reg.SnapshotCount()).
		Msg("Registry report")

	for _, entry := range entries {
		log.Info().
			Str("device", entry.Key.String()).
			Str("kind", entry.Record.Kind).
			Int("status", reg.StatusCodeFor(entry.Key)).
			Strs("styles", reg.StatusStylesFor(entry.Key)).
			Msg("Device")
	}
}
