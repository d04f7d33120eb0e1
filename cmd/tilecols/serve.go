package main

import (
	"fmt"

	"github.com/Gaurav-Gosain/tilecols/internal/config"
	"github.com/Gaurav-Gosain/tilecols/internal/host"
	"github.com/Gaurav-Gosain/tilecols/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

// newRegistry returns a Prometheus registry with the Go and process
// collectors next to the layout metrics.
func newRegistry() (*prometheus.Registry, *host.Metrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, host.NewMetrics(reg)
}

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout HTTP API",
		Long: `Serve strategies and sessions over HTTP

Stateless endpoints compute frames and state updates for any strategy.
Session endpoints keep simulated screens in memory and persist strategy
state through the configured store. Prometheus metrics are served on
/metrics.`,
		Example: `  # Listen on the configured address
  tilecols serve

  # Compute frames with curl
  curl -s localhost:8080/v1/frames -d '{"strategy":"uniform-columns","screen":{"width":120,"height":30},"windows":[{"id":"a"},{"id":"b"}]}'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()
			if addr == "" {
				addr = e.cfg.Server.HTTPAddr
			}

			reg, metrics := newRegistry()
			sessions := server.NewSessions(e.store, e.cfg.Layout.DefaultStrategy, screenFromConfig(e.cfg), e.logger, metrics)
			handler := server.NewHandler(server.Options{Sessions: sessions, Registry: reg, Logger: e.logger})

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			if err := server.Serve(ctx, addr, handler, e.logger); err != nil {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: from config or :8080)")
	return cmd
}

func newSSHCmd() *cobra.Command {
	var sshPort, sshHost, sshKeyPath, sshDefaultSession string

	cmd := &cobra.Command{
		Use:   "ssh",
		Short: "Run the playground as an SSH server",
		Long: `Run the playground as an SSH server

Every connection gets its own screen sized to the client terminal. Layout
state is stored per session: the --default-session flag if given, otherwise
one session per SSH user. A host key is generated automatically if not
specified.`,
		Example: `  # Start SSH server on default port
  tilecols ssh

  # Start on custom port
  tilecols ssh --port 2222

  # Specify custom host key
  tilecols ssh --key-path /path/to/host_key

  # Share one layout state between all connections
  tilecols ssh --default-session shared`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()

			cfg := sshConfig(e, sshHost, sshPort, sshKeyPath, sshDefaultSession)
			e.logger.Info("starting SSH server", "host", cfg.Host, "port", cfg.Port)
			if cfg.DefaultSession != "" {
				e.logger.Info("default session", "session", cfg.DefaultSession)
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			if err := server.StartSSHServer(ctx, cfg); err != nil {
				return fmt.Errorf("SSH server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sshPort, "port", "", "SSH server port (default: from config or 2222)")
	cmd.Flags().StringVar(&sshHost, "host", "", "SSH server host (default: from config or localhost)")
	cmd.Flags().StringVar(&sshKeyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")
	cmd.Flags().StringVar(&sshDefaultSession, "default-session", "", "Default session name for all connections")
	return cmd
}

// sshConfig merges the ssh flags over the [server] config section.
func sshConfig(e *env, hostName, port, keyPath, defaultSession string) *server.SSHServerConfig {
	pick := func(flag, fallback string) string {
		if flag != "" {
			return flag
		}
		return fallback
	}
	return &server.SSHServerConfig{
		Host:           pick(hostName, e.cfg.Server.SSHHost),
		Port:           pick(port, e.cfg.Server.SSHPort),
		KeyPath:        pick(keyPath, e.cfg.Server.SSHKeyPath),
		Strategy:       e.cfg.Layout.DefaultStrategy,
		DefaultSession: defaultSession,
		Store:          e.store,
		Keys:           config.NewKeybindRegistry(e.cfg),
		Logger:         e.logger,
	}
}
