package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/activeterm"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/Gaurav-Gosain/tilecols/internal/config"
	"github.com/Gaurav-Gosain/tilecols/internal/host"
	"github.com/Gaurav-Gosain/tilecols/internal/layout"
	"github.com/Gaurav-Gosain/tilecols/internal/store"
	"github.com/Gaurav-Gosain/tilecols/internal/tui"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Host    string
	Port    string
	KeyPath string
	// Strategy is the strategy new connections start with.
	Strategy string
	// DefaultSession, when set, is used for every connection instead of
	// the SSH user name.
	DefaultSession string
	Store          store.Store
	Keys           *config.KeybindRegistry
	Logger         *log.Logger
	Metrics        *host.Metrics
}

// sessionName picks the stored session a connection works on.
func (c *SSHServerConfig) sessionName(user string) string {
	if c.DefaultSession != "" {
		return c.DefaultSession
	}
	if user == "" {
		return config.DefaultSession
	}
	return "ssh-" + user
}

// NewSSHServer builds a wish server that runs the playground for every
// connection. Windows live as long as the connection; layout state is
// persisted per session name.
func NewSSHServer(cfg *SSHServerConfig) (*ssh.Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithMiddleware(
			bubbletea.Middleware(cfg.teaHandler),
			activeterm.Middleware(),
			logging.Middleware(),
		),
	}
	if cfg.KeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.KeyPath))
	} else {
		path, err := defaultHostKeyPath()
		if err != nil {
			return nil, err
		}
		opts = append(opts, wish.WithHostKeyPath(path))
	}

	srv, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH server: %w", err)
	}
	return srv, nil
}

func defaultHostKeyPath() (string, error) {
	dir, err := config.StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ssh_host_ed25519"), nil
}

func (c *SSHServerConfig) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	screen := layout.Rect{Width: float64(pty.Window.Width), Height: float64(max(pty.Window.Height-1, 0))}

	name := c.sessionName(sess.User())
	logger := c.Logger.With("remote", sess.RemoteAddr().String(), "user", sess.User())

	hs, err := host.NewSession(sess.Context(), host.Options{
		Name:     name,
		Strategy: c.Strategy,
		Screen:   screen,
		Store:    c.Store,
		Logger:   logger,
		Metrics:  c.Metrics,
	})
	if err != nil {
		logger.Error("could not start session", "session", name, "err", err)
		wish.Fatalln(sess, err)
		return nil, nil
	}
	return tui.New(sess.Context(), hs, c.Keys, logger), nil
}

// StartSSHServer runs the SSH server until ctx is cancelled.
func StartSSHServer(ctx context.Context, cfg *SSHServerConfig) error {
	srv, err := NewSSHServer(cfg)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		cfg.Logger.Info("ssh server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		cfg.Logger.Info("ssh server stopping")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return err
		}
		return nil
	}
}
