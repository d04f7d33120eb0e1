package tui

import (
	"context"

	"github.com/Gaurav-Gosain/tilecols/internal/config"
	"github.com/Gaurav-Gosain/tilecols/internal/host"
	"github.com/Gaurav-Gosain/tilecols/internal/layout"
)

// ActionHandler performs a keybinding action on the session.
type ActionHandler func(ctx context.Context, s *host.Session) error

// ActionDispatcher maps action names to handler functions
type ActionDispatcher struct {
	handlers map[string]ActionHandler
}

// NewActionDispatcher creates a dispatcher with every session action
// registered. Help and quit belong to the model and are not in it.
func NewActionDispatcher() *ActionDispatcher {
	d := &ActionDispatcher{handlers: make(map[string]ActionHandler)}
	d.registerHandlers()
	return d
}

func (d *ActionDispatcher) registerHandlers() {
	// Layout
	d.Register(config.ActionExpandMain, command(layout.CommandExpandMain))
	d.Register(config.ActionShrinkMain, command(layout.CommandShrinkMain))
	d.Register(config.ActionIncreaseMainCount, command(layout.CommandIncreaseMainCount))
	d.Register(config.ActionDecreaseMainCount, command(layout.CommandDecreaseMainCount))
	d.Register(config.ActionHardReset, func(ctx context.Context, s *host.Session) error {
		return s.Reset(ctx)
	})

	// Windows
	d.Register(config.ActionNewWindow, func(ctx context.Context, s *host.Session) error {
		_, err := s.Open(ctx, "")
		return err
	})
	d.Register(config.ActionCloseWindow, handleCloseWindow)
	d.Register(config.ActionFocusNext, func(_ context.Context, s *host.Session) error {
		s.FocusNext()
		return nil
	})
	d.Register(config.ActionFocusPrev, func(_ context.Context, s *host.Session) error {
		s.FocusPrev()
		return nil
	})
	d.Register(config.ActionSwapNext, func(ctx context.Context, s *host.Session) error {
		return s.SwapNext(ctx)
	})
	d.Register(config.ActionSwapPrev, func(ctx context.Context, s *host.Session) error {
		return s.SwapPrev(ctx)
	})

	// Strategy
	d.Register(config.ActionNextStrategy, func(ctx context.Context, s *host.Session) error {
		return s.NextStrategy(ctx)
	})
	d.Register(config.ActionPrevStrategy, func(ctx context.Context, s *host.Session) error {
		return s.PrevStrategy(ctx)
	})
}

// Register adds an action handler
func (d *ActionDispatcher) Register(action string, handler ActionHandler) {
	d.handlers[action] = handler
}

// Dispatch executes the handler for a given action. Unknown actions are a
// no-op.
func (d *ActionDispatcher) Dispatch(ctx context.Context, action string, s *host.Session) error {
	if handler, ok := d.handlers[action]; ok {
		return handler(ctx, s)
	}
	return nil
}

// HasAction checks if an action is registered
func (d *ActionDispatcher) HasAction(action string) bool {
	_, ok := d.handlers[action]
	return ok
}

func command(name string) ActionHandler {
	return func(ctx context.Context, s *host.Session) error {
		return s.Command(ctx, name)
	}
}

func handleCloseWindow(ctx context.Context, s *host.Session) error {
	v := s.Snapshot()
	if v.Focused == "" {
		return nil
	}
	return s.Close(ctx, string(v.Focused))
}
