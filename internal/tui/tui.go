package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/remindr/internal/notify"
)

// Runner is the background work the browser keeps alive while open
type Runner interface {
	Run(ctx context.Context) error
}

// Run starts the browser. Notifications are delivered into the program and
// the reconciler runs in the background until the browser quits.
func Run(ctx context.Context, svc Service, notifier notify.Notifier, reconciler Runner, showCompleted bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewBrowserModel(ctx, svc, showCompleted), tea.WithAltScreen())

	unsubscribe := notifier.Subscribe(func(d notify.Delivery) {
		p.Send(deliveryMsg(d))
	})
	defer unsubscribe()

	done := make(chan error, 1)
	go func() { done <- reconciler.Run(ctx) }()

	_, err := p.Run()
	cancel()
	<-done
	return err
}
