package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/balkashynov/remindr/internal/notify"
)

var (
	watchTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA"))
	watchTimeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	watchNoteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Deliver notifications and complete overdue reminders until interrupted",
	Long: `Run the notification subsystem and the overdue sweep in the foreground.
Every notification that fires is printed and its reminder marked done.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		unsubscribe := rt.notifier.Subscribe(func(d notify.Delivery) {
			fmt.Printf("%s %s %s\n",
				watchTimeStyle.Render(d.FiredAt.Format("15:04")),
				watchNoteStyle.Render("🔔"),
				watchTitleStyle.Render(d.Title))
		})
		defer unsubscribe()

		if err := rt.notifier.Start(ctx); err != nil {
			return err
		}

		pending, err := rt.notifier.Pending(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Watching %d pending notification(s), sweeping every %s. Press Ctrl+C to stop.\n",
			len(pending), rt.cfg.SweepInterval())

		if err := rt.app.Reconciler().Run(ctx); err != nil {
			return err
		}

		fmt.Printf("Stopped at %s\n", time.Now().Format("15:04:05"))
		return nil
	}),
}
