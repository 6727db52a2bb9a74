package commands

import (
	"github.com/spf13/cobra"

	"github.com/balkashynov/remindr/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Browse lists and reminders interactively",
	Long: `Open the interactive browser. Notifications are delivered and overdue
reminders completed while it is open.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		if err := rt.notifier.Start(cmd.Context()); err != nil {
			return err
		}
		return tui.Run(cmd.Context(), rt.app, rt.notifier, rt.app.Reconciler(), rt.cfg.ShowCompleted)
	}),
}
