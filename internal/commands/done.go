package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done <reminder-id>",
	Short: "Mark a reminder as completed",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		rem, err := rt.app.ResolveReminder(args[0])
		if err != nil {
			return err
		}

		updated, err := rt.app.SetCompleted(cmd.Context(), rem.ID, true)
		if err != nil {
			return err
		}
		fmt.Printf("✅ Marked %s as done: %s\n", shortID(updated.ID), updated.Title)
		return nil
	}),
}

var undoneCmd = &cobra.Command{
	Use:   "undone <reminder-id>",
	Short: "Mark a completed reminder as pending again",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		rem, err := rt.app.ResolveReminder(args[0])
		if err != nil {
			return err
		}

		updated, err := rt.app.SetCompleted(cmd.Context(), rem.ID, false)
		if err != nil {
			return err
		}
		fmt.Printf("↩️  Marked %s as pending: %s\n", shortID(updated.ID), updated.Title)
		return nil
	}),
}

var flagCmd = &cobra.Command{
	Use:   "flag <reminder-id>",
	Short: "Flag or unflag a reminder",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		rem, err := rt.app.ResolveReminder(args[0])
		if err != nil {
			return err
		}

		updated, err := rt.app.ToggleFlag(cmd.Context(), rem.ID)
		if err != nil {
			return err
		}
		if updated.Details.Flagged {
			fmt.Printf("⚑ Flagged %s: %s\n", shortID(updated.ID), updated.Title)
		} else {
			fmt.Printf("Unflagged %s: %s\n", shortID(updated.ID), updated.Title)
		}
		return nil
	}),
}

var rmCmd = &cobra.Command{
	Use:   "rm <reminder-id>",
	Short: "Delete a reminder, or every reminder with --all",
	Args:  cobra.RangeArgs(0, 1),
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		all, _ := cmd.Flags().GetBool("all")
		if all {
			if len(args) > 0 {
				return fmt.Errorf("--all takes no reminder id")
			}
			removed, err := rt.app.DeleteAllReminders(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d reminder(s)\n", removed)
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("a reminder id is required")
		}

		rem, err := rt.app.ResolveReminder(args[0])
		if err != nil {
			return err
		}

		if err := rt.app.DeleteReminder(cmd.Context(), rem.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted %s: %s\n", shortID(rem.ID), rem.Title)
		return nil
	}),
}

func init() {
	rmCmd.Flags().Bool("all", false, "Delete every reminder of every list")
}
