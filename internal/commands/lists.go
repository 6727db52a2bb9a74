package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Show smart lists, groups and lists with their counts",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		ov := rt.app.Overview()

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			out, err := json.MarshalIndent(ov, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal lists: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("%-30s %-10s %s\n", "LIST", "ID", "COUNT")
		fmt.Println(strings.Repeat("-", 48))
		for _, s := range ov.Smart {
			fmt.Println(formatListLine(s, ""))
		}
		for _, g := range ov.Groups {
			fmt.Printf("\n%s (group %s)\n", g.Name, shortID(g.GroupID))
			for _, s := range g.Lists {
				fmt.Println(formatListLine(s, "  "))
			}
		}
		if len(ov.Ungrouped) > 0 {
			fmt.Println()
			for _, s := range ov.Ungrouped {
				fmt.Println(formatListLine(s, ""))
			}
		}
		return nil
	}),
}

var showCmd = &cobra.Command{
	Use:   "show <list>",
	Short: "Show the reminders of a list",
	Long: `Show the reminders of a list. The list may be given by id, id prefix or name;
smart lists are all, today, scheduled, flag and done.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		list, err := rt.app.ResolveList(args[0])
		if err != nil {
			return err
		}

		showCompleted := rt.cfg.ShowCompleted
		if cmd.Flags().Changed("completed") {
			showCompleted, _ = cmd.Flags().GetBool("completed")
		}

		reminders, err := rt.app.View(list.ListID, showCompleted)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%d)\n", list.Name, len(reminders))
		if len(reminders) == 0 {
			fmt.Println("No reminders.")
			return nil
		}
		fmt.Println(strings.Repeat("-", 80))
		printReminders(reminders, rt.app.Now())
		return nil
	}),
}

var clearCmd = &cobra.Command{
	Use:   "clear <list>",
	Short: "Delete the completed reminders shown in a list, or all of them with --all",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		list, err := rt.app.ResolveList(args[0])
		if err != nil {
			return err
		}

		if all, _ := cmd.Flags().GetBool("all"); all {
			removed, err := rt.app.EmptyList(cmd.Context(), list.ListID)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d reminder(s) from %s\n", removed, list.Name)
			return nil
		}

		removed, err := rt.app.ClearCompleted(cmd.Context(), list.ListID)
		fmt.Printf("Cleared %d completed reminder(s) from %s\n", removed, list.Name)
		return err
	}),
}

var moveCmd = &cobra.Command{
	Use:   "move <reminder-id> <position>",
	Short: "Move a reminder to a position inside its list (1 is the top)",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		rem, err := rt.app.ResolveReminder(args[0])
		if err != nil {
			return err
		}

		position, err := strconv.Atoi(args[1])
		if err != nil || position < 1 {
			return fmt.Errorf("invalid position '%s'", args[1])
		}

		if err := rt.app.MoveReminder(cmd.Context(), rem.ID, position-1); err != nil {
			return err
		}
		fmt.Printf("Moved \"%s\" to position %d\n", rem.Title, position)
		return nil
	}),
}

func init() {
	listsCmd.Flags().Bool("json", false, "Output as JSON")
	showCmd.Flags().BoolP("completed", "c", false, "Include completed reminders")
	clearCmd.Flags().Bool("all", false, "Delete every reminder of the list, not only completed ones")
}
