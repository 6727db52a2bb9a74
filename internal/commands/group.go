package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Create, rename or delete groups of lists",
}

var groupAddCmd = &cobra.Command{
	Use:   "add <name> [list...]",
	Short: "Create a group, optionally moving lists into it",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		listIDs := make([]string, 0, len(args)-1)
		for _, ref := range args[1:] {
			list, err := rt.app.ResolveList(ref)
			if err != nil {
				return err
			}
			listIDs = append(listIDs, list.ListID)
		}

		group, err := rt.app.CreateGroup(cmd.Context(), args[0], listIDs...)
		if err != nil {
			return err
		}
		fmt.Printf("Created group \"%s\" with %d list(s) - ID: %s\n", group.Name, len(listIDs), group.GroupID)
		return nil
	}),
}

var groupRmCmd = &cobra.Command{
	Use:   "rm <group>",
	Short: "Delete a group; its lists are kept",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		group, err := rt.app.ResolveGroup(args[0])
		if err != nil {
			return err
		}

		members, err := rt.app.DeleteGroup(cmd.Context(), group.GroupID)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted group \"%s\"; %d list(s) ungrouped\n", group.Name, len(members))
		return nil
	}),
}

var groupRenameCmd = &cobra.Command{
	Use:   "rename <group> <new name>",
	Short: "Rename a group",
	Args:  cobra.MinimumNArgs(2),
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		group, err := rt.app.ResolveGroup(args[0])
		if err != nil {
			return err
		}

		updated, err := rt.app.RenameGroup(cmd.Context(), group.GroupID, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("Renamed group \"%s\" to \"%s\"\n", group.Name, updated.Name)
		return nil
	}),
}

func init() {
	groupCmd.AddCommand(groupAddCmd, groupRmCmd, groupRenameCmd)
}
