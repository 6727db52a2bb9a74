package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/remindr/internal/app"
)

// listCmd manages user lists
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Create, rename, group or delete lists",
}

var listAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a list",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		icon, _ := cmd.Flags().GetString("icon")
		color, _ := cmd.Flags().GetString("color")
		groupRef, _ := cmd.Flags().GetString("group")

		groupID := ""
		if groupRef != "" {
			g, err := rt.app.ResolveGroup(groupRef)
			if err != nil {
				return err
			}
			groupID = g.GroupID
		}

		list, err := rt.app.CreateList(cmd.Context(), app.ListInput{
			Name:  strings.Join(args, " "),
			Icon:  icon,
			Color: color,
		}, groupID)
		if err != nil {
			return err
		}
		fmt.Printf("Created list \"%s\" - ID: %s\n", list.Name, list.ListID)
		return nil
	}),
}

var listRmCmd = &cobra.Command{
	Use:   "rm <list>",
	Short: "Delete a list and all of its reminders",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		list, err := rt.app.ResolveList(args[0])
		if err != nil {
			return err
		}

		removed, err := rt.app.DeleteList(cmd.Context(), list.ListID)
		if errors.Is(err, app.ErrProtectedList) {
			fmt.Println("Warning: You can not delete default list !")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Deleted list \"%s\" and %d reminder(s)\n", list.Name, removed)
		return nil
	}),
}

var listRenameCmd = &cobra.Command{
	Use:   "rename <list> <new name>",
	Short: "Rename a list",
	Args:  cobra.MinimumNArgs(2),
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		list, err := rt.app.ResolveList(args[0])
		if err != nil {
			return err
		}

		updated, err := rt.app.RenameList(cmd.Context(), list.ListID, strings.Join(args[1:], " "))
		if errors.Is(err, app.ErrProtectedList) {
			fmt.Println("Warning: You can not rename a default list !")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Renamed \"%s\" to \"%s\"\n", list.Name, updated.Name)
		return nil
	}),
}

var listGroupCmd = &cobra.Command{
	Use:   "group <list> [group]",
	Short: "Move a list into a group, or out of its group when none is given",
	Args:  cobra.RangeArgs(1, 2),
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		list, err := rt.app.ResolveList(args[0])
		if err != nil {
			return err
		}

		groupID, groupName := "", ""
		if len(args) == 2 {
			g, err := rt.app.ResolveGroup(args[1])
			if err != nil {
				return err
			}
			groupID, groupName = g.GroupID, g.Name
		}

		if err := rt.app.AssignList(cmd.Context(), list.ListID, groupID); err != nil {
			if errors.Is(err, app.ErrProtectedList) {
				fmt.Println("Warning: default lists can not be grouped !")
				return nil
			}
			return err
		}

		if groupID == "" {
			fmt.Printf("\"%s\" is no longer in a group\n", list.Name)
		} else {
			fmt.Printf("Moved \"%s\" into group \"%s\"\n", list.Name, groupName)
		}
		return nil
	}),
}

func init() {
	listAddCmd.Flags().String("icon", "", "Icon name")
	listAddCmd.Flags().String("color", "", "Hex color, e.g. #FF9500")
	listAddCmd.Flags().StringP("group", "g", "", "Group to put the list in")

	listCmd.AddCommand(listAddCmd, listRmCmd, listRenameCmd, listGroupCmd)
}
