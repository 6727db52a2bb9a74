package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/remindr/internal/app"
)

var editCmd = &cobra.Command{
	Use:   "edit <reminder-id>",
	Short: "Edit an existing reminder",
	Long: `Edit an existing reminder. Only the fields given as flags change.

Usage:
  remindr edit 3f2a9c1d --date tomorrow --time 09:00
  remindr edit 3f2a9c1d --no-date --no-flag`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		rem, err := rt.app.ResolveReminder(args[0])
		if err != nil {
			return err
		}

		in := app.InputFrom(rem)
		if err := applyEditFlags(cmd, rt, &in); err != nil {
			return err
		}

		updated, err := rt.app.UpdateReminder(cmd.Context(), rem.ID, in)
		if err != nil {
			return err
		}

		fmt.Printf("Updated reminder %s: %s\n", shortID(updated.ID), updated.Title)
		printReminderDetails(*updated, rt.app.Now())
		return nil
	}),
}

// applyEditFlags overlays changed flags on the current values. The --no-*
// switches turn a field off.
func applyEditFlags(cmd *cobra.Command, rt *runtime, in *app.ReminderInput) error {
	flags := cmd.Flags()

	strFlags := map[string]*string{
		"title":    &in.Title,
		"note":     &in.Note,
		"tag":      &in.Tag,
		"priority": &in.Priority,
		"date":     &in.Date,
		"time":     &in.Time,
		"url":      &in.URL,
	}
	for name, field := range strFlags {
		if flags.Changed(name) {
			*field, _ = flags.GetString(name)
		}
	}

	if flags.Changed("list") {
		ref, _ := flags.GetString("list")
		list, err := rt.app.ResolveList(ref)
		if err != nil {
			return err
		}
		in.ListID = list.ListID
	}

	if v, _ := flags.GetBool("flag"); v {
		in.Flagged = true
	}

	switches := map[string]func(){
		"no-date":     func() { in.Date = "" },
		"no-time":     func() { in.Time = "" },
		"no-tag":      func() { in.Tag = "" },
		"no-priority": func() { in.Priority = "" },
		"no-flag":     func() { in.Flagged = false },
		"no-url":      func() { in.URL = "" },
		"no-note":     func() { in.Note = "" },
	}
	for name, off := range switches {
		if v, _ := flags.GetBool(name); v {
			off()
		}
	}
	return nil
}

func init() {
	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().StringP("note", "n", "", "Notes")
	editCmd.Flags().StringP("tag", "t", "", "Tag")
	editCmd.Flags().StringP("priority", "p", "", "Priority: none, low, medium, high, or 0-3")
	editCmd.Flags().StringP("date", "d", "", "Date: dd/mm/yyyy, today, tomorrow, X days, X weeks")
	editCmd.Flags().String("time", "", "Time of day: HH:MM")
	editCmd.Flags().String("url", "", "Related URL")
	editCmd.Flags().StringP("list", "l", "", "Move to list (name or id)")
	editCmd.Flags().BoolP("flag", "f", false, "Flag the reminder")

	editCmd.Flags().Bool("no-date", false, "Remove the date")
	editCmd.Flags().Bool("no-time", false, "Remove the time")
	editCmd.Flags().Bool("no-tag", false, "Remove the tag")
	editCmd.Flags().Bool("no-priority", false, "Remove the priority")
	editCmd.Flags().Bool("no-flag", false, "Unflag the reminder")
	editCmd.Flags().Bool("no-url", false, "Remove the URL")
	editCmd.Flags().Bool("no-note", false, "Remove the notes")
}
