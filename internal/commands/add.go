package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/remindr/internal/app"
	"github.com/balkashynov/remindr/internal/models"
	"github.com/balkashynov/remindr/internal/parser"
)

// defaultListName is created on first use when no user list exists yet
const defaultListName = "Reminders"

var addCmd = &cobra.Command{
	Use:   "add [reminder]",
	Short: "Add a new reminder",
	Long: `Add a new reminder with optional metadata.

Smart parsing syntax:
  #tag             - Tag (one per reminder)
  @list            - Target list by name or id
  +priority        - Priority (low/medium/high or 1/2/3)
  !                - Flag the reminder
  due:DD/MM/YYYY   - Date (also today, tomorrow, 3d, 2w)
  at:HH:MM         - Time of day
  https://...      - Related URL

Example:
  remindr add "Call mom #family @personal +high ! due:tomorrow at:18:30"

Flags take precedence over the inline syntax.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		parsed := parser.ParseTitle(strings.Join(args, " "), rt.app.Now())
		for _, msg := range parsed.Errors {
			fmt.Printf("⚠️  %s\n", msg)
		}

		in := app.ReminderInput{
			Title:    parsed.Title,
			Tag:      parsed.Tag,
			Priority: parsed.Priority,
			Flagged:  parsed.Flagged,
			Date:     parsed.Date,
			Time:     parsed.Time,
			URL:      parsed.URL,
		}
		listRef := parsed.List

		flags := cmd.Flags()
		if v, _ := flags.GetString("list"); v != "" {
			listRef = v
		}
		if v, _ := flags.GetString("tag"); v != "" {
			in.Tag = v
		}
		if v, _ := flags.GetString("priority"); v != "" {
			in.Priority = v
		}
		if v, _ := flags.GetString("date"); v != "" {
			in.Date = v
		}
		if v, _ := flags.GetString("time"); v != "" {
			in.Time = v
		}
		if v, _ := flags.GetString("url"); v != "" {
			in.URL = v
		}
		if v, _ := flags.GetString("note"); v != "" {
			in.Note = v
		}
		if v, _ := flags.GetBool("flag"); v {
			in.Flagged = true
		}

		listID, err := targetList(cmd.Context(), rt, listRef)
		if err != nil {
			return err
		}
		in.ListID = listID

		rem, err := rt.app.CreateReminder(cmd.Context(), in)
		if err != nil {
			return err
		}

		list, _ := rt.app.ListStore().Get(rem.ListID)
		fmt.Printf("Created reminder %s: %s\n", shortID(rem.ID), rem.Title)
		fmt.Printf("  List: %s\n", list.Name)
		printReminderDetails(*rem, rt.app.Now())
		return nil
	}),
}

// targetList picks the list a new reminder goes to: the one asked for, the
// configured default, the first user list, or a freshly created one.
func targetList(ctx context.Context, rt *runtime, ref string) (string, error) {
	if ref != "" {
		list, err := rt.app.ResolveList(ref)
		if err != nil {
			return "", err
		}
		return list.ListID, nil
	}

	if rt.cfg.DefaultList != "" {
		if list, err := rt.app.ResolveList(rt.cfg.DefaultList); err == nil && !list.SmartList {
			return list.ListID, nil
		}
	}

	var first *models.List
	for _, l := range rt.app.ListStore().Snapshot() {
		if !l.SmartList {
			first = &l
			break
		}
	}
	if first != nil {
		return first.ListID, nil
	}

	created, err := rt.app.CreateList(ctx, app.ListInput{Name: defaultListName}, "")
	if err != nil {
		return "", err
	}
	return created.ListID, nil
}

func init() {
	addCmd.Flags().StringP("list", "l", "", "Target list (name or id)")
	addCmd.Flags().StringP("tag", "t", "", "Tag")
	addCmd.Flags().StringP("priority", "p", "", "Priority: low, medium, high, or 1-3")
	addCmd.Flags().StringP("date", "d", "", "Date: dd/mm/yyyy, today, tomorrow, X days, X weeks")
	addCmd.Flags().String("time", "", "Time of day: HH:MM")
	addCmd.Flags().String("url", "", "Related URL")
	addCmd.Flags().StringP("note", "n", "", "Additional notes")
	addCmd.Flags().BoolP("flag", "f", false, "Flag the reminder")
}
