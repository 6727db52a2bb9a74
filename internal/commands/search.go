package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/remindr/internal/models"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search reminders by title, tag or notes",
	Long: `Search reminders with ranked matching:
- Exact title match (highest priority)
- Title prefix
- Title contains
- Tag
- Notes (lowest priority)

Search is case insensitive.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		query := strings.Join(args, " ")
		limit, _ := cmd.Flags().GetInt("limit")
		includeDone, _ := cmd.Flags().GetBool("completed")

		var results []models.Reminder
		for _, r := range rt.app.Search(query) {
			if r.Completed() && !includeDone {
				continue
			}
			results = append(results, r)
			if limit > 0 && len(results) == limit {
				break
			}
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return renderSearchJSON(results, query)
		}
		renderSearchTable(rt, results, query)
		return nil
	}),
}

// renderSearchJSON outputs search results as JSON
func renderSearchJSON(reminders []models.Reminder, query string) error {
	type searchResult struct {
		Query     string            `json:"query"`
		Count     int               `json:"count"`
		Reminders []models.Reminder `json:"reminders"`
	}

	if reminders == nil {
		reminders = []models.Reminder{}
	}
	out, err := json.MarshalIndent(searchResult{Query: query, Count: len(reminders), Reminders: reminders}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal search results: %w", err)
	}

	fmt.Println(string(out))
	return nil
}

// renderSearchTable outputs search results as a formatted table
func renderSearchTable(rt *runtime, reminders []models.Reminder, query string) {
	fmt.Printf("Search results for '%s' (%d found):\n", query, len(reminders))
	if len(reminders) == 0 {
		fmt.Println("No reminders found matching your search.")
		return
	}

	fmt.Println(strings.Repeat("-", 80))
	now := rt.app.Now()
	for _, r := range reminders {
		listName := ""
		if l, ok := rt.app.ListStore().Get(r.ListID); ok {
			listName = "@" + l.Name
		}
		fmt.Printf("%s  %s\n", formatReminderLine(r, now), listName)
	}
}

func init() {
	searchCmd.Flags().IntP("limit", "l", 0, "Limit number of results")
	searchCmd.Flags().BoolP("completed", "c", false, "Include completed reminders")
	searchCmd.Flags().Bool("json", false, "Output as JSON")
}
