package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for remindr",
	Long:  `Display detailed help for all remindr commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Print(`
remindr - reminders, lists and notifications

COMMANDS:

  lists                   Smart lists, groups and lists with counts
    --json                JSON output

  show <list>             Reminders of a list (id, id prefix or name)
    -c, --completed       Include completed reminders

    Smart lists: all, today, scheduled, flag, done

  add <reminder>          Create a reminder with smart parsing
    -l, --list            Target list
    -d, --date            dd/mm/yyyy, today, tomorrow, 3d, 2w
    --time                HH:MM
    -t, --tag             Tag
    -p, --priority        low|medium|high
    -f, --flag            Flag it
    -n, --note            Notes
    --url                 Related URL

    Smart syntax:
      #tag          Set the tag
      @list         Target list
      +priority     Set priority (low/medium/high)
      !             Flag
      due:tomorrow  Set the date
      at:18:30      Set the time

    Example:
      remindr add "Call mom #family @personal +high ! due:tomorrow at:18:30"

  edit <id>               Change fields of a reminder
    --no-date, --no-time, --no-tag, --no-priority, --no-flag, --no-url,
    --no-note             Switch a field off

  done <id>               Mark a reminder completed
  undone <id>             Mark a reminder pending again
  flag <id>               Flag or unflag
  rm <id>                 Delete a reminder
  rm --all                Delete every reminder
  clear <list>            Delete completed reminders shown in a list
  clear <list> --all      Delete every reminder of a list, keeping the list
  move <id> <position>    Reorder inside a list (1 is the top)
  search <query>          Search title, tag and notes
    --json                JSON output

  list add <name>         Create a list (--icon, --color, --group)
  list rm <list>          Delete a list and its reminders
  list rename <list> <n>  Rename a list
  list group <list> [g]   Move a list into a group, or out of it

  group add <name> [l..]  Create a group with lists
  group rm <group>        Delete a group, keeping its lists
  group rename <g> <n>    Rename a group

  watch                   Deliver notifications until Ctrl+C
  ui                      Interactive browser
  mcp                     MCP tool server on stdio
  config                  Show or change preferences
    --show-completed, --default-list, --sweep-seconds
  version                 Version information
  help                    Show this help

GLOBAL FLAGS:
  --config <file>         Config file (default ~/.remindr/config.toml)
  --db <file>             Database file, overrides the config

Reminder ids may be shortened to any unique prefix.

`)
}
