package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/balkashynov/remindr/internal/app"
	"github.com/balkashynov/remindr/internal/config"
	"github.com/balkashynov/remindr/internal/db"
	"github.com/balkashynov/remindr/internal/logging"
	"github.com/balkashynov/remindr/internal/notify"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:   "remindr",
	Short: "Reminders and lists from the terminal",
	Long: `remindr keeps reminders in lists and groups, shows them through the
All, Today, Scheduled, Flagged and Done smart lists, and notifies you when a
reminder's date and time arrive.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// runtime is everything a command needs for one invocation
type runtime struct {
	cfg      config.Config
	log      *zap.SugaredLogger
	gdb      *gorm.DB
	notifier *notify.Local
	app      *app.App
}

// initApp loads config, opens the database and fills every store. Stale
// notifications and overdue reminders are reconciled before the command runs.
func initApp(ctx context.Context) (*runtime, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logging.New(cfg.Log)

	gdb, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Errorw("failed to open database", "path", cfg.DBPath, "error", err)
		return nil, err
	}

	notifier := notify.NewLocal(gdb, log.Named("notify"))
	a := app.New(gdb, notifier, log, app.Options{SweepInterval: cfg.SweepInterval()})
	if err := a.Load(ctx); err != nil {
		_ = db.Close(gdb)
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	result := a.Reconcile(ctx)
	if result.Completed > 0 || result.Cancelled > 0 {
		log.Infow("reconciled on start", "completed", result.Completed, "cancelled", result.Cancelled)
	}

	return &runtime{cfg: cfg, log: log, gdb: gdb, notifier: notifier, app: a}, nil
}

// loadConfig reads the config file named by --config or the default one
func loadConfig() (config.Config, string, error) {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, "", err
		}
		path = p
	}

	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, path, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if err := cfg.Validate(); err != nil {
		return cfg, path, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, path, nil
}

func (rt *runtime) close() {
	rt.notifier.Stop()
	if err := db.Close(rt.gdb); err != nil {
		rt.log.Warnw("failed to close database", "error", err)
	}
	_ = rt.log.Sync()
}

// withApp wraps a command function to initialize the application first
func withApp(fn func(*cobra.Command, []string, *runtime) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := initApp(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()
		return fn(cmd, args, rt)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.remindr/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file, overrides the config")

	rootCmd.AddCommand(listsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoneCmd)
	rootCmd.AddCommand(flagCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
