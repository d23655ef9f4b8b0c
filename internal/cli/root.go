package cli

import (
	"context"
	"fmt"

	"github.com/andy/focusflow/internal/app"
	"github.com/andy/focusflow/internal/domain"
	"github.com/andy/focusflow/internal/service"
	"github.com/spf13/cobra"
)

var (
	appInstance *app.App
	ownsApp     bool

	configPath string
	demoMode   bool
)

var rootCmd = &cobra.Command{
	Use:   "focusflow",
	Short: "Track focus time across several tasks",
	Long: `FocusFlow tracks elapsed time across several tasks, one running at a time,
archives finished sessions and charts them by day, week and month.

By default, running focusflow without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initApp,
	PersistentPostRunE: closeApp,
	RunE:               launchTUI,
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	defer closeApp(nil, nil)
	return rootCmd.ExecuteContext(ctx)
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
	ownsApp = false
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/focusflow/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&demoMode, "demo", false, "use generated demo data; nothing is saved")

	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(tuiCmd)
}

// initApp builds the App before any command that needs it. Help and
// completion never open the database, which may prompt for a password.
func initApp(cmd *cobra.Command, args []string) error {
	if appInstance != nil || skipsInit(cmd) {
		return nil
	}

	ds := domain.DatasetReal
	if demoMode {
		ds = domain.DatasetDemo
	}

	a, err := app.New(cmd.Context(), app.Options{
		ConfigPath: configPath,
		Dataset:    ds,
		LogToFile:  cmd == rootCmd || cmd == tuiCmd,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	appInstance = a
	ownsApp = true
	return nil
}

func closeApp(cmd *cobra.Command, args []string) error {
	if appInstance == nil || !ownsApp {
		return nil
	}
	err := appInstance.Close()
	appInstance = nil
	return err
}

func skipsInit(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

// workspace returns the services of the active dataset
func workspace() *service.Workspace {
	return appInstance.Workspace()
}
