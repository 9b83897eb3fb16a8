package main

import (
	"os"
	"runtime/debug"

	"github.com/pterm/pterm"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/vitalink/companion/internal/api"
	"github.com/vitalink/companion/internal/config"
	"github.com/vitalink/companion/internal/contract"
	"github.com/vitalink/companion/internal/data"
	"github.com/vitalink/companion/internal/deletion"
	"github.com/vitalink/companion/internal/logger"
	"github.com/vitalink/companion/internal/session"
	"github.com/vitalink/companion/internal/tui"
	"go.uber.org/fx"
)

func main() {
	Execute()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "companion",
	Short: "Manage your VitaLink account data from the terminal",
	Long: `Companion is the web-access client for the VitaLink health app.
Sign in with the session token from the mobile app to view and update your
profile and health metrics, export your data, or delete your account.`,
	Run: runApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Place version check in PreRun to ensure flags are parsed first
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
}

// runApp wires the application services and runs the TUI
func runApp(cmd *cobra.Command, args []string) {
	defer func() {
		if r := recover(); r != nil {
			pterm.Error.Printf("\nCaught panic: %v\n", r)
			pterm.Error.Printf("%s\n", debug.Stack())
			os.Exit(2)
		}
	}()

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		pterm.Error.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitLogger(&cfg.Logging); err != nil {
		pterm.Error.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	var svc tui.Services
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		contract.Module,
		api.Module,
		session.Module,
		data.Module,
		deletion.Module,
		fx.Populate(&svc),
	)
	if err := app.Err(); err != nil {
		pterm.Error.Printf("Error wiring application: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(tui.NewAppModel(svc), tea.WithAltScreen())

	m, err := p.Run()
	if err != nil {
		pterm.Error.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	finalModel := m.(tui.AppModel)
	if finalModel.AccountDeleted() {
		pterm.Info.Println("Your account has been deleted and the local session removed.")
	}
}
