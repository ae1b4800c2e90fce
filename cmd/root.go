// Package cmd wires the CLI: flags, config, and the registration session.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kersley/attend/internal/catalog"
	"github.com/kersley/attend/internal/config"
	"github.com/kersley/attend/internal/identity"
	"github.com/kersley/attend/internal/log"
	"github.com/kersley/attend/internal/session"
	"github.com/kersley/attend/internal/snapshot"
	"github.com/kersley/attend/internal/store"
	"github.com/kersley/attend/internal/tracing"
	"github.com/kersley/attend/internal/ui/terminal"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugMode bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:     "attend",
	Short:   "Conference registration from your terminal",
	Long:    `Attend walks you through conference registration as a question-and-answer session: account setup, email confirmation, the registration questionnaire, and review before submitting.`,
	Version: version,
	RunE:    runRegister,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/attend/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false,
		"write a debug log and show the latest entry in the status bar")
	rootCmd.Flags().String("catalog", "",
		"path to an external question catalog (default: built-in)")
	rootCmd.Flags().String("data-dir", "",
		"directory for saved progress and the registration database")
	rootCmd.Flags().Bool("trace", false,
		"enable tracing for this run")

	_ = viper.BindPFlag("catalog_path", rootCmd.Flags().Lookup("catalog"))
	_ = viper.BindPFlag("data_dir", rootCmd.Flags().Lookup("data-dir"))
	_ = viper.BindPFlag("tracing.enabled", rootCmd.Flags().Lookup("trace"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("data_dir", defaults.DataDir)
	viper.SetDefault("identity.base_url", defaults.Identity.BaseURL)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)

	viper.SetEnvPrefix("attend")
	_ = viper.BindEnv("identity.api_key", "ATTEND_IDENTITY_API_KEY")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .attend/config.yaml (current directory)
		// 2. ~/.config/attend/config.yaml (user config)
		if _, err := os.Stat(".attend/config.yaml"); err == nil {
			viper.SetConfigFile(".attend/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "attend"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file anywhere - continue with defaults.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "warning: reading config: %v\n", err)
		}
	}

	_ = viper.Unmarshal(&cfg)

	if os.Getenv("ATTEND_DEBUG") != "" {
		debugMode = true
	}
}

func runRegister(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if debugMode {
		cleanup, err := log.Init(cfg.LogPath())
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer cleanup()
	}

	tracingCfg := cfg.Tracing
	if tracingCfg.Enabled && tracingCfg.Exporter == "file" && tracingCfg.FilePath == "" {
		tracingCfg.FilePath = cfg.TracesPath()
	}
	provider, err := tracing.NewProvider(tracingCfg)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	cat, err := loadCatalog()
	if err != nil {
		return fmt.Errorf("loading question catalog: %w", err)
	}

	db, err := store.NewDB(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("opening registration database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	ident := identity.NewClient(cfg.Identity.BaseURL, cfg.Identity.APIKey)
	snapshots := snapshot.NewFileStore(cfg.SnapshotPath())
	machine := session.New(cat, snapshots)

	model := terminal.New(machine, ident, db.Registrations(), debugMode)
	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	if m, ok := final.(terminal.Model); ok && m.Done() {
		fmt.Println("Registration submitted. See you at the conference!")
	}
	return nil
}

func loadCatalog() (*catalog.Catalog, error) {
	if cfg.CatalogPath != "" {
		log.Debug(log.CatCatalog, "Loading external catalog", "path", cfg.CatalogPath)
		return catalog.LoadFile(cfg.CatalogPath)
	}
	return catalog.LoadDefault()
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
