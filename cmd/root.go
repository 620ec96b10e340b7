package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/compleet/internal/app"
	"github.com/zjrosen/compleet/internal/config"
	"github.com/zjrosen/compleet/internal/log"
	"github.com/zjrosen/compleet/internal/tracing"
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

// localConfigPath is checked before the user config.
const localConfigPath = ".compleet/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	noWatch   bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "compleet",
	Short: "An inline completion menu for terminal editors",
	Long: `compleet draws a completion popup next to the text cursor.

Run without arguments to open the demo editor, or use "compleet nvim" to
drive the popup inside a running Neovim.`,
	Version:       version,
	SilenceUsage:  true,
	RunE:          runApp,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogging(cmd.Name())
	},
}

var logCleanup func()

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .compleet/config.yaml or ~/.config/compleet/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (also COMPLEET_DEBUG=1)")
	rootCmd.Flags().BoolVar(&noWatch, "no-watch", false,
		"do not reload the config file when it changes")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

// userConfigPath returns ~/.config/compleet/config.yaml.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "compleet", "config.yaml")
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .compleet/config.yaml (current directory)
		// 2. ~/.config/compleet/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "compleet"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create the user config
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if path := userConfigPath(); path != "" {
				if writeErr := config.WriteDefaultConfig(path); writeErr == nil {
					viper.SetConfigFile(path)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// setupLogging enables the debug log when asked to by flag, env or config.
func setupLogging(name string) error {
	if !(debugFlag || cfg.Debug || os.Getenv("COMPLEET_DEBUG") != "") {
		return nil
	}

	logPath := os.Getenv("COMPLEET_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.Open(logPath)
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	logCleanup = cleanup
	log.Info(log.CatConfig, "compleet starting", "command", name, "logPath", logPath,
		"config", viper.ConfigFileUsed())
	return nil
}

// configFilePath returns the file that config changes are saved to.
func configFilePath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	return userConfigPath()
}

// tracingConfig converts the config file section to provider options.
func tracingConfig(c config.TracingConfig) tracing.Config {
	out := tracing.DefaultConfig()
	out.Enabled = c.Enabled
	if c.Exporter != "" {
		out.Exporter = c.Exporter
	}
	out.FilePath = c.FilePath
	if c.OTLPEndpoint != "" {
		out.OTLPEndpoint = c.OTLPEndpoint
	}
	if c.SampleRate > 0 {
		out.SampleRate = c.SampleRate
	}
	return out
}

// startTracing installs the trace provider. The returned tracer is nil when
// tracing is off; the returned function flushes pending spans.
func startTracing(ctx context.Context) (trace.Tracer, func(), error) {
	tracer, shutdown, err := tracing.Start(ctx, tracingConfig(cfg.Tracing))
	if err != nil {
		return nil, nil, fmt.Errorf("initializing tracing: %w", err)
	}
	return tracer, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Failed to flush traces", err)
		}
	}, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	text := ""
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		text = string(data)
	}

	tracer, stopTracing, err := startTracing(cmd.Context())
	if err != nil {
		return err
	}
	defer stopTracing()

	model, err := app.New(app.Options{
		Config:     cfg,
		ConfigPath: configFilePath(),
		Debug:      debugFlag || cfg.Debug,
		Tracer:     tracer,
		Text:       text,
		Watch:      !noWatch,
	})
	if err != nil {
		return fmt.Errorf("starting editor: %w", err)
	}

	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()

	// Clean up watcher resources
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	defer func() {
		if logCleanup != nil {
			logCleanup()
		}
	}()
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
