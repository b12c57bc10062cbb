// Package cli wires the tradejournal commands.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rustyeddy/tradejournal/config"
	"github.com/spf13/cobra"
)

const version = "0.3.0"

// app is the state shared by every subcommand once the root has loaded
// configuration.
type app struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "tradejournal",
		Short:         "Trade journaling, analytics and coaching",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: trace|debug|info|warn|error")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.load(cmd.ErrOrStderr())
	}

	cmd.AddCommand(
		newAnalyzeCmd(a),
		newJournalCmd(a),
		newConfigCmd(),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tradejournal version %s\n", version)
		},
	})

	return cmd
}

// load reads .env, the optional config file and the environment, in that
// order of increasing precedence. The --log-level flag wins over all three.
func (a *app) load(logOut io.Writer) error {
	_ = godotenv.Load()

	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.LoadFromFile(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	a.cfg = cfg
	a.log = newLogger(cfg.Log, logOut)
	a.log.Debug().Str("config", a.configPath).Str("journal", cfg.Journal.Type).Msg("config loaded")
	return nil
}

func newLogger(lc config.LogConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(lc.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	out := w
	if lc.Format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
