// main.go
//
// Entry point for the riddler CLI.
// Responsibilities:
//   - Load .env (godotenv) before reading configuration.
//   - Configure the global zerolog logger (console output on stderr).
//   - Register the play (default), serve and records commands.
//
// Environment variables are documented in internal/config.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/riddler/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	saveFile   string
	provider   string
	logLevel   string
}

// cfg is filled by setup before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "riddler",
	Short: "Solve riddles posed by an ancient AI guardian",
	Long: "Riddler is a terminal riddle game. An AI guardian poses a riddle, judges\n" +
		"your answers, offers hints at a cost and rewards a solve with an insight.",
	PersistentPreRunE: setup,
	RunE:              runPlay,
	SilenceUsage:      true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.configPath, "config", "", "YAML config file")
	f.StringVar(&rootFlags.saveFile, "save-file", "", "save slot path (overrides RIDDLER_SAVE_FILE)")
	f.StringVar(&rootFlags.provider, "provider", "", "completion backend: openai, gemini or scripted")
	f.StringVar(&rootFlags.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.Flags().BoolVar(&playFlags.noSave, "no-save", false, "keep the game in memory only")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.Version = version
}

func setup(_ *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	c, err := config.Load(rootFlags.configPath)
	if err != nil {
		return err
	}
	if rootFlags.saveFile != "" {
		c.SaveFile = rootFlags.saveFile
	}
	if rootFlags.provider != "" {
		c.Provider = rootFlags.provider
	}
	if rootFlags.logLevel != "" {
		c.LogLevel = rootFlags.logLevel
	}
	initLogger(c.LogLevel)
	cfg = c
	return nil
}

func initLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
