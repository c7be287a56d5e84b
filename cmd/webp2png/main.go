// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the webp2png CLI.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/webp2png/internal/journal"
	"github.com/pdiddy/webp2png/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the webp2png CLI.
var rootCmd = &cobra.Command{
	Use:   "webp2png",
	Short: "Convert WebP images to PNG",
	Long: `webp2png converts WebP images (lossy or lossless, with or without alpha)
into opaque, losslessly compressed PNG files. Transparent pixels are
composited onto a solid background colour.

Convert a single file or a whole directory with the convert subcommand.
The samples subcommand writes demonstration WebP files to try it on, and
history lists previous runs when a journal is configured.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./webp2png.yaml or ~/.config/webp2png/webp2png.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log diagnostics to stderr")
	rootCmd.PersistentFlags().String("journal", "", "SQLite file recording conversion history (empty disables)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("journal", rootCmd.PersistentFlags().Lookup("journal"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("webp2png")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "webp2png"))
		}
	}

	viper.SetEnvPrefix("WEBP2PNG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger returns the diagnostics logger. Warnings always reach w; debug
// detail only with --verbose.
func newLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if viper.GetBool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// loadConfig resolves every command's settings from flags, config file and
// environment, in that order of precedence.
func loadConfig() types.Config {
	return types.Config{
		Conversion: types.ConversionConfig{
			Background:   viper.GetString("background"),
			Compression:  types.Compression(viper.GetString("compression")),
			Optimizer:    types.Optimizer(viper.GetString("optimizer")),
			Extension:    viper.GetString("extension"),
			SkipExisting: viper.GetBool("skip_existing"),
		},
		// An empty journal path disables the journal.
		Journal: types.JournalConfig{
			Path:       viper.GetString("journal"),
			MaxResults: viper.GetInt("history.max_results"),
		},
		Samples: types.SamplesConfig{
			Dir:     viper.GetString("samples.dir"),
			Quality: float32(viper.GetFloat64("samples.quality")),
		},
	}
}

// openJournal opens the configured journal, or returns nil when none is set.
func openJournal() (*journal.Store, error) {
	cfg := loadConfig().Journal
	if cfg.Path == "" {
		return nil, nil
	}
	return journal.Open(cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
