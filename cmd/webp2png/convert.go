// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/webp2png/internal/convert"
	"github.com/pdiddy/webp2png/internal/optimize"
	"github.com/pdiddy/webp2png/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert a WebP file or a directory of WebP files to PNG",
	Long: `Convert decodes WebP images and writes opaque PNG files. Images with
transparency are composited onto the background colour (white by default).

When input is a file, the PNG is written next to it with the same stem, or
to --output. When input is a directory, every .webp file in it (and in its
subdirectories with --recursive) is converted; --output is ignored. A batch
keeps going past individual failures and exits non-zero if any file failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output PNG path (single-file mode only)")
	convertCmd.Flags().BoolP("delete", "d", false, "delete each source file after a successful conversion")
	convertCmd.Flags().BoolP("recursive", "r", false, "descend into subdirectories in directory mode")
	convertCmd.Flags().Bool("skip-existing", false, "leave existing PNG files untouched")
	convertCmd.Flags().String("background", "#ffffff", "hex colour transparent pixels are composited onto")
	convertCmd.Flags().String("compression", string(types.CompressionBest), "PNG compression: default, best, speed, or none")
	convertCmd.Flags().String("optimizer", string(types.OptimizerNone), "external PNG optimizer: none, auto, oxipng, or optipng")
	convertCmd.Flags().String("extension", types.DefaultExtension, "source extension matched in directory mode")
	convertCmd.Flags().String("report", "", "write a YAML batch report to this file")

	for _, key := range []string{"background", "compression", "optimizer", "extension"} {
		_ = viper.BindPFlag(key, convertCmd.Flags().Lookup(key))
	}
	_ = viper.BindPFlag("skip_existing", convertCmd.Flags().Lookup("skip-existing"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	del, _ := cmd.Flags().GetBool("delete")
	recursive, _ := cmd.Flags().GetBool("recursive")
	reportPath, _ := cmd.Flags().GetString("report")

	cfg := loadConfig().Conversion
	log := newLogger(cmd.ErrOrStderr())

	opt, err := optimize.Detect(cfg.Optimizer)
	if err != nil {
		return err
	}
	if opt != nil {
		log.WithField("optimizer", opt.Name()).Debug("using png optimizer")
	}

	runner, err := convert.NewRunner(cfg, opt, cmd.OutOrStdout(), log)
	if err != nil {
		return err
	}

	req := convert.Request{
		Input:     args[0],
		Output:    output,
		Delete:    del,
		Recursive: recursive,
	}
	result, runErr := runner.Run(req)

	if reportPath != "" && result.Total() > 0 {
		if err := convert.WriteReport(reportPath, req.Input, result); err != nil {
			log.WithError(err).Warn("could not write report")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "report: %s\n", reportPath)
		}
	}

	if id, err := recordRun(cmd.Context(), req.Input, result); err != nil {
		log.WithError(err).Warn("could not record run in journal")
	} else if id != "" {
		log.WithField("run", id).Debug("recorded run in journal")
	}

	return runErr
}

// recordRun stores a finished run in the journal when one is configured
// and returns its ID.
func recordRun(ctx context.Context, input string, result convert.BatchResult) (string, error) {
	if len(result.Files) == 0 {
		return "", nil
	}
	store, err := openJournal()
	if err != nil || store == nil {
		return "", err
	}
	defer store.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	return store.Record(ctx, input, result.Files)
}
