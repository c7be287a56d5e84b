package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/webp2png/internal/samples"
)

var samplesCmd = &cobra.Command{
	Use:   "samples [dir]",
	Short: "Write demonstration WebP images",
	Long: `Samples draws a handful of test images and writes them as WebP files
(default directory: demo_images). Opaque samples are lossy; overlay.webp is
lossless with a translucent alpha channel, to exercise background
compositing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig().Samples
		if len(args) == 1 {
			cfg.Dir = args[0]
		}
		if cfg.Dir == "" {
			cfg.Dir = samples.DefaultDir
		}
		_, err := samples.Generate(cfg, cmd.OutOrStdout())
		return err
	},
}

func init() {
	samplesCmd.Flags().Float32("quality", 90, "lossy WebP quality (0-100)")
	_ = viper.BindPFlag("samples.quality", samplesCmd.Flags().Lookup("quality"))

	rootCmd.AddCommand(samplesCmd)
}
