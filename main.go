package main

import (
	"context"
	"fmt"
	"log"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/joho/godotenv"
	"github.com/rm-hull/anime4k/cmd"
	"github.com/rm-hull/anime4k/internal"
	"github.com/rm-hull/anime4k/internal/config"
	"github.com/rm-hull/anime4k/internal/png/stage"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func main() {
	var debug bool
	var port int
	var batch cmd.BatchOptions
	var upscale cmd.UpscaleOptions

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := internal.NewLogger(false)

	rootCmd := &cobra.Command{
		Use:   "anime4k",
		Long:  `Edge-directed post-sharpening for upscaled images`,
		Short: "Upscale and sharpen images",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger = internal.NewLogger(debug)
			internal.ShowVersion(logger)
			internal.UserInfo(logger)
			internal.EnvironmentVars(logger)
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	upscaleCmd := &cobra.Command{
		Use:   "upscale <input> <output> [flags]",
		Short: "Upscale a single image (file path or http(s) URL) and write a PNG",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			upscale.Input = args[0]
			upscale.Output = args[1]
			upscale.Config = cfg
			return cmd.Upscale(c.Context(), upscale, logger)
		},
	}
	addPipelineFlags(upscaleCmd.Flags(), &cfg)
	upscaleCmd.Flags().StringVar(&upscale.Compare, "compare", "", "Also write an animated PNG flipping between the plain resample and the result")
	upscaleCmd.Flags().StringVar(&upscale.DumpDir, "dump-dir", "", "Write every intermediate stage to this directory")

	batchCmd := &cobra.Command{
		Use:   "batch --in <dir> --out <dir> [--pool-size <n>] [--limit <n>] [--schedule <cron>]",
		Short: "Upscale every image in a directory, optionally on a schedule",
		RunE: func(c *cobra.Command, _ []string) error {
			batch.Config = cfg
			return cmd.Batch(c.Context(), batch, logger)
		},
	}
	addPipelineFlags(batchCmd.Flags(), &cfg)
	batchCmd.Flags().StringVar(&batch.InDir, "in", "./data/in", "Directory of images to process")
	batchCmd.Flags().StringVar(&batch.OutDir, "out", "./data/out", "Directory to write PNGs to")
	batchCmd.Flags().IntVar(&batch.PoolSize, "pool-size", 2, "Number of images processed concurrently")
	batchCmd.Flags().IntVar(&batch.Limit, "limit", 0, "Maximum number of images per run (0 means no limit)")
	batchCmd.Flags().StringVar(&batch.Schedule, "schedule", "", "Cron expression to rerun on, e.g. \"*/15 * * * *\"")

	apiServerCmd := &cobra.Command{
		Use:   "api-server [--port <port>] [--debug]",
		Short: "Start HTTP API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.ApiServer(cfg, port, debug, logger)
		},
	}
	addPipelineFlags(apiServerCmd.Flags(), &cfg)
	apiServerCmd.Flags().IntVar(&port, "port", 8080, "Port to run HTTP server on")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(versioninfo.Short())
		},
	}

	rootCmd.AddCommand(upscaleCmd, batchCmd, apiServerCmd, versionCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.WithError(err).Fatal("Command failed")
	}
}

// addPipelineFlags binds the sharpening settings; defaults come from the
// environment so flags only need to be given to override it.
func addPipelineFlags(flags *pflag.FlagSet, cfg *config.Config) {
	flags.Float64Var(&cfg.Scale, "scale", cfg.Scale, "Upscale factor")
	flags.IntVar(&cfg.Passes, "passes", cfg.Passes, "Number of sharpening passes")
	flags.IntVar(&cfg.PushStrength, "push-strength", cfg.PushStrength, "Colour push strength 0-255 (negative derives scale/6)")
	flags.IntVar(&cfg.GradientStrength, "gradient-strength", cfg.GradientStrength, "Gradient push strength 0-255 (negative derives scale/2)")
	flags.IntVar(&cfg.Workers, "workers", cfg.Workers, "Row workers per image (0 uses all cores)")
	flags.StringVar(&cfg.Filter, "filter", cfg.Filter, fmt.Sprintf("Resample filter, one of %v", stage.Filters))
	flags.Float64Var(&cfg.DenoiseSigma, "denoise", cfg.DenoiseSigma, "Gaussian blur sigma applied before resampling (0 disables)")
}
