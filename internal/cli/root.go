// Package cli implements the colorcheck command line.
package cli

import (
	"fmt"
	"image"
	"log/slog"
	"os"

	"color-verifier/internal/config"
	"color-verifier/internal/diag"
	"color-verifier/internal/frame"
	"color-verifier/internal/pipeline"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "colorcheck",
	Short: "Calibrate and verify the color of regions in captured images",
	Long: `colorcheck records the dominant color of user-defined polygon regions on a
reference image, then checks later captures against those references and
reports a pass or fail per region based on a configurable error margin.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "app_config.json", "Application config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log per-region details")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// addImageFlags registers the flags shared by calibrate and compare.
func addImageFlags(cmd *cobra.Command) {
	cmd.Flags().String("image", "", "Captured image (PNG, JPEG, BMP or TIFF)")
	cmd.Flags().String("regions", "config.json", "Region configuration file")
	cmd.Flags().Bool("capture", false, "Treat the image as a raw camera frame: crop to 1:1 and scale to capture_size")
	cmd.Flags().Bool("opencv", false, "Decode the image with OpenCV instead of the Go decoders")
	cmd.Flags().String("diagnostics", "", "Write per-region diagnostic images to this directory")
	_ = cmd.MarkFlagRequired("image")
}

func loadImage(cmd *cobra.Command, cfg *config.Config) (image.Image, error) {
	path := stringFlag(cmd.Flags(), "image")
	var (
		img image.Image
		err error
	)
	if boolFlag(cmd.Flags(), "opencv") {
		img, err = diag.LoadCV(path)
	} else {
		img, err = frame.Load(path)
	}
	if err != nil {
		return nil, err
	}
	if boolFlag(cmd.Flags(), "capture") {
		img = frame.PrepareCapture(img, cfg.CaptureSize)
	}
	b := img.Bounds()
	slog.Debug("image loaded", "path", path, "width", b.Dx(), "height", b.Dy())
	return img, nil
}

func newPipeline(cmd *cobra.Command, cfg *config.Config) (*pipeline.Pipeline, error) {
	options := []pipeline.Option{pipeline.WithLogger(slog.Default())}

	dir := stringFlag(cmd.Flags(), "diagnostics")
	if dir == "" {
		dir = cfg.Diagnostics
	}
	if dir != "" {
		w, err := diag.NewWriter(dir)
		if err != nil {
			return nil, err
		}
		options = append(options, pipeline.WithDiagnostics(w))
	}
	return pipeline.New(cfg.Pipeline(), options...), nil
}
