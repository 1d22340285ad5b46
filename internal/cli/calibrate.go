package cli

import (
	"fmt"

	"color-verifier/internal/config"
	"color-verifier/internal/region"

	"github.com/spf13/cobra"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Record the reference color of every region",
	Long: `Reads the region configuration, finds the dominant color of each region in
the reference image and writes the configuration back with mean_color and
extremes_of_ROI filled in.`,
	Example: `  colorcheck calibrate --image reference.bmp --regions config.json`,
	RunE: runCalibrate,
}

func init() {
	addImageFlags(calibrateCmd)
	calibrateCmd.Flags().String("out", "", "Output file (default: overwrite --regions)")
	rootCmd.AddCommand(calibrateCmd)
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	regionsPath := stringFlag(cmd.Flags(), "regions")
	regions, err := region.LoadFile(regionsPath)
	if err != nil {
		return fmt.Errorf("load regions: %w", err)
	}
	img, err := loadImage(cmd, cfg)
	if err != nil {
		return err
	}
	p, err := newPipeline(cmd, cfg)
	if err != nil {
		return err
	}

	cal, err := p.Calibrate(img, regions)
	if err != nil {
		return fmt.Errorf("calibration failed: %w", err)
	}

	out := stringFlag(cmd.Flags(), "out")
	if out == "" {
		out = regionsPath
	}
	if err := region.SaveFile(out, cal); err != nil {
		return fmt.Errorf("save calibration: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-12s %-16s %-8s %s\n", "REGION", "COLOR", "HEX", "EXTREMES")
	for _, e := range cal.Entries {
		fmt.Fprintf(w, "%-12s %-16s %-8s %s\n", e.ID, e.MeanColor, e.MeanColor.Hex(), e.Extremes)
	}
	fmt.Fprintf(w, "\nCalibrated %d regions, written to %s\n", len(cal.Entries), out)
	return nil
}
