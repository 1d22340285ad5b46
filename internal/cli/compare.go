package cli

import (
	"fmt"
	"log/slog"

	"color-verifier/internal/config"
	"color-verifier/internal/diag"
	"color-verifier/internal/region"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Check a capture against the calibrated reference colors",
	Long: `Finds the dominant color of each calibrated region in the image, scores it
against the region's reference color and writes the results. The command
fails when any region is outside the error margin.`,
	Example: `  colorcheck compare --image realtime.bmp --regions config.json --out output.json
  colorcheck compare --image realtime.bmp --margin 5 --overlay result.png`,
	RunE: runCompare,
}

func init() {
	addImageFlags(compareCmd)
	compareCmd.Flags().String("out", "output.json", "Comparison output file")
	compareCmd.Flags().Float64("margin", 0, "Error margin override (default: error_margin from --config)")
	compareCmd.Flags().String("overlay", "", "Write the image with pass/fail outlines to this file")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("margin") {
		cfg.ErrorMargin = flag(cmd.Flags().GetFloat64, "margin")
	}

	regions, err := region.LoadFile(stringFlag(cmd.Flags(), "regions"))
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

	cmp, err := p.Evaluate(img, regions, cfg.ErrorMargin)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	out := stringFlag(cmd.Flags(), "out")
	if err := region.SaveFile(out, cmp); err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	if overlay := stringFlag(cmd.Flags(), "overlay"); overlay != "" {
		if err := diag.DrawResults(overlay, img, regions, cmp); err != nil {
			slog.Warn("overlay not written", "path", overlay, "error", err)
		}
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-12s %-16s %-8s %-16s %s\n", "REGION", "COLOR", "HEX", "ERROR / MARGIN", "RESULT")
	for _, e := range cmp.Entries {
		result := "PASS"
		if !e.Success {
			result = "FAIL"
		}
		fmt.Fprintf(w, "%-12s %-16s %-8s %-16s %s\n", e.ID, e.MeanColor, e.MeanColor.Hex(),
			fmt.Sprintf("%.2f / %.2f", e.Error, cmp.Margin), result)
	}

	if !cmp.Passed() {
		failed := cmp.Failed()
		return fmt.Errorf("%d of %d regions outside margin: %v", len(failed), len(cmp.Entries), failed)
	}
	fmt.Fprintf(w, "\nAll %d regions within margin\n", len(cmp.Entries))
	return nil
}
