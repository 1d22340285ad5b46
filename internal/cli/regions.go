package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"color-verifier/internal/region"
	"color-verifier/pkg/geometry"

	"github.com/spf13/cobra"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Define the regions to check",
}

var regionsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Draw a new region set from a point script",
	Long: `Reads drawing commands, one per line, and saves the finished regions as
ROI1, ROI2, ... in the order they were closed. Commands:

  x,y      add a vertex (x y also works)
  undo     remove the last vertex
  close    finish the current region (at least 3 vertices)
  reset    discard every point and region drawn so far

Blank lines and lines starting with # are ignored. The script is read from
--script, or from stdin when it is not set.`,
	Example: `  printf '10,10\n60,10\n60,40\nclose\n' | colorcheck regions new --out config.json`,
	Args:    cobra.NoArgs,
	RunE:    runRegionsNew,
}

func init() {
	regionsNewCmd.Flags().String("script", "", "File with drawing commands (default: stdin)")
	regionsNewCmd.Flags().String("out", "config.json", "Region configuration file to write")
	regionsCmd.AddCommand(regionsNewCmd)
	rootCmd.AddCommand(regionsCmd)
}

func runRegionsNew(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if path := stringFlag(cmd.Flags(), "script"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	set, err := drawRegions(in)
	if err != nil {
		return err
	}
	out := stringFlag(cmd.Flags(), "out")
	if err := region.SaveFile(out, set); err != nil {
		return fmt.Errorf("save regions: %w", err)
	}

	w := cmd.OutOrStdout()
	for _, r := range set.Regions() {
		fmt.Fprintf(w, "%-12s %3d points  area %-10g bbox %s\n", r.ID, len(r.Vertices), geometry.Area(r.Vertices), r.BBox())
	}
	fmt.Fprintf(w, "\nSaved %v to %s\n", set.IDs(), out)
	return nil
}

// drawRegions replays a drawing script through a region.Builder.
func drawRegions(r io.Reader) (*region.Set, error) {
	b := region.NewBuilder()
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		switch strings.ToLower(text) {
		case "undo":
			if !b.RemoveLastPoint() {
				return nil, fmt.Errorf("line %d: nothing to undo", line)
			}
		case "close":
			if _, err := b.FinishRegion(); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		case "reset":
			b.Reset()
		default:
			p, err := parsePoint(text)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			b.AddPoint(p.X, p.Y)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if pending := b.Points(); len(pending) > 0 {
		return nil, fmt.Errorf("region with %d points was never closed", len(pending))
	}
	return b.Done()
}

func parsePoint(s string) (geometry.PointInt, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) != 2 {
		return geometry.PointInt{}, fmt.Errorf("expected x,y, got %q", s)
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return geometry.PointInt{}, fmt.Errorf("bad x in %q: %w", s, err)
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return geometry.PointInt{}, fmt.Errorf("bad y in %q: %w", s, err)
	}
	return geometry.Pt(x, y), nil
}
