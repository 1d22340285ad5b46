package cli

import (
	"fmt"
	"strconv"

	"color-verifier/internal/config"

	"github.com/spf13/cobra"
)

var marginCmd = &cobra.Command{
	Use:   "margin",
	Short: "Show or change the stored error margin",
}

var marginSetCmd = &cobra.Command{
	Use:   "set <margin>",
	Short: "Store a new error margin (integer)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		margin, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("error margin must be an integer: %w", err)
		}
		if err := config.SaveMargin(configPath, margin); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated error margin to %d in %s\n", margin, configPath)
		return nil
	},
}

var marginShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored and the effective error margin",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		effective, clamped := cfg.Margin()
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "stored:    %g\n", cfg.ErrorMargin)
		fmt.Fprintf(w, "effective: %g", effective)
		if clamped {
			fmt.Fprint(w, " (clamped)")
		}
		fmt.Fprintln(w)
		return nil
	},
}

func init() {
	marginCmd.AddCommand(marginSetCmd, marginShowCmd)
	rootCmd.AddCommand(marginCmd)
}
