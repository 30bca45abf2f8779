package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/olivierh59500/gauss-field/internal/config"
	"github.com/olivierh59500/gauss-field/internal/field"
	"github.com/olivierh59500/gauss-field/internal/session"
)

type probeOutput struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	FX        float64 `json:"fx"`
	FY        float64 `json:"fy"`
	Magnitude float64 `json:"magnitude"`
	Potential float64 `json:"potential"`
}

func newProbeCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "probe X Y",
		Short: "Print the force and potential at a point",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			x, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid x %q: %w", args[0], err)
			}
			y, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid y %q: %w", args[1], err)
			}
			return runProbe(cfg, field.V(x, y), asJSON, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	cmd.Flags().String("preset", "like-pair", "scene preset")
	cmd.Flags().String("source", "preset", "charge source (preset, file, perlin, inline)")
	configFlags(cmd, map[string]string{
		"preset": "scene.preset",
		"source": "scene.source",
	})
	return cmd
}

func runProbe(cfg *config.Config, p field.Vec2, asJSON bool, out io.Writer) error {
	charges, err := cfg.Charges()
	if err != nil {
		return err
	}
	pr := session.ProbeAt(p, charges)
	if !asJSON {
		_, err := fmt.Fprintln(out, pr.String())
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(probeOutput{
		X: p.X, Y: p.Y,
		FX: pr.Force.X, FY: pr.Force.Y,
		Magnitude: pr.Magnitude, Potential: pr.Potential,
	})
}
