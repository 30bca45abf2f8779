package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olivierh59500/gauss-field/internal/config"
	"github.com/olivierh59500/gauss-field/internal/observability"
	"github.com/olivierh59500/gauss-field/internal/raster"
	"github.com/olivierh59500/gauss-field/internal/render"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame to a PNG file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), observability.GetLogger(), cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringP("output", "o", "out.png", "PNG file to write")
	cmd.Flags().String("preset", "like-pair", "scene preset (single, like-pair, dipole, triple)")
	cmd.Flags().String("source", "preset", "charge source (preset, file, perlin, inline)")
	cmd.Flags().Int("radius", 120, "grid half-width")
	cmd.Flags().Int("workers", 1, "concurrent sampling workers")
	cmd.Flags().String("equipotential", "threshold", "equipotential mode (threshold, walk)")
	cmd.Flags().Bool("arrows", false, "draw arrowheads on field lines")
	configFlags(cmd, map[string]string{
		"output":        "output.png",
		"preset":        "scene.preset",
		"source":        "scene.source",
		"radius":        "grid.radius",
		"workers":       "render.workers",
		"equipotential": "render.equipotential",
		"arrows":        "render.arrows",
	})
	return cmd
}

func runRender(ctx context.Context, logger *zap.Logger, cfg *config.Config, out io.Writer) error {
	charges, err := cfg.Charges()
	if err != nil {
		return err
	}
	rc, err := cfg.RenderConfig()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	buf := raster.New(cfg.FieldGrid())
	st := render.NewRenderer(logger.Named("render")).Render(buf, charges, rc)
	if err := raster.SavePNG(cfg.Output.PNG, buf); err != nil {
		return err
	}

	logger.Info("frame written",
		zap.String("path", cfg.Output.PNG),
		zap.Int("charges", len(charges)),
		zap.Duration("raster", st.RasterTime))
	fmt.Fprintf(out, "wrote %s (%dx%d, %d charges, %d field lines)\n",
		cfg.Output.PNG, buf.Grid.DeltaX(), buf.Grid.DeltaY(), len(charges), st.Traces)
	return nil
}
