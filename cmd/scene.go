package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olivierh59500/gauss-field/internal/config"
	"github.com/olivierh59500/gauss-field/internal/observability"
	"github.com/olivierh59500/gauss-field/internal/scene"
)

func newSceneCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "scene",
		Short: "Write the configured charge set as a scene file",
		Long: `Resolves the configured scene source (a preset, a perlin layout or inline charges)
and writes it as JSON that "scene.source: file" can load back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(scene.Presets(), "\n"))
				return err
			}
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			return runScene(observability.GetLogger(), cfg, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list preset names and exit")
	cmd.Flags().StringP("output", "o", "scene.json", "scene file to write")
	cmd.Flags().String("preset", "like-pair", "scene preset")
	cmd.Flags().String("source", "preset", "charge source (preset, file, perlin, inline)")
	cmd.Flags().Int64("seed", 1, "perlin seed")
	cmd.Flags().Int("count", 4, "perlin charge count")
	configFlags(cmd, map[string]string{
		"output": "output.scene",
		"preset": "scene.preset",
		"source": "scene.source",
		"seed":   "scene.noise.seed",
		"count":  "scene.noise.count",
	})
	return cmd
}

func runScene(logger *zap.Logger, cfg *config.Config, out io.Writer) error {
	charges, err := cfg.Charges()
	if err != nil {
		return err
	}
	name := cfg.Scene.Source
	if name == "" || name == "preset" {
		name = cfg.Scene.Preset
	}
	if err := scene.Save(cfg.Output.Scene, &scene.Scene{Name: name, Charges: charges}); err != nil {
		return err
	}
	logger.Info("scene written", zap.String("path", cfg.Output.Scene), zap.Int("charges", len(charges)))
	_, err = fmt.Fprintf(out, "wrote %s (%d charges)\n", cfg.Output.Scene, len(charges))
	return err
}
