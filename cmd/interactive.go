package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olivierh59500/gauss-field/internal/config"
	"github.com/olivierh59500/gauss-field/internal/observability"
	"github.com/olivierh59500/gauss-field/internal/session"
	"github.com/olivierh59500/gauss-field/internal/termview"
	"github.com/olivierh59500/gauss-field/internal/viewer"
)

func newSession(cfg *config.Config, logger *zap.Logger) (*session.Session, error) {
	charges, err := cfg.Charges()
	if err != nil {
		return nil, err
	}
	rc, err := cfg.RenderConfig()
	if err != nil {
		return nil, err
	}
	return session.New(session.Options{
		Grid:      cfg.FieldGrid(),
		Charges:   charges,
		Render:    rc,
		Live:      cfg.Viewer.Live,
		PNGPath:   cfg.Output.PNG,
		ScenePath: cfg.Output.Scene,
		Logger:    logger.Named("session"),
		LiveRate:  cfg.Viewer.LiveRate,
	}), nil
}

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the interactive window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			logger := observability.GetLogger()
			s, err := newSession(cfg, logger)
			if err != nil {
				return err
			}
			return viewer.Run(cmd.Context(), s, viewer.Options{
				Title:      cfg.Viewer.Title,
				PixelScale: cfg.Viewer.PixelScale,
				TPS:        cfg.Viewer.TPS,
				Logger:     logger.Named("viewer"),
			})
		},
	}
	cmd.Flags().Int("scale", 4, "window pixels per grid cell")
	cmd.Flags().Bool("live", false, "re-render every frame")
	cmd.Flags().String("preset", "like-pair", "scene preset")
	configFlags(cmd, map[string]string{
		"scale":  "viewer.pixel_scale",
		"live":   "viewer.live",
		"preset": "scene.preset",
	})
	return cmd
}

func newTermCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "term",
		Short: "Preview the field in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			logger := observability.GetLogger()
			s, err := newSession(cfg, logger)
			if err != nil {
				return err
			}
			return termview.Run(cmd.Context(), s, logger.Named("term"))
		},
	}
	cmd.Flags().Bool("live", false, "re-render every frame")
	cmd.Flags().String("preset", "like-pair", "scene preset")
	configFlags(cmd, map[string]string{
		"live":   "viewer.live",
		"preset": "scene.preset",
	})
	return cmd
}
