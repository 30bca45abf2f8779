package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/olivierh59500/gauss-field/internal/config"
	"github.com/olivierh59500/gauss-field/internal/observability"
)

type contextKey string

const configKey contextKey = "config"

// configAnnotation marks a flag with the config key it overrides.
const configAnnotation = "gauss_config_key"

// NewRootCommand builds the command tree around its own viper instance.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "gauss",
		Short:         "Render electrostatic fields of point charges.",
		Long:          "gauss draws the field color map, field lines and equipotentials of a set of point charges,\nheadless to PNG or interactively in a window or terminal.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindConfigFlags(v, cmd); err != nil {
				return err
			}
			config.Configure(v, cfgFile)
			if err := config.Read(v); err != nil {
				return err
			}
			cfg, err := config.FromViper(v)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "gauss"})
				return fmt.Errorf("failed to load or validate config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("configuration loaded",
				zap.String("version", Version), zap.String("config_file", v.ConfigFileUsed()))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./gauss.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	_ = root.PersistentFlags().SetAnnotation("log-level", configAnnotation, []string{"logger.level"})

	root.AddCommand(
		newRenderCmd(),
		newViewCmd(),
		newTermCmd(),
		newProbeCmd(),
		newSceneCmd(),
	)
	return root
}

// Execute runs the CLI with ctx as the root context.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return cfg, nil
}

// configFlags annotates the named flags with their config keys. Only the
// command that actually runs gets its flags bound, so subcommands can share
// keys.
func configFlags(cmd *cobra.Command, keys map[string]string) {
	for flag, key := range keys {
		if err := cmd.Flags().SetAnnotation(flag, configAnnotation, []string{key}); err != nil {
			panic(fmt.Sprintf("annotate flag %s: %v", flag, err))
		}
	}
}

func bindConfigFlags(v *viper.Viper, cmd *cobra.Command) error {
	var errs []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if keys, ok := f.Annotations[configAnnotation]; ok && len(keys) == 1 {
			if err := v.BindPFlag(keys[0], f); err != nil {
				errs = append(errs, fmt.Errorf("bind flag %s: %w", f.Name, err))
			}
		}
	})
	return errors.Join(errs...)
}
