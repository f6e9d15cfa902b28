package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-pyleus/internal/app"
	"github.com/MKhiriev/go-pyleus/internal/config"
	"github.com/MKhiriev/go-pyleus/internal/logger"
	"github.com/MKhiriev/go-pyleus/internal/provider"
)

// splitProviderArgs separates --provider.alias=name arguments, which are
// not flags cobra can declare, from the rest of args.
func splitProviderArgs(args []string) (providerArgs, rest []string) {
	for _, arg := range args {
		if strings.HasPrefix(arg, provider.ArgPrefix) {
			providerArgs = append(providerArgs, arg)
			continue
		}
		rest = append(rest, arg)
	}
	return providerArgs, rest
}

type rootOptions struct {
	build        app.BuildInfo
	flags        *config.Flags
	providerArgs []string
	log          *logger.Logger
}

// configuration resolves the configuration for cmd and applies its
// verbosity.
func (o *rootOptions) configuration(cmd *cobra.Command) (config.Configuration, error) {
	cfg, err := config.GetConfiguration(o.flags, o.log)
	if err != nil {
		return config.Configuration{}, err
	}
	cfg.Func = cmd.Name()

	logger.SetVerbosity(cfg.Verbose, cfg.Debug)
	o.log.Debug().Any("config", cfg).Msg("received configs")
	return cfg, nil
}

func newRootCmd(build app.BuildInfo, providerArgs []string) *cobra.Command {
	opts := &rootOptions{
		build:        build,
		providerArgs: providerArgs,
		log:          logger.NewLogger("pyleus"),
	}

	cmd := &cobra.Command{
		Use:          "pyleus",
		Short:        "Build and run stream processing topologies",
		SilenceUsage: true,
		Version:      buildVersion,
	}
	opts.flags = config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newLocalCmd(opts),
		newConfigCmd(opts),
		newValidateCmd(opts),
	)
	return cmd
}

func newLocalCmd(opts *rootOptions) *cobra.Command {
	var (
		metricsAddr string
		queueSize   int
	)

	cmd := &cobra.Command{
		Use:   "local [topology.yaml]",
		Short: "Run a topology in process until interrupted",
		Long: `Run a topology in process until interrupted.

Spout types are resolved through the [plugins] section of the configuration
and --provider.alias=name arguments, which win over the configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), opts.build)

			cfg, err := opts.configuration(cmd)
			if err != nil {
				return err
			}

			local := app.LocalOptions{
				ProviderArgs: opts.providerArgs,
				QueueSize:    queueSize,
				MetricsAddr:  metricsAddr,
			}
			if len(args) == 1 {
				local.TopologyPath = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.RunLocal(ctx, cfg, local, opts.log)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	cmd.Flags().IntVar(&queueSize, "queue-size", 0, "Tuples buffered per bolt instance")
	return cmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.configuration(cmd)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	}
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [topology.yaml]",
		Short: "Validate a topology definition and print its submit options",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.configuration(cmd)
			if err != nil {
				return err
			}

			var path string
			if len(args) == 1 {
				path = args[0]
			}
			spec, err := app.LoadTopology(cfg, path)
			if err != nil {
				return err
			}

			out := struct {
				Name       string         `json:"name"`
				Components int            `json:"components"`
				Options    map[string]any `json:"options"`
			}{
				Name:       spec.Name,
				Components: len(spec.Topology),
				Options:    spec.SubmitOptions(),
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("error writing result: %w", err)
			}
			return nil
		},
	}
}
