// Package cli defines the gdbridge command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/spf13/cobra"

	"gdbridge/internal/bridge"
	"gdbridge/internal/config"
	"gdbridge/internal/doctor"
	"gdbridge/internal/logging"
	"gdbridge/internal/mcpserver"
	"gdbridge/internal/meshy"
	"gdbridge/internal/receiver"
	"gdbridge/internal/tools"
	"gdbridge/internal/version"
)

// Runtime carries state shared across subcommands: the loaded config
// and the file-backed logger, both set up by the root pre-run.
type Runtime struct {
	Stdout io.Writer
	Stderr io.Writer

	// Logger overrides the file logger when set; tests use this.
	Logger *slog.Logger

	configFlag string
	loaded     config.Loaded
	logRuntime logging.Runtime
}

// Config returns the loaded configuration.
func (rt *Runtime) Config() config.Config { return rt.loaded.Config }

func (rt *Runtime) logger() *slog.Logger {
	if rt.Logger != nil {
		return rt.Logger
	}
	return rt.logRuntime.Logger
}

// setup loads config and opens the log file. Logs go to a file, never
// stdout: the MCP stdio transport owns that stream.
func (rt *Runtime) setup() error {
	loaded, err := config.Load(rt.configFlag)
	if err != nil {
		return err
	}
	rt.loaded = loaded
	for _, w := range loaded.Warnings {
		fmt.Fprintf(rt.Stderr, "warning: %s\n", w.Message)
	}

	if rt.Logger == nil {
		logRuntime, err := logging.New(loaded.Config.Log.Level)
		if err != nil {
			return fmt.Errorf("setup logging: %w", err)
		}
		rt.logRuntime = logRuntime
	}
	rt.logger().Info("config loaded", "path", loaded.Path, "exists", loaded.Exists)
	return nil
}

func (rt *Runtime) close() {
	_ = rt.logRuntime.Close()
}

// NewRootCommand builds the gdbridge command tree.
func NewRootCommand(rt *Runtime) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gdbridge",
		Short:         "Bridge between MCP clients and the Godot editor",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return rt.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			rt.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetOut(rt.Stdout)
	rootCmd.SetErr(rt.Stderr)
	rootCmd.PersistentFlags().StringVarP(&rt.configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newServeCommand(rt))
	rootCmd.AddCommand(newReceiverCommand(rt))
	rootCmd.AddCommand(newSendCommand(rt))
	rootCmd.AddCommand(newDoctorCommand(rt))
	rootCmd.AddCommand(newVersionCommand(rt))
	return rootCmd
}

// newConnector builds the editor connector from the godot config
// section.
func (rt *Runtime) newConnector() *bridge.Connector {
	godot := rt.Config().Godot
	return bridge.NewConnector(godot.Host, godot.Port, godot.Timeout(), rt.logger())
}

func newServeCommand(rt *Runtime) *cobra.Command {
	var transport string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP tools backed by the Godot editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rt.Config()
			if transport != "" {
				cfg.Server.Transport = transport
			}

			connector := rt.newConnector()
			defer connector.Close()

			var meshyClient *meshy.Client
			if cfg.Meshy.APIKey != "" {
				meshyClient = meshy.NewClient(cfg.Meshy, rt.logger())
			}
			svc := tools.NewService(connector, meshyClient, cfg.Assets, rt.logger())

			srv, err := mcpserver.New(cfg.Server, svc, rt.logger())
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&transport, "transport", "t", "", "MCP transport: stdio or http")
	return cmd
}

func newReceiverCommand(rt *Runtime) *cobra.Command {
	var bind string
	cmd := &cobra.Command{
		Use:   "receiver",
		Short: "Run the reference command receiver with a stub editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rt.Config()
			if bind == "" {
				bind = cfg.Receiver.Bind
			}

			registry := receiver.NewRegistry()
			if err := receiver.NewStubEditor().Register(registry); err != nil {
				return err
			}

			listener, err := net.Listen("tcp", bind)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", bind, err)
			}
			fmt.Fprintf(rt.Stdout, "receiver listening on %s\n", listener.Addr())

			srv := &receiver.Server{
				Registry:       registry,
				Logger:         rt.logger(),
				CommandTimeout: cfg.Receiver.CommandTimeout(),
			}
			return srv.Serve(cmd.Context(), listener)
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address, host:port")
	return cmd
}

func newSendCommand(rt *Runtime) *cobra.Command {
	var timeoutFlag time.Duration
	cmd := &cobra.Command{
		Use:   "send TYPE [PARAMS_JSON]",
		Short: "Send one command to the editor and print the result",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params map[string]any
			if len(args) == 2 {
				if err := json.Unmarshal([]byte(args[1]), &params); err != nil {
					return fmt.Errorf("parse params: %w", err)
				}
			}

			godot := rt.Config().Godot
			timeout := godot.Timeout()
			if timeoutFlag > 0 {
				timeout = timeoutFlag
			}
			connector := bridge.NewConnector(godot.Host, godot.Port, timeout, rt.logger())
			defer connector.Close()

			result, err := connector.SendCommand(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(rt.Stdout, string(data))
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "Override the command timeout")
	return cmd
}

func newDoctorCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check config, logging, editor reachability, and the Meshy key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := doctor.Run(cmd.Context(), rt.loaded)
			fmt.Fprintln(rt.Stdout, report.String())
			if !report.OK() {
				return fmt.Errorf("%d check(s) failed", failCount(report))
			}
			return nil
		},
	}
}

func failCount(report doctor.Report) int {
	n := 0
	for _, check := range report.Checks {
		if !check.Pass {
			n++
		}
	}
	return n
}

func newVersionCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gdbridge version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(rt.Stdout, version.String())
		},
	}
}
