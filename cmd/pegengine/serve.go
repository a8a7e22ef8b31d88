package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yourusername/pegengine/pkg/api"
	"github.com/yourusername/pegengine/pkg/external"
)

var (
	serveConfig = api.DefaultConfig()
	extOptions  = external.DefaultServerOptions()
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP/WebSocket API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return api.NewServer(serveConfig, version).ListenAndServeWithGracefulShutdown()
		},
	}
	addServerFlags(serveCmd, &serveConfig)

	externalCmd := &cobra.Command{
		Use:   "external",
		Short: "Run the TCP line protocol server",
		Args:  cobra.NoArgs,
		RunE:  runExternal,
	}
	f := externalCmd.Flags()
	f.StringVar(&extOptions.Host, "host", extOptions.Host, "Interface to bind (empty = all)")
	f.IntVarP(&extOptions.Port, "port", "p", extOptions.Port, "TCP port to listen on")
	f.BoolVar(&extOptions.PromptEnabled, "prompt", extOptions.PromptEnabled, "Send a prompt after every response")
	f.IntVar(&extOptions.SolveMaxNodes, "max-nodes", extOptions.SolveMaxNodes, "Default solver budget (0 = engine default)")

	rootCmd.AddCommand(serveCmd, externalCmd)
}

// addServerFlags binds the API server configuration to cmd's flags.
func addServerFlags(cmd *cobra.Command, c *api.ServerConfig) {
	f := cmd.Flags()
	f.StringVar(&c.Host, "host", c.Host, "Host to bind to (use 0.0.0.0 for all interfaces)")
	f.IntVarP(&c.Port, "port", "p", c.Port, "Port to listen on")
	f.DurationVar(&c.ReadTimeout, "read-timeout", c.ReadTimeout, "HTTP read timeout")
	f.DurationVar(&c.WriteTimeout, "write-timeout", c.WriteTimeout, "HTTP write timeout")
	f.DurationVar(&c.SessionTTL, "session-ttl", c.SessionTTL, "Drop games idle this long (0 = never)")
	f.IntVar(&c.MaxSessions, "max-sessions", c.MaxSessions, "Max live games (0 = unlimited)")
	f.IntVar(&c.MaxGameWorkers, "game-workers", c.MaxGameWorkers, "Max concurrent game operations")
	f.IntVar(&c.MaxSolveWorkers, "solve-workers", c.MaxSolveWorkers, "Max concurrent solver runs")
	f.IntVar(&c.SolveMaxNodes, "max-nodes", c.SolveMaxNodes, "Solver node budget per request")
}

func runExternal(cmd *cobra.Command, args []string) error {
	srv := external.NewServer(extOptions)
	if err := srv.Start(); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.WithField("signal", sig).Info("shutting down")

	return srv.Stop()
}
