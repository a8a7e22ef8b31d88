// Command pegserver runs the peg-solitaire API server, optionally alongside
// the TCP line protocol server.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pegengine/pkg/api"
	"github.com/yourusername/pegengine/pkg/engine"
	"github.com/yourusername/pegengine/pkg/external"
)

const version = "0.1.0"

var (
	log          = logrus.New()
	config       = api.DefaultConfig()
	externalPort int
	logLevel     string
	logJSON      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "pegserver",
		Short:   "Peg solitaire API server",
		Version: version,
		Args:    cobra.NoArgs,
		RunE:    run,
	}

	f := rootCmd.Flags()
	f.StringVar(&config.Host, "host", config.Host, "Host to bind to (use 0.0.0.0 for all interfaces)")
	f.IntVarP(&config.Port, "port", "p", config.Port, "Port to listen on")
	f.DurationVar(&config.ReadTimeout, "read-timeout", config.ReadTimeout, "HTTP read timeout")
	f.DurationVar(&config.WriteTimeout, "write-timeout", config.WriteTimeout, "HTTP write timeout")
	f.DurationVar(&config.SessionTTL, "session-ttl", config.SessionTTL, "Drop games idle this long (0 = never)")
	f.IntVar(&config.MaxSessions, "max-sessions", config.MaxSessions, "Max live games (0 = unlimited)")
	f.IntVar(&config.MaxSolveWorkers, "solve-workers", config.MaxSolveWorkers, "Max concurrent solver runs")
	f.IntVar(&config.SolveMaxNodes, "max-nodes", config.SolveMaxNodes, "Solver node budget per request")
	f.IntVar(&externalPort, "external-port", 0, "Also serve the TCP line protocol on this port (0 = off)")
	f.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	f.BoolVar(&logJSON, "log-json", false, "Log as JSON")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	if logJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	api.SetLogger(log)
	external.SetLogger(log)

	log.WithFields(logrus.Fields{
		"version": version,
		"boards":  len(engine.Boards()),
	}).Info("pegserver starting")

	if externalPort > 0 {
		opts := external.DefaultServerOptions()
		opts.Host = config.Host
		opts.Port = externalPort
		opts.SolveMaxNodes = config.SolveMaxNodes
		ext := external.NewServer(opts)
		if err := ext.Start(); err != nil {
			return err
		}
		defer ext.Stop()
	}

	return api.NewServer(config, version).ListenAndServeWithGracefulShutdown()
}
