package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/amalg/go-robots/internal/discovery"
	"github.com/amalg/go-robots/internal/game"
	"github.com/amalg/go-robots/internal/logging"
	"github.com/amalg/go-robots/internal/network"
)

func main() {
	defaults := game.DefaultConfig()
	port := flag.Int("port", 9999, "Port to listen on")
	name := flag.String("name", "robots", "Server name shown to browsing clients")
	announce := flag.Bool("announce", true, "Advertise the server on the LAN")
	discoveryPort := flag.Int("discovery-port", discovery.DefaultPort, "UDP port for LAN discovery")
	rows := flag.Int("rows", defaults.Rows, "Default arena rows")
	cols := flag.Int("cols", defaults.Cols, "Default arena columns")
	robots := flag.Int("robots", defaults.Robots, "Default number of robots")
	walls := flag.Float64("walls", defaults.WallDensity, "Default wall density (0.0 to 0.5)")
	strategy := flag.String("strategy", string(defaults.Strategy), "Default robot strategy: random or chase")
	rounds := flag.Int("rounds", 0, "Default rounds to survive (0: unlimited)")
	logFile := flag.String("log", "stderr", "Log destination: stderr, stdout or a file path")
	debug := flag.Bool("debug", false, "Log every turn")
	flag.Parse()

	logger, err := logging.New(*logFile, *debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := defaults
	cfg.Rows = *rows
	cfg.Cols = *cols
	cfg.Robots = *robots
	cfg.WallDensity = *walls
	cfg.Strategy = game.Strategy(*strategy)
	cfg.MaxRounds = *rounds

	// Fail at startup rather than on the first join
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid default configuration", zap.Error(err))
	}

	server := network.NewServer(fmt.Sprintf("0.0.0.0:%d", *port), cfg, logger)
	if err := server.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
	logLocalAddrs(logger, *port)

	if *announce {
		b := discovery.NewBroadcaster(discovery.ServerInfo{
			Name:     *name,
			GameAddr: fmt.Sprintf("%s:%d", outboundIP(), *port),
			Rows:     cfg.Rows,
			Cols:     cfg.Cols,
			Robots:   cfg.Robots,
			Strategy: string(cfg.Strategy),
		}, *discoveryPort, server.SessionCount, logger)
		if err := b.Start(); err != nil {
			logger.Warn("LAN discovery disabled", zap.Error(err))
		} else {
			defer b.Stop()
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("shutting down", zap.String("signal", sig.String()))
	server.Stop()
}

// logLocalAddrs logs every local IPv4 address players can connect to.
func logLocalAddrs(logger *zap.Logger, port int) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return
	}
	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				logger.Info("players can connect", zap.String("addr", fmt.Sprintf("%s:%d", ipnet.IP, port)))
			}
		}
	}
}

// outboundIP returns the first non-loopback IPv4 address, falling back to
// loopback.
func outboundIP() string {
	addrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	return "127.0.0.1"
}
