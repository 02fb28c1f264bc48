package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amalg/go-robots/internal/discovery"
	"github.com/amalg/go-robots/internal/network"
	"github.com/amalg/go-robots/internal/ui"
)

func main() {
	addr := flag.String("addr", "", "Server address (e.g., 192.168.1.5:9999); empty searches the LAN")
	name := flag.String("name", "Player", "Your player name")
	discoveryPort := flag.Int("discovery-port", discovery.DefaultPort, "UDP port for LAN discovery")
	wait := flag.Duration("wait", 3*time.Second, "How long to search the LAN for a server")
	flag.Parse()

	if *addr == "" {
		found, err := findServer(*discoveryPort, *wait)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			fmt.Fprintln(os.Stderr, "Usage: client [--addr <host:port>] [--name <name>]")
			fmt.Fprintln(os.Stderr, "  Example: client --addr 192.168.1.5:9999 --name Alice")
			os.Exit(1)
		}
		*addr = found
	}

	fmt.Printf("Connecting to %s as %s...\n", *addr, *name)

	client, err := network.NewClient(*addr, *name, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	cfg := client.Config()
	fmt.Printf("Session %s: %dx%d arena, %d robots (%s)\n",
		client.SessionID(), cfg.Rows, cfg.Cols, cfg.Robots, cfg.Strategy)

	p := tea.NewProgram(ui.NewModel(client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// findServer browses the LAN and returns the first advertised server.
func findServer(port int, wait time.Duration) (string, error) {
	fmt.Printf("Searching the LAN for servers (%s)...\n", wait)

	l := discovery.NewListener(port)
	if err := l.Start(); err != nil {
		return "", fmt.Errorf("browse LAN: %w", err)
	}
	defer l.Stop()

	info, ok := l.WaitForServer(wait)
	if !ok {
		return "", fmt.Errorf("no server found on the LAN")
	}
	fmt.Printf("Found %q at %s (%d games in progress)\n", info.Name, info.GameAddr, info.Sessions)
	return info.GameAddr, nil
}
