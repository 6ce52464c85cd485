// Command fleettop is a live dashboard over one or more Docker hosts:
// it tracks container lifecycle and resource usage across the fleet and
// streams a selected container's logs.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/okvist/fleettop/internal/dash"
	"github.com/okvist/fleettop/internal/docker"
	"github.com/okvist/fleettop/internal/tui"
)

type hostList []string

func (h *hostList) String() string     { return strings.Join(*h, ",") }
func (h *hostList) Set(v string) error { *h = append(*h, v); return nil }

func main() {
	var hosts hostList
	configPath := flag.String("config", dash.DefaultConfigPath(), "path to config file")
	logFile := flag.String("log", "", "append debug logs to this file")
	flag.Var(&hosts, "host", "runtime host to monitor (repeatable): local, unix://..., tcp://host:port")
	flag.Var(&hosts, "H", "shorthand for -host")
	flag.Parse()

	cfg, err := dash.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg.MergeCLIHosts(hosts)

	if *logFile == "" {
		*logFile = cfg.LogFile
	}
	setupLogging(*logFile)

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging routes slog to a file: stdout belongs to the dashboard.
// Without a file, logs are discarded.
func setupLogging(path string) {
	var w io.Writer = io.Discard
	if path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			w = f
		} else {
			fmt.Fprintf(os.Stderr, "warning: cannot open log file: %v\n", err)
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, nil)))
}

func run(cfg *dash.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := dash.NewBus(dash.DefaultBusCapacity)

	// Unreachable hosts are reported once and skipped; the rest of the
	// fleet stays monitorable.
	clients := make(map[string]dash.Client)
	for _, h := range cfg.Hosts {
		sdk, err := docker.Connect(h.Addr)
		if err != nil {
			slog.Warn("skipping host", "host", h.Addr, "error", err)
			fmt.Fprintf(os.Stderr, "warning: cannot connect to %s: %v\n", h.Addr, err)
			continue
		}
		defer sdk.Close()

		id := h.Name
		if id == "" {
			id = docker.HostID(h.Addr)
		}
		if _, dup := clients[id]; dup {
			slog.Warn("duplicate host id, skipping", "host", h.Addr, "id", id)
			continue
		}
		clients[id] = sdk
		go dash.NewHostMonitor(id, sdk, bus).Run(ctx)
	}

	startLog := func(key dash.ContainerKey) context.CancelFunc {
		c, ok := clients[key.HostID]
		if !ok {
			return nil
		}
		logCtx, cancelLog := context.WithCancel(ctx)
		go dash.NewLogStreamer(c, key, bus).Run(logCtx)
		return cancelLog
	}
	state := dash.NewState(startLog)

	terminal, err := tui.OpenTerminal(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer terminal.Restore()

	keyboard, err := dash.NewKeyboardWorker(os.Stdin, bus)
	if err != nil {
		return fmt.Errorf("keyboard input: %w", err)
	}
	go keyboard.Run()
	defer keyboard.Cancel()

	go dash.WatchResize(ctx, bus)

	// In raw mode Ctrl-C arrives as a key; SIGTERM still needs handling
	// so the terminal is restored on a plain kill.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		<-sig
		bus.Post(dash.Quit)
	}()

	renderer := tui.NewRenderer(os.Stdout, tui.ThemeFromConfig(cfg.Theme))
	dash.NewLoop(bus, state, renderer).Run()
	return nil
}
