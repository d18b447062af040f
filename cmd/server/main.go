package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/printshop/printsim/internal/api"
	"github.com/printshop/printsim/internal/config"
	"github.com/printshop/printsim/internal/core"
	"github.com/printshop/printsim/internal/dashboard"
	"github.com/printshop/printsim/internal/events"
	"github.com/printshop/printsim/internal/labels"
	"github.com/printshop/printsim/internal/runtime"
)

// Version is set during build via ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	autoStart := flag.Bool("auto-start", false, "start a simulation run immediately using the loaded parameters")
	useDashboard := flag.Bool("dashboard", false, "run the terminal dashboard instead of logging to stderr")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zapLog, err := events.NewLogger(cfg.Server.Development)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zapLog.Sync()

	labelStore, err := labels.New(cfg.Server.LabelsPath)
	if err != nil {
		log.Fatalf("labels: %v", err)
	}

	metrics := events.NewMetrics(prometheus.DefaultRegisterer)

	fanout := events.NewFanout(metrics)
	broadcaster := api.NewWSBroadcaster()
	fanout.Add(broadcaster)

	var feed *dashboard.LogFeed
	if *useDashboard {
		feed = dashboard.NewLogFeed(256)
		fanout.Add(feed)
	} else {
		fanout.Add(events.NewTerminal(zapLog))
	}

	manager := runtime.NewManager(cfg.Parameters, fanout)

	server := api.NewServer(manager, broadcaster, labelStore)

	serverErrChan := make(chan error, 1)
	go func() {
		zapLog.Sugar().Infof("listening on %s", cfg.Server.ListenAddr)
		if err := server.Run(cfg.Server.ListenAddr); err != nil {
			serverErrChan <- err
		}
	}()

	if *autoStart {
		if res := manager.Start(core.Parameters{}); !res.Success {
			log.Fatalf("auto-start: %s", res.Error)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if *useDashboard {
		dashDone := make(chan struct{})
		go func() {
			if err := dashboard.Run(manager, feed); err != nil {
				log.Printf("dashboard error: %v", err)
			}
			close(dashDone)
		}()

		select {
		case err := <-serverErrChan:
			log.Fatalf("server error: %v", err)
		case <-sigChan:
			shutdown(manager)
		case <-dashDone:
			shutdown(manager)
		}
		return
	}

	select {
	case err := <-serverErrChan:
		log.Fatalf("server error: %v", err)
	case <-sigChan:
		fmt.Println()
		shutdown(manager)
	}
}

func shutdown(manager *runtime.Manager) {
	manager.Stop()
	os.Exit(0)
}
