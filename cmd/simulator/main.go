package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roundel-labs/tubegraph/pkg/config"
	"github.com/roundel-labs/tubegraph/pkg/geo"
	"github.com/roundel-labs/tubegraph/pkg/sim"
	"github.com/roundel-labs/tubegraph/pkg/sim/publisher"
	"github.com/roundel-labs/tubegraph/pkg/tube"
)

var configPath = flag.String("config", "", "path to simulator yaml config")

func main() {
	flag.Parse()

	// Load configuration from yaml, .env and environment
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// Root context with cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	network := tube.InnerLondon()
	if cfg.NetworkFile != "" {
		f, err := os.Open(cfg.NetworkFile)
		if err != nil {
			log.Fatalf("open network file: %v", err)
		}
		network, err = tube.FromYAML(f)
		f.Close()
		if err != nil {
			log.Fatalf("parse network file %s: %v", cfg.NetworkFile, err)
		}
		log.Printf("loaded %d lines from %s", len(network.Lines), cfg.NetworkFile)
	}

	reg := prometheus.NewRegistry()
	m := sim.NewMetrics(reg)

	if cfg.MetricsAddr != "" {
		srv := sim.ServeMetrics(reg, cfg.MetricsAddr)
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	mgr, err := sim.NewManager(network, geo.DefaultPlaneProjection(), cfg.VehicleSpeed, m)
	if err != nil {
		log.Fatalf("simulator error: %v", err)
	}

	pub, err := publisher.NewPositionPublisher(cfg.NATSURL)
	if err != nil {
		log.Fatalf("nats error: %v", err)
	}
	defer pub.Close()

	if err := mgr.Run(ctx, cfg.TickInterval(), pub); err != nil {
		log.Fatalf("simulator stopped: %v", err)
	}
	log.Println("shutdown complete")
}
