// Command curator ingests a channel inventory from a configured source,
// filters, deduplicates, validates, and enriches it, and writes the
// resulting tabular catalog, aggregated playlist, and per-channel
// playlist fragments.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ivycast/curator/internal/config"
	"github.com/ivycast/curator/internal/logging"
	"github.com/ivycast/curator/internal/pipeline"
)

func main() {
	sourceType := flag.String("source", "", "override CURATOR_SOURCE_TYPE (tabular|remote_playlist|local_playlist|hybrid|direct_url)")
	channelsFile := flag.String("channels-file", "", "override CURATOR_CHANNELS_FILE")
	catalogPath := flag.String("catalog", "", "override CURATOR_CATALOG_PATH")
	jsonLogs := flag.Bool("json-logs", false, "emit structured JSON logs instead of console output")
	metricsAddr := flag.String("metrics-addr", "", "listen address for /metrics (empty disables the HTTP server)")
	flag.Parse()

	v := config.Load()
	if *sourceType != "" {
		v.ChannelsSource = config.NormalizeSourceType(*sourceType)
	}
	if *channelsFile != "" {
		v.ChannelsFile = *channelsFile
	}
	if *catalogPath != "" {
		v.ValidatedCatalogPath = *catalogPath
	}

	var log logging.Logger
	if *jsonLogs {
		log = logging.NewJSON(os.Stderr)
	} else {
		log = logging.New(os.Stderr)
	}

	var metrics *pipeline.PromMetrics
	reg := prometheus.NewRegistry()
	if v.MetricsEnabled {
		metrics = pipeline.NewPromMetrics(reg)
		if *metricsAddr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			go func() {
				if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
					log.Error("metrics server stopped", "error", err.Error())
				}
			}()
			log.Info("metrics listening", "addr", *metricsAddr)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutdown signal received")
		cancel()
	}()

	coordinator := pipeline.New(v, log, metrics)
	summary, err := coordinator.Run(ctx)
	if err != nil {
		log.Error("pipeline run failed", "error", err.Error())
		fmt.Fprintln(os.Stderr, "curator: run failed:", err)
		os.Exit(1)
	}

	log.Info("run summary",
		"runId", summary.RunID,
		"input", summary.InputCount,
		"final", summary.FinalCount,
		"duplicatesRemoved", summary.DuplicatesRemoved,
		"unreachable", summary.UnreachableCount,
	)
}
