package main

// groomsweep offers growing batches of random services to a transport network,
// admits them with grooming, and reports how many lightpaths grooming saves
// compared with carrying each size class on its own lightpaths.

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/iti/grooming"
	"github.com/iti/rngstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "groomsweep: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("groomsweep", flag.ContinueOnError)
	configPath := fs.String("config", "", "TOML configuration file (defaults used when empty)")
	topoPath := fs.String("topo", "", "topology file: json or yaml description, or an edge list; random when empty")
	outPath := fs.String("out", "", "write the sweep reports here, json or yaml by extension")
	tracePath := fs.String("trace", "", "write every admission trial here, json or yaml by extension")
	replicates := fs.Int("replicates", 0, "number of independent sweeps, overrides the configuration")
	metricsAddr := fs.String("metrics", "", "serve Prometheus metrics on this address while the sweep runs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := grooming.DefaultConfig()
	if *configPath != "" {
		loaded, err := grooming.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *replicates > 0 {
		cfg.Sweep.Replicates = *replicates
	}
	if *tracePath != "" && cfg.Sweep.Replicates > 1 {
		log.Warnf("tracing records a single sweep, running 1 replicate instead of %d", cfg.Sweep.Replicates)
		cfg.Sweep.Replicates = 1
	}

	setupLogging(cfg)

	if _, err := grooming.CheckReadableFiles([]string{*topoPath}); err != nil {
		return err
	}
	if _, err := grooming.CheckOutputFiles([]string{*outPath, *tracePath}); err != nil {
		return err
	}

	topo, err := buildTopology(*topoPath, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	collector, err := grooming.NewAdmissionCollector(reg)
	if err != nil {
		return err
	}
	if *metricsAddr != "" {
		srv := serveMetrics(*metricsAddr, reg)
		defer srv.Close()
	}

	var reports []*grooming.SweepReport
	if *tracePath != "" {
		tm := grooming.CreateTraceManager(topo.Name, true)
		sw := grooming.CreateSweep(topo.Name+"-0", 0, topo, cfg.Policy, cfg.Sweep,
			rngstream.New(topo.Name+"-services-0"))
		sw.SetTraceManager(tm)
		sw.SetCollector(collector)
		rpt, err := sw.Run()
		if err != nil {
			return err
		}
		reports = append(reports, rpt)
		if _, err := tm.WriteToFile(*tracePath); err != nil {
			return err
		}
		log.Infof("wrote %d admission trials to %s", tm.NumTrials(), *tracePath)
	} else {
		reports, err = grooming.RunReplicates(ctx, topo.Name, topo, cfg, collector)
		if err != nil {
			return err
		}
	}

	for _, rpt := range reports {
		fmt.Fprintln(stdout, rpt.Summary())
	}

	if *outPath != "" {
		if err := writeReports(*outPath, reports); err != nil {
			return err
		}
		log.Infof("wrote %d sweep reports to %s", len(reports), *outPath)
	}
	return nil
}

// setupLogging sends log output to stdout, and also to a rotated file when one is configured
func setupLogging(cfg *grooming.Config) {
	grooming.SetLogLevel(cfg.LogLevel)
	log.SetLevel(grooming.Log.GetLevel())
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if cfg.LogFile == "" {
		return
	}
	if dir := filepath.Dir(cfg.LogFile); dir != "" {
		_ = os.MkdirAll(dir, 0755)
	}
	fileLogger := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    100, // MB
		MaxBackups: 7,
		MaxAge:     30, // days
		Compress:   true,
	}
	multiWriter := io.MultiWriter(os.Stdout, fileLogger)
	grooming.Log.SetOutput(multiWriter)
	log.SetOutput(multiWriter)
	log.Infof("logging to stdout and %s", cfg.LogFile)
}

// buildTopology reads the topology file, or draws a random topology when none is named
func buildTopology(topoPath string, cfg *grooming.Config) (*grooming.Topology, error) {
	if topoPath != "" {
		return grooming.LoadTopology(topoPath)
	}
	name := fmt.Sprintf("random%d", cfg.Sweep.Nodes)
	rng := rngstream.New(name + "-topology")
	return grooming.RandomTopology(name, cfg.Sweep.Nodes, cfg.Sweep.EdgeProbability, rng), nil
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server on %s: %v", addr, err)
		}
	}()
	log.Infof("serving metrics on %s/metrics", addr)
	return srv
}

// writeReports stores a single report under outPath, and several as one file per
// replicate with the replicate number appended to the base name
func writeReports(outPath string, reports []*grooming.SweepReport) error {
	if len(reports) == 1 {
		return reports[0].WriteToFile(outPath)
	}
	ext := filepath.Ext(outPath)
	base := strings.TrimSuffix(outPath, ext)
	errs := make([]error, 0, len(reports))
	for _, rpt := range reports {
		errs = append(errs, rpt.WriteToFile(fmt.Sprintf("%s-%d%s", base, rpt.Replicate, ext)))
	}
	return grooming.ReportErrs(errs)
}
