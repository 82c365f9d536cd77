package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"portfolio-reporter/internal/engine"
	"portfolio-reporter/internal/logger"
	"portfolio-reporter/internal/trace"
	"portfolio-reporter/internal/types"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	clientID := flag.String("client", "", "process only this client id")
	demoMode := flag.Bool("demo", false, "run against a hardcoded demo portfolio instead of the database")
	skipVideo := flag.Bool("skip-video", false, "skip the pre-market video analysis stage")
	flag.Parse()

	if err := initializeSystem(); err != nil {
		fmt.Fprintf(os.Stderr, "initialization failed: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Warn(ctx, "Shutdown signal received, cancelling run")
		cancel()
	}()

	cfg, err := loadConfig(ctx, *configPath, *demoMode)
	if err != nil {
		os.Exit(1)
	}

	opts := engine.Options{
		TargetClientID: *clientID,
		SkipVideo:      *skipVideo,
	}

	eng, cleanup, err := buildEngine(ctx, cfg, opts, *demoMode)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to build pipeline", err)
		os.Exit(1)
	}
	defer cleanup()

	stats, err := eng.Run(ctx)
	printSummary(stats)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = logger.Shutdown(shutdownCtx)
	_ = trace.Shutdown(shutdownCtx)

	if err != nil {
		os.Exit(1)
	}
	if stats != nil && stats.Errors > 0 {
		os.Exit(2)
	}
}

func printSummary(stats *types.RunStats) {
	if stats == nil {
		return
	}
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("RESUMEN DEL PROCESAMIENTO")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Clientes procesados: %d\n", stats.ClientsProcessed)
	fmt.Printf("Clientes omitidos:   %d\n", stats.ClientsSkipped)
	fmt.Printf("Informes generados:  %d\n", stats.ReportsGenerated)
	fmt.Printf("Errores:             %d\n", stats.Errors)
	for _, cs := range stats.PerClient {
		fmt.Printf("  - %s (%s): %d informes, %d errores",
			cs.ClientName, cs.ClientID, cs.ReportsGenerated, cs.Errors)
		if len(cs.FailedTickers) > 0 {
			fmt.Printf(" [fallidos: %s]", strings.Join(cs.FailedTickers, ", "))
		}
		fmt.Println()
	}
	fmt.Printf("Duración: %s\n", stats.Duration().Round(time.Second))
	fmt.Println(strings.Repeat("=", 60))
}
