package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/hemlineco/stylist/pkg/logger"
	"github.com/hemlineco/stylist/stub"
)

func main() {
	// Parse command line flags
	listenAddr := flag.String("listen", ":8000", "Address to listen on")
	dbPath := flag.String("db", "", "Path to SQLite database for session persistence (default: in-memory)")
	catalogDir := flag.String("catalog", "", "Directory of catalog images (default: built-in samples)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Set up logger
	logger := logger.NewLogger(*debug)
	defer logger.Sync()

	logger.Info("stylist stub backend starting",
		zap.String("listen", *listenAddr),
		zap.String("catalog", *catalogDir),
		zap.Bool("debug", *debug),
	)

	config := stub.Config{
		ListenAddr: *listenAddr,
		DBPath:     *dbPath,
		CatalogDir: *catalogDir,
	}

	s, err := stub.New(config, logger)
	if err != nil {
		logger.Fatal("failed to create stub", zap.Error(err))
	}
	defer s.Close()

	if err := s.Run(); err != nil {
		logger.Fatal("stub server failed", zap.Error(err))
	}
}
