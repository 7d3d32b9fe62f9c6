package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vote-ledger/api"
	"vote-ledger/encryption"
	"vote-ledger/service"
)

type Config struct {
	Port        int
	Difficulty  uint8
	MaxNonce    uint64
	QueueSize   int
	OperatorKey string
}

func main() {
	config := parseFlags()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	signer, err := encryption.LoadOrGenerateKey(config.OperatorKey)
	if err != nil {
		log.Fatalf("Failed to load operator key: %v", err)
	}
	if config.OperatorKey == "" {
		log.Println("No -operator-key given, generated a new checkpoint signing key")
	}
	log.Printf("Operator address: %s public key: %s", signer.Address(), signer.PublicKeyHex())

	cfg := service.DefaultConfig()
	cfg.Difficulty = config.Difficulty
	cfg.NoDifficulty = config.Difficulty == 0
	cfg.MaxNonce = config.MaxNonce
	ledger := service.NewLedger(cfg)

	queue := service.NewQueueProcessor(ledger, config.QueueSize)
	queue.Start()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port),
		Handler:           api.NewServer(ledger, queue, signer).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	serverChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on port %d (difficulty %d)...", config.Port, ledger.Difficulty())
		serverChan <- server.ListenAndServe()
	}()

	select {
	case err := <-serverChan:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Error during server shutdown: %v", err)
		}
	}

	queue.Stop()
	status := ledger.Status()
	log.Printf("Ledger closed with %d votes, merkle root %s", status.TotalVotes, status.MerkleRoot)
	log.Println("Server shutdown completed")
}

func parseFlags() *Config {
	config := &Config{}

	flag.IntVar(&config.Port, "port", 8080, "Server port")
	flag.Uint64Var(&config.MaxNonce, "max-nonce", service.DefaultMaxNonce, "Nonce search cap per block (0 = unbounded)")
	flag.IntVar(&config.QueueSize, "queue", 100, "Submission queue size")
	flag.StringVar(&config.OperatorKey, "operator-key", "", "Hex ECDSA key used to sign checkpoints (generated when empty)")

	var difficultyInt int
	flag.IntVar(&difficultyInt, "difficulty", 4, "Leading zero hex digits required of a block digest (0-64)")

	flag.Parse()

	if difficultyInt < 0 || difficultyInt > 64 {
		log.Fatal("Difficulty must be between 0 and 64")
	}
	config.Difficulty = uint8(difficultyInt)

	return config
}
