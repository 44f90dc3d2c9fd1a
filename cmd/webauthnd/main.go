// Package main implements the webauthnd Relying Party HTTP server.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/asgard/webauthnd/internal/api"
	"github.com/asgard/webauthnd/internal/api/handlers"
	"github.com/asgard/webauthnd/internal/config"
	"github.com/asgard/webauthnd/internal/platform/db"
	"github.com/asgard/webauthnd/internal/repositories"
	"github.com/asgard/webauthnd/internal/webauthn/ceremony"
	"github.com/asgard/webauthnd/internal/webauthn/model"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	addr := flag.String("addr", ":8080", "HTTP server address")
	flag.Parse()

	log.Println("=== webauthnd - WebAuthn Relying Party ===")
	log.Printf("HTTP Server: %s", *addr)

	dbCfg, err := db.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load database config: %v", err)
	}

	pgDB, err := db.NewPostgresDB(dbCfg)
	if err != nil {
		log.Fatalf("PostgreSQL connection failed: %v", err)
	}
	defer pgDB.Close()
	log.Println("PostgreSQL connected successfully")

	if err := ensureSchema(context.Background(), pgDB); err != nil {
		log.Fatalf("Schema bootstrap failed: %v", err)
	}

	stores := ceremony.Stores{
		Users:       repositories.NewUserRepository(pgDB),
		Credentials: repositories.NewCredentialRepository(pgDB),
		Challenges:  repositories.NewChallengeRepository(pgDB),
		Sessions:    repositories.NewSessionRepository(pgDB),
	}
	configStore := repositories.NewConfigRepository(pgDB)

	policy, err := loadOrInitPolicy(context.Background(), configStore)
	if err != nil {
		// EmptyWebauthnPolicyError is a configuration error and is fatal at
		// startup only.
		log.Fatalf("Policy construction failed: %v", err)
	}

	policyMu := &policyHolder{policy: policy}

	webauthnHandler := handlers.NewWebauthnHandler(
		stores,
		policyMu.Get,
		func(patch model.WebauthnPolicyBuilder) (*model.WebauthnPolicy, error) {
			return policyMu.Patch(context.Background(), configStore, patch)
		},
	)
	healthHandler := handlers.NewHealthHandler(pgDB)

	corsOrigins := strings.Split(getEnv("WEBAUTHND_CORS_ORIGINS", "http://localhost:3000"), ",")
	router := api.NewRouter(webauthnHandler, healthHandler, corsOrigins)

	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting HTTP server on %s", *addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	log.Println("webauthnd is ready and accepting connections")
	log.Println("API Endpoints:")
	log.Println("  - Health:      GET   /api/health")
	log.Println("  - Policy:      GET   /api/policy, PATCH /api/policy")
	log.Println("  - Registration: POST /webauthn/credential/challenge, /webauthn/credential/response")
	log.Println("  - Assertion:    POST /webauthn/assertion/challenge, /webauthn/assertion/response")
	log.Println("  - Metrics:     GET   /metrics")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down webauthnd...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("webauthnd stopped")
}

// loadOrInitPolicy reads the cached policy document; on an empty store it
// builds the environment-derived default and persists it so the first read
// on an empty store establishes the default going forward.
func loadOrInitPolicy(ctx context.Context, configStore *repositories.ConfigRepository) (*model.WebauthnPolicy, error) {
	existing, err := configStore.Get(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	built, err := config.LoadPolicyBuilder().Build()
	if err != nil {
		return nil, err
	}
	if err := configStore.Put(ctx, *built); err != nil {
		return nil, err
	}
	return built, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
