package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/seller-console/internal/cache"
	"github.com/xavierca1/seller-console/internal/infra/api"
	"github.com/xavierca1/seller-console/internal/infra/database"
	"github.com/xavierca1/seller-console/internal/infra/http/handlers"
	"github.com/xavierca1/seller-console/internal/infra/http/middleware"
	"github.com/xavierca1/seller-console/internal/infra/storage"
	"github.com/xavierca1/seller-console/internal/repository"
	"github.com/xavierca1/seller-console/internal/usecase"
)

func main() {
	godotenv.Load()

	// 1. Storage medium
	medium, closeMedium, err := newMedium()
	if err != nil {
		log.Fatal(err)
	}
	if closeMedium != nil {
		defer closeMedium()
	}

	// 2. Simulated transport
	client := api.NewClient(api.Config{
		ErrorRate: envFloatPtr("SIM_ERROR_RATE"),
		MinDelay:  envDurationPtr("SIM_MIN_DELAY_MS"),
		MaxDelay:  envDurationPtr("SIM_MAX_DELAY_MS"),
	})

	// 3. Database and repositories
	db := database.New(medium)
	leadRepo := repository.NewLeadRepository(db, client)
	oppRepo := repository.NewOpportunityRepository(db, client)

	// 4. Cache layer
	c := cache.New(cache.Config{
		FreshFor:  envDuration("CACHE_FRESH_MS", 0),
		Retention: envDuration("CACHE_RETENTION_MS", 0),
	})
	defer c.Close()

	leadQueries := cache.NewLeadQueries(c, leadRepo)
	oppQueries := cache.NewOpportunityQueries(c, oppRepo)

	// 5. UseCases
	converter := usecase.NewConvertLeadUseCase(leadQueries, oppQueries)

	// 6. Handlers
	leadHandler := handlers.NewLeadHandler(leadQueries, oppQueries, converter)
	oppHandler := handlers.NewOpportunityHandler(oppQueries)
	adminHandler := handlers.NewAdminHandler(db, client, c)
	healthHandler := handlers.NewHealthHandler(medium)

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Route("/leads", leadHandler.Routes)
	r.Route("/opportunities", oppHandler.Routes)
	r.Route("/admin", adminHandler.Routes)
	r.Get("/healthz", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("seller console listening on :%s", port)
	http.ListenAndServe(":"+port, r)
}

// newMedium picks the persistence backend from STORAGE_DRIVER: file
// (default), postgres, or memory.
func newMedium() (storage.Medium, func() error, error) {
	switch os.Getenv("STORAGE_DRIVER") {
	case "postgres":
		m, err := storage.NewPostgresMedium(os.Getenv("DATABASE_URL"))
		if err != nil {
			return nil, nil, err
		}
		return m, m.Close, nil
	case "memory":
		return storage.NewMemoryMedium(), nil, nil
	default:
		dir := os.Getenv("DATA_DIR")
		if dir == "" {
			dir = "data"
		}
		m, err := storage.NewFileMedium(dir)
		return m, nil, err
	}
}

// envFloatPtr returns nil when key is unset or unparsable, so an explicit
// zero in the environment is distinct from no setting at all.
func envFloatPtr(key string) *float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config: invalid %s=%q, using default", key, raw)
		return nil
	}
	return &v
}

func envDurationPtr(key string) *time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	ms, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: invalid %s=%q, using default", key, raw)
		return nil
	}
	d := time.Duration(ms) * time.Millisecond
	return &d
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	ms, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: invalid %s=%q, using default", key, raw)
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
