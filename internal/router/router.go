package router

import (
	"context"
	"net/http"
	"time"

	_ "pet-tag-lookup/docs"
	mem "pet-tag-lookup/internal/adapters/storage/memory"
	"pet-tag-lookup/internal/domain/lookup"
	"pet-tag-lookup/internal/domain/pets"
	"pet-tag-lookup/internal/domain/scans"
	"pet-tag-lookup/internal/domain/tags"
	"pet-tag-lookup/internal/middleware"
	"pet-tag-lookup/internal/platform/logger"
	"pet-tag-lookup/internal/platform/metrics"
	"pet-tag-lookup/internal/ports/auth"
	"pet-tag-lookup/internal/ports/capabilities"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Stores agrupa los repos de un mismo backend.
type Stores struct {
	Pets  pets.Repository
	Tags  tags.Repository
	Scans scans.Repository
}

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// nil => nadie tiene capabilities de admin
	Capabilities capabilities.Resolver

	// Opcional: si no viene, in-memory.
	Stores *Stores

	Logger logger.Logger

	// Base de las URLs públicas que se imprimen en los QR.
	PublicBaseURL string

	// Cuánto se espera la geolocalización antes de registrar el escaneo como unavailable.
	LocationTimeout time.Duration

	// Tope de escaneos esperando geolocalización (0 => default).
	MaxPendingScans int
}

// Router es el http.Handler del servicio. Close drena los escaneos pendientes.
type Router struct {
	http.Handler
	flow *lookup.Flow
}

func NewRouter(opts Options) *Router {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	stores := opts.Stores
	if stores == nil {
		m := mem.NewStore()
		stores = &Stores{Pets: m.Pets(), Tags: m.Tags(), Scans: m.Scans()}
	}

	// Services por módulo
	petsSvc := pets.NewService(stores.Pets)
	tagsSvc := tags.NewService(stores.Tags, stores.Pets)
	scansSvc := scans.NewService(stores.Scans)
	flow := lookup.NewFlow(tagsSvc, scansSvc, lookup.Options{
		LocationTimeout: opts.LocationTimeout,
		MaxPending:      opts.MaxPendingScans,
		Logger:          log.With(map[string]any{"component": "lookup"}),
	})

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)
	tags.RegisterRoutes(r, tagsSvc, opts.Capabilities, opts.PublicBaseURL)
	scans.RegisterRoutes(r, scansSvc, petsSvc)
	lookup.RegisterRoutes(r, flow, log)

	return &Router{Handler: r, flow: flow}
}

func (r *Router) Close(ctx context.Context) error {
	return r.flow.Close(ctx)
}
