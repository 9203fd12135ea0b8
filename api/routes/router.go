package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/designstudio-backend/api/controllers"
	cartcontrollers "github.com/angelmondragon/designstudio-backend/api/controllers/cart"
	sessioncontrollers "github.com/angelmondragon/designstudio-backend/api/controllers/designsessions"
	"github.com/angelmondragon/designstudio-backend/api/middleware"
	"github.com/angelmondragon/designstudio-backend/pkg/config"
	"github.com/angelmondragon/designstudio-backend/pkg/logger"
	"github.com/angelmondragon/designstudio-backend/pkg/redis"
)

// KeyValueStore backs idempotency records and rate-limit counters.
type KeyValueStore interface {
	redis.IdempotencyStore
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type sessionService interface {
	sessioncontrollers.Sessions
	Authenticate(token string) (uuid.UUID, error)
	RecordCart(ctx context.Context, id uuid.UUID, cartID string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	store KeyValueStore,
	catalogClient controllers.CatalogReader,
	sessions sessionService,
	cartService cartcontrollers.Submitter,
	requestObserver middleware.RequestObserver,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, requestObserver),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	cartPolicy := middleware.NewRateLimitPolicy("cart", cfg.RateLimit.Window, cfg.RateLimit.CartIPLimit)
	sessionPolicy := middleware.NewRateLimitPolicy("sessions", cfg.RateLimit.Window, cfg.RateLimit.SessionIPLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/stone-filters", controllers.CatalogStoneFilters(catalogClient, logg))
		r.Get("/materials", controllers.CatalogMaterials(catalogClient, logg))
		r.Get("/stones/{stoneId}", controllers.CatalogStone(catalogClient, logg))
	})

	r.With(
		middleware.OptionalSessionAuth(sessions, logg),
		middleware.RateLimit(cartPolicy, store, logg),
		middleware.Idempotency(store, logg),
	).Post("/api/v1/shopify/cart", cartcontrollers.CartSubmit(cartService, sessions, logg))

	r.With(
		middleware.RateLimit(sessionPolicy, store, logg),
		middleware.Idempotency(store, logg),
	).Post("/api/v1/design-sessions", sessioncontrollers.Create(sessions, logg))

	r.Route("/api/v1/design-sessions/me", func(r chi.Router) {
		r.Use(middleware.SessionAuth(sessions, logg))

		r.Get("/", sessioncontrollers.Snapshot(sessions, logg))
		r.Post("/navigate", sessioncontrollers.Navigate(sessions, logg))
		r.Post("/step", sessioncontrollers.ChangeStep(sessions, logg))
		r.Post("/stones/{stoneId}/more-info", sessioncontrollers.StoneMoreInfo(sessions, logg))
		r.Post("/stones/{stoneId}/add-pendant", sessioncontrollers.AddPendantFromGrid(sessions, logg))
		r.Post("/add-pendant", sessioncontrollers.AddPendant(sessions, logg))
		r.Get("/setting-types", sessioncontrollers.SettingTypes(sessions, logg))
		r.Post("/setting-type", sessioncontrollers.SelectSettingType(sessions, logg))
		r.Post("/setting-type/close", sessioncontrollers.CloseSettingSelector(sessions, logg))
		r.Post("/products/{productId}/more-info", sessioncontrollers.ProductMoreInfo(sessions, logg))
		r.Post("/products/{productId}/complete-ring", sessioncontrollers.CompleteRing(sessions, logg))
		r.Post("/confirm", sessioncontrollers.Confirm(sessions, logg))
		r.Post("/detail/back", sessioncontrollers.DetailBack(sessions, logg))
		r.Get("/stones", sessioncontrollers.Stones(sessions, logg))

		r.Route("/filters", func(r chi.Router) {
			r.Get("/", sessioncontrollers.Filters(sessions, logg))
			r.Put("/", sessioncontrollers.UpdateFilters(sessions, logg))
			r.Post("/bands/{band}", sessioncontrollers.ClickBand(sessions, logg))
			r.Put("/shape", sessioncontrollers.SetShape(sessions, logg))
			r.Put("/page", sessioncontrollers.SetPage(sessions, logg))
			r.Put("/sort", sessioncontrollers.SetSort(sessions, logg))
		})
	})

	return r
}
