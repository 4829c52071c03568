package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/rivr-station-service/internal/config"
	"github.com/rivr-station-service/internal/delivery/http/handler"
	"github.com/rivr-station-service/internal/delivery/http/middleware"
	"github.com/rivr-station-service/internal/pkg/errors"
	"github.com/rivr-station-service/internal/pkg/metrics"
	"github.com/rivr-station-service/internal/pkg/utils"
)

// Handlers - набор обработчиков, которые регистрирует сервер
type Handlers struct {
	Station  *handler.StationHandler
	Name     *handler.NameHandler
	Favorite *handler.FavoriteHandler
	Health   *handler.HealthHandler
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	handlers Handlers
	gatherer prometheus.Gatherer
	metrics  *metrics.HTTPMetrics
}

// NewServer - создание нового HTTP сервера. registry используется и для
// метрик запросов, и для /metrics.
func NewServer(cfg *config.Config, logger *zap.Logger, handlers Handlers, registry *prometheus.Registry) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Rivr Station Service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		logger:   logger,
		handlers: handlers,
		gatherer: registry,
		metrics:  metrics.NewHTTPMetrics(registry),
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App - для тестов через app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	s.app.Use(middleware.Metrics(s.metrics))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := s.app.Group("/api/v1")

	api.Get("/health", s.handlers.Health.Health)

	// Stations
	stations := api.Group("/stations")
	stations.Get("/:id", s.handlers.Station.GetStation)
	stations.Get("/:id/panel", s.handlers.Station.GetPanel)

	// Display names
	stations.Get("/:id/name", s.handlers.Name.Resolve)
	stations.Get("/:id/name/info", s.handlers.Name.Info)
	stations.Put("/:id/name", s.handlers.Name.Set)
	stations.Post("/:id/name/reset", s.handlers.Name.Reset)

	// Favorites; /sync регистрируется раньше /:station_id
	favorites := api.Group("/favorites")
	favorites.Get("/", s.handlers.Favorite.List)
	favorites.Post("/", s.handlers.Favorite.Add)
	favorites.Post("/sync", s.handlers.Favorite.Sync)
	favorites.Patch("/:station_id", s.handlers.Favorite.Update)
	favorites.Put("/:station_id/name", s.handlers.Favorite.Rename)
	favorites.Delete("/:station_id", s.handlers.Favorite.Remove)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler приводит ошибки fiber (404, 405, паники) к общему формату
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := errors.As(err); ok {
			return utils.SendError(c, appErr)
		}

		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
			return utils.SendError(c, errors.ErrInternalServer)
		}

		return c.Status(code).JSON(utils.ErrorResponse{
			Error: errors.New(httpErrorCode(code), err.Error(), code),
		})
	}
}

func httpErrorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	default:
		return errors.ErrInvalidRequest.Code
	}
}
