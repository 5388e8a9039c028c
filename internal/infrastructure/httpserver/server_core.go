package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/glambooking/glambooking-api/internal/core/ports"
	customMiddleware "github.com/glambooking/glambooking-api/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TLSCertFile    string
	TLSKeyFile     string
	AllowedOrigins []string
	Environment    string
}

type ServerDeps struct {
	AuthService        ports.AuthService
	SalonService       ports.SalonService
	CatalogService     ports.CatalogService
	ClientService      ports.ClientService
	BookingService     ports.BookingService
	DashboardService   ports.DashboardService
	BillingService     ports.BillingService
	RateLimiterService ports.RateLimiterService
	HealthCheckers     []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	salonSvc       ports.SalonService
	catalogSvc     ports.CatalogService
	clientSvc      ports.ClientService
	bookingSvc     ports.BookingService
	dashboardSvc   ports.DashboardService
	billingSvc     ports.BillingService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewRequestValidator()

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		salonSvc:       deps.SalonService,
		catalogSvc:     deps.CatalogService,
		clientSvc:      deps.ClientService,
		bookingSvc:     deps.BookingService,
		dashboardSvc:   deps.DashboardService,
		billingSvc:     deps.BillingService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.AuthService,
			deps.SalonService,
			deps.RateLimiterService,
			logger,
			requestsTotal,
			requestDuration,
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
