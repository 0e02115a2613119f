package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/miss-blue/JeepNiBackend/internal/core/ports"
	customMiddleware "github.com/miss-blue/JeepNiBackend/internal/infrastructure/httpserver/middleware"
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
	SMSService         ports.SMSService
	PredictionService  ports.PredictionService
	SubscriberService  ports.SubscriberService
	StopService        ports.StopService
	ModelMetricsSvc    ports.ModelMetricsService
	RateLimiterService ports.RateLimiter
	HealthCheckers     []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	smsService     ports.SMSService
	predictionSvc  ports.PredictionService
	subscriberSvc  ports.SubscriberService
	stopService    ports.StopService
	modelSvc       ports.ModelMetricsService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		smsService:     deps.SMSService,
		predictionSvc:  deps.PredictionService,
		subscriberSvc:  deps.SubscriberService,
		stopService:    deps.StopService,
		modelSvc:       deps.ModelMetricsSvc,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.RateLimiterService,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
