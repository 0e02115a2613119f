package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	s.echo.GET("/", s.dashboardSummary)

	api := s.echo.Group("/api")

	// SMS routes sit behind the per-IP limiter so dashboard refresh storms
	// never reach the provider. The underscore aliases exist for older
	// dashboard builds.
	smsLimit := s.middleware.RateLimit.Handler()
	api.POST("/send-sms", s.sendSMS, smsLimit)
	api.POST("/send_sms", s.sendSMS, smsLimit)
	api.GET("/get-sms-balance", s.getSMSBalance, smsLimit)
	api.GET("/sms-balance", s.getSMSBalance, smsLimit)

	api.GET("/predictions", s.getAllPredictions)
	api.GET("/predictions/today", s.getTodayPredictions)
	api.GET("/predictions/:date", s.getPredictionsByDate)
	api.POST("/predictions/send", s.sendPredictions)
	api.POST("/predictions/generate", s.generatePredictions)

	api.GET("/users", s.getUsers)
	api.POST("/users", s.addUser)
	api.DELETE("/users/:id", s.deleteUser)

	api.GET("/stops", s.getStops)
	api.POST("/stops", s.createStop)

	api.GET("/model/metrics", s.getModelMetrics)
}
