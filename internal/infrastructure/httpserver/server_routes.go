package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")
	api.GET("/health", s.healthCheck)

	public := api.Group("/public/salons")
	public.GET("/:slug", s.getPublicPage)
	public.POST("/:slug/bookings", s.createPublicBooking, s.middleware.RateLimit.PerClient("slug"))

	authed := api.Group("")
	authed.Use(s.middleware.JWT.RequireJWT())
	authed.POST("/salons", s.createSalon)
	authed.GET("/profile", s.getProfile)

	owner := authed.Group("")
	owner.Use(s.middleware.Salon.RequireSalon())

	owner.PUT("/profile", s.updateProfile)
	owner.PUT("/profile/status", s.changeSalonStatus)

	services := owner.Group("/services")
	services.GET("", s.listServices)
	services.POST("", s.createService)
	services.PUT("/:id", s.updateService)
	services.DELETE("/:id", s.deleteService)

	clients := owner.Group("/clients")
	clients.GET("", s.listClients)
	clients.GET("/count", s.countClients)
	clients.POST("", s.createClient)
	clients.PUT("/:id", s.updateClient)
	clients.DELETE("/:id", s.deleteClient)

	bookings := owner.Group("/bookings")
	bookings.GET("", s.listBookings)
	bookings.GET("/upcoming", s.upcomingBookings)
	bookings.POST("", s.createBooking)
	bookings.PUT("/:id/cancel", s.cancelBooking)
	bookings.PUT("/:id/complete", s.completeBooking)

	dashboard := owner.Group("/dashboard")
	dashboard.GET("/summary", s.dashboardSummary)
	dashboard.GET("/revenue", s.dashboardRevenue)
	dashboard.GET("/upcoming", s.dashboardUpcoming)

	billing := owner.Group("/billing")
	billing.GET("/subscription", s.getSubscription)
	billing.GET("/invoices", s.listInvoices)
	billing.PUT("/plan", s.changePlan)
}
