package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"labslot/internal/attendance"
	"labslot/internal/auth"
	"labslot/internal/config"
	"labslot/internal/equipment"
	"labslot/internal/laboratory"
	"labslot/internal/notify"
	"labslot/internal/practice"
	"labslot/internal/shift"
	"labslot/internal/user"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	notify *notify.Service
}

func New(db *sqlx.DB, cfg *config.Config, notifyService *notify.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	labHandler := laboratory.NewHandler(db)
	practiceHandler := practice.NewHandler(db, cfg.JWTSecret, notifyService)
	equipmentHandler := equipment.NewHandler(db, cfg.JWTSecret, notifyService)
	shiftHandler := shift.NewHandler(db, cfg.JWTSecret)
	attendanceHandler := attendance.NewHandler(db, cfg.JWTSecret)

	public := router.Group("/auth")
	{
		public.POST("/login", userHandler.Login)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/laboratories", labHandler.ListLaboratories)

		protected.POST("/practices", practiceHandler.SchedulePractice)
		protected.GET("/practices/mine", practiceHandler.ListMyPractices)
		protected.GET("/practices/day", practiceHandler.DaySchedule)

		protected.GET("/equipment", equipmentHandler.ListEquipment)
		protected.POST("/loans", equipmentHandler.LendEquipment)
		protected.POST("/loans/:id/return", equipmentHandler.ReturnEquipment)
		protected.GET("/loans/active", equipmentHandler.ListActiveLoans)
		protected.GET("/loans/student/:code", equipmentHandler.StudentLoanHistory)

		protected.POST("/shifts/check-in", shiftHandler.CheckIn)
		protected.POST("/shifts/check-out", shiftHandler.CheckOut)

		protected.POST("/attendance", attendanceHandler.Register)
		protected.GET("/attendance/history", attendanceHandler.History)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/users", userHandler.Register)
		admin.POST("/laboratories", labHandler.CreateLaboratory)
		admin.DELETE("/laboratories/:labID", labHandler.DeactivateLaboratory)
		admin.POST("/equipment", equipmentHandler.CreateEquipment)
		admin.GET("/shifts/report", shiftHandler.ReportAll)
		admin.GET("/shifts/report/export", shiftHandler.ExportReportAll)
		admin.GET("/shifts/report/:code", shiftHandler.Report)
		admin.GET("/shifts/report/:code/export", shiftHandler.ExportReport)
		admin.GET("/attendance", attendanceHandler.List)
		admin.GET("/attendance/report", attendanceHandler.MonthlyReport)
		admin.GET("/attendance/report/summary", attendanceHandler.MonthlySummary)
		admin.GET("/attendance/report/export", attendanceHandler.ExportMonthlyReport)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(notifyService))

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		notify: notifyService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
