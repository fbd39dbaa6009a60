package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/Arulthas05/gym-management-backend/internal/attendance"
	"github.com/Arulthas05/gym-management-backend/internal/auth"
	"github.com/Arulthas05/gym-management-backend/internal/config"
	"github.com/Arulthas05/gym-management-backend/internal/email"
	"github.com/Arulthas05/gym-management-backend/internal/invoice"
	"github.com/Arulthas05/gym-management-backend/internal/member"
	"github.com/Arulthas05/gym-management-backend/internal/membership"
	"github.com/Arulthas05/gym-management-backend/internal/payment"
	"github.com/Arulthas05/gym-management-backend/internal/plan"
	"github.com/Arulthas05/gym-management-backend/internal/qr"
	"github.com/Arulthas05/gym-management-backend/internal/report"
	"github.com/Arulthas05/gym-management-backend/internal/session"
	"github.com/Arulthas05/gym-management-backend/internal/supplement"
	"github.com/Arulthas05/gym-management-backend/internal/trainer"
	"github.com/Arulthas05/gym-management-backend/internal/user"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config

	// Exposed so the scheduler can sweep through the same service layer
	// the HTTP surface uses.
	Memberships membership.Service
	Sessions    session.Service
	Payments    payment.Service
	Reports     *report.Repository
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	memberRepo := member.NewRepository(db)
	qrGen := qr.NewGenerator(cfg.QRCodeDir)
	invoiceGen := invoice.NewGenerator(cfg.InvoiceDir)

	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, memberRepo, cfg.JWTSecret)
	userHandler := user.NewHandler(userService)

	memberService := member.NewService(memberRepo, qrGen)
	memberHandler := member.NewHandler(memberService)

	trainerRepo := trainer.NewRepository(db)
	trainerHandler := trainer.NewHandler(trainerRepo)

	planRepo := plan.NewRepository(db)
	planHandler := plan.NewHandler(planRepo)

	paymentRepo := payment.NewRepository(db)

	membershipRepo := membership.NewRepository(db)
	membershipService := membership.NewService(membershipRepo, memberRepo, planRepo, paymentRepo, emailService, invoiceGen)
	membershipHandler := membership.NewHandler(membershipService)

	sessionRepo := session.NewRepository(db)
	sessionService := session.NewService(sessionRepo, trainerRepo, memberRepo, emailService)
	sessionHandler := session.NewHandler(sessionService, memberRepo)

	attendanceRepo := attendance.NewRepository(db)
	attendanceService := attendance.NewService(attendanceRepo, memberRepo, membershipRepo)
	attendanceHandler := attendance.NewHandler(attendanceService, memberRepo)

	supplementRepo := supplement.NewRepository(db)
	supplementService := supplement.NewService(supplementRepo, memberRepo, paymentRepo, emailService, invoiceGen)
	supplementHandler := supplement.NewHandler(supplementService)

	paymentService := payment.NewService(paymentRepo, memberRepo, payment.NewLogGateway(), emailService, invoiceGen)
	paymentHandler := payment.NewHandler(paymentService)

	reportRepo := report.NewRepository(db)
	reportHandler := report.NewHandler(reportRepo)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	adminOnly := auth.RequireRole(user.RoleAdmin)
	staff := auth.RequireRole(user.RoleAdmin, user.RoleTrainer)
	memberOrAdmin := auth.RequireRole(user.RoleMember, user.RoleAdmin)

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", userHandler.Register)
		authGroup.POST("/login", userHandler.Login)
		authGroup.POST("/refresh", userHandler.Refresh)
		authGroup.GET("/me", authMiddleware, userHandler.GetMe)
	}

	// The gate scanner posts here without a user session.
	api.POST("/attendance/qr-check-in", attendanceHandler.QRCheckIn)

	// Deleting a user cascades through the profile and its history.
	api.DELETE("/users/:id", authMiddleware, adminOnly, userHandler.Delete)
	api.PUT("/users/:id/deactivate", authMiddleware, adminOnly, userHandler.Deactivate)

	members := api.Group("/members", authMiddleware)
	{
		members.GET("", staff, memberHandler.List)
		members.GET("/:id", memberHandler.Get)
		members.PUT("/:id", memberHandler.Update)
		members.GET("/:id/qr-code", memberHandler.QRCode)
	}

	trainers := api.Group("/trainers", authMiddleware)
	{
		trainers.GET("", trainerHandler.List)
		trainers.GET("/:id", trainerHandler.Get)
		trainers.POST("", adminOnly, trainerHandler.Create)
		trainers.PUT("/:id", adminOnly, trainerHandler.Update)
		trainers.DELETE("/:id", adminOnly, trainerHandler.Delete)
	}

	plans := api.Group("/plans")
	{
		plans.GET("", planHandler.ListPlans)
		plans.GET("/:id", planHandler.Get)
		plans.POST("", authMiddleware, adminOnly, planHandler.Create)
		plans.PUT("/:id", authMiddleware, adminOnly, planHandler.Update)
		plans.DELETE("/:id", authMiddleware, adminOnly, planHandler.Delete)
	}

	memberships := api.Group("/memberships", authMiddleware)
	{
		memberships.POST("/purchase", memberOrAdmin, membershipHandler.Purchase)
		memberships.POST("", adminOnly, membershipHandler.Assign)
		memberships.GET("", adminOnly, membershipHandler.List)
		memberships.GET("/expiring", adminOnly, membershipHandler.Expiring)
		memberships.GET("/:id", membershipHandler.Get)
		memberships.PUT("/:id", adminOnly, membershipHandler.Update)
		memberships.DELETE("/:id", adminOnly, membershipHandler.Delete)
	}

	sessions := api.Group("/sessions", authMiddleware)
	{
		sessions.POST("", memberOrAdmin, sessionHandler.Book)
		sessions.GET("", staff, sessionHandler.List)
		sessions.GET("/my", sessionHandler.My)
		sessions.GET("/:id", sessionHandler.Get)
		sessions.PUT("/:id", sessionHandler.Update)
		sessions.PUT("/:id/cancel", sessionHandler.Cancel)
		sessions.PUT("/:id/complete", staff, sessionHandler.Complete)
		sessions.DELETE("/:id", adminOnly, sessionHandler.Delete)
	}

	attendanceGroup := api.Group("/attendance", authMiddleware)
	{
		attendanceGroup.POST("/check-in", memberOrAdmin, attendanceHandler.CheckIn)
		attendanceGroup.POST("/check-out", memberOrAdmin, attendanceHandler.CheckOut)
		attendanceGroup.GET("/today", staff, attendanceHandler.Today)
		attendanceGroup.GET("/member/:memberId", staff, attendanceHandler.MemberHistory)
	}

	supplements := api.Group("/supplements", authMiddleware)
	{
		supplements.GET("", supplementHandler.List)
		supplements.GET("/orders/my", supplementHandler.MyOrders)
		supplements.GET("/orders/:id", adminOnly, supplementHandler.GetOrder)
		supplements.GET("/member/:memberId/orders", staff, supplementHandler.MemberOrders)
		supplements.POST("/orders", memberOrAdmin, supplementHandler.CreateOrder)
		supplements.POST("/purchase", memberOrAdmin, supplementHandler.Purchase)
		supplements.GET("/:id", supplementHandler.Get)
		supplements.POST("", adminOnly, supplementHandler.Create)
		supplements.PUT("/:id", adminOnly, supplementHandler.Update)
		supplements.DELETE("/:id", adminOnly, supplementHandler.Delete)
	}

	payments := api.Group("/payments", authMiddleware)
	{
		payments.POST("/confirm", paymentHandler.Process)
		payments.GET("/my", paymentHandler.My)
		payments.GET("", adminOnly, paymentHandler.List)
		payments.GET("/:id", adminOnly, paymentHandler.Get)
		payments.GET("/:id/invoice", paymentHandler.DownloadInvoice)
		payments.PUT("/:id/confirm", adminOnly, paymentHandler.Confirm)
		payments.POST("/:id/refund", adminOnly, paymentHandler.Refund)
	}

	reports := api.Group("/reports", authMiddleware, adminOnly)
	{
		reports.GET("/monthly", reportHandler.Monthly)
	}

	return &Server{
		router: router,
		db:     db,
		config: cfg,

		Memberships: membershipService,
		Sessions:    sessionService,
		Payments:    paymentService,
		Reports:     reportRepo,
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

// Router is exposed for httptest in integration-style tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
