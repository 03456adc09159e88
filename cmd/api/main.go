package main

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/sefazor/crowdfund-backend/internal/config"
	"github.com/sefazor/crowdfund-backend/internal/controller"
	"github.com/sefazor/crowdfund-backend/internal/handler"
	"github.com/sefazor/crowdfund-backend/internal/middleware"
	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/repository"
	"github.com/sefazor/crowdfund-backend/internal/service"
	"github.com/sefazor/crowdfund-backend/pkg/database"
	"github.com/sefazor/crowdfund-backend/pkg/email"
	"github.com/sefazor/crowdfund-backend/pkg/logger"
	"github.com/sefazor/crowdfund-backend/pkg/mailinglist"
	"github.com/sefazor/crowdfund-backend/pkg/payment"
	"github.com/sefazor/crowdfund-backend/pkg/storage"
	"github.com/sefazor/crowdfund-backend/pkg/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	logger.Init()
	defer logger.Sync()

	// Config'i yükle
	cfg := config.LoadConfig()

	// Initialize database
	db := database.NewDatabase()

	// Migration + katalog seed
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	if err := database.EnsureParkingRecords(db, cfg.Parking.UserID, cfg.Parking.PledgeID); err != nil {
		log.Fatal("Failed to create parking records:", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	pledgeRepo := repository.NewPledgeRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	testimonialRepo := repository.NewTestimonialRepository(db)

	// Storage services
	r2Storage, err := storage.NewCloudflareStorage(cfg)
	if err != nil {
		log.Fatal("Failed to initialize R2 storage:", err)
	}

	// Email service
	emailService := email.NewEmailService()

	// Mailing list sync (API key yoksa sessizce devre dışı)
	mailingList := mailinglist.NewMailingListService(cfg)

	// Stripe service
	stripeService := payment.NewStripeService(os.Getenv("STRIPE_SECRET_KEY"))

	// Services
	authService := service.NewAuthService(userRepo, emailService)
	userService := service.NewUserService(userRepo)
	packageService := service.NewPackageService(catalogRepo)
	pledgeService := service.NewPledgeService(
		db,
		cfg,
		userRepo,
		pledgeRepo,
		catalogRepo,
		paymentRepo,
		membershipRepo,
		emailService,
		mailingList,
	)
	membershipService := service.NewMembershipService(
		db,
		userRepo,
		pledgeRepo,
		catalogRepo,
		membershipRepo,
		mailingList,
	)
	paymentService := service.NewPaymentService(
		db,
		stripeService,
		userRepo,
		pledgeRepo,
		paymentRepo,
		membershipService,
		emailService,
	)
	exportService := service.NewExportService(pledgeRepo, paymentRepo, catalogRepo)
	testimonialService := service.NewTestimonialService(testimonialRepo, r2Storage)

	// Controllers
	pledgeController := controller.NewPledgeController(pledgeService)
	paymentController := controller.NewPaymentController(paymentService, exportService)
	membershipController := controller.NewMembershipController(membershipService)

	// Validator'ı önce tanımla
	validator := utils.NewValidator()

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validator)
	userHandler := handler.NewUserHandler(userService, validator)
	packageHandler := handler.NewPackageHandler(packageService)
	pledgeHandler := handler.NewPledgeHandler(pledgeController, userService, validator)
	paymentHandler := handler.NewPaymentHandler(paymentController, validator)
	membershipHandler := handler.NewMembershipHandler(membershipController, validator)
	testimonialHandler := handler.NewTestimonialHandler(testimonialService, validator)

	// Router
	app := fiber.New()

	// Global Middleware'ler önce tanımlanmalı
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("CORS_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// Katalog herkese açık
	api.Get("/packages", packageHandler.GetAllPackages)
	api.Get("/packages/:id", packageHandler.GetPackageByID)

	// Testimonial listesi herkese açık
	api.Get("/testimonials", testimonialHandler.ListTestimonials)

	// Pledge submit anonim de çağrılabilir, token varsa kullanıcı doğrulanır
	api.Post("/pledges", middleware.OptionalAuthMiddleware(), pledgeHandler.SubmitPledge)

	// Ödeme başlatma pledge ID üzerinden, auth gerektirmez
	api.Post("/payments/pay", paymentHandler.PayPledge)

	// Stripe webhook (public)
	api.Post("/payments/webhook", paymentHandler.HandleStripeWebhook)

	// Protected routes
	api.Use(middleware.AuthMiddleware())
	{
		user := api.Group("/user")
		user.Get("/profile", userHandler.GetMyProfile)
		user.Put("/profile", userHandler.UpdateProfile)

		pledges := api.Group("/pledges")
		pledges.Get("/", pledgeHandler.GetMyPledges)

		memberships := api.Group("/memberships")
		memberships.Get("/", membershipHandler.GetMyMemberships)
		memberships.Post("/claim", membershipHandler.ClaimMembership)

		api.Post("/testimonials", testimonialHandler.SubmitTestimonial)

		// Supporter (operasyon ekibi) routes
		admin := api.Group("/admin", middleware.RequireRole(models.RoleSupporter))
		admin.Post("/statements/import", paymentHandler.ImportBankStatement)
		admin.Post("/statements/match", paymentHandler.MatchBankStatements)
		admin.Post("/pledges/:id/cancel", pledgeHandler.CancelPledge)

		// Accountant routes
		accounting := api.Group("/accounting", middleware.RequireRole(models.RoleAccountant))
		accounting.Get("/payments.csv", paymentHandler.PaymentsCSV)
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Fatal(app.Listen(":" + port))
}
