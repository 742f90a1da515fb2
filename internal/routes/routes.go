package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/kobo-pay/kobo_pay/internal/auth"
	"github.com/kobo-pay/kobo_pay/internal/bills"
	"github.com/kobo-pay/kobo_pay/internal/blockradar"
	"github.com/kobo-pay/kobo_pay/internal/cards"
	"github.com/kobo-pay/kobo_pay/internal/config"
	"github.com/kobo-pay/kobo_pay/internal/identity"
	"github.com/kobo-pay/kobo_pay/internal/middleware"
	"github.com/kobo-pay/kobo_pay/internal/notification"
	"github.com/kobo-pay/kobo_pay/internal/otp"
	"github.com/kobo-pay/kobo_pay/internal/swervpay"
	"github.com/kobo-pay/kobo_pay/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Cache == nil {
		return fmt.Errorf("redis is required")
	}
	if !d.Cfg.IsDev() && d.DB == nil {
		return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.Cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	upstream := &http.Client{Timeout: d.Cfg.UpstreamTimeout}

	var identityRepo identity.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
	}

	wallets := blockradar.NewClient(d.Cfg.BlockradarBaseURL, d.Cfg.BlockradarAPIKey, d.Cfg.BlockradarWalletID, upstream, d.Logger)
	broker := swervpay.NewBroker(d.Cfg.SwervpayBaseURL, swervpay.Credentials{
		BusinessID: d.Cfg.SwervpayBusinessID,
		SecretKey:  d.Cfg.SwervpaySecretKey,
	}, upstream, d.Logger)
	payCli := swervpay.NewClient(d.Cfg.SwervpayBaseURL, broker, upstream, d.Logger)

	notifier := notification.NewLoggerNotifier(d.Logger)
	otpSvc := otp.NewService(otp.NewRedisStore(d.Cache), notifier, otp.Options{
		CodeLength:  d.Cfg.OTPCodeLength,
		TTL:         d.Cfg.OTPTTL,
		VerifiedTTL: d.Cfg.VerifiedTTL,
		StaticCode:  d.Cfg.StaticOTP,
	}, d.Logger)

	identitySvc := identity.NewService(identityRepo, wallets, otpSvc, d.Cfg.Blockchain, d.Logger)
	tokens := auth.NewTokenIssuer(d.Cfg.JWTSecret, d.Cfg.SessionTTL)

	authHandler := auth.NewHandler(identitySvc, tokens)
	otpHandler := otp.NewHandler(otpSvc)
	walletHandler := wallet.NewHandler(wallets, identitySvc)
	cardsHandler := cards.NewHandler(payCli, identitySvc)
	billsHandler := bills.NewHandler(payCli)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	loginLimiter := middleware.PhoneRateLimit(d.Cache, "login", 5)
	otpLimiter := middleware.PhoneRateLimit(d.Cache, "otp", 5)
	RegisterAuthRoutes(api, authHandler, loginLimiter)
	RegisterOTPRoutes(api, otpHandler, otpLimiter)

	session := middleware.Session(tokens, identityRepo)
	protected := api.Group("", session)
	RegisterProfileRoutes(protected, authHandler)
	RegisterWalletRoutes(protected, walletHandler)
	RegisterCardRoutes(protected, cardsHandler)

	idem := middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	RegisterBillRoutes(protected, billsHandler, idem)

	return nil
}
