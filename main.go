package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"feeportal_backend/internals/configs"
	database "feeportal_backend/internals/databases"
	feeController "feeportal_backend/internals/features/finance/fees/controller"
	feeScheduler "feeportal_backend/internals/features/finance/fees/scheduler"
	feeService "feeportal_backend/internals/features/finance/fees/service"
	helper "feeportal_backend/internals/helpers"
	helperAuth "feeportal_backend/internals/helpers/auth"
	"feeportal_backend/internals/helpers/dbtime"
	helperOSS "feeportal_backend/internals/helpers/oss"
	middlewares "feeportal_backend/internals/middlewares"
	routes "feeportal_backend/internals/route"
	routeDetails "feeportal_backend/internals/route/details"
	"feeportal_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	cfg := configs.Load()

	logger, err := helper.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init gagal: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET wajib diisi")
	}

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ErrorHandler:            errorHandler(logger),
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching

	middlewares.SetupMiddlewares(app, middlewares.Options{
		Logger:         logger,
		CORSOrigins:    cfg.CORSOrigins,
		RateLimit:      cfg.RateLimit,
		RequestTimeout: cfg.RequestTimeout,
		TimeZone:       cfg.TimeZone,
	})

	// 🔌 Store: postgres (default) atau memory untuk lokal
	var (
		store feeService.FeeStore
		db    *gorm.DB
		ping  func() error
	)
	if cfg.IsMemoryStore() {
		logger.Warn("FEE_STORE=memory, data hilang saat restart")
		mem := feeService.NewMemoryFeeStore()
		n, err := seeds.SeedMemoryStore(mem, cfg.SeedStudentsFile)
		if err != nil {
			logger.Fatal("seed memory store gagal", zap.Error(err))
		}
		logger.Info("memory store siap", zap.Int("students", n))
		store = mem
	} else {
		db, err = database.ConnectDB(cfg.DB, logger)
		if err != nil {
			logger.Fatal("db connect gagal", zap.Error(err))
		}
		if err := database.TunePool(db, cfg.DB); err != nil {
			logger.Fatal("db pool gagal", zap.Error(err))
		}
		if cfg.DB.AutoMigrate {
			if err := database.AutoMigrate(db); err != nil {
				logger.Fatal("auto migrate gagal", zap.Error(err))
			}
		}
		if err := seeds.RunAllSeeds(context.Background(), db, cfg.SeedStudentsFile, logger); err != nil {
			logger.Fatal("seed gagal", zap.Error(err))
		}
		store = feeService.NewGormFeeStore(db)
		ping = func() error { return database.Ping(db) }
	}

	service := newFeeService(cfg, store, logger)
	logger.Info("🕒 timezone institusi", zap.String("tz", service.Location().String()))

	logo, err := helper.LoadLogoFile(cfg.ReceiptLogoPath, helper.ReceiptLogoWidth)
	if err != nil {
		logger.Warn("logo receipt tidak bisa dibaca, receipt tanpa logo", zap.Error(err))
	}

	// 📦 Arsip receipt ke OSS (opsional)
	var archive feeController.ReceiptArchiver
	ossCfg := helperOSS.Config{
		Endpoint:      cfg.OSS.Endpoint,
		AccessKey:     cfg.OSS.AccessKey,
		SecretKey:     cfg.OSS.SecretKey,
		SecurityToken: cfg.OSS.SecurityToken,
		Bucket:        cfg.OSS.Bucket,
		Prefix:        cfg.OSS.Prefix,
		PublicBase:    cfg.OSS.PublicBase,
	}
	if ossCfg.Enabled() {
		svcOSS, err := helperOSS.NewOSSService(ossCfg, logger)
		if err != nil {
			logger.Warn("OSS init gagal, arsip receipt dimatikan", zap.Error(err))
		} else {
			archive = svcOSS
		}
	} else {
		logger.Info("ENV ALI_OSS_* tidak lengkap, arsip receipt dimatikan")
	}

	// ⏱ scheduler setelah store siap
	reminderCron, err := feeScheduler.StartDueReminderCron(cfg.ReminderCron, &feeScheduler.ReminderJob{
		Service:  service,
		Notifier: feeScheduler.LogNotifier{Logger: logger},
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("reminder cron gagal", zap.Error(err))
	}
	blacklistCron, err := helperAuth.StartBlacklistCleanupScheduler(db, logger)
	if err != nil {
		logger.Fatal("blacklist cleanup cron gagal", zap.Error(err))
	}

	// 🔒 Blacklist token: postgres, atau memori kalau FEE_STORE=memory
	blacklistCheck := helperAuth.Checker(db, cfg.JWTSecret, 2*time.Second)
	var revoker routeDetails.TokenRevoker = helperAuth.Revoker(db, cfg.JWTSecret)
	if db == nil {
		mem := helperAuth.NewMemoryBlacklist(cfg.JWTSecret)
		blacklistCheck = mem.IsBlacklisted
		revoker = mem.Add
	}

	// ✅ Routes
	routes.SetupRoutes(app, routes.Deps{
		FeeController:    feeController.NewFeeController(service, archive, logo, logger),
		JWTSecret:        cfg.JWTSecret,
		BlacklistChecker: blacklistCheck,
		TokenRevoker:     revoker,
		Logger:           logger,
		Ping:             ping,
		StoreKind:        cfg.FeeStore,
		Environment:      cfg.AppEnv,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	// Start server non-blocking
	go func() {
		logger.Info("✅ Listening", zap.String("port", cfg.Port))
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown + stop cron + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	for _, c := range []*cron.Cron{reminderCron, blacklistCron} {
		if c == nil {
			continue
		}
		select {
		case <-c.Stop().Done():
		case <-ctx.Done():
		}
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	logger.Info("server stopped")
}

// newFeeService: service + nomor receipt, identitas institusi, dan jam APP_TIMEZONE.
func newFeeService(cfg configs.Config, store feeService.FeeStore, logger *zap.Logger) *feeService.FeeService {
	service := feeService.NewFeeService(store,
		feeService.NewRandomReceiptNumbers(cfg.ReceiptPrefix, cfg.ReceiptDigits), logger)
	service.Now = dbtime.Clock(dbtime.LoadLocation(cfg.TimeZone))
	service.Institution = feeService.Institution{
		Name:      cfg.InstitutionName,
		Address:   cfg.InstitutionAddress,
		CopyLabel: cfg.ReceiptCopyLabel,
	}
	return service
}

// errorHandler: semua error yang lolos dari handler dikirim dengan bentuk JSON standar.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := ""
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("unhandled error",
				zap.String("request_id", middlewares.RequestIDFrom(c)),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			msg = ""
		}
		return helper.JsonError(c, code, msg)
	}
}
