package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"wego/internal/admin"
	"wego/internal/config"
	"wego/internal/dashboard"
	"wego/internal/infrastructure/logger"
	"wego/internal/infrastructure/mailer"
	"wego/internal/infrastructure/mongodb"
	"wego/internal/infrastructure/mysql"
	"wego/internal/invoice"
	"wego/internal/newsletter"
	"wego/internal/notification"
	"wego/internal/order"
	"wego/internal/product"
	"wego/internal/server"
	"wego/internal/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	// Bloque 1: almacenamiento
	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if cfg.Database.AutoMigrate {
		if err := mysql.RunMigrations(db, cfg.Database.Name); err != nil {
			zapLogger.Fatal("running migrations", zap.Error(err))
		}
		zapLogger.Info("migrations applied")
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()

	mongoDB, err := mongodb.Connect(startCtx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		zapLogger.Fatal("connecting to mongodb", zap.Error(err))
	}
	zapLogger.Info("mongodb connected", zap.String("database", cfg.Mongo.Database))

	// Bloque 2: servicios externos
	smtpMailer, err := mailer.New(cfg.Mail, zapLogger)
	if err != nil {
		zapLogger.Fatal("creating mailer", zap.Error(err))
	}
	if smtpMailer.Enabled() {
		if err := smtpMailer.Verify(startCtx); err != nil {
			zapLogger.Warn("smtp server not reachable, emails may fail", zap.Error(err))
		}
	}

	uploadCtrl, err := upload.NewModule(cfg.Cloudinary, zapLogger)
	if err != nil {
		zapLogger.Fatal("creating image store", zap.Error(err))
	}

	// Bloque 3: módulos
	invoiceModule := invoice.NewModule(db, zapLogger)
	notifier := notification.NewInvoiceNotifier(invoiceModule.Service, smtpMailer, cfg.Notification.Timeout, zapLogger)

	newsletterModule := newsletter.NewModule(mongoDB, db, smtpMailer, cfg, zapLogger)
	if err := newsletterModule.EnsureIndexes(startCtx); err != nil {
		zapLogger.Fatal("creating newsletter indexes", zap.Error(err))
	}

	orderCtrl := order.NewModule(db, newsletterModule.Subscribers, notifier, cfg, zapLogger)
	productCtrl := product.NewModule(db, zapLogger)
	dashboardCtrl := dashboard.NewModule(db, zapLogger)

	adminModule := admin.NewModule(db, zapLogger)
	if err := adminModule.Auth.EnsureDefaultAdmin(startCtx, cfg.Admin.DefaultEmail, cfg.Admin.DefaultPassword, cfg.Admin.DefaultName); err != nil {
		zapLogger.Fatal("creating default admin", zap.Error(err))
	}

	router := server.NewRouter(server.Controllers{
		Orders:     orderCtrl,
		Products:   productCtrl,
		Dashboard:  dashboardCtrl,
		Invoices:   invoiceModule.Controller,
		Admin:      adminModule.Controller,
		Newsletter: newsletterModule.Controller,
		Upload:     uploadCtrl,
	}, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server shutdown failed", zap.Error(err))
	}

	// Bloque 4: esperar envíos en curso antes de cerrar conexiones
	if err := notifier.Drain(ctx); err != nil {
		zapLogger.Warn("invoice notifications still running", zap.Error(err))
	}
	if err := newsletterModule.Broadcast.Drain(ctx); err != nil {
		zapLogger.Warn("newsletter broadcasts still running", zap.Error(err))
	}

	if err := mongoDB.Client().Disconnect(ctx); err != nil {
		zapLogger.Warn("mongodb disconnect failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
