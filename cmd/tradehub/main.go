package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	catalogadapters "github.com/anouar36/B2B-TradeHub/internal/catalog/adapters"
	catalogapp "github.com/anouar36/B2B-TradeHub/internal/catalog/application"
	cataloghttp "github.com/anouar36/B2B-TradeHub/internal/catalog/infrastructure"
	clientadapters "github.com/anouar36/B2B-TradeHub/internal/clients/adapters"
	clientapp "github.com/anouar36/B2B-TradeHub/internal/clients/application"
	clienthttp "github.com/anouar36/B2B-TradeHub/internal/clients/infrastructure"
	orderadapters "github.com/anouar36/B2B-TradeHub/internal/ordering/adapters"
	orderapp "github.com/anouar36/B2B-TradeHub/internal/ordering/application"
	orderdomain "github.com/anouar36/B2B-TradeHub/internal/ordering/domain"
	orderhttp "github.com/anouar36/B2B-TradeHub/internal/ordering/infrastructure"
	orderports "github.com/anouar36/B2B-TradeHub/internal/ordering/ports"
	paymentadapters "github.com/anouar36/B2B-TradeHub/internal/payments/adapters"
	paymentapp "github.com/anouar36/B2B-TradeHub/internal/payments/application"
	paymenthttp "github.com/anouar36/B2B-TradeHub/internal/payments/infrastructure"
	paymentports "github.com/anouar36/B2B-TradeHub/internal/payments/ports"
	promoadapters "github.com/anouar36/B2B-TradeHub/internal/promos/adapters"
	promoapp "github.com/anouar36/B2B-TradeHub/internal/promos/application"
	promohttp "github.com/anouar36/B2B-TradeHub/internal/promos/infrastructure"
	"github.com/anouar36/B2B-TradeHub/pkg/config"
	"github.com/anouar36/B2B-TradeHub/pkg/db"
	"github.com/anouar36/B2B-TradeHub/pkg/logger"
	"github.com/anouar36/B2B-TradeHub/pkg/middleware"
	"github.com/anouar36/B2B-TradeHub/pkg/rabbitmq"
	tlspkg "github.com/anouar36/B2B-TradeHub/pkg/tls"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.ServiceName, cfg.LogLevel)
	defer log.Sync()

	log.Info("starting tradehub")

	dbConn, err := db.NewConnection(db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Timeout:  cfg.DBTimeout,
	})
	if err != nil {
		log.Fatal("failed to connect to database: " + err.Error())
	}
	log.Info("connected to database")

	// Repositories and migrations
	clientRepo := clientadapters.NewPostgresClientRepository(dbConn)
	productRepo := catalogadapters.NewPostgresProductRepository(dbConn)
	promoRepo := promoadapters.NewPostgresPromoCodeRepository(dbConn)
	orderRepo := orderadapters.NewPostgresOrderRepository(dbConn)
	paymentRepo := paymentadapters.NewPostgresPaymentRepository(dbConn)

	for _, migrate := range []func() error{
		clientRepo.Migrate, productRepo.Migrate, promoRepo.Migrate,
		orderRepo.Migrate, paymentRepo.Migrate,
	} {
		if err := migrate(); err != nil {
			log.Fatal("failed to migrate database: " + err.Error())
		}
	}

	// RabbitMQ is optional: the core works without events.
	var (
		orderEvents   orderports.EventPublisher   = orderadapters.NewNoopEventPublisher()
		paymentEvents paymentports.EventPublisher = paymentadapters.NewNoopEventPublisher()
	)
	rabbitConn, err := rabbitmq.NewConnection(cfg.RabbitMQURL, log)
	if err != nil {
		log.Warn("failed to connect to RabbitMQ, events will be disabled: " + err.Error())
	} else {
		defer rabbitConn.Close()

		if pub, err := orderadapters.NewRabbitEventPublisher(rabbitConn, log); err != nil {
			log.Warn("failed to create order publisher: " + err.Error())
		} else {
			orderEvents = pub
		}
		if pub, err := paymentadapters.NewRabbitEventPublisher(rabbitConn, log); err != nil {
			log.Warn("failed to create payment publisher: " + err.Error())
		} else {
			paymentEvents = pub
		}
	}

	vatRate, err := decimal.NewFromString(cfg.DefaultVATRate)
	if err != nil {
		log.Warn("invalid DEFAULT_VAT_RATE, falling back to " + orderdomain.DefaultVATRate.String())
		vatRate = orderdomain.DefaultVATRate
	}

	// Use cases
	clientUseCase := clientapp.NewClientUseCase(clientRepo, log)
	catalogUseCase := catalogapp.NewCatalogUseCase(productRepo, log)
	promoUseCase := promoapp.NewPromoUseCase(promoRepo, promoadapters.NewGormTxRunner(dbConn), log)

	orderUseCase := orderapp.NewOrderUseCase(
		orderRepo,
		orderadapters.NewClientDirectoryAdapter(clientUseCase),
		orderadapters.NewProductCatalogAdapter(catalogUseCase),
		orderadapters.NewPromoResolverAdapter(promoUseCase),
		orderadapters.NewPaymentLedgerAdapter(paymentRepo),
		orderEvents,
		orderadapters.NewGormTxRunner(dbConn),
		vatRate,
		log,
	)

	paymentUseCase := paymentapp.NewPaymentUseCase(
		paymentRepo,
		paymentadapters.NewOrderLedgerAdapter(orderUseCase),
		paymentEvents,
		paymentadapters.NewGormTxRunner(dbConn),
		log,
	)

	// HTTP server
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.TraceID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS())
	router.Use(middleware.Actor())

	api := router.Group("/api/v1")
	clienthttp.NewHTTPHandler(clientUseCase).RegisterRoutes(api)
	cataloghttp.NewHTTPHandler(catalogUseCase).RegisterRoutes(api)
	promohttp.NewHTTPHandler(promoUseCase).RegisterRoutes(api)
	orderhttp.NewHTTPHandler(orderUseCase).RegisterRoutes(api)
	paymenthttp.NewHTTPHandler(paymentUseCase).RegisterRoutes(api)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
	}

	if cfg.TLSEnabled {
		tlsConfig, err := tlspkg.ServerConfig(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			log.Fatal("failed to load TLS config: " + err.Error())
		}
		httpServer.TLSConfig = tlsConfig
	}

	go func() {
		log.Info("HTTP server listening on :" + cfg.HTTPPort)
		var err error
		if cfg.TLSEnabled {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error: " + err.Error())
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown error: " + err.Error())
	}

	log.Info("server stopped")
}
