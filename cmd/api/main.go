package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp091 "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/vidhiq/vidhiq-backend/internal/config"
	"github.com/vidhiq/vidhiq-backend/internal/infra/database"
	"github.com/vidhiq/vidhiq-backend/internal/infra/http/handlers"
	"github.com/vidhiq/vidhiq-backend/internal/infra/http/middleware"
	"github.com/vidhiq/vidhiq-backend/internal/infra/integration/cashfree"
	"github.com/vidhiq/vidhiq-backend/internal/infra/integration/razorpay"
	"github.com/vidhiq/vidhiq-backend/internal/infra/integration/whatsapp"
	"github.com/vidhiq/vidhiq-backend/internal/infra/mail"
	"github.com/vidhiq/vidhiq-backend/internal/infra/queue"
	"github.com/vidhiq/vidhiq-backend/internal/infra/storage"
	"github.com/vidhiq/vidhiq-backend/internal/infra/worker"
	"github.com/vidhiq/vidhiq-backend/internal/logger"
	"github.com/vidhiq/vidhiq-backend/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg := config.Load()
	logger.Initialize(cfg.Env)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.L().Fatal("invalid configuration", zap.Error(err))
	}

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		logger.L().Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	// RabbitMQ is optional: without it notifications fall back to direct
	// email from the reconciler.
	var producer usecase.QueueProducerInterface
	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitUser, cfg.RabbitPass, cfg.RabbitHost, cfg.RabbitPort)
	if err != nil {
		logger.L().Warn("rabbitmq unavailable, notifications degrade to direct email", zap.Error(err))
		rabbitMQ = nil
	} else {
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()
		producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	}

	// Repositories
	leadRepo := database.NewLeadRepository(db)
	paymentRepo := database.NewPaymentRepository(db)

	// Gateway variant is a config decision; everything downstream only sees
	// the PaymentGateway interface.
	var gateway usecase.PaymentGateway
	switch cfg.PaymentGateway {
	case "cashfree":
		gateway = cashfree.NewClient(cfg.CashfreeClientID, cfg.CashfreeClientSecret, cfg.CashfreeEnv)
	default:
		gateway = razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, "")
	}

	var mailSender *mail.EmailSender
	if cfg.MailConfigured() {
		mailSender = mail.NewEmailSender(cfg.MailHost, 587, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.OpsEmail)
	}
	whatsappClient := whatsapp.NewClient(cfg.WhatsAppAccessToken, cfg.WhatsAppPhoneID, cfg.SupportWhatsApp)

	var presigner usecase.BundlePresigner
	if cfg.StorageConfigured() {
		s3Presigner, err := storage.NewS3Presigner(context.Background(),
			cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.AWSRegion, cfg.S3Bucket)
		if err != nil {
			logger.L().Warn("object store unavailable, bundle downloads disabled", zap.Error(err))
		} else {
			presigner = s3Presigner
		}
	}

	// Background workers
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if rabbitMQ != nil {
		var emailForWorker queue.EmailSender
		if mailSender != nil {
			emailForWorker = mailSender
		}
		notificationWorker := queue.NewWorker(rabbitMQ.Ch, emailForWorker, whatsappClient)
		go notificationWorker.Start(queue.QueueName)

		followUp := worker.NewFollowUpWorker(leadRepo, queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch))
		go followUp.Start(ctx)
	}

	// UseCases
	var emailService usecase.EmailService
	if mailSender != nil {
		emailService = mailSender
	}
	submitLeadUC := usecase.NewSubmitLeadUseCase(leadRepo)
	reconcileUC := usecase.NewReconcilePaymentUseCase(paymentRepo, leadRepo, producer, emailService)
	createOrderUC := usecase.NewCreateOrderUseCase(gateway)
	verifyUC := usecase.NewVerifyPaymentUseCase(gateway, reconcileUC)

	// Bundle purchases are verified by bare transaction id, which only the
	// order-flow gateway can answer; the signature-flow gateway would reject
	// every lookup. Without it the check is skipped.
	var bundleGateway usecase.PaymentGateway
	if cfg.PaymentGateway == "cashfree" {
		bundleGateway = gateway
	}
	issueBundleUC := usecase.NewIssueBundleUseCase(presigner, bundleGateway)

	// Handlers
	leadHandler := handlers.NewLeadHandler(submitLeadUC)
	defer leadHandler.Stop()
	paymentHandler := handlers.NewPaymentHandler(createOrderUC, verifyUC, paymentRepo, gateway)
	bundleHandler := handlers.NewBundleHandler(issueBundleUC, cfg.StorageConfigured())

	healthHandler := handlers.NewHealthHandler(db, rabbitConnOrNil(rabbitMQ), gateway.Name(), true, cfg.StorageConfigured())

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.SiteURL, "http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Client-Id"},
	}))

	r.Post("/leads", leadHandler.Handle)
	r.Post("/payment/create-order", paymentHandler.HandleCreateOrder)
	r.Post("/payment/verify", paymentHandler.HandleVerify)
	r.Get("/payment/details", paymentHandler.HandleDetails)
	r.Post("/download-bundle", bundleHandler.HandleIssue)
	r.Get("/download-bundle", bundleHandler.HandleHealth)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		logger.L().Info("server listening", zap.String("port", cfg.Port), zap.String("gateway", gateway.Name()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L().Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// rabbitConnOrNil unwraps the optional broker handle for the health check.
func rabbitConnOrNil(r *queue.RabbitMQ) *amqp091.Connection {
	if r == nil {
		return nil
	}
	return r.Conn
}
