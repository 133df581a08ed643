package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/unclebandit/jobseeker-backend/internal/auth"
	"github.com/unclebandit/jobseeker-backend/internal/config"
	"github.com/unclebandit/jobseeker-backend/internal/controller"
	"github.com/unclebandit/jobseeker-backend/internal/db"
	"github.com/unclebandit/jobseeker-backend/internal/handler"
	"github.com/unclebandit/jobseeker-backend/internal/logger"
	"github.com/unclebandit/jobseeker-backend/internal/mailer"
	"github.com/unclebandit/jobseeker-backend/internal/metrics"
	"github.com/unclebandit/jobseeker-backend/internal/middleware"
	"github.com/unclebandit/jobseeker-backend/internal/oauth"
	"github.com/unclebandit/jobseeker-backend/internal/queue"
	"github.com/unclebandit/jobseeker-backend/internal/repository"
	"github.com/unclebandit/jobseeker-backend/internal/scraper"
	"github.com/unclebandit/jobseeker-backend/internal/service"
	"github.com/unclebandit/jobseeker-backend/internal/tracking"
)

func main() {
	// Load .env
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ctx := context.Background()

	conn, err := db.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg, "jobseeker")

	campaignRepo := &repository.CampaignRepository{DB: conn}
	emailRepo := &repository.EmailRepository{DB: conn}
	configRepo := &repository.ScraperConfigRepository{DB: conn}
	tokenRepo := &repository.GmailTokenRepository{DB: conn}

	q, closeQueue := newQueue(cfg, emailRepo, log)
	defer closeQueue()

	emailService := &service.EmailService{
		Composer: &mailer.Composer{
			Issuer:      tracking.UUIDIssuer{},
			FromAddress: cfg.FromAddress,
			TrackingURL: cfg.TrackingURL(),
		},
		Sender:       newSender(cfg),
		EmailRepo:    emailRepo,
		CampaignRepo: campaignRepo,
		Queue:        q,
		Metrics:      m,
		Logger:       log.Named("email"),
	}
	trackingService := service.NewTrackingService(emailRepo, campaignRepo, q, m, log.Named("tracking"), cfg.ClickDedupeWindow)
	scrapeService := &service.ScrapeService{
		ConfigRepo:  configRepo,
		Invoker:     scraper.NewClient(cfg.FunctionsURL(), cfg.BackendServiceKey, cfg.ScrapeTimeout),
		Concurrency: cfg.ScrapeConcurrency,
		Metrics:     m,
		Logger:      log.Named("scrape"),
	}
	gmailService := &service.GmailService{
		Exchanger: oauth.NewGoogleExchanger(cfg.GoogleClientID, cfg.GoogleClientSecret),
		TokenRepo: tokenRepo,
		Logger:    log.Named("gmail"),
	}
	campaignService := &service.CampaignService{CampaignRepo: campaignRepo, Logger: log.Named("campaign")}

	validate := validator.New()
	emailController := &controller.EmailController{Service: emailService, Validate: validate, Logger: log}
	trackingController := &controller.TrackingController{
		Service:      trackingService,
		FallbackURL:  cfg.FallbackRedirectURL,
		WriteTimeout: cfg.TrackingWriteTimeout,
		Logger:       log,
	}
	scrapeController := &controller.ScrapeController{Service: scrapeService, Logger: log}
	gmailController := &controller.GmailController{Service: gmailService, Validate: validate, Logger: log}
	campaignHandler := handler.NewCampaignHandler(campaignService, log)

	verifier := auth.NewJWTVerifier(cfg.BackendJWTSecret)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)

	r.Get("/healthz", (&handler.Health{Ping: func(ctx context.Context) error { return conn.PingContext(ctx) }}).ServeHTTP)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// Tracking routes are hit by mail clients, unauthenticated.
	r.Group(func(r chi.Router) {
		r.Use(limiter.Handler)
		r.Get("/track-email-click", trackingController.TrackClick)
		r.Get("/track-email-open", trackingController.TrackOpen)
	})

	r.With(middleware.RequireUser(verifier, emailController.RejectAuth)).
		Post("/send-email", emailController.SendEmail)
	r.With(middleware.RequireUser(verifier, gmailController.RejectAuth)).
		Post("/gmail-oauth-callback", gmailController.Callback)
	r.With(middleware.RequireUser(verifier, rejectUnauthorized)).
		Get("/campaigns/{id}", campaignHandler.GetCampaignHandlerWithStats)

	r.Post("/auto-scrape-recruiters", scrapeController.AutoScrape)

	serve(r, cfg.Port, log)
}

// newQueue picks RabbitMQ when AMQP_URL is set. Without a broker the ledger
// sync runs in-process.
func newQueue(cfg *config.Config, emailRepo *repository.EmailRepository, log *zap.Logger) (queue.Queue, func()) {
	if cfg.AMQPURL != "" {
		q, err := queue.NewAMQPQueue(cfg.AMQPURL, log.Named("amqp"))
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		return q, func() { q.Close() }
	}

	q := queue.NewInMemoryQueue(log.Named("queue"))
	if err := service.NewWorker(emailRepo, log.Named("ledger-sync")).Start(q); err != nil {
		log.Fatal("Failed to subscribe ledger sync", zap.Error(err))
	}
	return q, q.Wait
}

func newSender(cfg *config.Config) mailer.Sender {
	if cfg.MailTransport == "smtp" {
		return mailer.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	}
	return mailer.NewResendSender(cfg.ResendAPIKey, cfg.ResendBaseURL)
}

func rejectUnauthorized(w http.ResponseWriter, _ *http.Request, err error) {
	http.Error(w, err.Error(), http.StatusUnauthorized)
}

func serve(h http.Handler, port string, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server running", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down server gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
}

