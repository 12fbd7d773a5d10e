package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/finsight/analyzer/internal/config"
	"github.com/finsight/analyzer/internal/handler"
	"github.com/finsight/analyzer/internal/integrations/genai"
	"github.com/finsight/analyzer/internal/middleware"
	"github.com/finsight/analyzer/internal/repository"
	"github.com/finsight/analyzer/internal/scheduler"
	"github.com/finsight/analyzer/internal/service"
	"github.com/finsight/analyzer/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	extractor := genai.NewClient(cfg, logger)
	svc := service.NewService(repo, extractor, logger, cfg)
	h := handler.NewHandler(svc)

	// Start overdue-account reminder scheduler
	sender := email.NewSender(cfg, logger)
	sched := scheduler.NewScheduler(repo, sender, logger)
	if err := sched.Start(cfg.ReminderSchedule); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/documents/credit-report", h.AnalyzeCreditReport).Methods("POST")
	authRouter.HandleFunc("/documents/statement", h.AnalyzeStatement).Methods("POST")
	authRouter.HandleFunc("/credit-report", h.GetCreditReport).Methods("GET")
	authRouter.HandleFunc("/credit-report/summary", h.GetAccountSummary).Methods("GET")
	authRouter.HandleFunc("/credit-report/dpd", h.GetDpdAnalysis).Methods("GET")
	authRouter.HandleFunc("/credit-report/behavior", h.GetBehaviorAnalysis).Methods("GET")
	authRouter.HandleFunc("/transactions", h.GetTransactions).Methods("GET")
	authRouter.HandleFunc("/transactions", h.ClearData).Methods("DELETE")
	authRouter.HandleFunc("/transactions/stats", h.GetSpendingStats).Methods("GET")
	authRouter.HandleFunc("/transactions/categorize", h.CategorizeTransactions).Methods("POST")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
