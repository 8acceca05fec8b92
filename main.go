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

	"taskboard/microservices/projects-service/config"
	"taskboard/microservices/projects-service/handlers"
	"taskboard/microservices/projects-service/logging"
	"taskboard/microservices/projects-service/repositories"
	"taskboard/microservices/projects-service/services"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+handlers.UserHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: %v", err)
	}
	logging.InitLogger(logging.Options{SystemName: "projects-service", FilePath: cfg.LogFile, Level: cfg.LogLevel})
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Projects Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Connected to MongoDB, database %s", cfg.MongoDBName)

	db := client.Database(cfg.MongoDBName)
	projectsCollection, err := repositories.EnsureProjectCollection(ctx, db, cfg.ProjectsCollection)
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_SETUP_FAILED, Description: %v", err)
	}
	tasksCollection := db.Collection(cfg.TasksCollection)
	if err := repositories.EnsureTaskIndexes(ctx, tasksCollection); err != nil {
		logging.Logger.Fatalf("Event ID: DB_SETUP_FAILED, Description: %v", err)
	}

	projectRepo := repositories.NewProjectRepo(projectsCollection)
	taskRepo := repositories.NewTaskRepo(tasksCollection)
	userRepo := repositories.NewBreakingUserRepo(
		repositories.NewUserRepo(db.Collection(cfg.UsersCollection)),
		repositories.NewUsersBreaker(cfg.UsersBreakerTimeout),
	)

	var tx services.Transactor = repositories.NoTransactor{}
	if cfg.MongoTransactions {
		tx = repositories.NewMongoTransactor(client)
		logging.Logger.Info("Event ID: DB_TRANSACTIONS_ENABLED, Description: Project creation runs inside Mongo transactions")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewMetrics(registry)

	projectService := services.NewProjectService(projectRepo, taskRepo, userRepo, tx, metrics, services.Options{
		ReuseParentDocument: cfg.ReuseParentDocument,
		RequireParent:       cfg.RequireParent,
		CompensationTimeout: cfg.CompensationTimeout,
	})
	projectHandler := handlers.NewProjectHandler(projectService, userRepo, cfg.RequestTimeout)

	r := mux.NewRouter()
	r.HandleFunc("/api/projects", projectHandler.CreateProject).Methods(http.MethodPost)
	r.HandleFunc("/api/projects/{id}", projectHandler.GetProject).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := client.Ping(r.Context(), nil); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           enableCORS(r),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_SHUTDOWN_FAILED, Description: %v", err)
	}
	logging.Logger.Info("Event ID: SERVICE_STOP, Description: Projects Service stopped")
}
