package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/sgnatenko/todo-chat-api/internal/facades"
	"github.com/sgnatenko/todo-chat-api/internal/handlers"
	"github.com/sgnatenko/todo-chat-api/internal/jwt"
	"github.com/sgnatenko/todo-chat-api/internal/logger"
	"github.com/sgnatenko/todo-chat-api/internal/middlewares"
	"github.com/sgnatenko/todo-chat-api/internal/repositories"
	"github.com/sgnatenko/todo-chat-api/internal/services"
	"github.com/sgnatenko/todo-chat-api/internal/tools"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title todo-chat-api
// @version 1.0.0
// @description Multi-user todo service with JWT authentication and an AI chat assistant
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// config holds all application settings resolved from the environment.
type config struct {
	appHost  string
	appPort  string
	logLevel string

	pgHost         string
	pgPort         int
	pgUser         string
	pgPassword     string
	pgDB           string
	pgMaxOpenConns int
	pgMaxIdleConns int

	redisHost         string
	redisPort         int
	redisDB           int
	redisPassword     string
	redisPoolSize     int
	redisMinIdleConns int

	loginAttemptLimit  int
	loginAttemptWindow int

	kafkaAddr  string
	kafkaTopic string

	openaiAPIKey      string
	openaiModel       string
	openaiBaseURL     string
	openaiMaxTokens   int
	openaiTemperature float64

	jwtSecretKey string
	jwtExpHours  int
}

// parseConfig loads environment variables from a file and resolves all
// application, database, Redis, Kafka, OpenAI, and JWT configuration.
// JWT_SECRET_KEY and OPENAI_API_KEY have no defaults and must be set.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	cfg.appHost = getEnv("APP_HOST", "localhost")
	cfg.appPort = getEnv("APP_PORT", "8080")
	cfg.logLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	cfg.pgHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.pgUser = getEnv("POSTGRES_USER", "user")
	cfg.pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.pgDB = getEnv("POSTGRES_DB", "database")
	if cfg.pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if cfg.pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if cfg.pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config
	cfg.redisHost = getEnv("REDIS_HOST", "localhost")
	if cfg.redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if cfg.redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	cfg.redisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.redisPoolSize, err = strconv.Atoi(getEnv("REDIS_POOL_SIZE", "10")); err != nil {
		return
	}
	if cfg.redisMinIdleConns, err = strconv.Atoi(getEnv("REDIS_MIN_IDLE_CONNS", "2")); err != nil {
		return
	}

	// Login throttling config
	if cfg.loginAttemptLimit, err = strconv.Atoi(getEnv("LOGIN_ATTEMPT_LIMIT", "5")); err != nil {
		return
	}
	if cfg.loginAttemptWindow, err = strconv.Atoi(getEnv("LOGIN_ATTEMPT_WINDOW_SECOND", "900")); err != nil {
		return
	}

	// Kafka config; events are disabled when no address is set
	cfg.kafkaAddr = getEnv("KAFKA_ADDR", "")
	cfg.kafkaTopic = getEnv("KAFKA_TOPIC", "todo-events")

	// OpenAI config
	cfg.openaiAPIKey = getEnv("OPENAI_API_KEY", "")
	if cfg.openaiAPIKey == "" {
		err = fmt.Errorf("OPENAI_API_KEY is required")
		return
	}
	cfg.openaiModel = getEnv("OPENAI_MODEL", "gpt-4o-mini")
	cfg.openaiBaseURL = getEnv("OPENAI_BASE_URL", "")
	if cfg.openaiMaxTokens, err = strconv.Atoi(getEnv("OPENAI_MAX_TOKENS", "500")); err != nil {
		return
	}
	if cfg.openaiTemperature, err = strconv.ParseFloat(getEnv("OPENAI_TEMPERATURE", "0.7"), 64); err != nil {
		return
	}

	// JWT config
	cfg.jwtSecretKey = getEnv("JWT_SECRET_KEY", "")
	if cfg.jwtSecretKey == "" {
		err = fmt.Errorf("JWT_SECRET_KEY is required")
		return
	}
	if cfg.jwtExpHours, err = strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24")); err != nil {
		return
	}

	return
}

// run initializes the logger, database, Redis, Kafka, and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg config) error {
	if err := logger.Initialize(cfg.logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.pgUser, cfg.pgPassword, cfg.pgHost, cfg.pgPort, cfg.pgDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Errorw("PostgreSQL connection error", "error", err)
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.pgMaxOpenConns)
	db.SetMaxIdleConns(cfg.pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Errorw("PostgreSQL ping failed", "error", err)
		return err
	}

	if err := repositories.EnsureSchema(ctx, db); err != nil {
		return err
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.redisHost, cfg.redisPort),
		Password:     cfg.redisPassword,
		DB:           cfg.redisDB,
		PoolSize:     cfg.redisPoolSize,
		MinIdleConns: cfg.redisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Errorw("Redis connection error", "error", err)
		return err
	}
	defer rdb.Close()

	// Kafka writer for todo mutation events, optional
	var eventWriter services.KafkaWriter
	if cfg.kafkaAddr != "" {
		w := &kafka.Writer{
			Addr:     kafka.TCP(cfg.kafkaAddr),
			Topic:    cfg.kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer w.Close()
		eventWriter = w
		logger.Log.Infof("Kafka events enabled, topic %s", cfg.kafkaTopic)
	}

	// Initialize JWT service
	tokenService := jwt.New(
		jwt.WithSecretKey(cfg.jwtSecretKey),
		jwt.WithExpiration(time.Duration(cfg.jwtExpHours)*time.Hour),
	)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	todoReadRepo := repositories.NewTodoReadRepository(db)
	todoWriteRepo := repositories.NewTodoWriteRepository(db)
	convReadRepo := repositories.NewConversationReadRepository(db)
	convWriteRepo := repositories.NewConversationWriteRepository(db)
	msgReadRepo := repositories.NewMessageReadRepository(db)
	msgWriteRepo := repositories.NewMessageWriteRepository(db)
	loginAttempts := repositories.NewLoginAttemptRepository(rdb,
		int64(cfg.loginAttemptLimit), time.Duration(cfg.loginAttemptWindow)*time.Second)

	// Initialize the completion facade
	completer := facades.NewChatCompletionFacade(cfg.openaiAPIKey, cfg.openaiModel,
		cfg.openaiBaseURL, cfg.openaiMaxTokens, cfg.openaiTemperature)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, tokenService, loginAttempts)
	todoService := services.NewTodoService(todoReadRepo, todoWriteRepo, eventWriter)
	dispatcher := tools.NewDispatcher(todoService)
	chatService := services.NewChatService(convReadRepo, convWriteRepo, msgReadRepo, msgWriteRepo, completer, dispatcher)

	// Initialize handlers
	signupHandler := handlers.NewSignupHandler(authService)
	signinHandler := handlers.NewSigninHandler(authService)
	createTodoHandler := handlers.NewCreateTodoHandler(todoService)
	listTodosHandler := handlers.NewListTodosHandler(todoService)
	getTodoHandler := handlers.NewGetTodoHandler(todoService)
	updateTodoHandler := handlers.NewUpdateTodoHandler(todoService)
	toggleTodoHandler := handlers.NewToggleTodoHandler(todoService)
	deleteTodoHandler := handlers.NewDeleteTodoHandler(todoService)
	chatHandler := handlers.NewChatHandler(chatService)
	conversationsHandler := handlers.NewListConversationsHandler(chatService)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	// Public routes
	r.Post("/api/signup", signupHandler)
	r.Post("/api/signin", signinHandler)

	// Protected, owner-scoped routes
	r.Route("/api/users/{user_id}", func(r chi.Router) {
		r.Use(middlewares.AuthMiddleware(tokenService, userReadRepo))
		r.Use(middlewares.RequireOwner)

		r.Post("/chat", chatHandler)
		r.Get("/conversations", conversationsHandler)

		r.Route("/todos", func(r chi.Router) {
			r.Post("/", createTodoHandler)
			r.Get("/", listTodosHandler)
			r.Get("/{id}", getTodoHandler)
			r.Put("/{id}", updateTodoHandler)
			r.Delete("/{id}", deleteTodoHandler)
			r.Patch("/{id}/complete", toggleTodoHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.appHost, cfg.appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.appHost, cfg.appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.appHost, cfg.appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
