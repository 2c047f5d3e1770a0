package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/Ananth-NQI/medeasy-backend/database"
	"github.com/Ananth-NQI/medeasy-backend/internal/handlers"
	"github.com/Ananth-NQI/medeasy-backend/internal/jobs"
	"github.com/Ananth-NQI/medeasy-backend/internal/routes"
	"github.com/Ananth-NQI/medeasy-backend/internal/services"
	"github.com/Ananth-NQI/medeasy-backend/internal/storage"
)

const version = "1.0.0"

// Config is everything main reads from the environment
type Config struct {
	Port           string
	UseMemoryStore bool
	Database       database.Config

	LLMProvider       string
	GeminiAPIKey      string
	GeminiModel       string
	OpenAIAPIKey      string
	OpenAIModel       string
	CompletionTimeout time.Duration

	SupabaseURL        string
	SupabaseKey        string
	PrescriptionBucket string

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string
	PharmacistWhatsApp string

	MessageLogBuffer int
	AdminToken       string
}

func loadConfig() Config {
	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		UseMemoryStore:     os.Getenv("USE_MEMORY_STORE") == "true",
		Database:           database.ConfigFromEnv(),
		LLMProvider:        strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
		GeminiAPIKey:       firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY")),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        os.Getenv("OPENAI_MODEL"),
		CompletionTimeout:  20 * time.Second,
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseKey:        firstNonEmpty(os.Getenv("SUPABASE_SERVICE_KEY"), os.Getenv("SUPABASE_ANON_KEY")),
		PrescriptionBucket: getEnv("PRESCRIPTION_BUCKET", "prescriptions"),
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppFrom: os.Getenv("TWILIO_WHATSAPP_FROM"),
		PharmacistWhatsApp: os.Getenv("PHARMACIST_WHATSAPP"),
		MessageLogBuffer:   256,
		AdminToken:         os.Getenv("ADMIN_TOKEN"),
	}

	if v := os.Getenv("COMPLETION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CompletionTimeout = d
		} else {
			log.Printf("⚠️  Invalid COMPLETION_TIMEOUT %q, using %s", v, cfg.CompletionTimeout)
		}
	}
	if v := os.Getenv("MESSAGE_LOG_BUFFER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MessageLogBuffer = n
		}
	}

	return cfg
}

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("⚠️  No .env file found - checking environment variables")
		}
	}

	cfg := loadConfig()

	// Initialize storage
	var store storage.Store
	var db *gorm.DB
	storageType := "In-Memory (Testing)"

	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Printf("📦 Connecting to %s database...", cfg.Database.Driver())
		var err error
		db, err = database.Connect(cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database: ", err)
		}

		log.Println("🔄 Running database migrations...")
		if err := storage.AutoMigrate(db); err != nil {
			log.Fatal("Failed to migrate database: ", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(db)
		storageType = "PostgreSQL Database"
		if cfg.Database.Driver() == "sqlite" {
			storageType = "SQLite Database"
		}
	}

	// Completion provider
	completer, provider := newCompleter(cfg)
	completion := services.NewCompletionFallback(completer, cfg.CompletionTimeout)

	// Prescription uploads
	var uploads storage.UploadTargetProvider = storage.NoUploads{}
	if supabase, err := storage.NewSupabaseUploads(cfg.SupabaseURL, cfg.SupabaseKey, cfg.PrescriptionBucket); err == nil {
		uploads = supabase
		log.Printf("✅ Prescription uploads via Supabase bucket %q", cfg.PrescriptionBucket)
	} else {
		log.Printf("⚠️  Prescription uploads disabled: %v", err)
	}

	// Pharmacist notifications are optional
	var notifier services.HandoverNotifier
	twilioService, err := services.NewTwilioService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom, cfg.PharmacistWhatsApp)
	if err != nil {
		log.Printf("⚠️  Twilio not configured - pharmacist alerts disabled: %v", err)
	} else {
		notifier = twilioService
		log.Println("✅ Twilio service initialized")
	}

	// Message log worker
	messageLog := jobs.NewMessageLogJob(store, cfg.MessageLogBuffer)
	messageLog.Start()

	sessions := services.NewSessionManager()
	router := services.NewRouter(services.RouterDeps{
		Flow:       services.NewCollectionFlow(sessions, store),
		Policy:     services.NewEscalationPolicy(services.DefaultEscalationRules),
		Handovers:  store,
		Uploads:    uploads,
		Completion: completion,
		Messages:   messageLog,
		Notifier:   notifier,
	})

	health := handlers.NewHealthHandler(version, storageType, db, sessions)
	health.Completion = provider
	health.Uploads = cfg.SupabaseURL != "" && cfg.SupabaseKey != ""
	health.Twilio = notifier != nil

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "MedEasy Webhook v" + version,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	routes.SetupRoutes(app, routes.Handlers{
		Webhook:    handlers.NewWebhookHandler(router),
		Health:     health,
		Admin:      handlers.NewAdminHandler(store),
		AdminToken: cfg.AdminToken,
	})

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		log.Println("⏹️  Shutting down server...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Println("========================================")
	log.Printf("🚀 MedEasy webhook starting on port %s", cfg.Port)
	log.Printf("📊 Storage: %s", storageType)
	log.Printf("🤖 Completion: %s", firstNonEmpty(provider, "Not configured"))
	log.Println("========================================")

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("❌ Server stopped: %v", err)
	}

	log.Println("⏹️  Draining message log...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := messageLog.Stop(ctx); err != nil {
		log.Printf("⚠️  Message log not fully drained: %v", err)
	}
	log.Println("👋 Bye")
}

// newCompleter builds the configured provider; nil means replies degrade to the fixed fallback
func newCompleter(cfg Config) (services.Completer, string) {
	switch cfg.LLMProvider {
	case "openai":
		c, err := services.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			log.Printf("⚠️  OpenAI completion disabled: %v", err)
			return nil, ""
		}
		log.Println("✅ OpenAI completion initialized")
		return c, "openai"
	default:
		c, err := services.NewGeminiCompleter(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("⚠️  Gemini completion disabled: %v", err)
			return nil, ""
		}
		log.Println("✅ Gemini completion initialized")
		return c, "gemini"
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
