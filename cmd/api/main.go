// cmd/api/main.go
// Main entry point: bootstraps all components and starts the server

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fitlink/fitlink-backend/internal/auth"
	"github.com/fitlink/fitlink-backend/internal/chats"
	"github.com/fitlink/fitlink-backend/internal/common/database"
	"github.com/fitlink/fitlink-backend/internal/config"
	"github.com/fitlink/fitlink-backend/internal/events"
	"github.com/fitlink/fitlink-backend/internal/notifications"
	"github.com/fitlink/fitlink-backend/internal/profiles"
	"github.com/fitlink/fitlink-backend/internal/stats"
	"github.com/fitlink/fitlink-backend/internal/suggestions"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting FitLink API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load and validate configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration is valid")

	// 3. Connect to PostgreSQL, app role first
	log.Println("\n🗄️  Step 3: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL (application role)")

	// Service-role pool for statements row policies would block. When no
	// separate admin URL is configured both pools share one URL.
	var adminDB *sqlx.DB
	if cfg.AdminDatabaseURL != cfg.DatabaseURL {
		adminDB, err = database.NewPostgresDB(cfg.AdminDatabaseURL)
		if err != nil {
			log.Fatal("❌ Failed to connect to PostgreSQL (service role):", err)
		}
		defer adminDB.Close()
		log.Println("✅ Connected to PostgreSQL (service role)")
	} else {
		adminDB = db
		log.Println("⚠️  No ADMIN_DATABASE_URL set, service-role pool shares the application pool")
	}

	// 4. Connect to Redis (optional)
	log.Println("\n📮 Step 4: Connecting to Redis...")
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), continuing without cache", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, suggestion cache disabled")
	}

	// 5. Run database migrations
	log.Println("\n🔨 Step 5: Running database migrations...")
	if err := runMigrations(adminDB); err != nil {
		log.Fatal("❌ Failed to run migrations: ", err)
	}
	log.Println("✅ Database migrations completed")

	// 6. Auth middleware
	log.Println("\n🔐 Step 6: Initializing authentication...")
	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)
	log.Println("✅ Authentication initialized")

	// 7. Wire the modules
	log.Println("\n🧩 Step 7: Initializing modules...")

	profilesRepo := profiles.NewPostgresRepository(db)
	profilesHandler := profiles.NewHandler(profilesRepo)

	eventsRepo := events.NewPostgresRepository(db)

	notificationsRepo := notifications.NewPostgresRepository(db)
	notificationsService := notifications.NewService(notificationsRepo)
	notificationsHandler := notifications.NewHandler(notificationsService)

	chatsRepo := chats.NewPostgresRepository(db, adminDB)
	chatsService := chats.NewService(chatsRepo, eventsRepo, notificationsService)
	chatsHandler := chats.NewHandler(chatsService)

	eventsService := events.NewService(eventsRepo, chatsService)
	eventsHandler := events.NewHandler(eventsService)

	suggestionsService := suggestions.NewService(profilesRepo, eventsRepo, redisClient, cfg.SuggestionCacheTTL)
	suggestionsHandler := suggestions.NewHandler(suggestionsService)

	statsRepo := stats.NewPostgresRepository(db)
	statsHandler := stats.NewHandler(statsRepo)

	log.Println("✅ Modules initialized")

	// 8. Routes
	log.Println("\n🛣️  Step 8: Setting up routes...")
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	profiles.RegisterRoutes(router, profilesHandler, authMiddleware)
	events.RegisterRoutes(router, eventsHandler, authMiddleware)
	chats.RegisterRoutes(router, chatsHandler, authMiddleware)
	suggestions.RegisterRoutes(router, suggestionsHandler, authMiddleware)
	notifications.RegisterRoutes(router, notificationsHandler, authMiddleware)
	stats.RegisterRoutes(router, statsHandler)

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)
	log.Println("✅ Routes registered")

	// 9. Background reminder scheduler
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	scheduler := notifications.NewReminderScheduler(notificationsRepo, cfg.ReminderInterval, cfg.ReminderMinutes)
	go scheduler.Run(schedulerCtx)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("\n========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")
	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// runMigrations creates the schema. Statements are idempotent so the server
// can run them on every boot.
func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS categoria (
            id BIGSERIAL PRIMARY KEY,
            nombre VARCHAR(120) NOT NULL UNIQUE,
            icono VARCHAR(120)
        )`,

		`CREATE TABLE IF NOT EXISTS niveles_habilidad (
            id SERIAL PRIMARY KEY,
            nombre VARCHAR(60) NOT NULL UNIQUE
        )`,

		`CREATE TABLE IF NOT EXISTS usuarios (
            id UUID PRIMARY KEY,
            email VARCHAR(255) NOT NULL UNIQUE,
            nombre VARCHAR(120),
            biografia TEXT,
            fecha_nacimiento VARCHAR(10),
            municipio VARCHAR(120),
            foto_url TEXT,
            telefono VARCHAR(30),
            intereses BIGINT[] NOT NULL DEFAULT '{}',
            nivel_habilidad INT REFERENCES niveles_habilidad(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,

		`CREATE TABLE IF NOT EXISTS eventos (
            id BIGSERIAL PRIMARY KEY,
            creador_id UUID NOT NULL REFERENCES usuarios(id),
            nombre VARCHAR(120) NOT NULL,
            descripcion TEXT,
            categoria BIGINT REFERENCES categoria(id),
            municipio VARCHAR(120),
            nivel VARCHAR(30),
            inicio TIMESTAMPTZ NOT NULL,
            estado VARCHAR(20) NOT NULL DEFAULT 'activo',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_eventos_inicio ON eventos(inicio) WHERE estado <> 'cancelado'`,

		// The partial unique index is the whole concurrency story for event
		// chats: two racing creators collide here and one re-reads.
		`CREATE TABLE IF NOT EXISTS chats (
            id UUID PRIMARY KEY,
            evento_id BIGINT REFERENCES eventos(id),
            titulo VARCHAR(200),
            is_group BOOLEAN NOT NULL DEFAULT FALSE,
            created_by UUID REFERENCES usuarios(id),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_chats_evento ON chats(evento_id) WHERE evento_id IS NOT NULL`,

		`CREATE TABLE IF NOT EXISTS chat_members (
            chat_id UUID NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
            user_id UUID NOT NULL REFERENCES usuarios(id),
            joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (chat_id, user_id)
        )`,

		`CREATE TABLE IF NOT EXISTS event_participants (
            evento_id BIGINT NOT NULL REFERENCES eventos(id) ON DELETE CASCADE,
            user_id UUID NOT NULL REFERENCES usuarios(id),
            status VARCHAR(20) NOT NULL DEFAULT 'active',
            joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (evento_id, user_id)
        )`,

		`CREATE TABLE IF NOT EXISTS chat_messages (
            id BIGSERIAL PRIMARY KEY,
            chat_id UUID NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
            user_id UUID NOT NULL REFERENCES usuarios(id),
            content TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_chat ON chat_messages(chat_id, created_at DESC)`,

		`CREATE TABLE IF NOT EXISTS notificaciones (
            id BIGSERIAL PRIMARY KEY,
            usuario_id UUID NOT NULL REFERENCES usuarios(id),
            titulo VARCHAR(200) NOT NULL,
            mensaje TEXT NOT NULL,
            tipo VARCHAR(30) NOT NULL,
            leida BOOLEAN NOT NULL DEFAULT FALSE,
            fecha TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,

		`CREATE TABLE IF NOT EXISTS preferencias_notificaciones (
            usuario_id UUID PRIMARY KEY REFERENCES usuarios(id),
            notificar_entrenos BOOLEAN NOT NULL DEFAULT TRUE,
            notificar_match BOOLEAN NOT NULL DEFAULT TRUE,
            notificar_sistema BOOLEAN NOT NULL DEFAULT TRUE
        )`,

		`CREATE TABLE IF NOT EXISTS recordatorios_enviados (
            evento_id BIGINT NOT NULL REFERENCES eventos(id) ON DELETE CASCADE,
            usuario_id UUID NOT NULL REFERENCES usuarios(id),
            minutos_antes INT NOT NULL,
            enviado_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (evento_id, usuario_id, minutos_antes)
        )`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
