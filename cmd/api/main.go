package main

import (
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/avargasq/tienda-backend/internal/auth"
	"github.com/avargasq/tienda-backend/internal/cart"
	"github.com/avargasq/tienda-backend/internal/config"
	"github.com/avargasq/tienda-backend/internal/logging"
	"github.com/avargasq/tienda-backend/internal/product"
	"github.com/avargasq/tienda-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	slog.SetDefault(logging.New(cfg.Logging))

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	if err := ensureSchema(db); err != nil {
		slog.Error("schema bootstrap failed", "error", err)
		os.Exit(1)
	}

	app := fiber.New()
	setupCORS(app)
	app.Use(requestLogger)

	tokens := auth.NewTokenService([]byte(cfg.AccessSecret), []byte(cfg.RefreshSecret))

	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo, tokens)
	userHandler := user.NewHandler(userService)

	productRepo := product.NewPostgresRepository(db)
	productService := product.NewService(productRepo)
	productHandler := product.NewHandler(productService, product.NewSeeder(cfg.CatalogSourceURL))

	cartRepo := cart.NewPostgresRepository(db)
	cartService := cart.NewService(cartRepo, productService)
	cartHandler := cart.NewHandler(cartService)

	// public routes go in before the gate so they stay unauthenticated
	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)

	gate := auth.NewGate(tokens, userRepo)
	app.Use(gate.Handle)

	userHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)

	slog.Info("starting server", "addr", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Refresh-Token",
		ExposeHeaders: "Authorization, Refresh-Token",
	}))
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	requestID := uuid.NewString()
	c.Locals("requestId", requestID)

	err := c.Next()

	slog.Info("request",
		"id", requestID,
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

func mustOpenDB(url string) *sql.DB {
	db, err := sql.Open("pgx", url)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	if err := db.Ping(); err != nil {
		slog.Error("database unreachable", "error", err)
		os.Exit(1)
	}

	return db
}

func ensureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id SERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			address TEXT NOT NULL,
			auth_token TEXT,
			refresh_token TEXT,
			token_version INT NOT NULL DEFAULT 0,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			product_id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			price NUMERIC NOT NULL DEFAULT 0,
			description TEXT,
			image_url TEXT,
			additional_info JSONB
		)`,
		`CREATE TABLE IF NOT EXISTS carts (
			user_id INT PRIMARY KEY,
			items JSONB NOT NULL DEFAULT '[]',
			created_at TEXT,
			updated_at TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
