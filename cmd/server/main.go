package main

import (
	"log"
	"os"

	"github.com/arnavshah/seat-lottery-go/pkg/auth"
	"github.com/arnavshah/seat-lottery-go/pkg/classroom"
	"github.com/arnavshah/seat-lottery-go/pkg/config"
	"github.com/arnavshah/seat-lottery-go/pkg/database"
	"github.com/arnavshah/seat-lottery-go/pkg/handlers"
	"github.com/arnavshah/seat-lottery-go/pkg/lottery"
	"github.com/arnavshah/seat-lottery-go/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}
	cfg := config.Load()

	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.InitDB(cfg)
	if err := auth.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Printf("could not create admin user: %v", err)
	}

	store, err := storage.Open(cfg, db)
	if err != nil {
		log.Fatalf("could not open store: %v", err)
	}
	svc, err := classroom.New(storage.NewRepository(store), lottery.NewEngine())
	if err != nil {
		log.Fatalf("could not load classroom: %v", err)
	}

	h := &handlers.Handler{DB: db, Tokens: auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL), Classroom: svc}
	r := gin.Default()
	h.Routes(r)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
