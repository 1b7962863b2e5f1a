package handler

import (
	"log"
	"net/http"

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

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg := config.Load()

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

	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	h.Routes(r)
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
