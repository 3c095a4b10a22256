package main

import (
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	cfg := LoadConfig()

	// 1) DB
	db, err := OpenDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// 2) Seed (if empty)
	if isEmpty, _ := IsCatalogEmpty(db); isEmpty {
		if _, err := os.Stat(cfg.SeedPath); err == nil {
			if err := SeedFromJSON(db, cfg.SeedPath); err != nil {
				log.Fatalf("seed: %v", err)
			}
			log.Printf("Seeded catalog from %s", cfg.SeedPath)
		} else {
			log.Printf("No seed file at %s; running with empty catalog", cfg.SeedPath)
		}
	}

	store := NewStore(db)
	auth := NewAuthService(store, 0)
	rnd := newRand(cfg.ShuffleSeed)
	arcade := NewArcade(func() *Navigator {
		return NewNavigator(Deps{
			Catalog:   store,
			Questions: store,
			Scores:    store,
			Auth:      auth,
			// one source per client; Navigator serialises its use
			Rand:     newRand(seedFrom(rnd)),
			Settings: cfg.Game,
		})
	}, cfg.ClientIdleTTL, cfg.MaxClients)

	r := NewRouter(db, store, arcade, cfg)

	log.Printf("Listening on :%s (SecureCookies=%v, questions=%d, maxTime=%s)",
		cfg.Port, cfg.SecureCookies, cfg.Game.QuestionCount, cfg.Game.MaxQuestionTime)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("run: %v", err)
	}
}

// seedFrom derives a per-client seed from the shared source.
// The arcade calls it under its own lock.
func seedFrom(r *rand.Rand) *int64 {
	s := r.Int63()
	return &s
}

func NewRouter(db *gorm.DB, store *Store, arcade *Arcade, cfg *Config) *gin.Engine {
	r := gin.Default()

	// --- CORS: configured origins + any localhost:port ---
	allowed := map[string]bool{}
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = true
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if allowed[origin] {
				return true
			}
			// allow any http://localhost:PORT during development
			return strings.HasPrefix(origin, "http://localhost:")
		},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			c.String(503, "db down")
			return
		}
		c.String(200, "ok")
	})

	api := r.Group("/api/v1")
	api.Use(EnsureClient(arcade, cfg.SecureCookies))
	{
		// Screen machine
		api.GET("/screen", GetScreen())
		api.POST("/actions", PostAction())

		// Reference data & scores
		api.GET("/catalog", GetCatalog(store))
		api.GET("/me", GetMe(store))
		api.GET("/leaderboard", Leaderboard(store))
	}
	return r
}
