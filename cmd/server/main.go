package main

import (
	"strconv"
	"time"

	"rankr-backend/internal/config"
	"rankr-backend/internal/handlers"
	"rankr-backend/internal/logging"
	"rankr-backend/internal/middleware"
	"rankr-backend/internal/services"
	"rankr-backend/internal/store"
	"rankr-backend/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logging.SetLevel(cfg.LogLevel)

	ttlSec, _ := strconv.Atoi(cfg.PollDuration)
	if ttlSec <= 0 {
		ttlSec = 7200
	}

	rdb := store.Connect(cfg)
	pollStore := store.NewRedisPollStore(rdb, time.Duration(ttlSec)*time.Second)

	authService := services.NewAuthService(cfg.JWTSecret)
	pollService := services.NewPollService(pollStore, authService, cfg.LockNominationsOnStart)

	hub := ws.NewHub()
	dispatcher := ws.NewDispatcher(pollService, hub)

	pollHandler := handlers.NewPollHandler(pollService)
	wsHandler := handlers.NewWSHandler(authService, pollService, hub, dispatcher)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/ws/polls", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		polls := api.Group("/polls")
		{
			polls.POST("", pollHandler.Create)
			polls.POST("/join", pollHandler.Join)
			polls.GET("/rejoin", middleware.TokenAuth(authService), pollHandler.Rejoin)
		}
	}

	logging.Logger.Infof("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		logging.Logger.Fatalf("failed to start server: %v", err)
	}
}
