// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/mfigueroa/uno/internal/auth"
	"github.com/mfigueroa/uno/internal/cache"
	"github.com/mfigueroa/uno/internal/handlers"
	"github.com/mfigueroa/uno/internal/middleware"
)

func main() {
	auth.Init()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := cache.ConnectRedis(); err != nil {
		logger.Warnf("redis unavailable, action journal disabled: %v", err)
	}

	srv := handlers.NewServer(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handlers.HealthHandler)

	mux.Handle("/rooms/list", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.ListRoomsHandler(srv),
	)))

	// game websocket
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.WSHandler(logger, srv),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
