package main

import (
	"context"
	"flag"
	"net/http"

	"github.com/RichardoC/Tutor-i/internal/api"
	"github.com/RichardoC/Tutor-i/internal/config"
	"github.com/RichardoC/Tutor-i/internal/gemini"
	"github.com/RichardoC/Tutor-i/internal/session"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration",
			zap.Error(err),
			zap.String("configPath", *configPath))
	}

	// Initialize the Gemini gateway
	gateway, err := gemini.New(context.Background(), cfg.Gemini, logger)
	if err != nil {
		logger.Fatal("failed to initialize Gemini service", zap.Error(err))
	}

	// Session stores: everything is transient and in-memory
	chats := session.NewChatStore()
	quizzes := session.NewQuizStore()
	slides := session.NewSlideStore()

	// Initialize HTTP handler and routes
	handler := api.NewHandler(gateway, chats, quizzes, slides, logger)
	router := mux.NewRouter()
	handler.Register(router)

	// Serve static files
	router.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.WebDir)))

	logger.Info("Starting server", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
