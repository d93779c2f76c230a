// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/lightchat/lightchat/internal/config"
	"github.com/lightchat/lightchat/internal/domain"
	"github.com/lightchat/lightchat/internal/handlers"
	"github.com/lightchat/lightchat/internal/middleware"
	chatrepo "github.com/lightchat/lightchat/internal/repository/chat"
	messagerepo "github.com/lightchat/lightchat/internal/repository/message"
	"github.com/lightchat/lightchat/internal/services"
	"github.com/lightchat/lightchat/internal/services/chatting"
	"github.com/lightchat/lightchat/internal/services/llm"
	"github.com/lightchat/lightchat/internal/services/sse"
	"github.com/lightchat/lightchat/internal/services/webpage"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("lightchat")

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}
	if err := db.AutoMigrate(&domain.Chat{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	chatRepo := chatrepo.NewChatRepository(db)
	messageRepo := messagerepo.NewMessageRepository(db)

	// --- Adapters ---
	assembler := llm.NewAssembler(logger)

	var adapters []llm.ChattingAdapter
	if cfg.OpenAIAPIKey != "" {
		openAIConfig := llm.DefaultOpenAIConfig()
		openAIConfig.APIKey = cfg.OpenAIAPIKey
		openAIConfig.Domain = cfg.OpenAIDomain
		if err := openAIConfig.Validate(); err != nil {
			log.Fatalf("FATAL: OpenAI configuration: %v", err)
		}
		adapters = append(adapters, llm.NewOpenAIAdapter(openAIConfig, assembler, logger))
	}
	if cfg.AnthropicAPIKey != "" {
		anthropicConfig := llm.DefaultAnthropicConfig()
		anthropicConfig.APIKey = cfg.AnthropicAPIKey
		anthropicConfig.Domain = cfg.AnthropicDomain
		if err := anthropicConfig.Validate(); err != nil {
			log.Fatalf("FATAL: Anthropic configuration: %v", err)
		}
		streamClient := sse.NewClient(sse.DefaultConfig(), logger)
		adapters = append(adapters, llm.NewAnthropicAdapter(anthropicConfig, streamClient, assembler, logger))
	}
	if len(adapters) == 0 {
		log.Fatalf("FATAL: no vendor API key configured")
	}
	registry := llm.NewRegistry(adapters...)

	// --- Services ---
	fetcher := webpage.NewFetcher(webpage.DefaultConfig(), logger)
	chattingService, err := chatting.NewService(
		chatting.DefaultConfig(), registry, chatRepo, messageRepo, fetcher, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Chatting Service: %v", err)
	}

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(cfg)
	chatHandler := handlers.NewChatHandler(chatRepo, messageRepo, chattingService)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(cfg.JWTSecretKey)

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("OK")) }).Methods("GET")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/logout", authHandler.Logout).Methods("GET")

	// --- Protected API Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/models", chatHandler.ListModels).Methods("GET")
	api.HandleFunc("/settings/validate", chatHandler.ValidateSettings).Methods("POST")
	api.HandleFunc("/chats", chatHandler.GetUserChats).Methods("GET")
	api.HandleFunc("/chats", chatHandler.CreateChat).Methods("POST")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.DeleteChat).Methods("DELETE")
	api.HandleFunc("/chats/{id:[0-9]+}/messages", chatHandler.GetChatMessages).Methods("GET")
	api.HandleFunc("/chats/{id:[0-9]+}/messages", chatHandler.SendMessage).Methods("POST")
	api.HandleFunc("/chats/{id:[0-9]+}/stream", chatHandler.StreamMessage).Methods("POST")
	api.HandleFunc("/messages/{id:[0-9]+}/resend", chatHandler.ResendMessage).Methods("POST")

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
		// No WriteTimeout: SSE relays hold the response open.
		ReadTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
}
