package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/danabekov/huddle/internal/config"
	"github.com/danabekov/huddle/internal/database"
	"github.com/danabekov/huddle/internal/handlers"
	"github.com/danabekov/huddle/internal/jobs"
	"github.com/danabekov/huddle/internal/repository"
	cron "github.com/danabekov/huddle/internal/scheduler"
	"github.com/danabekov/huddle/internal/services"
	"github.com/danabekov/huddle/internal/storage"
	"github.com/danabekov/huddle/pkg/logger"
	"github.com/danabekov/huddle/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	store := storage.NewMongoStore(db)

	// --- Repositories ---
	inviteRepo := repository.NewInviteRepository(store)
	friendRepo := repository.NewFriendRepository(store)
	updateRepo := repository.NewUpdateRepository(store)
	conversationRepo := repository.NewConversationRepository(store)

	// --- Services ---
	inviteService := services.NewInviteService(inviteRepo, friendRepo, updateRepo, cfg.InviteBaseURL)
	friendService := services.NewFriendService(friendRepo, updateRepo)
	inboxService := services.NewInboxService(updateRepo)
	conversationService := services.NewConversationService(conversationRepo)

	// --- Handlers ---
	inviteHandler := handlers.NewInviteHandler(inviteService)
	friendHandler := handlers.NewFriendHandler(friendService)
	inboxHandler := handlers.NewInboxHandler(inboxService)
	conversationHandler := handlers.NewConversationHandler(conversationService)
	eventHandler := handlers.NewEventHandler(updateRepo)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Invite routes
	router.HandleFunc("/invites", inviteHandler.CreateInviteHandler).Methods("POST")
	router.HandleFunc("/invites/{token}", inviteHandler.ValidateInviteHandler).Methods("GET")
	router.HandleFunc("/invites/{token}/open", inviteHandler.OpenInviteHandler).Methods("POST")

	// Friend routes
	router.HandleFunc("/friends/request", friendHandler.SendFriendRequestHandler).Methods("POST")
	router.HandleFunc("/friends/requests", friendHandler.GetPendingRequestsHandler).Methods("GET")
	router.HandleFunc("/friends/requests/{id}/respond", friendHandler.RespondToFriendRequestHandler).Methods("POST")

	// Inbox routes
	router.HandleFunc("/inbox", inboxHandler.GetInboxHandler).Methods("GET")
	router.HandleFunc("/inbox/count", inboxHandler.GetBadgeCountHandler).Methods("GET")
	router.HandleFunc("/inbox/{id}/resolve", inboxHandler.ResolveUpdateHandler).Methods("POST")

	// Activity update routes
	router.HandleFunc("/events/{id}/updates", eventHandler.EmitUpdateHandler).Methods("POST")
	router.HandleFunc("/events/{id}/view", inboxHandler.ViewEventHandler).Methods("POST")
	router.HandleFunc("/events/{id}/chat/open", inboxHandler.OpenEventChatHandler).Methods("POST")

	// Conversation routes
	router.HandleFunc("/conversations", conversationHandler.GetConversationsHandler).Methods("GET")
	router.HandleFunc("/conversations/{userId}", conversationHandler.OpenConversationHandler).Methods("GET")
	router.HandleFunc("/conversations/{userId}/messages", conversationHandler.SendMessageHandler).Methods("POST")

	// Apply middleware for logging and the trusted-caller identity headers
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.IdentityMiddleware)

	// Invite expiry sweep, only when a TTL is configured
	if cfg.InviteTTLHours > 0 {
		expirer := jobs.NewInviteExpirer(inviteRepo, time.Duration(cfg.InviteTTLHours)*time.Hour)
		cron.StartInviteCronJobs(expirer)
	}

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Content-Type", "X-User-ID", "X-User-Name"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
