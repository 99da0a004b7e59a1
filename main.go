package main

import (
	"log"

	api "inboxtriage-backend/cmd/api"
	authdomain "inboxtriage-backend/internal/auth/domain"
	authRepo "inboxtriage-backend/internal/auth/repository"
	authUsecase "inboxtriage-backend/internal/auth/usecase"
	emaildomain "inboxtriage-backend/internal/email/domain"
	emailRepo "inboxtriage-backend/internal/email/repository"
	emailUsecase "inboxtriage-backend/internal/email/usecase"
	"inboxtriage-backend/pkg/ai"
	"inboxtriage-backend/pkg/config"
	"inboxtriage-backend/pkg/database"
	"inboxtriage-backend/pkg/gmail"
	"inboxtriage-backend/pkg/imap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.GoogleCredential{}, &emaildomain.Email{}, &emaildomain.EmailSync{}, &emaildomain.MeetingNote{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	credRepo := authRepo.NewCredentialRepository(db)
	emailRepository := emailRepo.NewEmailRepository(db)
	syncRepo := emailRepo.NewEmailSyncRepository(db)
	noteRepo := emailRepo.NewMeetingNoteRepository(db)

	// Initialize mailbox source
	var mailbox emaildomain.MailboxSource
	switch cfg.MailProvider {
	case "imap":
		mailbox = imap.NewService()
	default:
		mailbox = gmail.NewService()
	}

	// Initialize completion service
	completion, err := ai.NewCompletionService(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		log.Fatal("Failed to initialize completion service:", err)
	}
	log.Printf("Completion service initialized with provider: %s", cfg.AIProvider)

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(credRepo, cfg)
	emailUsecaseInstance := emailUsecase.NewEmailUsecase(
		emailRepository,
		syncRepo,
		noteRepo,
		authRepo.NewCredentialProvider(credRepo),
		mailbox,
		completion,
		cfg.SyncFetchCap,
		cfg.CompletionTimeout,
	)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, emailUsecaseInstance, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
