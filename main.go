package main

import (
	"log"

	api "github.com/Chitresh-code/doc-sign/cmd/api"
	authdomain "github.com/Chitresh-code/doc-sign/internal/auth/domain"
	authRepo "github.com/Chitresh-code/doc-sign/internal/auth/repository"
	authUsecase "github.com/Chitresh-code/doc-sign/internal/auth/usecase"
	docdomain "github.com/Chitresh-code/doc-sign/internal/document/domain"
	docRepo "github.com/Chitresh-code/doc-sign/internal/document/repository"
	docUsecase "github.com/Chitresh-code/doc-sign/internal/document/usecase"
	sigdomain "github.com/Chitresh-code/doc-sign/internal/signature/domain"
	sigRepo "github.com/Chitresh-code/doc-sign/internal/signature/repository"
	sigUsecase "github.com/Chitresh-code/doc-sign/internal/signature/usecase"
	sumdomain "github.com/Chitresh-code/doc-sign/internal/summary/domain"
	sumRepo "github.com/Chitresh-code/doc-sign/internal/summary/repository"
	sumUsecase "github.com/Chitresh-code/doc-sign/internal/summary/usecase"
	"github.com/Chitresh-code/doc-sign/pkg/ai"
	"github.com/Chitresh-code/doc-sign/pkg/blob"
	"github.com/Chitresh-code/doc-sign/pkg/config"
	"github.com/Chitresh-code/doc-sign/pkg/database"
	"github.com/Chitresh-code/doc-sign/pkg/fieldcrypt"
	"github.com/Chitresh-code/doc-sign/pkg/mailer"
	"github.com/Chitresh-code/doc-sign/pkg/render"
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
	if err := db.AutoMigrate(&authdomain.User{}, &docdomain.GeneratedDocument{}, &sigdomain.SignedDocument{}, &sumdomain.DocumentSummary{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Field cipher; the key is process-wide and loaded once
	if cfg.FernetKey == "" {
		log.Fatal("FERNET_KEY is required")
	}
	cipher, err := fieldcrypt.New(cfg.FernetKey)
	if err != nil {
		log.Fatal("Failed to initialize field cipher:", err)
	}

	// Template and PDF renderer
	renderer, err := render.New(cfg.TemplateDir)
	if err != nil {
		log.Fatal("Failed to load document templates:", err)
	}

	// Blob store for PDF/HTML artifacts
	blobStore, err := blob.NewFileStore(cfg.MediaRoot)
	if err != nil {
		log.Fatal("Failed to initialize blob store:", err)
	}

	// AI service
	if cfg.GeminiApiKey == "" {
		log.Printf("[WARN] GEMINI_API_KEY not set, document generation and summarization will fail")
	}
	aiService := ai.NewGeminiService(cfg.GeminiApiKey)

	// Outbound email
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	documentRepository := docRepo.NewDocumentRepository(db)
	signedRepository := sigRepo.NewSignedDocumentRepository(db)
	summaryRepository := sumRepo.NewSummaryRepository(db)

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepository, cfg)
	documentUsecaseInstance := docUsecase.NewDocumentUsecase(
		documentRepository,
		authUsecaseInstance,
		authUsecaseInstance,
		aiService,
		renderer,
		blobStore,
		smtpMailer,
		cipher,
		cfg.FrontendURL,
	)
	signatureUsecaseInstance := sigUsecase.NewSignatureUsecase(
		documentRepository,
		signedRepository,
		cipher,
		renderer,
		blobStore,
		smtpMailer,
	)
	summaryUsecaseInstance := sumUsecase.NewSummaryUsecase(
		documentRepository,
		summaryRepository,
		aiService,
		blobStore,
		cipher,
	)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, documentUsecaseInstance, signatureUsecaseInstance, summaryUsecaseInstance)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
