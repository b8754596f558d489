package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"marketly/internal/adapter/api"
	"marketly/internal/adapter/api/handler"
	apimiddleware "marketly/internal/adapter/api/middleware"
	"marketly/internal/adapter/api/router"
	"marketly/internal/adapter/repository"
	"marketly/internal/domain/service"
	"marketly/internal/infrastructure/firebase"
	"marketly/internal/infrastructure/ratelimit"
	"marketly/internal/infrastructure/storage"
	"marketly/internal/infrastructure/websocket"
	"marketly/internal/infrastructure/worker"
	"marketly/internal/usecase"
	"marketly/pkg/config"
	"marketly/pkg/logger"
)

const (
	taskTimeout     = 30 * time.Second
	shutdownTimeout = 15 * time.Second
)

func credentials(cfg *config.Config) option.ClientOption {
	if cfg.FirebaseServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON))
	}

	path := cfg.FirebaseServiceAccountPath
	if path == "" {
		path = "./firebase-service-account.json"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Fatalf("Service account file does not exist: %s", path)
	}

	logger.Info("Using Firebase service account from file: %s", path)
	return option.WithCredentialsFile(path)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opt := credentials(cfg)

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject, StorageBucket: cfg.StorageBucket}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	messagingClient, err := firebaseApp.Messaging(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Messaging: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	// Optional integrations stay nil interfaces when unconfigured; use cases
	// degrade or report them as unavailable.
	var uploader service.FileUploadService
	if cfg.StorageBucket != "" {
		storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opt)
		if err != nil {
			log.Fatalf("Failed to initialize Cloud Storage: %v", err)
		}
		defer storageClient.Close()
		uploader = storageClient
	}

	var ai service.AIService
	if cfg.GeminiAPIKey != "" {
		gemini, err := service.NewGeminiAIService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini: %v", err)
		}
		defer gemini.Close()
		ai = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, photo analysis and translation are disabled")
	}

	var index service.SearchIndexService
	if cfg.AlgoliaAppID != "" && cfg.AlgoliaAPIKey != "" {
		index = service.NewAlgoliaSearchService(cfg.AlgoliaAppID, cfg.AlgoliaAPIKey, cfg.AlgoliaIndex, cfg.AlgoliaWritesEnabled)
	} else {
		logger.Info("Search index not configured, using title prefix search")
	}

	var places service.PlacesService
	if cfg.PlacesAPIKey != "" {
		placesClient, err := service.NewGooglePlacesService(ctx, cfg.PlacesAPIKey, cfg.PlacesRegion)
		if err != nil {
			log.Fatalf("Failed to initialize Places: %v", err)
		}
		defer placesClient.Close()
		places = placesClient
	}

	push := service.NewFCMPushService(messagingClient)

	convRepo := repository.NewFirestoreConversationRepository(firestoreClient)
	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	wishlistRepo := repository.NewFirestoreWishlistRepository(firestoreClient)
	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	reviewRepo := repository.NewFirestoreReviewRepository(firestoreClient)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient)
	searchLogRepo := repository.NewFirestoreSearchLogRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)

	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize, taskTimeout)

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine(10*time.Minute, ctx.Done())

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, userRepo, push)
	estimator := usecase.NewResponseTimeEstimator(userRepo)
	userUseCase := usecase.NewUserUseCase(userRepo, firebaseAuthClient)
	listingUseCase := usecase.NewListingUseCase(listingRepo, wishlistRepo, userRepo, notificationUseCase, index, pool, cfg.HotThreshold)
	wishlistUseCase := usecase.NewWishlistUseCase(wishlistRepo, listingRepo, listingUseCase, pool)
	searchUseCase := usecase.NewSearchUseCase(listingRepo, searchLogRepo, index, pool)
	conversationUseCase := usecase.NewConversationUseCase(
		convRepo,
		listingRepo,
		estimator,
		notificationUseCase,
		ai,
		uploader,
		wsManager,
		limiter,
		pool,
		cfg.MessagePageSize,
	)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, convRepo, notificationUseCase, pool)
	aiUseCase := usecase.NewAIUseCase(ai, limiter)
	placesUseCase := usecase.NewPlacesUseCase(places)
	notifier := usecase.NewNotifier(convRepo, notificationRepo, wsManager)

	handlers := &router.Handlers{
		Health:       handler.NewHealthHandler(wsManager.OnlineCount),
		Listing:      handler.NewListingHandler(listingUseCase, wishlistUseCase),
		Search:       handler.NewSearchHandler(searchUseCase),
		Wishlist:     handler.NewWishlistHandler(wishlistUseCase),
		Conversation: handler.NewConversationHandler(conversationUseCase),
		File:         handler.NewFileHandler(uploader),
		User:         handler.NewUserHandler(userUseCase),
		Review:       handler.NewReviewHandler(reviewUseCase),
		Notification: handler.NewNotificationHandler(notificationUseCase),
		AI:           handler.NewAIHandler(aiUseCase),
		Places:       handler.NewPlacesHandler(placesUseCase),
		WebSocket: handler.NewWebSocketHandler(
			wsManager,
			conversationUseCase,
			placesUseCase,
			notifier,
			limiter,
			time.Duration(cfg.AutocompleteDebounceMs)*time.Millisecond,
		),
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(firebaseAuthClient)
	router.Setup(e, handlers, authMiddleware, limiter)

	go func() {
		logger.Info("Server starting on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown: %v", err)
	}
	notifier.StopAll()
	if err := pool.Shutdown(shutdownCtx); err != nil {
		logger.Error("Worker pool shutdown: %v", err)
	}
}
