package bootstrap

import (
	"context"
	"log"

	"turbo-notes-be/internal/config"
	"turbo-notes-be/internal/controller"
	"turbo-notes-be/internal/pkg/logger"
	"turbo-notes-be/internal/pkg/mailer"
	"turbo-notes-be/internal/pkg/serverutils"
	"turbo-notes-be/internal/repository/memory"
	"turbo-notes-be/internal/repository/unitofwork"
	"turbo-notes-be/internal/service"
	pktNats "turbo-notes-be/pkg/nats"
	"turbo-notes-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const noteActivityTopic = "NOTE_ACTIVITY"

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	UserController     controller.IUserController
	CategoryController controller.ICategoryController
	NoteController     controller.INoteController
	GenerateController controller.IGenerateController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	secrets := config.NewEnvSecrets()

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis backs token revocation; without it the in-memory store takes over.
	var revocations store.RevocationStore
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-memory revocation store", err)
		revocations = memory.NewRevocationRepository()
	} else {
		revocations = store.NewRedisRevocationStore(rdb)
	}

	jwtMiddleware := serverutils.NewJwtMiddleware(revocations)

	// 3. Services
	publisherService := service.NewPublisherService(pubSub, noteActivityTopic)
	consumerService := service.NewConsumerService(pubSub, noteActivityTopic, uowFactory)

	authService := service.NewAuthService(uowFactory, emailService, natsPub, revocations)
	userService := service.NewUserService(uowFactory)
	categoryService := service.NewCategoryService(uowFactory)
	noteService := service.NewNoteService(uowFactory, publisherService)
	generationService := service.NewGenerationService(
		uowFactory,
		cfg,
		secrets,
		publisherService,
		natsPub,
		sysLogger,
	)

	// 4. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService, jwtMiddleware),
		UserController:     controller.NewUserController(userService, jwtMiddleware),
		CategoryController: controller.NewCategoryController(categoryService, jwtMiddleware),
		NoteController:     controller.NewNoteController(noteService, jwtMiddleware),
		GenerateController: controller.NewGenerateController(generationService, jwtMiddleware),

		ConsumerService: consumerService,
	}
}
