package bootstrap

import (
	"context"
	"log"
	"time"

	"machinaka-be/internal/config"
	"machinaka-be/internal/controller"
	"machinaka-be/internal/handler"
	"machinaka-be/internal/pkg/logger"
	"machinaka-be/internal/repository/contract"
	"machinaka-be/internal/repository/implementation"
	"machinaka-be/internal/repository/memory"
	"machinaka-be/internal/service"
	"machinaka-be/internal/websocket"

	pktNats "machinaka-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	EncounterController controller.IEncounterController
	UserController      controller.IUserController

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	NotificationService *service.NotificationService
	WebSocketHub        *websocket.Hub

	// Exposed for main.go shutdown
	Logger  logger.ILogger
	NatsPub *pktNats.Publisher
	NatsSub *pktNats.Subscriber
}

// NewContainer wires the whole application. db may be nil, in which case
// every repository runs in memory; NATS and Redis are optional the same way.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS (optional)
	var natsPub *pktNats.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		}
	}

	// Redis (optional, enables cross-instance websocket delivery)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	wsHub.Run()

	// Repositories
	var encounterRepo contract.EncounterRepository
	var userRepo contract.UserRepository
	presenceRepo := memory.NewPresenceRepository(
		time.Duration(cfg.Proximity.PresenceTTLSeconds) * time.Second,
	)
	if db != nil {
		if err := implementation.AutoMigrate(db); err != nil {
			log.Fatalf("[FATAL] Failed to migrate database: %v", err)
		}
		encounterRepo = implementation.NewEncounterRepository(db)
		userRepo = implementation.NewUserRepository(db)
	} else {
		log.Println("[INFO] No database configured, using in-memory repositories")
		encounterRepo = memory.NewEncounterRepository()
		userRepo = memory.NewUserRepository()
	}

	// Services
	var publisherService service.IPublisherService
	if natsPub != nil {
		publisherService = service.NewNatsPublisherService(natsPub)
	} else {
		publisherService = service.NewLocalPublisherService(pubSub)
	}

	encounterService := service.NewEncounterService(
		service.EncounterConfig{
			ProximityThresholdMeters: cfg.Proximity.ThresholdMeters,
			HistoryMaxLimit:          cfg.Proximity.HistoryMaxLimit,
		},
		presenceRepo,
		encounterRepo,
		publisherService,
		sysLogger,
	)
	userService := service.NewUserService(userRepo, sysLogger)

	notifService := service.NewNotificationService(wsHub, wsLogger)
	if natsSub != nil {
		if err := notifService.StartNats(natsSub); err != nil {
			log.Printf("[WARN] Failed to start NATS notification consumer: %v", err)
		}
	} else {
		if err := notifService.StartLocal(context.Background(), pubSub); err != nil {
			log.Printf("[WARN] Failed to start local notification consumer: %v", err)
		}
	}

	return &Container{
		EncounterController: controller.NewEncounterController(encounterService),
		UserController:      controller.NewUserController(userService),
		NotificationHandler: handler.NewNotificationHandler(wsHub, wsLogger),
		NotificationService: notifService,
		WebSocketHub:        wsHub,
		Logger:              sysLogger,
		NatsPub:             natsPub,
		NatsSub:             natsSub,
	}
}
