package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"eventmind/internal/ai"
	"eventmind/internal/app"
	"eventmind/internal/cache"
	"eventmind/internal/config"
	"eventmind/internal/model"
	mysqlClient "eventmind/internal/platform/mysql"
	rabbitmqClient "eventmind/internal/platform/rabbitmq"
	redisClient "eventmind/internal/platform/redis"
	"eventmind/internal/repository"
	"eventmind/internal/storage"
	"eventmind/internal/vectorindex"
	"eventmind/internal/worker"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	MySQL  *gorm.DB
	Redis  *redis.Client
	MQConn *amqp.Connection

	IngestService    *app.IngestService
	AnswerService    *app.AnswerService
	LifecycleService *app.LifecycleService

	UploadWorker *worker.UploadWorker
	SweepWorker  *worker.SweepWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("app", cfg.App.Name)

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(
		&model.User{},
		&model.Event{},
		&model.Participant{},
		&model.Asset{},
		&model.Story{},
		&model.Snap{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	objects, err := storage.New(ctx, cfg.Storage.Bucket, cfg.Storage.Region, cfg.Storage.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("init object store failed: %w", err)
	}

	aiClient := ai.NewClient(ai.Config{
		BaseURL:             cfg.LLM.BaseURL,
		APIKey:              cfg.LLM.APIKey,
		ChatModel:           cfg.LLM.ChatModel,
		EmbeddingModel:      cfg.LLM.EmbeddingModel,
		ImageEmbeddingModel: cfg.LLM.ImageEmbeddingModel,
		OCRModel:            cfg.LLM.OCRModel,
		Temperature:         cfg.LLM.Temperature,
		MaxTokens:           cfg.LLM.MaxTokens,
	})
	index := vectorindex.NewClient(cfg.Vector.BaseURL, cfg.Vector.APIKey)

	eventRepo := repository.NewEventRepository(mysqlDB)
	assetRepo := repository.NewAssetRepository(mysqlDB)
	participantRepo := repository.NewParticipantRepository(mysqlDB)
	storyRepo := repository.NewStoryRepository(mysqlDB)
	snapRepo := repository.NewSnapRepository(mysqlDB)
	userRepo := repository.NewUserRepository(mysqlDB)

	docNames := cache.NewDocNameCache(redisCli, time.Duration(cfg.Redis.DocNameTTLSeconds)*time.Second)

	ingestService := app.NewIngestService(
		objects,
		aiClient,
		aiClient,
		index,
		assetRepo,
		cfg.Knowledge.ChunkSize,
		cfg.Knowledge.ChunkOverlap,
		logger,
	)
	answerService := app.NewAnswerService(
		participantRepo,
		assetRepo,
		docNames,
		aiClient,
		index,
		aiClient,
		cfg.Knowledge.TopK,
		float32(cfg.Knowledge.MinScore),
		logger,
	)
	lifecycleService := app.NewLifecycleService(
		eventRepo,
		participantRepo,
		userRepo,
		assetRepo,
		snapRepo,
		storyRepo,
		index,
		objects,
		time.Duration(cfg.Lifecycle.GraceHours)*time.Hour,
		logger,
	)

	uploadWorker := worker.NewUploadWorker(mqConn, ingestService, cfg.RabbitMQ.UploadQueue, logger)
	if err := uploadWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start upload worker failed: %w", err)
	}

	sweepWorker := worker.NewSweepWorker(
		lifecycleService,
		time.Duration(cfg.Lifecycle.SweepIntervalHours)*time.Hour,
		logger,
	)
	sweepWorker.Start(ctx)

	return &App{
		Config:           cfg,
		Logger:           logger,
		MySQL:            mysqlDB,
		Redis:            redisCli,
		MQConn:           mqConn,
		IngestService:    ingestService,
		AnswerService:    answerService,
		LifecycleService: lifecycleService,
		UploadWorker:     uploadWorker,
		SweepWorker:      sweepWorker,
		StartedAt:        time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.SweepWorker != nil {
		a.SweepWorker.Close()
	}
	if a.UploadWorker != nil {
		a.UploadWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
