// Package di wires the full process dependency graph. It is a
// hand-written constructor in the same spirit as the teacher's
// internal/di/container.go: the graph is wired by hand in this file;
// there are no google/wire provider sets or generated code beside it.
package di

import (
	"context"
	"fmt"

	appevents "ontologykg/application/events"
	"ontologykg/application/ports"
	"ontologykg/application/sagas"
	appservices "ontologykg/application/services"
	"ontologykg/domain/services"
	"ontologykg/infrastructure/blobstore"
	"ontologykg/infrastructure/config"
	"ontologykg/infrastructure/embedding"
	"ontologykg/infrastructure/jobqueue"
	"ontologykg/infrastructure/llm"
	"ontologykg/infrastructure/logging"
	"ontologykg/infrastructure/messaging/eventbridge"
	"ontologykg/infrastructure/persistence/postgres"
	"ontologykg/infrastructure/scheduler"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	awsEventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Container holds every long-lived dependency the worker process needs,
// constructed once at startup in the order each layer requires the one
// beneath it.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Pool  *postgres.Pool
	Store *postgres.Store // satisfies ports.Store (GraphStore + RelationalStore)

	Redis    *redis.Client
	JobQueue *jobqueue.Queue

	Embedding *embedding.Profile
	LLM       ports.LLMProvider

	EventPublisher ports.EventPublisher
	BlobStore      ports.BlobStore

	Registry *appevents.HandlerRegistry

	Vocabulary         *appservices.VocabularyService
	Ingestion          *appservices.IngestionService
	Grounding          *appservices.GroundingService
	Epistemic          *appservices.EpistemicService
	Breathing          *appservices.BreathingService
	AnnealingExecution *appservices.AnnealingExecutionService

	IngestionSaga *sagas.IngestionSaga

	OptionsWatcher *scheduler.OptionsWatcher
	Scheduler      *scheduler.Loop

	shutdownFuncs []func()
}

// NewContainer builds the full dependency graph against cfg. Call
// Shutdown when the process is ready to exit.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	logger, err := logging.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	c.Logger = logger

	if err := c.initPersistence(ctx); err != nil {
		return nil, err
	}
	if err := c.initJobQueue(); err != nil {
		return nil, err
	}
	if err := c.initEmbedding(ctx); err != nil {
		return nil, err
	}
	if err := c.initLLM(); err != nil {
		return nil, err
	}
	if err := c.initExternalAdapters(ctx); err != nil {
		return nil, err
	}
	c.initEventRegistry()
	c.initApplicationServices()
	if err := c.initScheduler(); err != nil {
		return nil, err
	}

	logger.Info("container initialized", zap.String("environment", cfg.Environment))
	return c, nil
}

func (c *Container) initPersistence(ctx context.Context) error {
	pool, err := postgres.Open(ctx, c.Config.PostgresDSN, c.Config.PostgresMaxConn, c.Logger)
	if err != nil {
		return fmt.Errorf("opening postgres pool: %w", err)
	}
	c.Pool = pool
	c.shutdownFuncs = append(c.shutdownFuncs, pool.Close)

	if err := postgres.Migrate(pool.SQLX.DB); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	c.Store = postgres.New(pool, c.Logger)
	return nil
}

func (c *Container) initJobQueue() error {
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.RedisAddr,
		Password: c.Config.RedisPassword,
		DB:       c.Config.RedisDB,
	})
	c.shutdownFuncs = append(c.shutdownFuncs, func() { _ = c.Redis.Close() })
	c.JobQueue = jobqueue.New(c.Redis, c.Logger)
	return nil
}

func (c *Container) initEmbedding(ctx context.Context) error {
	var svc ports.EmbeddingService
	ec := c.Config.Embedding
	switch ec.Profile {
	case "remote":
		svc = embedding.NewRemote(ec.Endpoint, ec.APIKey, ec.Model, ec.Dimensions)
	default:
		svc = embedding.NewLocal(ec.Model, ec.Dimensions, c.Config.EmbeddingQueueDepth, c.Logger)
	}
	c.Embedding = embedding.NewProfile(svc, c.Store, c.Logger)

	if err := embedding.SeedBuiltinVocabTypes(ctx, c.Store, c.Embedding, c.Logger); err != nil {
		return fmt.Errorf("seeding builtin vocabulary types: %w", err)
	}
	return nil
}

func (c *Container) initLLM() error {
	provider, err := llm.New(c.Config.LLM)
	if err != nil {
		return fmt.Errorf("selecting llm provider: %w", err)
	}
	c.LLM = provider
	return nil
}

func (c *Container) initExternalAdapters(ctx context.Context) error {
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(c.Config.AWSRegion))
	if err != nil {
		return fmt.Errorf("loading aws config: %w", err)
	}
	c.EventPublisher = eventbridge.NewPublisher(awsEventbridge.NewFromConfig(awsCfg), c.Config.EventBusName, c.Logger)

	if c.Config.SupabaseURL != "" {
		c.BlobStore = blobstore.NewSupabase(c.Config.SupabaseURL, c.Config.SupabaseKey, c.Config.SupabaseBucket)
	}
	return nil
}

func (c *Container) initEventRegistry() {
	registry := appevents.NewHandlerRegistry(c.Logger)

	publisherHandler := appevents.NewExternalPublisherHandler(c.EventPublisher)
	if err := registry.Register(publisherHandler.SupportedEvents(), publisherHandler); err != nil {
		c.Logger.Error("registering external publisher handler", zap.Error(err))
	}

	statsProjection := appevents.NewVocabStatsProjection()
	if err := registry.Register(statsProjection.SupportedEvents(), statsProjection); err != nil {
		c.Logger.Error("registering vocab stats projection", zap.Error(err))
	}

	c.Registry = registry
}

func (c *Container) initApplicationServices() {
	c.Vocabulary = appservices.NewVocabularyService(c.Store, c.Embedding, c.Registry, c.Logger)
	c.Ingestion = appservices.NewIngestionService(c.Store, c.Embedding, c.Vocabulary, c.Registry, c.Logger)
	c.Grounding = appservices.NewGroundingService(c.Store)
	c.Epistemic = appservices.NewEpistemicService(c.Store, c.Grounding, c.Registry, c.Logger)
	c.Breathing = appservices.NewBreathingService(c.Store, c.Grounding, c.LLM, c.JobQueue, c.Registry, c.Logger)
	c.AnnealingExecution = appservices.NewAnnealingExecutionService(c.Store, c.Registry, c.Logger)

	c.IngestionSaga = sagas.NewIngestionSaga(c.Store, c.LLM, c.Ingestion, c.Registry, services.DefaultChunkConfig, c.Logger)
}

func (c *Container) initScheduler() error {
	fallback := scheduler.BreathingOptions{
		Mode:             c.Config.Breathing.Mode,
		IntervalEpochs:   c.Config.Breathing.IntervalEpochs,
		StaleEpochWindow: c.Config.Breathing.StaleEpochWindow,
	}
	watcher, err := scheduler.NewOptionsWatcher(c.Config.BreathingOptionsFile, fallback, c.Logger)
	if err != nil {
		return fmt.Errorf("starting breathing options watcher: %w", err)
	}
	watcher.Start()
	c.OptionsWatcher = watcher
	c.shutdownFuncs = append(c.shutdownFuncs, watcher.Stop)

	loop := scheduler.NewLoop(c.Logger, c.Config.JobQueueMaxRetries)

	categoryRefresh := scheduler.NewCategoryRefresh(c.Store, c.JobQueue)
	epistemicRemeasurement := scheduler.NewEpistemicRemeasurement(c.Store, c.JobQueue, scheduler.DefaultVocabularyChangeThreshold)
	breathing := scheduler.NewBreathing(c.Store, c.JobQueue, watcher, c.Config.DefaultOntology)

	c.JobQueue.RegisterHandler(scheduler.NewCategoryRefreshHandler(c.Vocabulary))
	c.JobQueue.RegisterHandler(scheduler.NewEpistemicRemeasurementHandler(c.Epistemic))
	c.JobQueue.RegisterHandler(scheduler.NewBreathingHandler(c.Breathing))
	c.JobQueue.RegisterHandler(scheduler.NewAnnealingExecutionHandler(c.AnnealingExecution))
	c.JobQueue.RegisterHandler(sagas.NewIngestionHandler(c.IngestionSaga, c.BlobStore))

	for _, launcher := range []ports.Launcher{categoryRefresh, epistemicRemeasurement, breathing} {
		if err := loop.Register(launcher); err != nil {
			return fmt.Errorf("registering launcher %s: %w", launcher.JobType(), err)
		}
	}
	c.Scheduler = loop
	return nil
}

// Shutdown releases every resource the container opened, in reverse
// acquisition order.
func (c *Container) Shutdown(ctx context.Context) {
	for i := len(c.shutdownFuncs) - 1; i >= 0; i-- {
		c.shutdownFuncs[i]()
	}
}
