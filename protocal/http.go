package protocal

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"llm-chat-bot/configs"
	httpAdapter "llm-chat-bot/internal/adapters/input/http"
	lineAdapter "llm-chat-bot/internal/adapters/output/line"
	"llm-chat-bot/internal/adapters/output/litellm"
	"llm-chat-bot/internal/adapters/output/memory"
	"llm-chat-bot/internal/adapters/output/postgres"
	"llm-chat-bot/internal/application"
	"llm-chat-bot/internal/domain"
	"llm-chat-bot/internal/ports/output"
	"llm-chat-bot/pkg/database_driver/gorm"

	swagger "github.com/arsmn/fiber-swagger/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

type config struct {
	ENV string `mapstructure:"env"`
}

// ServeHTTP func
func ServeHTTP() error {
	app := fiber.New()
	var cfg config
	flag.StringVar(&cfg.ENV, "env", "", "the environment to use")
	flag.Parse()
	configs.InitViper("./configs", cfg.ENV)
	conf := configs.GetViper()
	if conf.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.Info(conf.App.Env)
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept,Authorization",
	}))

	// Output adapter (session store)
	sessions, db, err := newSessionStore(conf)
	if err != nil {
		return err
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		for range c {
			log.Println("Gracefull shut down ...")
			if db != nil {
				gorm.DisconnectPostgres(db.Postgres)
			}
			err := app.Shutdown()
			if err != nil {
				log.Println("Error when shutdown server: ", err)
			}
		}
	}()

	// Wire up the hexagonal architecture layers
	// Output adapter (model gateway)
	gateway, err := litellm.NewLiteLLMClientAdapter(conf.LiteLLM)
	if err != nil {
		return err
	}
	// Application services (use cases)
	settings := application.NewModelSettingsStore(domain.ModelSettings{
		Model:       conf.LiteLLM.Model,
		Temperature: conf.LiteLLM.Temperature,
	})
	chain := application.NewMemoryChain(gateway, sessions, conf.Chat.Context)
	chatCommand := application.NewChatCommand(gateway, chain, settings, conf.Session.DefaultID)
	configCallback := application.NewConfigCallback(settings)
	catalog := application.NewModelCatalog(gateway, settings)
	// Input adapter (HTTP handler)
	var pinger httpAdapter.DatabasePinger
	if db != nil {
		pinger = db
	}
	hdl := httpAdapter.New(chatCommand, configCallback, catalog, pinger)

	// Wire up LINE hexagonal architecture
	// Output adapter (LINE client)
	lineClient, err := lineAdapter.NewLineClientAdapter(conf.Line.ChannelToken)
	if err != nil {
		logrus.Fatalf("Failed to create LINE client: %v", err)
	}
	// Application service (LINE webhook use case)
	lineWebhookSrv := application.NewLineWebhookService(lineClient, chatCommand, configCallback, conf.Line.ApprovedUsers).
		WithUserRateLimit(conf.Line.RateLimit, conf.Line.RateBurst)
	// Input adapter (LINE webhook handler)
	lineWebhookHdl := httpAdapter.NewLineWebhookHandler(lineWebhookSrv, conf.Line.ChannelSecret)
	app.Get("/swagger/*", swagger.HandlerDefault) // default
	app.Get("/health", hdl.HealthCheck)

	api := app.Group("/v1/api")
	{
		api.Post("/chat", hdl.Chat)
		api.Post("/chat/config", hdl.SubmitConfig)
		api.Get("/models", hdl.ListModels)
		api.Get("/models/info", hdl.GetModelInfo)
	}

	// LINE webhook endpoint
	webhook := app.Group("/webhook")
	{
		webhook.Post("/line", lineWebhookHdl.HandleWebhook)
	}

	logrus.Println("Listerning on port: ", conf.App.Port)
	return app.Listen(":" + conf.App.Port)
}

// newSessionStore selects the chat history driver. The database handle is nil for the memory driver.
func newSessionStore(conf *configs.Config) (output.SessionStore, *gorm.DB, error) {
	switch conf.Session.Driver {
	case "", configs.SessionDriverMemory:
		logrus.Info("Chat history is kept in memory")
		return memory.NewMemorySessionStore(), nil, nil

	case configs.SessionDriverPostgres:
		dbConGorm, err := gorm.ConnectToPostgreSQL(
			conf.Postgres.Host,
			conf.Postgres.Port,
			conf.Postgres.Username,
			conf.Postgres.Password,
			conf.Postgres.DbName,
			conf.Postgres.SSLMode,
		)
		if err != nil {
			return nil, nil, err
		}
		repo, err := postgres.NewSessionRepository(dbConGorm.Postgres)
		if err != nil {
			gorm.DisconnectPostgres(dbConGorm.Postgres)
			return nil, nil, err
		}
		return repo, dbConGorm, nil

	default:
		return nil, nil, fmt.Errorf("unknown session driver %q", conf.Session.Driver)
	}
}
