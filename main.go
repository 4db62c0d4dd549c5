package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v9"

	"github.com/dskvich/phone-shop-assistant/pkg/api"
	"github.com/dskvich/phone-shop-assistant/pkg/catalog"
	"github.com/dskvich/phone-shop-assistant/pkg/logger"
	"github.com/dskvich/phone-shop-assistant/pkg/openai"
	"github.com/dskvich/phone-shop-assistant/pkg/services"
	"github.com/dskvich/phone-shop-assistant/pkg/tools"
	"github.com/dskvich/phone-shop-assistant/pkg/workers"
)

type Config struct {
	OpenAIToken string `env:"OPEN_AI_TOKEN,required"`
	OpenAIModel string `env:"OPEN_AI_MODEL" envDefault:"gpt-4o-mini"`
	Port        string `env:"PORT" envDefault:"8080"`
	PhonesFile  string `env:"PHONES_FILE" envDefault:"data/phones.json"`
	TermsFile   string `env:"TERMS_FILE" envDefault:"data/terms.json"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	workerGroup, err := setupWorkers()
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return workerGroup.Start(ctx)
}

func setupWorkers() (workers.Group, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	// Catalog load failure is fatal: the process must not serve without it.
	store, err := catalog.NewStore(cfg.PhonesFile, cfg.TermsFile)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	searchTool := tools.NewSearchPhones(store)
	compareTool := tools.NewComparePhones(store)
	detailsTool := tools.NewPhoneDetails(store)
	termTool := tools.NewExplainTerm(store)

	toolService, err := services.NewToolService([]services.ToolFunction{
		searchTool,
		compareTool,
		detailsTool,
		termTool,
	})
	if err != nil {
		return nil, fmt.Errorf("creating tool service: %w", err)
	}

	openAIClient, err := openai.NewClient(cfg.OpenAIToken, cfg.OpenAIModel, []openai.ToolFunction{
		searchTool,
		compareTool,
		detailsTool,
		termTool,
	})
	if err != nil {
		return nil, fmt.Errorf("creating open ai client: %w", err)
	}

	chatService := services.NewChatService(services.NewSafetyService(), func() *services.DialogueManager {
		return services.NewDialogueManager(services.SystemPrompt, openAIClient, toolService)
	})

	handlers := api.NewHandlers(chatService, store)

	var workerGroup workers.Group

	worker, err := workers.NewHTTPServer(":"+cfg.Port, api.NewRouter(handlers))
	if err != nil {
		return nil, fmt.Errorf("creating http server: %w", err)
	}
	workerGroup = append(workerGroup, worker)

	return workerGroup, nil
}
