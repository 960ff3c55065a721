package app

import (
	"context"
	"fmt"

	"brecha/internal/catalog"
	"brecha/internal/config"
	"brecha/internal/costtracker"
	"brecha/internal/services"
	"brecha/pkg/categorizer"

	log "github.com/sirupsen/logrus"
)

// Version is reported by the root endpoint and the CLI.
const Version = "1.0.0"

type App struct {
	Config            *config.Config
	Catalog           *catalog.Catalog
	CostTracker       costtracker.CostTracker
	CompletionService services.CompletionService // nil for catalog-only apps
	Classifier        categorizer.Classifier     // nil for catalog-only apps
}

// NewApp builds everything needed to classify titles: catalog, cost tracker,
// completion provider and classifier.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app, err := NewCatalogApp(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := app.initCompletionService(ctx); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	app.initClassifier()

	log.Info("Application initialization complete.")
	return app, nil
}

// NewCatalogApp loads only the catalog and cost tracker. It makes no remote calls
// and needs no LLM credentials.
func NewCatalogApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}
	if err := app.initCatalog(ctx); err != nil {
		return nil, err
	}
	app.initCostTracker()
	return app, nil
}

// newAppWith wires a classifier around an existing completion service.
func newAppWith(cfg *config.Config, cat *catalog.Catalog, completion services.CompletionService) *App {
	app := &App{Config: cfg, Catalog: cat, CompletionService: completion}
	app.initCostTracker()
	app.initClassifier()
	return app
}

// --- Private Helper Methods ---

func (a *App) initCatalog(ctx context.Context) error {
	cfg := a.Config
	path, err := config.ResolveCatalogPath(cfg.Catalog.Source)
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}

	cat, err := catalog.Load(ctx, catalog.Source{
		Path:   path,
		Driver: cfg.Catalog.Driver,
		DSN:    cfg.Catalog.DSN,
		Table:  cfg.Catalog.Table,
	})
	if err != nil {
		return fmt.Errorf("init catalog: %w", err)
	}
	a.Catalog = cat
	return nil
}

func (a *App) initCostTracker() {
	pricing := make(map[string]costtracker.Price, len(a.Config.Pricing))
	for model, p := range a.Config.Pricing {
		pricing[model] = costtracker.Price{InputPerToken: p.InputPerToken, OutputPerToken: p.OutputPerToken}
	}
	a.CostTracker = costtracker.New(pricing)
}

func (a *App) initCompletionService(ctx context.Context) error {
	completer, err := services.NewCompletionService(ctx, a.Config, a.CostTracker)
	if err != nil {
		return fmt.Errorf("init completion service: %w", err)
	}
	a.CompletionService = completer
	return nil
}

func (a *App) initClassifier() {
	cfg := a.Config
	a.Classifier = categorizer.NewLLMCategorizer(
		a.CompletionService,
		a.Catalog,
		categorizer.WithRetryPolicy(categorizer.RetryPolicy{
			MaxAttempts: cfg.LLM.MaxRetries,
			Delay:       cfg.RetryDelay(),
		}),
		categorizer.WithLabelValidation(cfg.LLM.ValidateLabels),
	)
}

// Close releases provider resources and logs the accumulated model cost.
func (a *App) Close() error {
	if a.CostTracker != nil {
		if total, err := a.CostTracker.TotalCost(context.Background()); err == nil && total > 0 {
			log.Infof("Total model cost this run: $%.6f", total)
		}
	}
	if a.CompletionService != nil {
		return a.CompletionService.Close()
	}
	return nil
}

func (a *App) cleanupPartialInit() {
	if a.CompletionService != nil {
		if err := a.CompletionService.Close(); err != nil {
			log.Errorf("Error closing CompletionService: %v", err)
		}
	}
}
