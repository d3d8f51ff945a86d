// Command labelgen runs the full label batch: it expands the SKU brief into
// the region/flavor/attribute/label grid, generates each label image against
// the diffusion endpoint, verifies compliance via OCR, and uploads compliant
// artifacts to S3.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/wudi/labelkit/brand"
	"github.com/wudi/labelkit/compliance"
	"github.com/wudi/labelkit/config"
	"github.com/wudi/labelkit/generate"
	"github.com/wudi/labelkit/match"
	"github.com/wudi/labelkit/observability"
	"github.com/wudi/labelkit/ocr"
	"github.com/wudi/labelkit/pipeline"
	"github.com/wudi/labelkit/prompt"
	"github.com/wudi/labelkit/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "labelgen: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(slogger)
	logger := observability.NewSlogLogger(slogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	brief, err := brand.LoadSKUBrief(cfg.SKUBriefPath)
	if err != nil {
		return err
	}
	units := pipeline.Units(brief)
	if len(units) == 0 {
		return fmt.Errorf("sku brief %s expands to zero units", cfg.SKUBriefPath)
	}
	logger.Info("batch planned",
		observability.Int("units", len(units)),
		observability.Int("regions", len(brief.TargetRegions)),
		observability.Int("flavors", len(brief.Flavors)),
		observability.Int("attributes", len(brief.Attributes)))

	matcher := match.NewMatcher(newScorer(cfg, logger), logger)
	matcher.SimilarityThreshold = cfg.SimilarityThreshold
	matcher.SemanticThreshold = cfg.SemanticThreshold

	extractor := ocr.NewExtractor(ocr.NewTesseractEngine(), logger)
	validator := compliance.NewValidator(&compliance.OCRTextSource{
		Extractor: extractor,
		Languages: cfg.OCRLanguages,
	}, matcher, logger)

	generator, err := generate.NewClient(generate.Options{
		URL:    cfg.DiffusionURL,
		APIKey: cfg.DiffusionAPIKey,
	})
	if err != nil {
		return err
	}

	var uploader storage.Uploader
	if cfg.UploadEnabled {
		uploader = storage.NewS3Uploader(storage.Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			EndpointURL:     cfg.S3EndpointURL,
		}, logger)
	} else {
		logger.Info("uploads disabled; artifacts stay local",
			observability.String("output_dir", cfg.OutputDir))
	}

	runner := &pipeline.Runner{
		Prompts:     prompt.Renderer{Audience: brief.TargetAudience},
		Generator:   generator,
		Validator:   validator,
		Uploader:    uploader,
		OutputDir:   cfg.OutputDir,
		S3OutputDir: cfg.S3OutputDir,
		Logger:      logger,
	}

	results, summary := runner.RunBatch(ctx, brief)
	for _, res := range results {
		if res.Err != nil {
			logger.Error("unit failed",
				observability.String("unit", res.Unit.String()),
				observability.Error("err", res.Err))
		}
	}

	if summary.Failed == summary.Total {
		return errors.New("every unit in the batch failed")
	}
	return nil
}

// newScorer probes the configured embeddings provider once at startup. Any
// failure downgrades matching to edit distance only for the whole run rather
// than retrying per element.
func newScorer(cfg config.Config, logger observability.Logger) match.SemanticScorer {
	var (
		scorer *match.EmbeddingScorer
		err    error
	)
	switch cfg.EmbeddingsProvider {
	case "openai":
		scorer, err = match.NewOpenAIScorer(cfg.OpenAIAPIKey, cfg.EmbeddingsModel)
	case "ollama":
		scorer, err = match.NewOllamaScorer(cfg.OllamaURL, cfg.EmbeddingsModel)
	default:
		logger.Info("no embeddings provider configured; matching on edit distance only")
		return nil
	}
	if err != nil {
		logger.Warn("embeddings provider unavailable; matching on edit distance only",
			observability.String("provider", cfg.EmbeddingsProvider),
			observability.Error("err", err))
		return nil
	}
	logger.Info("semantic fallback enabled",
		observability.String("provider", scorer.Name()))
	return scorer
}
