// Package pipeline drives label production: render the prompt, generate the
// image, save it, validate compliance, and upload compliant artifacts. Units
// are independent, but execution is gated to one in-flight unit because the
// generation backend serves a single accelerator.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/wudi/labelkit/brand"
	"github.com/wudi/labelkit/compliance"
	"github.com/wudi/labelkit/generate"
	"github.com/wudi/labelkit/observability"
	"github.com/wudi/labelkit/prompt"
	"github.com/wudi/labelkit/storage"
)

// Unit identifies one label to produce.
type Unit struct {
	Region    string
	Flavor    string
	Attribute string
	LabelType string
}

func (u Unit) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", u.Region, u.Flavor, u.Attribute, u.LabelType)
}

// UnitResult records the outcome of one unit. Err is set only for hard
// failures (generation, extraction, filesystem); a non-compliant label is a
// successful unit with Compliance flagging what was missing.
type UnitResult struct {
	Unit       Unit
	OutputPath string
	Compliance compliance.Result
	Uploaded   bool
	Err        error
}

// Summary aggregates a batch run.
type Summary struct {
	Total     int
	Succeeded int
	Compliant int
	Uploaded  int
	Failed    int
}

// Runner owns the shared collaborators for a batch. The Generator is built
// once by the caller and reused for the process lifetime; the Runner never
// constructs one lazily.
type Runner struct {
	Prompts   prompt.Renderer
	Generator generate.Generator
	Validator *compliance.Validator
	// Uploader may be nil to disable uploads entirely.
	Uploader    storage.Uploader
	OutputDir   string
	S3OutputDir string
	Logger      observability.Logger
}

// RunUnit executes one unit end to end. Every failure is captured in the
// returned result; RunUnit never panics across the unit boundary.
func (r *Runner) RunUnit(ctx context.Context, u Unit) (res UnitResult) {
	res.Unit = u
	logger := r.log().With(observability.String("unit", u.String()))

	defer func() {
		if rec := recover(); rec != nil {
			res.Err = fmt.Errorf("unit panicked: %v", rec)
			logger.Error("unit panicked", observability.Error("err", res.Err))
		}
	}()

	promptText, err := r.Prompts.Render(u.Region, u.Flavor, u.Attribute, u.LabelType)
	if err != nil {
		res.Err = fmt.Errorf("render prompt: %w", err)
		return res
	}

	size, err := generate.Format(u.LabelType)
	if err != nil {
		res.Err = err
		return res
	}

	logger.Info("generating label")
	img, err := r.Generator.Generate(ctx, generate.Request{
		Prompt:         promptText,
		NegativePrompt: generate.NegativePrompt,
		Width:          size.Width,
		Height:         size.Height,
	})
	if err != nil {
		res.Err = fmt.Errorf("generate label: %w", err)
		return res
	}

	outPath := filepath.Join(r.OutputDir, u.Region, u.Flavor, u.Attribute, u.LabelType+".png")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		res.Err = fmt.Errorf("create output dir: %w", err)
		return res
	}
	if err := os.WriteFile(outPath, img, 0o644); err != nil {
		res.Err = fmt.Errorf("save label: %w", err)
		return res
	}
	res.OutputPath = outPath
	logger.Info("label saved", observability.String("path", outPath))

	comp, err := r.Validator.Validate(ctx, outPath, u.LabelType, u.Region)
	if err != nil {
		res.Err = fmt.Errorf("validate label: %w", err)
		return res
	}
	res.Compliance = comp

	if !comp.Compliant {
		logger.Warn("label not compliant",
			observability.Int("missing", len(comp.MissingElements)),
			observability.Int("errors", len(comp.Errors)))
		return res
	}
	logger.Info("label passed compliance check")

	if r.Uploader == nil {
		return res
	}
	key := path.Join(r.S3OutputDir, u.Region, u.Flavor, u.Attribute, u.LabelType+".png")
	if err := r.Uploader.Upload(ctx, outPath, key); err != nil {
		// Upload failure keeps the local artifact and the unit result.
		logger.Error("upload failed", observability.Error("err", err))
		return res
	}
	res.Uploaded = true
	return res
}

// Units expands the brief into the full region × flavor × attribute × label
// grid, in a stable order.
func Units(brief brand.SKUBrief) []Unit {
	var units []Unit
	for _, region := range brief.TargetRegions {
		for _, flavor := range brief.Flavors {
			for _, attribute := range brief.Attributes {
				for _, labelType := range prompt.LabelTypes {
					units = append(units, Unit{
						Region:    region,
						Flavor:    flavor,
						Attribute: attribute,
						LabelType: labelType,
					})
				}
			}
		}
	}
	return units
}

// RunBatch runs every unit of the brief with at most one in flight. Each
// unit has its own failure boundary; a failing unit never stops the batch.
func (r *Runner) RunBatch(ctx context.Context, brief brand.SKUBrief) ([]UnitResult, Summary) {
	units := Units(brief)
	results := make([]UnitResult, len(units))

	g := new(errgroup.Group)
	g.SetLimit(1) // one accelerator behind the generation endpoint
	for i, u := range units {
		g.Go(func() error {
			results[i] = r.RunUnit(ctx, u)
			return nil
		})
	}
	_ = g.Wait() // unit errors live in results, never in the group

	var summary Summary
	summary.Total = len(results)
	for _, res := range results {
		switch {
		case res.Err != nil:
			summary.Failed++
		default:
			summary.Succeeded++
			if res.Compliance.Compliant {
				summary.Compliant++
			}
			if res.Uploaded {
				summary.Uploaded++
			}
		}
	}

	r.log().Info("batch finished",
		observability.Int("total", summary.Total),
		observability.Int("succeeded", summary.Succeeded),
		observability.Int("compliant", summary.Compliant),
		observability.Int("uploaded", summary.Uploaded),
		observability.Int("failed", summary.Failed))
	return results, summary
}

func (r *Runner) log() observability.Logger {
	if r.Logger == nil {
		return observability.NopLogger{}
	}
	return r.Logger
}
