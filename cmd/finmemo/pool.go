package main

import (
	"context"
	"time"

	"k8s.io/klog/v2"

	finmemo "github.com/alnah/go-finmemo"
	"github.com/alnah/go-finmemo/internal/config"
)

// newPoolRenderer builds a GeneratorPool sized from the config. One
// Generator is created up front so asset and engine errors surface at
// startup instead of on the first request.
func newPoolRenderer(cfg *config.Config, now func() time.Time) (Renderer, error) {
	opts, err := generatorOptions(cfg, now)
	if err != nil {
		return nil, err
	}

	size := finmemo.ResolvePoolSize(cfg.Render.Workers)
	pool := finmemo.NewGeneratorPool(size, func() (*finmemo.Generator, error) {
		return finmemo.NewGenerator(opts...)
	})

	gen, err := pool.Acquire(context.Background())
	if err != nil {
		_ = pool.Close()
		return nil, err
	}
	pool.Release(gen)

	klog.V(1).Infof("generator pool: %d workers, engine %s", size, cfg.Render.Engine)
	return pool, nil
}

// generatorOptions maps the resolved configuration onto Generator options.
func generatorOptions(cfg *config.Config, now func() time.Time) ([]finmemo.Option, error) {
	page, err := finmemo.LookupPageSize(cfg.Render.PageSize)
	if err != nil {
		return nil, err
	}

	opts := []finmemo.Option{
		finmemo.WithTimeout(cfg.Render.TimeoutDuration()),
		finmemo.WithImageWait(cfg.Render.ImageWaitDuration()),
		finmemo.WithFit(cfg.Render.FitTolerance),
		finmemo.WithPageSize(page),
		finmemo.WithEngineName(cfg.Render.Engine),
		finmemo.WithBrowserPath(cfg.Render.BrowserPath),
		finmemo.WithAssetPath(cfg.Assets.BasePath),
		finmemo.WithCoverDefaults(coverDefaults(cfg.Cover)),
		finmemo.WithNow(now),
	}
	if cfg.Typeset.Binary != "" || len(cfg.Typeset.Args) > 0 {
		opts = append(opts, finmemo.WithTypesetBinary(cfg.Typeset.Binary, cfg.Typeset.Args...))
	}
	return opts, nil
}

func coverDefaults(c config.CoverConfig) finmemo.CoverDefaults {
	return finmemo.CoverDefaults{
		MainTitle:      c.MainTitle,
		SubOne:         c.Subheadline1,
		SubTwo:         c.Subheadline2,
		Headline:       c.Headline,
		ProjectName:    c.ProjectName,
		LoanAmount:     c.LoanAmount,
		RefNumber:      c.ReferenceNumber,
		CompanyWebsite: c.CompanyWebsite,
		CompanyLine:    c.CompanyLine,
	}
}
