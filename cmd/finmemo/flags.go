package main

import (
	"errors"
	goflag "flag"
	"fmt"
	"io"
	"sync"

	flag "github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/alnah/go-finmemo/internal/config"
)

// klogFlags registers klog's flags (-v, --logtostderr, ...) once; every
// command flag set shares them.
var klogFlags = sync.OnceValue(func() *goflag.FlagSet {
	fs := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(fs)
	return fs
})

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config string
	quiet  bool
}

// engineFlags override the rendering section of the config.
type engineFlags struct {
	workers   int
	timeout   string
	engine    string
	browser   string
	tectonic  string
	assetPath string
	pageSize  string
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common commonFlags
	engine engineFlags
	addr   string
	port   int
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common         commonFlags
	engine         engineFlags
	output         string
	html           string
	coverImage     string
	logo           string
	footerLogo     string
	propertyImages []string
}

func newFlagSet(name string, stderr io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	fs.AddGoFlagSet(klogFlags())
	return fs
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
}

func addEngineFlags(fs *flag.FlagSet, f *engineFlags) {
	fs.IntVarP(&f.workers, "workers", "w", 0, "pooled generators (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document timeout (e.g. 60s, 2m)")
	fs.StringVar(&f.engine, "engine", "", "body renderer: rod, chromedp")
	fs.StringVar(&f.browser, "browser", "", "Chrome/Chromium binary")
	fs.StringVar(&f.tectonic, "tectonic", "", "cover compiler binary")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding embedded assets")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "body page size: a4, letter, legal")
}

// parseServeFlags parses serve command arguments.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, *flag.FlagSet, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", stderr, printServeUsage)
	addCommonFlags(fs, &f.common)
	addEngineFlags(fs, &f.engine)
	fs.StringVar(&f.addr, "addr", "", "listen host (empty = all interfaces)")
	fs.IntVar(&f.port, "port", 0, "listen port")

	if err := fs.Parse(args); err != nil {
		return nil, nil, usageError(err)
	}
	if fs.NArg() > 0 {
		return nil, nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, fs.Args())
	}
	return f, fs, nil
}

// parseRenderFlags parses render command arguments and returns the
// positional payload path(s).
func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, *flag.FlagSet, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", stderr, printRenderUsage)
	addCommonFlags(fs, &f.common)
	addEngineFlags(fs, &f.engine)
	fs.StringVarP(&f.output, "output", "o", "", "output PDF file or directory")
	fs.StringVar(&f.html, "html", "", "also write the rendered body HTML here")
	fs.StringVar(&f.coverImage, "cover-image", "", "cover photograph")
	fs.StringVar(&f.logo, "logo", "", "header logo")
	fs.StringVar(&f.footerLogo, "footer-logo", "", "footer logo")
	fs.StringArrayVar(&f.propertyImages, "property-image", nil, "property photograph (repeatable, max 6)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, nil, usageError(err)
	}
	return f, fs, fs.Args(), nil
}

func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// applyEngineFlags copies explicitly set flags over cfg.
func applyEngineFlags(fs *flag.FlagSet, f *engineFlags, cfg *config.Config) {
	if fs.Changed("workers") {
		cfg.Render.Workers = f.workers
	}
	if fs.Changed("timeout") {
		cfg.Render.Timeout = f.timeout
	}
	if fs.Changed("engine") {
		cfg.Render.Engine = f.engine
	}
	if fs.Changed("browser") {
		cfg.Render.BrowserPath = f.browser
	}
	if fs.Changed("tectonic") {
		cfg.Typeset.Binary = f.tectonic
	}
	if fs.Changed("asset-path") {
		cfg.Assets.BasePath = f.assetPath
	}
	if fs.Changed("page-size") {
		cfg.Render.PageSize = f.pageSize
	}
}

// resolveConfig layers defaults, the config file, the environment and the
// command's engine flags, then validates the result.
func resolveConfig(common commonFlags, fs *flag.FlagSet, f *engineFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig(env.Getenv)
	warnUnknownEnvVars(env.Stderr, env.Environ())

	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	applyEngineFlags(fs, f, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
