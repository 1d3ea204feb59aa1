package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"k8s.io/klog/v2"

	finmemo "github.com/alnah/go-finmemo"
	"github.com/alnah/go-finmemo/internal/fileutil"
)

// filePermissions is used for every written artifact.
const filePermissions = 0o644 // rw-r--r--: owner read+write, others read

// runRender generates one memorandum from a payload file.
func runRender(ctx context.Context, args []string, env *Environment) error {
	f, fs, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	switch len(positional) {
	case 0:
		return ErrNoInput
	case 1:
	default:
		return fmt.Errorf("%w: render takes one payload file, got %d", ErrUsage, len(positional))
	}
	input := positional[0]

	cfg, err := resolveConfig(f.common, fs, &f.engine, env)
	if err != nil {
		return err
	}

	payload, err := finmemo.LoadPayloadFile(input)
	if err != nil {
		return err
	}
	files, err := loadUploads(f)
	if err != nil {
		return err
	}

	renderer, err := env.NewRenderer(cfg, env.Now)
	if err != nil {
		return err
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			klog.Warningf("closing renderer: %v", err)
		}
	}()

	start := time.Now()
	res, err := renderer.Generate(ctx, finmemo.Request{Payload: payload, Files: files})
	if err != nil {
		return err
	}

	output := resolveOutputPath(f.output, input)
	if err := os.WriteFile(output, res.PDF, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if f.html != "" {
		if err := os.WriteFile(f.html, res.HTML, filePermissions); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}

	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %s)\n",
			input, output, res.Pages, time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// loadUploads reads the image flags. Property images beyond the gallery
// size are dropped with a warning.
func loadUploads(f *renderFlags) (finmemo.Files, error) {
	var files finmemo.Files
	var err error

	if files.CoverImage, err = readUpload(f.coverImage); err != nil {
		return files, err
	}
	if files.Logo, err = readUpload(f.logo); err != nil {
		return files, err
	}
	if files.FooterLogo, err = readUpload(f.footerLogo); err != nil {
		return files, err
	}

	paths := f.propertyImages
	if len(paths) > finmemo.MaxPropertyImages {
		klog.Warningf("%d property images given, keeping the first %d", len(paths), finmemo.MaxPropertyImages)
		paths = paths[:finmemo.MaxPropertyImages]
	}
	for _, p := range paths {
		img, err := readUpload(p)
		if err != nil {
			return files, err
		}
		files.PropertyImages = append(files.PropertyImages, img)
	}
	return files, nil
}

// readUpload loads one image. An empty path means the slot is unused. The
// MIME type is left empty so the encoder sniffs it.
func readUpload(path string) (*finmemo.File, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadUpload, err)
	}
	return &finmemo.File{Name: filepath.Base(path), Data: data}, nil
}

// resolveOutputPath picks the PDF path: the flag value, a file inside the
// flag's directory, or the payload path with a .pdf extension.
func resolveOutputPath(flagOutput, input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".pdf"
	if flagOutput == "" {
		return filepath.Join(filepath.Dir(input), base)
	}
	if fileutil.DirExists(flagOutput) || strings.HasSuffix(flagOutput, string(filepath.Separator)) {
		return filepath.Join(flagOutput, base)
	}
	return flagOutput
}
