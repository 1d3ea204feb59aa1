// Package finmemo assembles finance memorandum PDFs from a form submission.
//
// # Quick Start
//
// Create a generator, decode a payload, and close the generator when done:
//
//	gen, err := finmemo.NewGenerator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gen.Close()
//
//	payload, err := finmemo.DecodePayload(r.Body, finmemo.DefaultMaxPayloadBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := gen.Generate(ctx, finmemo.Request{
//	    Payload: payload,
//	    Files:   finmemo.Files{CoverImage: &finmemo.File{Name: "cover.jpg", Data: img}},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("memo.pdf", result.PDF, 0644)
//
// # Rendering Pipeline
//
// One request flows through these stages:
//
//  1. Normalization: the payload becomes a ViewModel with feasibility rows
//     grouped by label and one visibility flag per optional section
//  2. Asset encoding: uploaded images become inline data URIs, and the cover
//     image is probed for its dimensions to pick a fit policy
//  3. Cover typesetting: a single title page compiled by Tectonic (LaTeX) in
//     a throwaway working directory
//  4. Body rendering: the ViewModel is executed through an HTML template and
//     printed to A4 by headless Chrome (go-rod or chromedp)
//  5. Merge: cover page first, then every body page in order (pdfcpu)
//
// Stages 3 and 4 run concurrently. A failure in either cancels the other and
// every temporary directory, browser context and subprocess is released
// before Generate returns.
//
// # Parallel Processing
//
// Servers handling concurrent requests use GeneratorPool so that each request
// owns a generator (and its browser) for the duration of the render:
//
//	pool := finmemo.NewGeneratorPool(4, factory)
//	defer pool.Close()
//
//	gen, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(gen)
//
// # External Tools
//
// Body rendering requires Chrome/Chromium. go-rod downloads a managed
// Chromium on first run unless ROD_BROWSER_BIN points to an installed one.
// Cover typesetting requires the tectonic binary on PATH (or configured via
// WithTypesetBinary). Run "finmemo doctor" to check both.
package finmemo
