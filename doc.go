// Package fig renders feature images for website articles using headless Chrome.
//
// # Quick Start
//
// Create a generator and describe the article:
//
//	gen, err := fig.NewGenerator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	path, err := gen.GenerateImage(ctx, fig.Request{
//	    Title:  "My First Post",
//	    Date:   "2024-01-02",
//	    Author: "Evan Halley",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(path) // /current/dir/my_first_post.jpg
//
// # Generation Pipeline
//
// Each GenerateImage call moves through these stages:
//
//  1. Staging: a private workspace directory (fig-<uuid>) is created and the
//     template, stylesheet and author image are copied into it
//  2. Composing: the [[TITLE]], [[AUTHOR]] and [[DATE]] placeholders are
//     substituted (first occurrence only) and the output path is derived
//  3. Rendering: headless Chrome loads the staged page at 1200x600 and
//     writes a screenshot to the output path
//
// The workspace is removed when the call returns, whatever the outcome.
// Failures are returned as *StageError values wrapping one of the sentinel
// errors (ErrResourceMissing, ErrWorkspaceIO, ErrRenderFailure, ...).
//
// # Resources
//
// Request.Template, Request.CSS and Request.AuthorImage are Resource values:
// either ExplicitResource(path) or DefaultResource(). Defaults come from the
// bundle directory (~/.fig/template by default, see WithTemplateDir), with a
// copy embedded in the binary used for any file the directory lacks.
//
// A template read from disk may reference other files next to it, such as
// fonts or background pictures. Those relative references are rewritten to
// file:// URLs so they still resolve from the workspace; "style.css" and
// "author.jpg" keep pointing at the staged copies.
//
// # Output
//
// When Request.Output is empty, the image is written to the output directory
// (the working directory unless WithOutputDir is used) as <slug>.jpg, where
// the slug comes from Slugify(title). An explicit output path is used as-is;
// its extension picks the format (.png, .webp, otherwise JPEG). An explicit
// path ending in a separator, or naming an existing directory, receives
// <slug>.jpg inside it.
//
// # Parallel Processing
//
// A Generator is safe for concurrent use. GeneratorPool bounds the number of
// browsers rendering at once:
//
//	pool := fig.NewGeneratorPool(gen, fig.ResolvePoolSize(0))
//	defer pool.Close()
//	results := pool.GenerateAll(ctx, requests)
//
// # Browser Requirements
//
// Rendering requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package fig
