package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/evanhalley/fig"
	"github.com/evanhalley/fig/internal/hints"
	"github.com/evanhalley/fig/internal/metadata"
	"github.com/evanhalley/fig/internal/watch"
)

// runArgs generates one image from explicit flags.
func runArgs(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseArgsFlags(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, positional[0])
	}

	a, err := newApp(&flags.common, env)
	if err != nil {
		return err
	}

	a.log.V(1).Info("Raw inputs",
		"title", flags.title, "date", flags.date, "author", flags.author,
		"template", flags.template, "authorImage", flags.authorImage,
		"css", flags.css, "output", flags.output)

	meta, err := metadata.FromArgs(flags.title, flags.date, flags.author, env.Now())
	if err != nil {
		return err
	}

	req := fig.Request{
		Title:       meta.Title,
		Date:        meta.Date,
		Author:      meta.Author,
		Template:    fig.ExplicitResource(flags.template),
		CSS:         fig.ExplicitResource(flags.css),
		AuthorImage: fig.ExplicitResource(flags.authorImage),
		Output:      flags.output,
	}
	path, err := a.gen.GenerateImage(ctx, req)
	return a.finish(ctx, req, path, err)
}

// runFm generates images from Markdown frontmatter. One input file honors
// -o as the output file; otherwise -o is an output directory and inputs are
// rendered in parallel.
func runFm(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseFmFlags(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if len(positional) == 0 {
		return ErrNoInput
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	files, err := discoverMarkdown(positional)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %v", ErrNoInput, positional)
	}

	a, err := newApp(&flags.common, env)
	if err != nil {
		return err
	}

	singleFile := len(positional) == 1 && len(files) == 1 && !isDir(positional[0])

	var (
		reqs    []fig.Request
		failed  int
		lastErr error
	)
	for _, file := range files {
		meta, err := metadata.FromFile(file, env.Now())
		if err != nil {
			a.log.Error(err, "Skipping file", "file", file)
			a.printf(env.Stderr, "Skipping %s: %v%s\n", file, err, hints.ForMetadata())
			failed++
			lastErr = &reportedError{err: err}
			continue
		}
		a.log.V(1).Info("Frontmatter read", "file", file,
			"title", meta.Title, "date", meta.Date, "author", meta.Author)

		req := fig.Request{Title: meta.Title, Date: meta.Date, Author: meta.Author}
		switch {
		case singleFile:
			req.Output = flags.output
		case flags.output != "":
			req.Output = outputInDir(flags.output, meta.Title)
		}
		reqs = append(reqs, req)
	}

	pool := fig.NewGeneratorPool(a.gen, fig.ResolvePoolSize(firstPositive(flags.workers, a.cfg.Workers)))
	defer pool.Close()
	a.log.V(1).Info("Generating images", "count", len(reqs), "workers", pool.Size())

	for _, res := range pool.GenerateAll(ctx, reqs) {
		if err := a.finish(ctx, res.Request, res.Path, res.Err); err != nil {
			failed++
			lastErr = err
		}
	}

	if failed == 0 {
		return nil
	}
	if len(files) > 1 {
		a.printf(env.Stderr, "%d of %d image(s) failed\n", failed, len(files))
	}
	return lastErr
}

// runWatch regenerates images for Markdown files created or modified in a
// directory until the context is cancelled.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseWatchFlags(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: watch takes exactly one directory", ErrUsage)
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	dir := positional[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoInput, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrUsage, dir)
	}

	a, err := newApp(&flags.common, env)
	if err != nil {
		return err
	}

	pool := fig.NewGeneratorPool(a.gen, fig.ResolvePoolSize(firstPositive(flags.workers, a.cfg.Workers)))
	defer pool.Close()

	w, err := watch.New(dir, a.cfg.Watch.Debounce.Std(), a.log)
	if err != nil {
		return err
	}

	return w.Run(ctx, func(ctx context.Context, path string) {
		meta, err := metadata.FromFile(path, env.Now())
		if err != nil {
			a.log.Error(err, "Skipping file", "file", path)
			return
		}
		req := fig.Request{Title: meta.Title, Date: meta.Date, Author: meta.Author}
		if flags.output != "" {
			req.Output = outputInDir(flags.output, meta.Title)
		}
		out, err := pool.Generate(ctx, req)
		_ = a.finish(ctx, req, out, err)
	})
}

// outputInDir places the default image name for title in dir.
func outputInDir(dir, title string) string {
	return filepath.Join(dir, fig.Slugify(title)+"."+fig.DefaultOutputFormat)
}

// validateWorkers rejects negative worker counts.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrUsage, n)
	}
	return nil
}

// firstPositive returns the first value above zero, or 0.
func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
