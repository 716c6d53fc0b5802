package fig

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/evanhalley/fig/internal/assets"
	"github.com/evanhalley/fig/internal/dateutil"
	"github.com/evanhalley/fig/internal/fileutil"
)

// Generator runs the image pipeline. Create with NewGenerator; a Generator
// is safe for concurrent use and holds no browser between calls.
type Generator struct {
	cfg      generatorConfig
	renderer Renderer
	defaults *assets.Resolver
	log      logr.Logger
	now      func() time.Time

	// removeAll overrides workspace removal when set.
	removeAll func(string) error
}

// NewGenerator creates a Generator with default configuration.
// Returns ErrInvalidOption if the template directory or date format is unusable.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		cfg: generatorConfig{
			timeout:     defaultTimeout,
			templateDir: defaultTemplateDir,
			dateFormat:  defaultDateFormat,
		},
		log: logr.Discard(),
		now: time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	if err := dateutil.ValidateFormat(g.cfg.dateFormat); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}

	templateDir, err := fileutil.ExpandHome(g.cfg.templateDir)
	if err != nil {
		return nil, fmt.Errorf("%w: template dir: %v", ErrInvalidOption, err)
	}
	g.cfg.templateDir = templateDir

	g.defaults, err = assets.NewResolver(templateDir)
	if err != nil {
		return nil, fmt.Errorf("%w: template dir: %v", ErrInvalidOption, err)
	}

	if g.renderer == nil {
		g.renderer = newBrowserRenderer(g.cfg)
	}
	return g, nil
}

// GenerateImage renders one feature image and returns its absolute path.
// On failure it returns "" and a *StageError; the error is also logged.
// The run's workspace is removed before returning in every case. A removal
// failure is logged but does not fail the run.
func (g *Generator) GenerateImage(ctx context.Context, req Request) (path string, err error) {
	state := StateIdle
	log := g.log

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
		if err != nil {
			var stageErr *StageError
			if !errors.As(err, &stageErr) {
				err = &StageError{Stage: state, Err: err}
			}
			log.Error(err, "Image generation failed", "stage", state.String())
			path = ""
		}
	}()

	log.V(1).Info("Generating image",
		"title", req.Title, "date", req.Date, "author", req.Author,
		"template", req.Template.String(), "css", req.CSS.String(),
		"authorImage", req.AuthorImage.String(), "output", req.Output)

	if err := validateRequest(req); err != nil {
		return "", err
	}

	// Idle -> Staging
	state = StateStaging
	ws, err := newWorkspace(g.cfg.workspaceDir)
	if err != nil {
		return "", err
	}
	log = log.WithValues("run", ws.id)
	if g.removeAll != nil {
		ws.removeAll = g.removeAll
	}
	defer func() {
		if rmErr := ws.Remove(); rmErr != nil {
			log.Error(rmErr, "Workspace removal failed", "dir", ws.dir)
			return
		}
		log.V(1).Info("Workspace removed", "dir", ws.dir)
	}()
	log.V(1).Info("Workspace created", "dir", ws.dir)

	staged := make(map[ResourceKind]string, 3)
	var templateDir string
	for _, item := range []struct {
		kind ResourceKind
		res  Resource
	}{
		{KindTemplate, req.Template},
		{KindCSS, req.CSS},
		{KindAuthorImage, req.AuthorImage},
	} {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		dst, origin, err := g.stageResource(ws, item.kind, item.res)
		if err != nil {
			return "", err
		}
		staged[item.kind] = dst
		if item.kind == KindTemplate && origin != assets.OriginEmbedded {
			templateDir = filepath.Dir(origin)
		}
		log.V(1).Info("Staged resource", "kind", item.kind.String(), "source", origin)
	}

	// Staging -> Composing
	state = StateComposing
	if err := ctx.Err(); err != nil {
		return "", err
	}
	slug := Slugify(req.Title)
	req.Date = dateutil.ResolveDate(req.Date, g.now())
	htmlPath, err := g.composeDocument(ws, staged[KindTemplate], templateDir, req, slug)
	if err != nil {
		return "", err
	}
	target, err := ResolveOutput(slug, req.Output, g.cfg.outputDir)
	if err != nil {
		return "", err
	}
	log.V(1).Info("Composed document", "html", htmlPath, "output", target.Path())

	// Composing -> Rendering
	state = StateRendering
	if err := g.render(ctx, htmlPath, target.Path()); err != nil {
		return "", err
	}

	state = StateDone
	log.V(1).Info("Image generated", "path", target.Path())
	return target.Path(), nil
}

// render calls the renderer bounded by the generator timeout.
func (g *Generator) render(ctx context.Context, htmlPath, outputPath string) error {
	rctx, cancel := context.WithTimeout(ctx, g.cfg.timeout)
	defer cancel()

	err := g.renderer.Render(rctx, htmlPath, outputPath, DefaultViewport)
	if err == nil {
		return nil
	}
	if errors.Is(rctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: timed out after %s: %w", ErrRenderFailure, g.cfg.timeout, err)
	}
	if errors.Is(err, ErrRenderFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrRenderFailure, err)
}

// validateRequest checks the fields the pipeline cannot do without.
func validateRequest(req Request) error {
	var missing []string
	if strings.TrimSpace(req.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(req.Author) == "" {
		missing = append(missing, "author")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidRequest, strings.Join(missing, ", "))
	}
	return nil
}
