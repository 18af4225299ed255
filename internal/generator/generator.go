// Package generator assembles static trip pages. A page is built by
// rendering the page's active snippets through the snippet template, in
// snippet id order, and injecting the concatenated result into the page
// skeleton at the marker line.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tripbuilder/internal/render"
	"tripbuilder/internal/storage"
	"tripbuilder/pkg/fsutils"
)

// Marker is the literal line a skeleton must contain exactly once; rendered
// snippets replace it.
const Marker = "--- INSERT SNIPPETS HERE ---"

// DefaultSnippetTemplate is the snippet template filename used when no
// override is given, resolved inside the templates directory.
const DefaultSnippetTemplate = "snippet.html"

// Generation failures, distinguishable with errors.Is. All of them abort
// the run before anything is written.
var (
	ErrMissingSkeleton = errors.New("skeleton template not found")
	ErrMissingTemplate = errors.New("snippet template not found")
	ErrMissingMarker   = errors.New("skeleton is missing the snippet marker")
	ErrDuplicateMarker = errors.New("skeleton contains the snippet marker more than once")
	ErrWriteOutput     = errors.New("cannot write output file")
)

// Builder runs the page generation pipeline. It holds no per-run state, so
// a single Builder can serve many Generate calls.
type Builder struct {
	store        storage.Store
	logger       *slog.Logger
	templatesDir string
}

// NewBuilder creates a Builder reading templates from templatesDir and page
// data from store. A nil logger discards all output.
func NewBuilder(store storage.Store, logger *slog.Logger, templatesDir string) *Builder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Builder{
		store:        store,
		logger:       logger,
		templatesDir: templatesDir,
	}
}

// Request describes one generation run.
type Request struct {
	// PageName selects the trip_page row and the skeleton file
	// (<templatesDir>/<PageName>.skel).
	PageName string

	// SnippetTemplate optionally overrides the snippet template. An
	// absolute path or an existing relative path is used as given,
	// anything else is resolved against the templates directory.
	SnippetTemplate string

	// OutputPath optionally overrides the output location. Empty means a
	// file named PageName in the working directory.
	OutputPath string
}

// Generate builds the page and returns the path written. On any error the
// output file is left untouched: nothing is created or truncated until the
// final atomic write.
func (b *Builder) Generate(ctx context.Context, req Request) (string, error) {
	skeletonPath := filepath.Join(b.templatesDir, req.PageName+".skel")
	skeleton, err := fsutils.ReadTextFile(skeletonPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingSkeleton, skeletonPath)
	}
	b.logger.Debug("loaded skeleton", "path", skeletonPath)

	templatePath := b.resolveSnippetTemplate(req.SnippetTemplate)
	snippetTemplate, err := fsutils.ReadTextFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingTemplate, templatePath)
	}
	b.logger.Debug("loaded snippet template", "path", templatePath)

	// Validated before touching the database so a broken skeleton fails
	// fast, and always before anything is written.
	switch strings.Count(skeleton, Marker) {
	case 1:
	case 0:
		return "", fmt.Errorf("%w: %s", ErrMissingMarker, skeletonPath)
	default:
		return "", fmt.Errorf("%w: %s", ErrDuplicateMarker, skeletonPath)
	}

	page, err := b.store.PageByName(ctx, req.PageName)
	if err != nil {
		return "", fmt.Errorf("page %q: %w", req.PageName, err)
	}

	snippets, err := b.store.SnippetsByPage(ctx, page.ID)
	if err != nil {
		return "", fmt.Errorf("snippets for page %q: %w", req.PageName, err)
	}

	var body strings.Builder
	skipped := 0
	for i := range snippets {
		sn := &snippets[i]
		if !sn.IsActive() {
			skipped++
			continue
		}
		body.WriteString(render.Render(snippetTemplate, sn.FieldMap()))
	}
	b.logger.Debug("rendered snippets",
		"page", req.PageName,
		"rendered", len(snippets)-skipped,
		"skipped", skipped)

	final := strings.Replace(skeleton, Marker, body.String(), 1)

	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = req.PageName
	}
	if err := fsutils.WriteFileAtomic(outputPath, []byte(final)); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrWriteOutput, outputPath, err)
	}

	b.logger.Info("generated page", "page", req.PageName, "output", outputPath)
	return outputPath, nil
}

// resolveSnippetTemplate mirrors the lookup order users expect: explicit
// absolute paths and paths that already exist win, bare filenames fall back
// to the templates directory.
func (b *Builder) resolveSnippetTemplate(override string) string {
	if override == "" {
		return filepath.Join(b.templatesDir, DefaultSnippetTemplate)
	}
	if filepath.IsAbs(override) {
		return override
	}
	if _, err := os.Stat(override); err == nil {
		return override
	}
	return filepath.Join(b.templatesDir, override)
}
