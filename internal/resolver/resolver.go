package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/MLH-Fellowship/hooknames/internal/detector"
	"github.com/MLH-Fellowship/hooknames/internal/fetcher"
	"github.com/MLH-Fellowship/hooknames/internal/sourcemap"
	"github.com/MLH-Fellowship/hooknames/pkg/types"
)

// Options tunes one Resolver.
type Options struct {
	// Concurrency bounds parallel bundle and map fetches.
	Concurrency int
	// MaxSourceLines bounds how large a translated original source may be.
	MaxSourceLines int
}

// Resolver enriches a hook observation tree with the variable names used in
// the original, pre-bundling source. Resolution is best effort: every
// failure mode degrades to leaving the affected hooks unnamed.
type Resolver struct {
	client         *fetcher.Client
	concurrency    int
	maxSourceLines int
}

// New creates a Resolver fetching through the given client.
func New(client *fetcher.Client, opts Options) *Resolver {
	if opts.Concurrency <= 0 {
		opts.Concurrency = fetcher.DefaultConcurrency
	}
	if opts.MaxSourceLines <= 0 {
		opts.MaxSourceLines = sourcemap.DefaultMaxSourceLines
	}
	return &Resolver{
		client:         client,
		concurrency:    opts.Concurrency,
		maxSourceLines: opts.MaxSourceLines,
	}
}

// Resolve returns a new tree mirroring hooks with HookVariableName filled in
// wherever a name could be derived. The input is never mutated. On
// cancellation or a pipeline-wide failure the input tree is returned
// unchanged.
func (r *Resolver) Resolve(ctx context.Context, hooks []*types.HookObservation) []*types.HookObservation {
	if len(hooks) == 0 {
		return hooks
	}
	start := time.Now()
	enriched, err := r.resolve(ctx, hooks)
	if err != nil {
		slog.Warn("hook name resolution abandoned", "error", err)
		return hooks
	}
	slog.Debug("hook name resolution complete", "duration", time.Since(start))
	return enriched
}

func (r *Resolver) resolve(ctx context.Context, hooks []*types.HookObservation) ([]*types.HookObservation, error) {
	out := cloneTree(hooks)

	fileNames := collectFileNames(out)
	if len(fileNames) == 0 {
		return out, nil
	}

	// Suspension point: fetch every referenced bundle.
	bundles := r.client.FetchAll(ctx, fileNames, r.concurrency)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Pair each bundle with its source map URL. A bundle without a usable
	// reference drops out here; its hooks pass through unnamed.
	var mapURLs []string
	mapToBundle := make(map[string]string)
	for _, fileName := range fileNames {
		bundle, ok := bundles[fileName]
		if !ok {
			continue
		}
		mapURL, err := sourcemap.ExtractMappingURL(fileName, bundle.Text)
		if err != nil {
			slog.Debug("no usable source map reference", "bundle", fileName, "error", err)
			continue
		}
		if _, taken := mapToBundle[mapURL]; taken {
			continue
		}
		mapToBundle[mapURL] = fileName
		mapURLs = append(mapURLs, mapURL)
	}

	// Suspension point: fetch the maps themselves.
	maps := r.client.FetchAll(ctx, mapURLs, r.concurrency)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cache := newFileCache()
	for _, mapURL := range mapURLs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, ok := maps[mapURL]
		if !ok {
			continue
		}
		translator, err := sourcemap.NewTranslator(mapURL, []byte(doc.Text), r.maxSourceLines)
		if err != nil {
			slog.Debug("failed to build translator", "map", mapURL, "error", err)
			continue
		}
		r.resolveGroup(translator, mapToBundle[mapURL], out, cache)
	}
	return out, nil
}

// resolveGroup names every hook in the list that was observed in the given
// bundle. The list is walked flat; sub-hooks are reached through per-hook
// recursion below.
func (r *Resolver) resolveGroup(translator *sourcemap.Translator, bundleURL string, hooks []*types.HookObservation, cache *fileCache) {
	for _, hook := range hooks {
		source := hook.HookSource
		if source == nil || source.FileName == nil || *source.FileName != bundleURL {
			continue
		}
		r.resolveHook(translator, bundleURL, hook, cache)
	}
}

func (r *Resolver) resolveHook(translator *sourcemap.Translator, bundleURL string, hook *types.HookObservation, cache *fileCache) {
	source := hook.HookSource
	if source.LineNumber == nil || source.ColumnNumber == nil {
		return
	}

	pos, err := translator.Translate(*source.LineNumber, *source.ColumnNumber)
	if err != nil {
		slog.Debug("position translation failed", "bundle", bundleURL, "line", *source.LineNumber, "error", err)
		return
	}

	file, err := cache.file(pos.Source, pos.Content)
	if err != nil {
		slog.Debug("failed to parse original source", "source", pos.Source, "error", err)
		return
	}

	confirmed, pool := cache.takeConfirmed(pos.Source, file, pos.Line)
	if confirmed == nil {
		switch {
		case hook.IsCustom():
			// Custom hooks may still contain primitives worth naming.
			r.resolveGroup(translator, bundleURL, hook.SubHooks, cache)
		case detector.IsNonDeclarativePrimitive(hook.Name):
			// Never assigned; nothing to name.
		default:
			slog.Debug("no confirmed hook declaration at position", "source", pos.Source, "line", pos.Line)
		}
		return
	}

	name, err := ResolveBindingName(confirmed, pool, hook.IsCustom())
	switch {
	case err != nil:
		slog.Debug("binding name resolution failed", "source", pos.Source, "line", pos.Line, "error", err)
	case name != "":
		hook.HookVariableName = &name
	}

	if len(hook.SubHooks) > 0 {
		r.resolveGroup(translator, bundleURL, hook.SubHooks, cache)
	}
}

// cloneTree copies the observation nodes so resolution never mutates the
// caller's tree. Opaque values are shared, not copied.
func cloneTree(hooks []*types.HookObservation) []*types.HookObservation {
	if hooks == nil {
		return nil
	}
	out := make([]*types.HookObservation, len(hooks))
	for i, hook := range hooks {
		clone := *hook
		clone.SubHooks = cloneTree(hook.SubHooks)
		out[i] = &clone
	}
	return out
}

// collectFileNames gathers the unique bundle URLs referenced anywhere in the
// tree, in first-seen order.
func collectFileNames(hooks []*types.HookObservation) []string {
	seen := make(map[string]bool)
	var names []string
	var walk func([]*types.HookObservation)
	walk = func(list []*types.HookObservation) {
		for _, hook := range list {
			if hook.HookSource != nil && hook.HookSource.FileName != nil {
				name := *hook.HookSource.FileName
				if name != "" && !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
			walk(hook.SubHooks)
		}
	}
	walk(hooks)
	return names
}
