package engine

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/groovylang/lsp-core/cache"
	"github.com/groovylang/lsp-core/gparse"
	"github.com/groovylang/lsp-core/internal/config"
	"github.com/groovylang/lsp-core/internal/gdk"
	"github.com/groovylang/lsp-core/providers"
	"github.com/groovylang/lsp-core/symbols"
	"github.com/groovylang/lsp-core/visitor"
	"github.com/groovylang/lsp-core/workspace"
)

// document tracks the last text/version pair the editor reported for one
// open URI, so Edit can be distinguished from a redundant re-open
// (spec.md §6 "open/edit/close").
type document struct {
	version int
	text    string
}

// Engine is the single consumer-facing surface spec.md §6 names: document
// lifecycle plus the nine request providers, all backed by one shared
// compilation cache, relationship tracker, and symbol index. No
// persisted state crosses a restart (spec.md §6 "Persisted state: none");
// every index here is rebuilt from whatever documents get opened again.
type Engine struct {
	mu        sync.RWMutex
	documents map[string]document

	cache     *cache.Cache
	tracker   *visitor.Tracker
	symbols   *symbols.Index
	workspace *workspace.Workspace
	methods   gdk.MethodCatalog
	jenkins   gdk.JenkinsCatalog
	config    config.CoreConfig
	log       *zap.Logger

	subsMu      sync.Mutex
	subscribers map[string][]chan []gparse.Diagnostic

	cancelMu sync.Mutex
	cancels  map[string]context.CancelFunc
}

// New builds an Engine from cfg, an optional logger (nil becomes a no-op
// logger, matching cache.New's convention), and the source roots/
// classpath/Jenkins glob set the workspace starts with.
func New(cfg config.CoreConfig, log *zap.Logger, sourceRoots, classpath []string) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		documents:   make(map[string]document),
		cache:       cache.New(cfg.MaxCachedDocuments, log),
		tracker:     visitor.New(),
		symbols:     symbols.NewIndex(),
		workspace:   workspace.New(sourceRoots, classpath, cfg.Jenkins.FilePatterns),
		methods:     gdk.DefaultCatalog(),
		jenkins:     gdk.DefaultJenkinsCatalog(),
		config:      cfg,
		log:         log,
		subscribers: make(map[string][]chan []gparse.Diagnostic),
		cancels:     make(map[string]context.CancelFunc),
	}
}

// deps snapshots the dependency set providers.Deps needs. Tracker and
// Symbols are read-mostly after each recompile (spec.md §5's "immutable
// after the visitor pass" shared-resource policy), so handing out the
// live pointers under a read lock is safe for the duration of one
// provider call.
func (e *Engine) deps() providers.Deps {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return providers.Deps{
		Cache:     e.cache,
		Tracker:   e.tracker,
		Symbols:   e.symbols,
		Workspace: e.workspace,
		Methods:   e.methods,
		Jenkins:   e.jenkins,
		Config:    e.config,
	}
}

// NewRequest issues a cancellation token for one in-flight request,
// keyed by a uuid the caller threads through to CancelRequest — the
// per-request cancellation scheme spec.md §5 requires alongside the
// shared worker pool that runs handler bodies.
func (e *Engine) NewRequest(parent context.Context) (requestID string, ctx context.Context, done func()) {
	ctx, cancel := context.WithCancel(parent)
	id := uuid.NewString()

	e.cancelMu.Lock()
	e.cancels[id] = cancel
	e.cancelMu.Unlock()

	return id, ctx, func() {
		e.cancelMu.Lock()
		delete(e.cancels, id)
		e.cancelMu.Unlock()
		cancel()
	}
}

// CancelRequest cancels the in-flight request named by requestID, a
// no-op if it already finished. Returns whether a matching request was
// found.
func (e *Engine) CancelRequest(requestID string) bool {
	e.cancelMu.Lock()
	defer e.cancelMu.Unlock()
	cancel, ok := e.cancels[requestID]
	if !ok {
		return false
	}
	cancel()
	return true
}

// Configure replaces the engine's configuration wholesale (spec.md §6
// "configure"). A changed Jenkins.FilePatterns set re-seeds the
// workspace's classification globs, and the compilation cache is replaced
// by a new, empty one sized from cfg.MaxCachedDocuments, so every open
// document recompiles on its next request.
func (e *Engine) Configure(cfg config.CoreConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config = cfg
	e.workspace.JenkinsGlobs = cfg.Jenkins.FilePatterns
	e.cache = cache.New(cfg.MaxCachedDocuments, e.log)
}

// OnWorkspaceChange applies a coarse workspace-level event (spec.md §4.5,
// §6 "on_workspace_change"): any roots or classpath change invalidates
// every cached document, since classification or resolution may now
// differ even though no document's content changed.
func (e *Engine) OnWorkspaceChange(change workspace.Change) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache.Clear()
	e.log.Info("workspace changed, cache cleared", zap.Int("kind", int(change.Kind)))
}

// Open compiles text for uri for the first time (or re-compiles it if
// the editor reports a reopen), records the document state, and
// publishes the resulting diagnostics to any subscriber (spec.md §6
// "open").
func (e *Engine) Open(uri, text string, version int) []gparse.Diagnostic {
	return e.compileAndPublish(uri, text, version)
}

// Edit recompiles uri for new editor content, the high-frequency path
// every keystroke eventually drives (spec.md §6 "edit"). The underlying
// cache collapses concurrent compiles of the same URI and content via
// singleflight and never hands one content's result to a call with other
// content, so the result published here is always derived from the
// content this call observed (spec.md §5's ordering guarantee).
func (e *Engine) Edit(uri, text string, version int) []gparse.Diagnostic {
	return e.compileAndPublish(uri, text, version)
}

func (e *Engine) compileAndPublish(uri, text string, version int) []gparse.Diagnostic {
	result := e.cache.GetOrCompile(uri, text)

	e.mu.Lock()
	e.documents[uri] = document{version: version, text: text}
	e.tracker.Walk(result.URI, result.Arena, result.Root)
	e.symbols.Rebuild(e.tracker, result.URI)
	e.mu.Unlock()

	e.publish(uri, result.Diagnostics)
	return result.Diagnostics
}

// Close drops every index entry recorded for uri and forgets its
// document state (spec.md §6 "close").
func (e *Engine) Close(uri string) {
	e.mu.Lock()
	delete(e.documents, uri)
	e.cache.Invalidate(uri)
	e.tracker.Forget(uri)
	e.symbols.Forget(uri)
	e.mu.Unlock()
}

// Subscribe registers a channel to receive every diagnostics batch
// published for uri from this point on (spec.md §6 "diagnostics(uri) →
// list<diagnostic> (subscription; emitted on every successful parse)").
// The returned func unregisters and closes the channel.
func (e *Engine) Subscribe(uri string) (<-chan []gparse.Diagnostic, func()) {
	ch := make(chan []gparse.Diagnostic, 1)
	e.subsMu.Lock()
	e.subscribers[uri] = append(e.subscribers[uri], ch)
	e.subsMu.Unlock()

	return ch, func() {
		e.subsMu.Lock()
		defer e.subsMu.Unlock()
		subs := e.subscribers[uri]
		for i, c := range subs {
			if c == ch {
				e.subscribers[uri] = append(subs[:i], subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
}

func (e *Engine) publish(uri string, diags []gparse.Diagnostic) {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	for _, ch := range e.subscribers[uri] {
		select {
		case ch <- diags:
		default:
			// a subscriber that is not keeping up drops the stale batch
			// rather than block the compile path that produced it.
			select {
			case <-ch:
			default:
			}
			ch <- diags
		}
	}
}

// Recompile eagerly recompiles every URI in uris concurrently, one
// errgroup goroutine per URI with no limit on how many run at once, used after a
// coarse workspace change to warm the cache back up for documents the
// editor still has open rather than waiting for the next edit per file
// (spec.md §5 "parses are independent and may interleave").
func (e *Engine) Recompile(ctx context.Context, uris []string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, uri := range uris {
		uri := uri
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e.mu.RLock()
			doc, ok := e.documents[uri]
			e.mu.RUnlock()
			if !ok {
				return nil
			}
			e.compileAndPublish(uri, doc.text, doc.version)
			return nil
		})
	}
	return g.Wait()
}
