package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/handiism/avatar-customizer/internal/manifest"
	"github.com/handiism/avatar-customizer/internal/model"
	"github.com/handiism/avatar-customizer/internal/render"
	"github.com/handiism/avatar-customizer/internal/selection"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNotReady is returned by operations that need a catalog before the
// first successful Refresh.
var ErrNotReady = errors.New("catalog not loaded")

const defaultPrefetch = 4

// Snapshot is one immutable catalog build with its derived views.
type Snapshot struct {
	Catalog  *model.Catalog
	Views    model.Views
	Report   manifest.Report
	BaseURL  string
	LoadedAt time.Time
}

// Options configures a Session.
type Options struct {
	// Source produces the file listing. Required.
	Source manifest.Source

	// Parts configures classification and the draw order. Nil selects
	// model.DefaultParts and model.DefaultExtension.
	Parts *model.PartConfig

	// Loader loads layer images. Required.
	Loader render.ImageLoader

	// Render configures the compositor.
	Render render.CompositorConfig

	// Policy picks default shapes.
	Policy selection.Policy

	// MaxConcurrentPrefetch bounds Prefetch. Zero selects 4.
	MaxConcurrentPrefetch int

	// Logger receives structured logs. Nil disables logging.
	Logger *zap.Logger

	// OnEvent receives progress events. It may be nil.
	OnEvent func(Event)

	Hooks Hooks
}

// Session is one customization session. Create it with New and release it
// with Close.
type Session struct {
	id         uuid.UUID
	source     manifest.Source
	parts      *model.PartConfig
	loader     render.ImageLoader
	compositor *render.Compositor
	selection  *selection.Store
	prefetch   int
	logger     *zap.Logger
	onEvent    func(Event)
	hooks      Hooks

	snapshot atomic.Pointer[Snapshot]
	latest   atomic.Pointer[image.RGBA]

	refreshMu sync.Mutex

	// stateMu pairs the published catalog with the selection: a catalog
	// swap and its reseed, or a validated Set, happen as one step.
	stateMu sync.RWMutex

	// requests holds at most one pending composite.
	requests  chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a Session and starts its composite worker.
func New(opts Options) *Session {
	parts := opts.Parts
	if parts == nil {
		parts = &model.PartConfig{Parts: model.DefaultParts, Extension: model.DefaultExtension}
	}
	prefetch := opts.MaxConcurrentPrefetch
	if prefetch <= 0 {
		prefetch = defaultPrefetch
	}
	id := uuid.New()
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("session", id.String()))

	s := &Session{
		id:         id,
		source:     opts.Source,
		parts:      parts,
		loader:     opts.Loader,
		compositor: render.NewCompositor(opts.Loader, opts.Render, logger),
		selection:  selection.NewStore(opts.Policy),
		prefetch:   prefetch,
		logger:     logger,
		onEvent:    opts.OnEvent,
		hooks:      opts.Hooks,
		requests:   make(chan struct{}, 1),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go s.work()
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id.String()
}

// Parts returns the configured part order.
func (s *Session) Parts() []string {
	return append([]string(nil), s.parts.Parts...)
}

// Snapshot returns the current catalog build, or nil before the first
// successful Refresh.
func (s *Session) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Catalog returns the current catalog, or nil before the first Refresh.
func (s *Session) Catalog() *model.Catalog {
	if snap := s.snapshot.Load(); snap != nil {
		return snap.Catalog
	}
	return nil
}

// Refresh fetches the listing, rebuilds the catalog and publishes it.
//
// On a listing failure the previous snapshot and selection stay in effect,
// a KindManifestUnavailable event is emitted and the error, wrapping
// manifest.ErrManifestUnavailable, is returned. On success the selection
// is reconciled with the new catalog in the same step that publishes it,
// the PartSelected and GridRebuild hooks run for the first part with
// shapes, a KindCatalogReady event is emitted and a composite is requested.
func (s *Session) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.logger.Debug("fetching file listing")
	paths, err := s.source.List(ctx)
	if err != nil {
		if !errors.Is(err, manifest.ErrManifestUnavailable) {
			err = fmt.Errorf("%w: %v", manifest.ErrManifestUnavailable, err)
		}
		s.logger.Error("manifest unavailable", zap.Error(err))
		s.emit(Event{Kind: KindManifestUnavailable, Level: LevelError, Message: err.Error()})
		return err
	}

	builder := manifest.NewBuilder(s.parts, s.source.BaseURL())
	catalog, report := builder.Build(paths)
	snap := &Snapshot{
		Catalog:  catalog,
		Views:    model.Project(catalog),
		Report:   report,
		BaseURL:  s.source.BaseURL(),
		LoadedAt: time.Now(),
	}
	s.stateMu.Lock()
	s.snapshot.Store(snap)
	changed := s.selection.SeedDefaults(catalog)
	s.stateMu.Unlock()

	s.logger.Info("catalog ready",
		zap.Int("listed", report.Listed),
		zap.Int("accepted", report.Accepted),
		zap.Int("shapes", catalog.Total()),
		zap.Strings("seeded", changed))

	if available := catalog.AvailableParts(); len(available) > 0 {
		first := available[0]
		if id, ok := s.selection.Get(first); ok {
			s.partSelected(first, id)
		}
		s.gridRebuild(first, snap.Views.Ordered[first])
	}
	s.emit(Event{
		Kind:    KindCatalogReady,
		Level:   LevelSuccess,
		Message: fmt.Sprintf("Catalog ready: %d shapes from %d files", catalog.Total(), report.Accepted),
		Parts:   catalog.Parts(),
	})
	s.RequestComposite()
	return nil
}

// Get returns the selected shape of part.
func (s *Session) Get(part string) (int, bool) {
	return s.selection.Get(part)
}

// Selection returns a copy of the current selection.
func (s *Session) Selection() map[string]int {
	return s.selection.Snapshot()
}

// Current returns the published catalog together with a copy of the
// selection that belongs to it. Every pick is a shape of the catalog.
func (s *Session) Current() (*model.Catalog, map[string]int) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.Catalog(), s.selection.Snapshot()
}

// Select stores shapeID for part and requests a composite.
//
// It fails with ErrNotReady before the first Refresh and with
// selection.ErrInvalidSelection when the current catalog lacks the shape;
// the previous selection is kept in both cases.
func (s *Session) Select(part string, shapeID int) error {
	s.stateMu.Lock()
	catalog := s.Catalog()
	if catalog == nil {
		s.stateMu.Unlock()
		return ErrNotReady
	}
	err := s.selection.Set(catalog, part, shapeID)
	s.stateMu.Unlock()
	if err != nil {
		s.logger.Debug("selection rejected", zap.String("part", part), zap.Int("shape", shapeID), zap.Error(err))
		return err
	}

	s.emit(Event{
		Kind:    KindSelectionChanged,
		Level:   LevelVerbose,
		Message: fmt.Sprintf("Selected %s %d", part, shapeID),
	})
	s.partSelected(part, shapeID)
	s.RequestComposite()
	return nil
}

// RequestComposite schedules a background composite. Requests made while
// one is pending collapse into it.
func (s *Session) RequestComposite() {
	select {
	case s.requests <- struct{}{}:
	default:
	}
}

// Composite renders the current selection synchronously and publishes
// the result as Latest.
func (s *Session) Composite(ctx context.Context) (*image.RGBA, render.Report, error) {
	catalog, selected := s.Current()
	if catalog == nil {
		return nil, render.Report{}, ErrNotReady
	}

	img, report, err := s.compositor.Composite(ctx, catalog, picks(selected), catalog.Parts())
	if err != nil {
		return img, report, err
	}
	s.latest.Store(img)

	for _, layer := range report.Skipped {
		s.emit(Event{
			Kind:    KindLayerSkipped,
			Level:   LevelWarning,
			Message: fmt.Sprintf("Skipped %s %d: %v", layer.Part, layer.ShapeID, layer.Err),
		})
	}
	s.emit(Event{
		Kind:    KindCompositeDone,
		Level:   LevelVerbose,
		Message: fmt.Sprintf("Composite drawn with %d layers", len(report.Drawn)),
	})
	s.compositeRedraw(img)
	return img, report, nil
}

// Latest returns the most recent composite, or nil if none finished yet.
func (s *Session) Latest() *image.RGBA {
	return s.latest.Load()
}

// Prefetch loads the preview image of every shape so later loads are
// served from the loader cache. Individual failures are logged and
// skipped; only ctx cancellation is returned. It returns the number of
// images loaded.
func (s *Session) Prefetch(ctx context.Context) (int, error) {
	catalog := s.Catalog()
	if catalog == nil {
		return 0, ErrNotReady
	}

	var loaded atomic.Int32
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.prefetch)

	for _, part := range catalog.Parts() {
		for _, rec := range catalog.Records(part) {
			url := render.DrawPreview.URL(rec)
			g.Go(func() error {
				if _, err := s.loader.Load(ctx, url); err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					s.logger.Debug("prefetch failed", zap.String("url", url), zap.Error(err))
					return nil
				}
				loaded.Add(1)
				return nil
			})
		}
	}

	err := g.Wait()
	return int(loaded.Load()), err
}

// Close stops the composite worker after its current run. It is safe to
// call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
		<-s.done
	})
}

// picks is a selection copy handed to the compositor.
type picks map[string]int

func (p picks) Get(part string) (int, bool) {
	id, ok := p[part]
	return id, ok
}

func (s *Session) work() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case <-s.requests:
			if _, _, err := s.Composite(context.Background()); err != nil && !errors.Is(err, ErrNotReady) {
				s.logger.Warn("composite failed", zap.Error(err))
			}
		}
	}
}
