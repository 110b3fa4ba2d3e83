package assets

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ID identifies an asset on a Server. The zero ID is the default handle and
// never loads anything.
type ID uint32

// State is the load state of an asset.
type State uint8

const (
	// Unloaded is the state of the zero ID and of ids the server never issued.
	Unloaded State = iota
	// Loading means the request is queued or in progress.
	Loading
	// Loaded means the value is available.
	Loaded
	// Failed means the read or decode failed; see Server.Err.
	Failed
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

type slot struct {
	path  string
	kind  string
	state State
	value any
	err   error
	done  chan struct{}
}

// Server issues ids for asset paths and loads them out of band. Load never
// blocks; the data is produced either by the worker pool started with Start
// or by Flush. A Server is safe for concurrent use.
type Server struct {
	src     Source
	logger  zerolog.Logger
	workers int
	metrics *Metrics

	loaders map[string]Loader
	exts    []string // registered extensions, longest first

	mu     sync.Mutex
	slots  []*slot
	byPath map[string]ID
	queue  []ID
	wake   chan struct{}
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithWorkers sets the number of goroutines Start runs. The default is 4.
func WithWorkers(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the logger for load failures.
func WithLogger(l zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics records requests and loads on m.
func WithMetrics(m *Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLoader registers l for ext in addition to the built-in loaders.
func WithLoader(ext string, l Loader) ServerOption {
	return func(s *Server) {
		s.RegisterLoader(ext, l)
	}
}

// NewServer returns a Server reading from src, with loaders registered for
// images, fonts and atlases.
func NewServer(src Source, opts ...ServerOption) *Server {
	s := &Server{
		src:     src,
		logger:  zerolog.Nop(),
		workers: 4,
		loaders: make(map[string]Loader),
		byPath:  make(map[string]ID),
		wake:    make(chan struct{}, 1),
	}
	registerDefaults(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterLoader registers l for paths ending in ext, for example ".png" or
// ".atlas.json". Matching is case-insensitive and the longest registered
// extension wins.
func (s *Server) RegisterLoader(ext string, l Loader) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.loaders[ext]; !ok {
		s.exts = append(s.exts, ext)
		sort.SliceStable(s.exts, func(i, j int) bool { return len(s.exts[i]) > len(s.exts[j]) })
	}
	s.loaders[ext] = l
}

func (s *Server) loaderFor(p string) (Loader, string, bool) {
	lower := strings.ToLower(p)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ext := range s.exts {
		if strings.HasSuffix(lower, ext) {
			return s.loaders[ext], strings.TrimPrefix(ext, "."), true
		}
	}
	return nil, strings.TrimPrefix(path.Ext(lower), "."), false
}

// Load returns the id for p, queueing a load the first time p is seen.
func (s *Server) Load(p string) ID {
	p = path.Clean(strings.TrimPrefix(p, "/"))
	_, kind, _ := s.loaderFor(p)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.requests.WithLabelValues(kind).Inc()
	}
	if id, ok := s.byPath[p]; ok {
		return id
	}
	s.slots = append(s.slots, &slot{path: p, kind: kind, state: Loading, done: make(chan struct{})})
	id := ID(len(s.slots))
	s.byPath[p] = id
	s.queue = append(s.queue, id)
	s.signal()
	return id
}

// signal wakes one idle worker. Callers hold mu.
func (s *Server) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Server) next() (ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return 0, false
	}
	id := s.queue[0]
	s.queue = s.queue[1:]
	if len(s.queue) > 0 {
		s.signal()
	}
	return id, true
}

func (s *Server) slot(id ID) *slot {
	if id == 0 || int(id) > len(s.slots) {
		return nil
	}
	return s.slots[id-1]
}

func (s *Server) process(ctx context.Context, id ID) {
	s.mu.Lock()
	sl := s.slot(id)
	s.mu.Unlock()

	start := time.Now()
	value, err := s.read(ctx, sl.path)

	result := "ok"
	s.mu.Lock()
	if err != nil {
		sl.state = Failed
		sl.err = err
		result = "error"
	} else {
		sl.state = Loaded
		sl.value = value
	}
	close(sl.done)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.loads.WithLabelValues(sl.kind, result).Inc()
		s.metrics.duration.WithLabelValues(sl.kind).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		s.logger.Error().
			Str("target", "assets").
			Str("path", sl.path).
			Err(err).
			Msg("asset load failed")
		return
	}
	s.logger.Debug().
		Str("target", "assets").
		Str("path", sl.path).
		Dur("took", time.Since(start)).
		Msg("asset loaded")
}

func (s *Server) read(ctx context.Context, p string) (any, error) {
	l, _, ok := s.loaderFor(p)
	if !ok {
		return nil, eris.Wrapf(ErrNoLoader, "%q", p)
	}
	data, err := s.src.Read(ctx, p)
	if err != nil {
		return nil, err
	}
	return l.Load(&LoadContext{ctx: ctx, path: p, server: s}, data)
}

// Flush loads every queued asset on the calling goroutine.
func (s *Server) Flush(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		id, ok := s.next()
		if !ok {
			return nil
		}
		s.process(ctx, id)
	}
}

// Start runs the worker pool until ctx is done. It returns nil on
// cancellation.
func (s *Server) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < s.workers; i++ {
		g.Go(func() error {
			for {
				if id, ok := s.next(); ok {
					s.process(ctx, id)
					continue
				}
				select {
				case <-ctx.Done():
					return nil
				case <-s.wake:
				}
			}
		})
	}
	return g.Wait()
}

// Wait blocks until id is no longer loading or ctx is done. Something must
// be processing the queue: a running Start, or a Flush on another goroutine.
func (s *Server) Wait(ctx context.Context, id ID) (State, error) {
	s.mu.Lock()
	sl := s.slot(id)
	s.mu.Unlock()
	if sl == nil {
		return Unloaded, nil
	}
	select {
	case <-sl.done:
	case <-ctx.Done():
		return s.State(id), ctx.Err()
	}
	return s.State(id), nil
}

// State returns the load state of id.
func (s *Server) State(id ID) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sl := s.slot(id); sl != nil {
		return sl.state
	}
	return Unloaded
}

// Value returns the decoded asset for id once it has loaded.
func (s *Server) Value(id ID) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl := s.slot(id)
	if sl == nil || sl.state != Loaded {
		return nil, false
	}
	return sl.value, true
}

// Err returns the failure recorded for id, if any.
func (s *Server) Err(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sl := s.slot(id); sl != nil {
		return sl.err
	}
	return nil
}

// Path returns the path id was issued for.
func (s *Server) Path(id ID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sl := s.slot(id); sl != nil {
		return sl.path
	}
	return ""
}

// Len returns the number of distinct paths requested so far.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

// Pending returns the number of queued requests not yet picked up.
func (s *Server) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
