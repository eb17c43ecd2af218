// Package notify turns watch points into live fsnotify registrations.
//
// A Registrar watches the operating-system directories needed to observe a
// watchpoint.Subset and forwards only the events that fall inside it:
//
//   - directory points are watched recursively, and directories created
//     below them later are added as they appear;
//   - file points are watched through their parent directory;
//   - missing points are watched through their nearest existing ancestor,
//     and the chain of directories leading to them is followed as it is
//     created.
//
// Paths are passed to fsnotify unchanged, so a subset of relative paths is
// resolved against the working directory.
package notify

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/jmgilman/go/filecollection/errors"
	"github.com/jmgilman/go/filecollection/watchpoint"
)

const defaultBufferSize = 64

// Event is a change inside a registered watch point.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Option configures a Registrar.
type Option func(*config)

type config struct {
	logger     *slog.Logger
	bufferSize int
}

// WithLogger sets the logger for watch additions and dropped events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBufferSize sets the capacity of the event channel.
func WithBufferSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

// Registrar owns an fsnotify watcher and the watch points registered with it.
type Registrar struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu      sync.Mutex
	subset  *watchpoint.Subset
	watched map[string]struct{}
	closed  bool

	events chan Event
	errors chan error
	done   chan struct{}
	wg     sync.WaitGroup
}

// New starts a Registrar with no watch points.
func New(opts ...Option) (*Registrar, error) {
	cfg := config{logger: slog.New(slog.DiscardHandler), bufferSize: defaultBufferSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeWatchFailed, "failed to create file watcher")
	}

	r := &Registrar{
		watcher: watcher,
		logger:  cfg.logger,
		subset:  watchpoint.NewSubset(),
		watched: make(map[string]struct{}),
		events:  make(chan Event, cfg.bufferSize),
		errors:  make(chan error, 4),
		done:    make(chan struct{}),
	}
	r.wg.Add(1)
	go r.run()
	return r, nil
}

// Events returns the channel of changes inside registered watch points. It
// is closed by Close.
func (r *Registrar) Events() <-chan Event {
	return r.events
}

// Errors returns the channel of watcher failures. It is closed by Close.
func (r *Registrar) Errors() <-chan error {
	return r.errors
}

// Register adds the points of subset. Points already registered are not
// added again.
func (r *Registrar) Register(subset *watchpoint.Subset) error {
	if subset == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errors.New(errors.CodeWatchFailed, "registrar is closed")
	}

	r.subset.Merge(subset)
	for _, p := range subset.Roots() {
		if err := r.registerLocked(p); err != nil {
			return err
		}
	}
	return nil
}

// Subset returns a copy of every point registered so far.
func (r *Registrar) Subset() *watchpoint.Subset {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := watchpoint.NewSubset()
	out.Merge(r.subset)
	return out
}

// Watched returns the directories currently watched, sorted.
func (r *Registrar) Watched() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	dirs := make([]string, 0, len(r.watched))
	for dir := range r.watched {
		dirs = append(dirs, dir)
	}
	slices.Sort(dirs)
	return dirs
}

// Close stops the watcher and closes the Events and Errors channels.
func (r *Registrar) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	close(r.done)
	err := r.watcher.Close()
	r.wg.Wait()
	close(r.events)
	close(r.errors)
	if err != nil {
		return errors.Wrap(err, errors.CodeWatchFailed, "failed to close file watcher")
	}
	return nil
}

func (r *Registrar) registerLocked(p watchpoint.Point) error {
	path := filepath.FromSlash(p.Path)
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir() && p.Kind != watchpoint.KindFile:
		return r.addTreeLocked(path)
	case err == nil:
		return r.addLocked(filepath.Dir(path))
	case errors.Is(err, fs.ErrNotExist):
		return r.addLocked(nearestExisting(path))
	default:
		return errors.WrapWithContext(err, errors.CodeWatchFailed, "failed to stat watch point", map[string]any{
			"path": p.Path,
			"kind": p.Kind.String(),
		})
	}
}

// addTreeLocked watches root and every directory below it.
func (r *Registrar) addTreeLocked(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// directories can vanish between listing and watching
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return errors.WrapWithContext(err, errors.CodeWatchFailed, "failed to walk watched directory", map[string]any{
				"path": path,
			})
		}
		if !d.IsDir() {
			return nil
		}
		return r.addLocked(path)
	})
}

func (r *Registrar) addLocked(dir string) error {
	if _, ok := r.watched[dir]; ok {
		return nil
	}
	if err := r.watcher.Add(dir); err != nil {
		return errors.WrapWithContext(err, errors.CodeWatchFailed, "failed to add watch", map[string]any{
			"path": dir,
		})
	}
	r.watched[dir] = struct{}{}
	r.logger.Debug("watch added", "path", dir, "active_watches", len(r.watched))
	return nil
}

func (r *Registrar) run() {
	defer r.wg.Done()
	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			r.handleEvent(event)
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.send(nil, errors.Wrap(err, errors.CodeWatchFailed, "file watcher failed"))
		case <-r.done:
			return
		}
	}
}

func (r *Registrar) handleEvent(event fsnotify.Event) {
	name := watchpoint.Clean(event.Name)

	r.mu.Lock()
	covered := r.subset.Contains(name)
	if event.Has(fsnotify.Create) {
		if err := r.followLocked(event.Name, covered); err != nil {
			r.send(nil, err)
		}
	}
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		delete(r.watched, filepath.Clean(event.Name))
	}
	r.mu.Unlock()

	if !covered {
		return
	}
	r.send(&Event{Path: name, Op: event.Op}, nil)
}

// followLocked watches a newly created directory when it lies inside a
// registered point or on the way to one.
func (r *Registrar) followLocked(path string, covered bool) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil
	}
	if covered {
		return r.addTreeLocked(path)
	}
	name := watchpoint.Clean(path)
	for _, p := range r.subset.Points() {
		if watchpoint.Within(p.Path, name) {
			if err := r.registerLocked(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// send delivers an event, blocking until it is received or the registrar
// closes, or queues an error, dropping it when the queue is full.
func (r *Registrar) send(event *Event, err error) {
	if event != nil {
		select {
		case r.events <- *event:
		case <-r.done:
		}
		return
	}
	select {
	case r.errors <- err:
	default:
		r.logger.Warn("dropped watcher error", "error", err)
	}
}

// nearestExisting returns path's closest ancestor that exists.
func nearestExisting(path string) string {
	for {
		parent := filepath.Dir(path)
		if _, err := os.Stat(parent); err == nil || parent == path {
			return parent
		}
		path = parent
	}
}
