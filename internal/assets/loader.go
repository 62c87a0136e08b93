package assets

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/carview/internal/logger"
)

// ModelCallback receives the outcome of an asynchronous model load.
// Exactly one of model and err is non-nil.
type ModelCallback func(model *Model, err error)

type completion struct {
	path  string
	model *Model
	err   error
	cb    ModelCallback
}

// Loader decodes models off the frame goroutine. Completions are queued and
// only delivered by Poll, so callbacks run on whichever goroutine polls.
type Loader struct {
	assets *Manager
	draco  DecoderConfig

	mu      sync.Mutex
	done    []completion
	pending int

	wg sync.WaitGroup
}

// NewLoader creates a loader reading through m.
func NewLoader(m *Manager, draco DecoderConfig) *Loader {
	return &Loader{assets: m, draco: draco}
}

// LoadModel starts decoding path in the background. cb runs from a later Poll.
func (l *Loader) LoadModel(path string, cb ModelCallback) {
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		start := time.Now()
		model, err := l.decode(path)
		if err != nil {
			logger.Error("model load failed", zap.String("path", path), zap.Error(err))
		} else {
			logger.Info("model loaded",
				zap.String("path", path),
				zap.Int("meshes", model.MeshCount),
				zap.Duration("took", time.Since(start)))
		}

		l.mu.Lock()
		l.done = append(l.done, completion{path: path, model: model, err: err, cb: cb})
		l.mu.Unlock()
	}()
}

func (l *Loader) decode(path string) (*Model, error) {
	full, err := l.assets.Resolve(path)
	if err != nil {
		return nil, err
	}
	// .gltf may reference sibling buffers; .glb is self-contained and cacheable
	if strings.EqualFold(filepath.Ext(full), ".gltf") {
		return DecodeModelFile(full, l.draco)
	}
	data, err := l.assets.Load(path)
	if err != nil {
		return nil, err
	}
	return DecodeModelBytes(data, DecodeOptions{Dir: filepath.Dir(full), Draco: l.draco})
}

// Poll delivers finished loads and returns how many callbacks ran.
// It never blocks.
func (l *Loader) Poll() int {
	l.mu.Lock()
	done := l.done
	l.done = nil
	l.pending -= len(done)
	l.mu.Unlock()

	for _, c := range done {
		if c.cb != nil {
			c.cb(c.model, c.err)
		}
	}
	return len(done)
}

// Pending returns the number of loads not yet delivered by Poll.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// Wait blocks until every started decode has finished. Results still need Poll.
func (l *Loader) Wait() {
	l.wg.Wait()
}
