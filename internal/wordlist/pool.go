package wordlist

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultListLimit caps the default slot to the most common words.
const DefaultListLimit = 1000

// Pool caches the default and expanded word lists loaded from a Source.
// Concurrent loads of the same slot share one fetch.
type Pool struct {
	source Source
	log    *zap.Logger

	mu    sync.RWMutex
	slots map[bool][]string
	// gen is bumped by Invalidate; loads started under an older gen are
	// served but not cached.
	gen   uint64
	group singleflight.Group
}

// NewPool returns a Pool backed by source. A nil source always uses the fallback list.
func NewPool(source Source, log *zap.Logger) *Pool {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{
		source: source,
		log:    log,
		slots:  map[bool][]string{},
	}
}

// Words returns the filtered word list for the slot, loading it once.
// It never fails: source errors are logged and the fallback list is used.
func (p *Pool) Words(ctx context.Context, expanded bool) []string {
	if words, ok := p.cached(expanded); ok {
		return words
	}
	v, _, _ := p.group.Do(slotKey(expanded), func() (any, error) {
		p.mu.RLock()
		words, ok := p.slots[expanded]
		gen := p.gen
		p.mu.RUnlock()
		if ok {
			return words, nil
		}
		words = p.load(ctx, expanded)
		if ctx.Err() != nil {
			// Canceled loads are served but not cached.
			return words, nil
		}
		p.mu.Lock()
		if gen == p.gen {
			p.slots[expanded] = words
		}
		p.mu.Unlock()
		return words, nil
	})
	return v.([]string)
}

// Invalidate drops both cached slots. Loads already in flight finish for
// their callers but do not repopulate the cache.
func (p *Pool) Invalidate() {
	p.mu.Lock()
	p.slots = map[bool][]string{}
	p.gen++
	p.mu.Unlock()
	p.group.Forget(slotKey(false))
	p.group.Forget(slotKey(true))
}

func slotKey(expanded bool) string {
	return strconv.FormatBool(expanded)
}

func (p *Pool) cached(expanded bool) ([]string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	words, ok := p.slots[expanded]
	return words, ok
}

func (p *Pool) load(ctx context.Context, expanded bool) []string {
	if p.source == nil {
		return FallbackWords()
	}
	raw, err := p.source.Fetch(ctx, expanded)
	if err != nil {
		p.log.Warn("failed to load word list, using fallback",
			zap.Bool("expanded", expanded), zap.Error(err))
		return FallbackWords()
	}
	nonEmpty := make([]string, 0, len(raw))
	for _, w := range raw {
		if w = Normalize(w); w != "" {
			nonEmpty = append(nonEmpty, w)
		}
	}
	if !expanded && len(nonEmpty) > DefaultListLimit {
		nonEmpty = nonEmpty[:DefaultListLimit]
	}
	words := Filter(nonEmpty, KeepWord)
	if len(words) == 0 {
		p.log.Warn("word list empty after filtering, using fallback", zap.Bool("expanded", expanded))
		return FallbackWords()
	}
	p.log.Debug("loaded word list", zap.Bool("expanded", expanded), zap.Int("words", len(words)))
	return words
}
