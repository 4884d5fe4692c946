package dashboard

import (
	"sync"
	"sync/atomic"
)

// ViewRecorder keeps the last value rendered into each present region.
type ViewRecorder struct {
	mu      sync.RWMutex
	present map[Region]struct{}
	values  map[Region]any
	renders map[Region]int
}

// NewViewRecorder records the given regions, or every region when none are given.
func NewViewRecorder(regions ...Region) *ViewRecorder {
	if len(regions) == 0 {
		regions = Regions()
	}
	present := make(map[Region]struct{}, len(regions))
	for _, r := range regions {
		present[r] = struct{}{}
	}
	return &ViewRecorder{
		present: present,
		values:  make(map[Region]any),
		renders: make(map[Region]int),
	}
}

func (r *ViewRecorder) Has(region Region) bool {
	_, ok := r.present[region]
	return ok
}

func (r *ViewRecorder) Render(region Region, value any) {
	r.mu.Lock()
	r.values[region] = value
	r.renders[region]++
	r.mu.Unlock()
}

// Value returns the last rendered value of region.
func (r *ViewRecorder) Value(region Region) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[region]
	return v, ok
}

// Snapshot copies every rendered region.
func (r *ViewRecorder) Snapshot() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(View, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// RenderCount reports how many times region was rendered.
func (r *ViewRecorder) RenderCount(region Region) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.renders[region]
}

// Update is one region render pushed to subscribers.
type Update struct {
	Region Region `json:"region"`
	Value  any    `json:"value"`
}

// Broadcaster fans region renders out to subscribers. A subscriber whose buffer is full
// misses the update instead of blocking the dashboard.
type Broadcaster struct {
	mu      sync.Mutex
	nextID  int
	subs    map[int]chan Update
	closed  bool
	dropped atomic.Int64
}

// NewBroadcaster returns a broadcaster with no subscribers.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan Update)}
}

// Subscribe registers a subscriber. The returned cancel func is idempotent.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Update, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Update, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// Has is true while anyone is listening.
func (b *Broadcaster) Has(Region) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs) > 0
}

func (b *Broadcaster) Render(region Region, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- Update{Region: region, Value: value}:
		default:
			b.dropped.Add(1)
		}
	}
}

// Dropped counts updates lost to slow subscribers.
func (b *Broadcaster) Dropped() int64 {
	return b.dropped.Load()
}

// Subscribers returns the number of live subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close ends every subscription; later subscribers get a closed channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// MultiRenderer forwards each region to every child that has it.
type MultiRenderer []Renderer

func (m MultiRenderer) Has(region Region) bool {
	for _, r := range m {
		if r.Has(region) {
			return true
		}
	}
	return false
}

func (m MultiRenderer) Render(region Region, value any) {
	for _, r := range m {
		if r.Has(region) {
			r.Render(region, value)
		}
	}
}

var (
	_ Renderer = (*ViewRecorder)(nil)
	_ Renderer = (*Broadcaster)(nil)
	_ Renderer = MultiRenderer(nil)
)
