package library

import (
	"strings"

	domainerrors "smartlib/internal/core/errors"

	"github.com/gobwas/glob"
)

// ShelfUsage pairs a shelf's occupancy with its capacity.
type ShelfUsage struct {
	Shelf    string
	Used     int
	Capacity int
}

func (u ShelfUsage) Full() bool {
	return u.Used >= u.Capacity
}

type Totals struct {
	Books    int
	Shelves  int
	Capacity int
}

func (l *Library) Shelves() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.shelves...)
}

func (l *Library) IsShelf(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.capacity[name]
	return ok
}

func (l *Library) Occupancy(shelf string) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, ok := l.capacity[shelf]; !ok {
		return 0, unknownShelf(shelf)
	}
	return l.occupancyLocked(shelf, ""), nil
}

func (l *Library) Capacity(shelf string) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	capacity, ok := l.capacity[shelf]
	if !ok {
		return 0, unknownShelf(shelf)
	}
	return capacity, nil
}

// HasRoom reports whether one more book fits on shelf.
func (l *Library) HasRoom(shelf string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, ok := l.capacity[shelf]; !ok {
		return false, unknownShelf(shelf)
	}
	return l.hasRoomLocked(shelf, ""), nil
}

// IncreaseCapacity grows one shelf by delta. There is no way to shrink a
// shelf, so capacity never drops below occupancy.
func (l *Library) IncreaseCapacity(shelf string, delta int) error {
	if err := validateDelta(delta); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.capacity[shelf]; !ok {
		return unknownShelf(shelf)
	}
	l.capacity[shelf] += delta
	return nil
}

func (l *Library) IncreaseCapacityAll(delta int) error {
	if err := validateDelta(delta); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, shelf := range l.shelves {
		l.capacity[shelf] += delta
	}
	return nil
}

// IncreaseCapacityMatching grows every shelf whose name matches the glob
// pattern (for example "Shelf-*") and returns the shelves it touched.
func (l *Library) IncreaseCapacityMatching(pattern string, delta int) ([]string, error) {
	if err := validateDelta(delta); err != nil {
		return nil, err
	}
	pattern = strings.TrimSpace(pattern)
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeValidationError, "invalid shelf pattern"),
			domainerrors.CtxShelf, pattern,
		)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	matched := make([]string, 0, len(l.shelves))
	for _, shelf := range l.shelves {
		if matcher.Match(shelf) {
			matched = append(matched, shelf)
		}
	}
	if len(matched) == 0 {
		return nil, domainerrors.AddContext(
			domainerrors.Newf(domainerrors.CodeNotFound, "no shelf matches %q", pattern),
			domainerrors.CtxShelf, pattern,
		)
	}
	for _, shelf := range matched {
		l.capacity[shelf] += delta
	}
	return matched, nil
}

// Usage lists every shelf in configured order.
func (l *Library) Usage() []ShelfUsage {
	l.mu.RLock()
	defer l.mu.RUnlock()

	counts := make(map[string]int, len(l.shelves))
	for _, b := range l.books {
		counts[b.Shelf]++
	}
	out := make([]ShelfUsage, 0, len(l.shelves))
	for _, shelf := range l.shelves {
		out = append(out, ShelfUsage{Shelf: shelf, Used: counts[shelf], Capacity: l.capacity[shelf]})
	}
	return out
}

func (l *Library) Totals() Totals {
	l.mu.RLock()
	defer l.mu.RUnlock()
	total := Totals{Books: len(l.books), Shelves: len(l.shelves)}
	for _, c := range l.capacity {
		total.Capacity += c
	}
	return total
}

// occupancyLocked counts books on shelf, skipping the book with id exclude.
func (l *Library) occupancyLocked(shelf, exclude string) int {
	n := 0
	for _, b := range l.books {
		if b.Shelf == shelf && b.ID != exclude {
			n++
		}
	}
	return n
}

func (l *Library) hasRoomLocked(shelf, exclude string) bool {
	return l.occupancyLocked(shelf, exclude) < l.capacity[shelf]
}

func validateDelta(delta int) error {
	if delta < 1 {
		return domainerrors.Newf(domainerrors.CodeValidationError, "capacity increase must be >= 1, got %d", delta)
	}
	return nil
}

func unknownShelf(shelf string) error {
	return domainerrors.AddContext(
		domainerrors.Newf(domainerrors.CodeNotFound, "unknown shelf %q", shelf),
		domainerrors.CtxShelf, shelf,
	)
}

func shelfFull(shelf string, used, capacity int) error {
	return domainerrors.AddContext(
		domainerrors.Newf(domainerrors.CodeShelfFull, "%s is full (%d/%d)", shelf, used, capacity),
		domainerrors.CtxShelf, shelf,
	)
}
