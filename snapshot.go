package main

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"ufc-predict/backdrop"
	"ufc-predict/particle"
)

// Snapshot parameter defaults and limits.
const (
	defaultSnapshotW      = 1440
	defaultSnapshotH      = 900
	defaultSnapshotFrames = 120
	maxSnapshotSide       = 3840
	maxSnapshotFrames     = 600

	snapshotTTL        = time.Hour
	maxSnapshotEntries = 64
)

type snapshotKey struct {
	variant string
	w, h    int
	frames  int
	seed    uint64
}

type snapshotEntry struct {
	body    []byte
	created time.Time
}

func (k snapshotKey) String() string {
	return fmt.Sprintf("%s/%dx%d/%d/%d", k.variant, k.w, k.h, k.frames, k.seed)
}

// snapshotCache keeps rendered backdrop documents. A snapshot is a pure
// function of its key, so entries only expire to bound memory. Renders run
// outside the lock; concurrent misses on one key share a single render.
type snapshotCache struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[snapshotKey]snapshotEntry
	renders int

	group singleflight.Group
}

func newSnapshotCache(now func() time.Time) *snapshotCache {
	return &snapshotCache{now: now, entries: make(map[snapshotKey]snapshotEntry)}
}

// get returns the SVG for k, rendering it on a miss.
func (c *snapshotCache) get(v particle.Variant, k snapshotKey) ([]byte, time.Time, error) {
	if e, ok := c.lookup(k); ok {
		return e.body, e.created, nil
	}

	res, err, _ := c.group.Do(k.String(), func() (any, error) {
		if e, ok := c.lookup(k); ok {
			return e, nil
		}
		var buf bytes.Buffer
		if _, err := backdrop.Snapshot(v, k.w, k.h, k.frames, k.seed).WriteTo(&buf); err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		now := c.now()
		c.renders++
		if len(c.entries) >= maxSnapshotEntries {
			c.evictLocked(now)
		}
		e := snapshotEntry{body: buf.Bytes(), created: now}
		c.entries[k] = e
		return e, nil
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	e := res.(snapshotEntry)
	return e.body, e.created, nil
}

func (c *snapshotCache) lookup(k snapshotKey) (snapshotEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[k]
	if !ok || c.now().Sub(e.created) >= snapshotTTL {
		return snapshotEntry{}, false
	}
	return e, true
}

// evictLocked drops expired entries, or the oldest one if none expired.
func (c *snapshotCache) evictLocked(now time.Time) {
	var oldest snapshotKey
	var oldestAt time.Time
	dropped := false
	for k, e := range c.entries {
		if now.Sub(e.created) >= snapshotTTL {
			delete(c.entries, k)
			dropped = true
			continue
		}
		if oldestAt.IsZero() || e.created.Before(oldestAt) {
			oldest, oldestAt = k, e.created
		}
	}
	if !dropped {
		delete(c.entries, oldest)
	}
}

// snapshotParams reads w, h, frames and seed from q. Sizes above the limits
// are clamped; malformed or non-positive values are rejected.
func snapshotParams(variant string, q url.Values) (snapshotKey, error) {
	k := snapshotKey{
		variant: variant,
		w:       defaultSnapshotW,
		h:       defaultSnapshotH,
		frames:  defaultSnapshotFrames,
		seed:    1,
	}
	ints := []struct {
		name string
		dst  *int
		max  int
	}{
		{"w", &k.w, maxSnapshotSide},
		{"h", &k.h, maxSnapshotSide},
		{"frames", &k.frames, maxSnapshotFrames},
	}
	for _, p := range ints {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return snapshotKey{}, fmt.Errorf("invalid %s %q", p.name, v)
		}
		*p.dst = min(n, p.max)
	}
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return snapshotKey{}, fmt.Errorf("invalid seed %q", v)
		}
		k.seed = n
	}
	return k, nil
}
