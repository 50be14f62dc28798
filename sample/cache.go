// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"fmt"
	"os"
	"sync"

	"github.com/ik5/sfzsynth/audio"
)

type cacheKey struct {
	path string
	rate int
}

type entry struct {
	once   sync.Once
	sample *Sample
	err    error
}

// Cache decodes sample files once per (path, rate) and shares the result.
// It is safe for concurrent use; several synths may share one cache.
type Cache struct {
	reg *audio.Registry

	mtx     sync.Mutex
	entries map[cacheKey]*entry
}

func NewCache(reg *audio.Registry) *Cache {
	return &Cache{
		reg:     reg,
		entries: make(map[cacheKey]*entry),
	}
}

// Load returns the sample at path converted to rate Hz.
// Files with more than two channels are folded down to mono.
func (c *Cache) Load(path string, rate int) (*Sample, error) {
	if rate <= 0 {
		return nil, ErrInvalidRate
	}

	key := cacheKey{path: path, rate: rate}

	c.mtx.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	c.mtx.Unlock()

	e.once.Do(func() {
		e.sample, e.err = c.decode(path, rate)
	})

	if e.err != nil {
		// Let a later call retry, e.g. once the file exists.
		c.mtx.Lock()
		if c.entries[key] == e {
			delete(c.entries, key)
		}
		c.mtx.Unlock()
		return nil, e.err
	}

	return e.sample, nil
}

// Len reports the number of cached samples.
func (c *Cache) Len() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return len(c.entries)
}

// Purge drops every cached sample.
func (c *Cache) Purge() {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.entries = make(map[cacheKey]*entry)
}

func (c *Cache) decode(path string, rate int) (*Sample, error) {
	dec, err := c.reg.Lookup(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sample: %w", err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer src.Close()

	if src.Channels() < 1 {
		return nil, fmt.Errorf("%s: %w", path, audio.ErrNoChannels)
	}

	var chain audio.Source = src
	if src.Channels() > 2 {
		chain = audio.NewMonoMixer(chain)
	}
	if chain.SampleRate() != rate {
		chain = audio.NewResampler(chain, rate)
	}

	data, err := audio.ReadAll(chain)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptySample)
	}

	s := &Sample{
		Path:     path,
		Channels: chain.Channels(),
		Rate:     rate,
		OrigRate: src.SampleRate(),
		Data:     data,
	}
	s.Frames = int64(len(data) / s.Channels)

	if looper, ok := src.(audio.Looper); ok {
		if l, ok := looper.Loop(); ok {
			start, end := s.Scale(l.Start), s.Scale(l.End)
			end = min(end, s.Frames-1)
			if start >= 0 && end > start {
				s.Loop = audio.Loop{Start: start, End: end}
				s.HasLoop = true
			}
		}
	}

	return s, nil
}
