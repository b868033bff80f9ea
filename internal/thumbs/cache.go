/*
 * Copyright (c) 2025 by Jules Collenne.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package thumbs

import (
	"image"
	"sync"

	"github.com/JulesCollenne/pdfkiwi/internal/domain"
)

type cacheKey struct {
	ref  domain.PageRef
	w, h int
}

// Cache keeps the most recently used thumbnails so re-entering a document
// does not re-rasterize every page. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	max     int
	entries map[cacheKey]image.Image
	order   []cacheKey // least recently used first
}

// NewCache returns a cache holding at most max thumbnails.
func NewCache(max int) *Cache {
	if max < 1 {
		max = 1
	}
	return &Cache{max: max, entries: make(map[cacheKey]image.Image)}
}

// Get returns the cached thumbnail for ref at the given size, if present.
func (c *Cache) Get(ref domain.PageRef, w, h int) (image.Image, bool) {
	k := cacheKey{ref: ref, w: w, h: h}
	c.mu.Lock()
	defer c.mu.Unlock()
	img, ok := c.entries[k]
	if ok {
		c.touch(k)
	}
	return img, ok
}

// Put stores a thumbnail, evicting the least recently used entry when full.
func (c *Cache) Put(ref domain.PageRef, w, h int, img image.Image) {
	k := cacheKey{ref: ref, w: w, h: h}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[k]; ok {
		c.entries[k] = img
		c.touch(k)
		return
	}
	for len(c.entries) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[k] = img
	c.order = append(c.order, k)
}

// Len reports the number of cached thumbnails.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Invalidate drops every cached size of every page of the given source, used
// when the file on disk changes.
func (c *Cache) Invalidate(sourcePath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.order[:0]
	for _, k := range c.order {
		if k.ref.SourcePath == sourcePath {
			delete(c.entries, k)
			continue
		}
		kept = append(kept, k)
	}
	c.order = kept
}

// touch moves k to the most recently used position. Caller holds mu.
func (c *Cache) touch(k cacheKey) {
	for i, got := range c.order {
		if got == k {
			c.order = append(append(c.order[:i:i], c.order[i+1:]...), k)
			return
		}
	}
}
