// Package alloc tracks the lifetime of loaded level data. Temp owns raw JSON
// documents for the duration of a single load; Arena owns everything that
// lives until the next scene switch.
package alloc

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrDocumentFreed = errors.New("alloc: document already freed")
	ErrTempLeak      = errors.New("alloc: temp documents not freed")
)

// Document is a raw JSON asset owned by a Temp allocator.
type Document struct {
	Path string

	data  []byte
	owner *Temp
	freed bool
}

// Bytes returns the raw JSON. It is nil once the document has been freed.
func (d *Document) Bytes() []byte {
	if d == nil || d.freed {
		return nil
	}
	return d.data
}

// Decode unmarshals the document into v.
func (d *Document) Decode(v any) error {
	if d == nil {
		return fmt.Errorf("alloc: decode nil document")
	}
	if d.freed {
		return fmt.Errorf("%w: %s", ErrDocumentFreed, d.Path)
	}
	if err := json.Unmarshal(d.data, v); err != nil {
		return fmt.Errorf("alloc: decode %s: %w", d.Path, err)
	}
	return nil
}

// Free returns the document to the allocator that handed it out.
func (d *Document) Free() {
	if d == nil {
		return
	}
	d.owner.Free(d)
}

// Temp is the short-lived allocator for JSON documents. Every document handed
// out must be returned with Free before the end of the frame.
type Temp struct {
	live  map[*Document]struct{}
	bytes int
}

func NewTemp() *Temp {
	return &Temp{live: make(map[*Document]struct{})}
}

// Adopt takes ownership of data and returns it as a live document.
func (t *Temp) Adopt(path string, data []byte) *Document {
	if t.live == nil {
		t.live = make(map[*Document]struct{})
	}
	doc := &Document{Path: path, data: data, owner: t}
	t.live[doc] = struct{}{}
	t.bytes += len(data)
	return doc
}

// Free releases a document. Freeing nil or a document owned by another
// allocator is a no-op.
func (t *Temp) Free(doc *Document) {
	if t == nil || doc == nil || doc.owner != t || doc.freed {
		return
	}
	delete(t.live, doc)
	t.bytes -= len(doc.data)
	doc.freed = true
	doc.data = nil
}

// Live returns the number of documents not yet freed.
func (t *Temp) Live() int {
	if t == nil {
		return 0
	}
	return len(t.live)
}

// Bytes returns the total size of live documents.
func (t *Temp) Bytes() int {
	if t == nil {
		return 0
	}
	return t.bytes
}

// Check reports documents that are still live.
func (t *Temp) Check() error {
	if t.Live() == 0 {
		return nil
	}
	paths := make([]string, 0, len(t.live))
	for doc := range t.live {
		paths = append(paths, doc.Path)
	}
	sort.Strings(paths)
	return fmt.Errorf("%w: %s", ErrTempLeak, strings.Join(paths, ", "))
}
