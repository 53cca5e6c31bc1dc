package buffer

import (
	"strings"
	"sync"

	"github.com/dshills/pieceengine/internal/piecetree"
)

// Snapshot is a read-only view of a buffer at a specific point in time. It
// is safe for concurrent access and never changes even as the Buffer it
// came from keeps mutating.
type Snapshot struct {
	mu         sync.Mutex
	inner      *piecetree.Snapshot
	text       string
	textRead   bool
	revisionID RevisionID
	eol        string
	tabWidth   int
}

// Text returns the full snapshot content as a string, draining the
// underlying pull-based reader and caching the result on first call. Safe
// to call from multiple goroutines; only the first caller actually drains
// the reader.
func (s *Snapshot) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.textRead {
		return s.text
	}
	var b strings.Builder
	for {
		chunk, ok := s.inner.Read()
		if !ok {
			break
		}
		b.WriteString(chunk)
	}
	s.text = b.String()
	s.textRead = true
	return s.text
}

// RevisionID returns the revision ID of this snapshot.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// EOL returns the snapshot's line ending.
func (s *Snapshot) EOL() string {
	return s.eol
}

// TabWidth returns the snapshot's tab width.
func (s *Snapshot) TabWidth() int {
	return s.tabWidth
}
