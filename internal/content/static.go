package content

import "context"

// StaticSource serves a fixed snapshot. It is used when no content
// store is configured and the built-in defaults are the content.
type StaticSource struct {
	snapshot *Snapshot
}

// NewStaticSource creates a source serving the built-in defaults.
func NewStaticSource() *StaticSource {
	return &StaticSource{snapshot: DefaultSnapshot()}
}

// Get returns the fixed snapshot.
func (s *StaticSource) Get(context.Context) *Snapshot {
	return s.snapshot
}
