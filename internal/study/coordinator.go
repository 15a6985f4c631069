package study

import "fmt"

// InfoFormatter renders the diagnostic line shown after an upload.
type InfoFormatter func(Ready) string

// DefaultInfo formats the chunk count and store id.
func DefaultInfo(r Ready) string {
	return fmt.Sprintf("Chunks: %d · Store: %s", r.ChunksAdded, r.DocumentID)
}

// Coordinator holds the document session. It starts not ready and only
// changes when a Ready event is applied; a later Ready overwrites the
// previous document entirely.
type Coordinator struct {
	snap   Snapshot
	format InfoFormatter
}

// NewCoordinator returns a Coordinator in the not-ready state. A nil format
// uses DefaultInfo.
func NewCoordinator(format InfoFormatter) *Coordinator {
	if format == nil {
		format = DefaultInfo
	}
	return &Coordinator{format: format}
}

// Apply records a successful upload and returns the new snapshot.
func (c *Coordinator) Apply(r Ready) Snapshot {
	c.snap = Snapshot{
		Ready:      true,
		DocumentID: r.DocumentID,
		Title:      r.Title,
		StudyPlan:  cloneItems(r.StudyPlan),
		LastInfo:   c.format(r),
	}
	return c.Snapshot()
}

// Snapshot returns a copy of the current state.
func (c *Coordinator) Snapshot() Snapshot {
	s := c.snap
	s.StudyPlan = cloneItems(c.snap.StudyPlan)
	return s
}
