package relgraph

import (
	"log"

	"github.com/atelier-tools/weave/internal/store"
)

// Source is the read surface the graph needs from the store: derived
// tuples, the project list, and per-kind totals. *store.Store
// satisfies it; tests can substitute a stub.
type Source interface {
	Relationships() ([]store.RelationshipTuple, error)
	Projects() ([]store.Project, error)
	ArtifactCounts() (store.Counts, error)
}

// FromSource assembles the full visualization graph from a store's
// current contents. The graph is advisory, so read failures degrade
// to the empty well-shaped graph instead of propagating — a warning
// goes to the log and the caller always gets a servable payload.
func FromSource(src Source) Graph {
	tuples, err := src.Relationships()
	if err != nil {
		log.Printf("WARNING: relationship derivation failed, serving empty graph: %v", err)
		return Empty()
	}
	projects, err := src.Projects()
	if err != nil {
		log.Printf("WARNING: project listing failed, serving empty graph: %v", err)
		return Empty()
	}
	counts, err := src.ArtifactCounts()
	if err != nil {
		log.Printf("WARNING: artifact counts failed, serving empty graph: %v", err)
		return Empty()
	}
	return Build(tuples, projects, counts)
}
