// Package store persists generations: the prompt sent to a model and the
// category map recovered from its answer.
//
// [FileStore] keeps the layout of the desktop tool this project grew from:
//
//	prompts/20241015_093000.md   the system prompt, verbatim
//	json/Tree.json               the category map for central label "Tree"
//
// [MongoStore] keeps the same data as documents in a "generations"
// collection, for the HTTP server.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/mindmap/pkg/catmap"
)

// Generation is one prompt/answer round trip.
type Generation struct {
	ID        string
	Central   string
	Model     string
	Prompt    string
	Map       *catmap.Map
	CreatedAt time.Time
}

// Store saves and loads generations.
type Store interface {
	// SavePrompt records the prompt of g before the model is called. It
	// fills g.ID and g.CreatedAt when they are empty and returns where the
	// prompt was written.
	SavePrompt(ctx context.Context, g *Generation) (string, error)

	// SaveMap records g.Map under g.Central, replacing any earlier map for
	// the same label, and returns where it was written.
	SaveMap(ctx context.Context, g *Generation) (string, error)

	// LoadMap returns the latest map saved for central, or a NOT_FOUND error.
	LoadMap(ctx context.Context, central string) (*catmap.Map, error)

	// List returns the central labels that have a saved map, sorted.
	List(ctx context.Context) ([]string, error)

	Close() error
}
