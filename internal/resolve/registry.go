package resolve

import (
	"golang.org/x/sync/singleflight"

	"github.com/alexanderramin/focusroom/internal/content"
)

// Registry deduplicates concurrent resolutions per item id: while a fetch
// for an id is in flight, later callers for the same id share its result
// instead of issuing their own. The pending entry is removed when the fetch
// settles, success or failure, so a manual retry is never blocked.
//
// Each Loader owns its own Registry instance; nothing here is global, so
// tests can run isolated registries side by side.
type Registry struct {
	group singleflight.Group
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Resolve runs fetch for itemID, unless a fetch for the same id is already
// pending, in which case the caller awaits that shared result.
func (r *Registry) Resolve(itemID string, fetch func() (*content.Resolved, error)) (*content.Resolved, error) {
	v, err, _ := r.group.Do(itemID, func() (any, error) {
		return fetch()
	})
	if err != nil {
		return nil, err
	}
	return v.(*content.Resolved), nil
}
