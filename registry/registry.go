// Package registry holds the layer registry: the single owner of vector
// layer data. Mutation is copy-on-write: a commit replaces a layer's
// feature collection wholesale, so concurrent readers can keep using the
// value they already hold.
package registry

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/khankhulgun/khanedit/models"
)

// UpdateFunc is notified with the committed collection on every discrete
// commit.
type UpdateFunc func(updated models.FeatureCollection, layerID string)

type LayerRegistry struct {
	mu        sync.RWMutex
	layers    []models.VectorLayer
	version   uint64
	listeners []UpdateFunc
}

func NewLayerRegistry() *LayerRegistry {
	return &LayerRegistry{layers: []models.VectorLayer{}}
}

// OnLayerUpdate registers a commit listener. Listeners run synchronously on
// the committing goroutine, outside the registry lock.
func (r *LayerRegistry) OnLayerUpdate(fn UpdateFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Version increments on every mutation; the synthesizer folds it into its
// memoization key.
func (r *LayerRegistry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// List returns the layers in order. The returned slice is a snapshot;
// geometry values inside it are never mutated in place.
func (r *LayerRegistry) List() []models.VectorLayer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.VectorLayer, len(r.layers))
	copy(out, r.layers)
	return out
}

// Get returns the layer with the given id.
func (r *LayerRegistry) Get(id string) (models.VectorLayer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.layers {
		if l.ID == id {
			return l, true
		}
	}
	return models.VectorLayer{}, false
}

// Add appends a layer to the registry.
func (r *LayerRegistry) Add(layer models.VectorLayer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if layer.ID == "" {
		return fmt.Errorf("layer id is required")
	}
	for _, l := range r.layers {
		if l.ID == layer.ID {
			return fmt.Errorf("layer %q already exists", layer.ID)
		}
	}
	if layer.Geometry.Type == "" {
		layer.Geometry = models.NewFeatureCollection(nil)
	}
	r.layers = append(r.layers, layer)
	r.version++
	return nil
}

// Remove deletes a layer.
func (r *LayerRegistry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.layers {
		if l.ID == id {
			r.layers = append(r.layers[:i], r.layers[i+1:]...)
			r.version++
			return true
		}
	}
	return false
}

// Commit replaces a layer's feature collection with a new value and
// notifies listeners. This is the unit of state change for every edit.
func (r *LayerRegistry) Commit(layerID string, fc models.FeatureCollection) error {
	r.mu.Lock()
	found := false
	for i := range r.layers {
		if r.layers[i].ID == layerID {
			r.layers[i].Geometry = fc
			r.version++
			found = true
			break
		}
	}
	listeners := make([]UpdateFunc, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	if !found {
		return fmt.Errorf("layer %q not found", layerID)
	}
	log.Debug().Str("layer", layerID).Int("features", len(fc.Features)).Msg("layer commit")
	for _, fn := range listeners {
		fn(fc, layerID)
	}
	return nil
}

// SetVisible toggles layer visibility.
func (r *LayerRegistry) SetVisible(id string, visible bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.layers {
		if r.layers[i].ID == id {
			r.layers[i].Visible = visible
			r.version++
			return true
		}
	}
	return false
}

// Rename updates a layer's display name.
func (r *LayerRegistry) Rename(id, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.layers {
		if r.layers[i].ID == id {
			r.layers[i].Name = name
			r.version++
			return true
		}
	}
	return false
}

// SetStyle replaces a layer's style configuration.
func (r *LayerRegistry) SetStyle(id string, style models.LayerStyleConfig) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.layers {
		if r.layers[i].ID == id {
			r.layers[i].Style = style
			r.version++
			return true
		}
	}
	return false
}

// FirstEditableLayer returns the first layer whose data is shaped like a
// feature collection. Used to auto-select an edit target when a mode is
// entered with none chosen.
func (r *LayerRegistry) FirstEditableLayer() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.layers {
		if l.Geometry.IsFeatureCollection() {
			return l.ID, true
		}
	}
	return "", false
}

// Export produces the (filename, collection) pair for the persistence
// collaborator. The registry does not format or write files.
func (r *LayerRegistry) Export(id string) (models.ExportPayload, error) {
	layer, ok := r.Get(id)
	if !ok {
		return models.ExportPayload{}, fmt.Errorf("layer %q not found", id)
	}
	name := layer.Name
	if name == "" {
		name = layer.ID
	}
	return models.ExportPayload{
		Filename:          name + ".geojson",
		FeatureCollection: layer.Geometry,
	}, nil
}
