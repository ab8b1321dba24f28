package editor

import (
	"errors"
	"fmt"

	"github.com/khankhulgun/khanedit/geomops"
	"github.com/khankhulgun/khanedit/models"
	"github.com/khankhulgun/khanedit/registry"
	"github.com/khankhulgun/khanedit/synthesis"
	"github.com/khankhulgun/khanedit/viewport"
)

// Editor bundles the layer registry, the edit-mode controller, the layer
// synthesizer and the viewport mirror into one embeddable unit.
type Editor struct {
	Registry   *registry.LayerRegistry
	Controller *Controller
	Synth      *synthesis.Synthesizer
	Viewport   *viewport.Provider
}

func New() *Editor {
	reg := registry.NewLayerRegistry()
	return &Editor{
		Registry:   reg,
		Controller: NewController(reg),
		Synth:      synthesis.NewSynthesizer(),
		Viewport:   viewport.NewProvider(viewport.State{Zoom: 2}),
	}
}

// RenderLayers is the renderable-layer-list accessor consumed by the
// basemap collaborator.
func (e *Editor) RenderLayers() []models.RenderLayer {
	session := e.Controller.Session()
	basicLayer, basicSelection := e.Controller.BasicSelection()
	return e.Synth.Synthesize(synthesis.Input{
		Layers:          e.Registry.List(),
		Mode:            session.Mode,
		TargetLayerID:   session.TargetLayerID,
		SelectedIndexes: session.SelectedIndexes,
		BasicLayerID:    basicLayer,
		BasicSelection:  basicSelection,
		Hovered:         e.Controller.Hovered(),
		Version:         e.Registry.Version(),
	})
}

// ApplyOperation runs a spatial tool over the current selection. Geometry
// results replace the selected features and flow back through the same
// discrete-commit path as manual edits; measurement results are returned
// without touching the layer.
func (e *Editor) ApplyOperation(tool string, params models.OperationParams) (models.OperationResult, error) {
	session := e.Controller.Session()
	if session.TargetLayerID == "" {
		return models.OperationResult{}, errors.New("no target layer")
	}
	layer, ok := e.Registry.Get(session.TargetLayerID)
	if !ok {
		return models.OperationResult{}, fmt.Errorf("layer %q not found", session.TargetLayerID)
	}
	if len(session.SelectedIndexes) == 0 {
		return models.OperationResult{}, errors.New("nothing selected")
	}

	selected := make(map[int]bool, len(session.SelectedIndexes))
	features := make([]models.Feature, 0, len(session.SelectedIndexes))
	for _, i := range session.SelectedIndexes {
		if i < 0 || i >= len(layer.Geometry.Features) {
			return models.OperationResult{}, fmt.Errorf("selected index %d out of range", i)
		}
		selected[i] = true
		features = append(features, layer.Geometry.Features[i])
	}

	result, err := geomops.Run(models.OperationRequest{
		Tool:     tool,
		Features: features,
		Params:   params,
	})
	if err != nil {
		return models.OperationResult{}, err
	}
	if result.Measurement {
		return result, nil
	}

	if len(result.Features) == len(session.SelectedIndexes) {
		// One result per selected feature: splice each back in place so
		// the selected indexes still name the operated features.
		merged := append([]models.Feature(nil), layer.Geometry.Features...)
		for k, i := range session.SelectedIndexes {
			merged[i] = result.Features[k]
		}
		if err := e.Controller.CommitDiscrete(models.NewFeatureCollection(merged)); err != nil {
			return models.OperationResult{}, err
		}
		return result, nil
	}

	// The selection collapsed or expanded; replacements go at the end and
	// the stale selection is cleared with the commit.
	merged := make([]models.Feature, 0, len(layer.Geometry.Features))
	for i, f := range layer.Geometry.Features {
		if !selected[i] {
			merged = append(merged, f)
		}
	}
	merged = append(merged, result.Features...)
	if err := e.Controller.CommitDiscrete(models.NewFeatureCollection(merged)); err != nil {
		return models.OperationResult{}, err
	}
	return result, nil
}

// Close cancels every timer the editor owns.
func (e *Editor) Close() {
	e.Controller.Close()
	e.Viewport.Close()
}
