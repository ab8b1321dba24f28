// Package editor implements the edit-mode state machine: it receives
// gesture and keyboard events, resolves what they mean under the current
// mode, and turns them into selection changes and layer-data commits.
package editor

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/khankhulgun/khanedit/models"
	"github.com/khankhulgun/khanedit/registry"
	"github.com/khankhulgun/khanedit/spatial"
	"github.com/khankhulgun/khanedit/throttle"
)

// CommitInterval bounds re-synthesis cost during continuous drags. The
// trailing event within a window always wins.
const CommitInterval = 100 * time.Millisecond

// Nudge steps in degrees.
const (
	NudgeStep       = 0.0001
	NudgeStepCoarse = 0.001
)

// Nudge axes.
const (
	AxisLongitude = 0
	AxisLatitude  = 1
)

// ErrConfirmationRequired is returned when a destructive action was invoked
// without the explicit confirmation step.
var ErrConfirmationRequired = errors.New("destructive action requires confirmation")

type Controller struct {
	registry *registry.LayerRegistry

	session models.EditSession
	drag    models.DragState

	// Selection held by the basic move tool, independent of edit mode.
	basicLayerID   string
	basicSelection []int

	hovered       *models.Feature
	detailFeature *models.Feature

	commitTimer *throttle.Debouncer

	selectionListeners []func([]int)
}

func NewController(reg *registry.LayerRegistry) *Controller {
	return &Controller{
		registry:    reg,
		session:     models.NewEditSession(),
		commitTimer: throttle.NewDebouncer(CommitInterval),
	}
}

// Close cancels the commit timer; a torn-down controller never fires a late
// commit into dead state.
func (c *Controller) Close() {
	c.commitTimer.Stop()
}

// OnSelectionChange registers a listener invoked with the current selected
// index list after every selection change.
func (c *Controller) OnSelectionChange(fn func([]int)) {
	c.selectionListeners = append(c.selectionListeners, fn)
}

func (c *Controller) notifySelection() {
	current := append([]int(nil), c.session.SelectedIndexes...)
	for _, fn := range c.selectionListeners {
		fn(current)
	}
}

// Session returns the live edit session.
func (c *Controller) Session() models.EditSession {
	return c.session
}

// Drag returns the live drag state.
func (c *Controller) Drag() models.DragState {
	return c.drag
}

// Hovered returns the feature under the pointer, if any.
func (c *Controller) Hovered() *models.Feature { return c.hovered }

// DetailFeature returns the feature shown in the detail view, if any.
func (c *Controller) DetailFeature() *models.Feature { return c.detailFeature }

// BasicSelection returns the basic move tool's target layer and selection.
func (c *Controller) BasicSelection() (string, []int) {
	return c.basicLayerID, c.basicSelection
}

// SetHovered records the hover target for highlight resolution.
func (c *Controller) SetHovered(f *models.Feature) { c.hovered = f }

// OpenDetail shows a feature detail view.
func (c *Controller) OpenDetail(f models.Feature) { c.detailFeature = &f }

// SetBasicSelection records the basic move tool's pick.
func (c *Controller) SetBasicSelection(layerID string, indexes []int) {
	c.basicLayerID = layerID
	c.basicSelection = append([]int(nil), indexes...)
}

// SetMode performs an explicit, caller-driven mode transition. Entering a
// non-view mode with no target layer auto-selects the first layer holding
// feature-collection data. Any in-flight drag is discarded.
func (c *Controller) SetMode(mode models.EditMode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown edit mode %q", mode)
	}
	c.discardDrag()
	if mode == models.ModeView {
		c.reset()
		return nil
	}
	c.session.Mode = mode
	if c.session.TargetLayerID == "" {
		if id, ok := c.registry.FirstEditableLayer(); ok {
			c.session.TargetLayerID = id
		}
	}
	return nil
}

// SetTargetLayer switches the single edit target.
func (c *Controller) SetTargetLayer(id string) error {
	if _, ok := c.registry.Get(id); !ok {
		return fmt.Errorf("layer %q not found", id)
	}
	c.session.TargetLayerID = id
	c.session.SelectedIndexes = []int{}
	c.notifySelection()
	return nil
}

// Save commits any pending throttled drag data and leaves edit mode.
func (c *Controller) Save() {
	c.commitTimer.Flush()
	c.reset()
}

// Cancel discards any pending drag data and leaves edit mode.
func (c *Controller) Cancel() {
	c.commitTimer.Cancel()
	c.reset()
}

func (c *Controller) reset() {
	c.session = models.NewEditSession()
	c.drag = models.DragState{}
	c.notifySelection()
}

func (c *Controller) discardDrag() {
	c.commitTimer.Cancel()
	c.drag = models.DragState{}
}

// HandleEdit resolves one gesture callback from the geometric editor.
func (c *Controller) HandleEdit(ev models.EditEvent) error {
	if c.session.Mode == models.ModeView {
		return fmt.Errorf("edit event %q outside edit mode", ev.Type)
	}
	switch ev.Type {
	case models.EditSelect, models.EditDeselect:
		c.drag = models.DragState{}
		c.session.SelectedIndexes = append([]int(nil), ev.SelectedIndexes...)
		if c.session.SelectedIndexes == nil {
			c.session.SelectedIndexes = []int{}
		}
		c.notifySelection()
		return nil

	case models.EditMovePosition:
		if ev.Position != nil {
			if !c.drag.Active() {
				start := append([]float64(nil), ev.Position...)
				c.drag.StartPosition = start
			} else {
				d := spatial.HaversineDistance(c.drag.StartPosition, ev.Position)
				c.drag.DistanceMeters = &d
			}
		}
		if ev.UpdatedData != nil {
			c.scheduleCommit(*ev.UpdatedData)
		}
		return nil

	case models.EditFinishMovePosition:
		if ev.UpdatedData != nil {
			c.scheduleCommit(*ev.UpdatedData)
		}
		c.commitTimer.Flush()
		c.drag = models.DragState{}
		return nil

	case models.EditAddFeature, models.EditRemoveFeature, models.EditAddPosition,
		models.EditRemovePosition, models.EditTranslated, models.EditScaled,
		models.EditRotated, models.EditExtruded, models.EditSplit, models.EditGeneric:
		if ev.UpdatedData == nil {
			return fmt.Errorf("edit event %q carries no updated data", ev.Type)
		}
		return c.CommitDiscrete(*ev.UpdatedData)
	}
	return fmt.Errorf("unknown edit event %q", ev.Type)
}

func (c *Controller) scheduleCommit(fc models.FeatureCollection) {
	layerID := c.session.TargetLayerID
	if layerID == "" {
		return
	}
	c.commitTimer.Schedule(func() {
		if err := c.registry.Commit(layerID, fc); err != nil {
			log.Warn().Err(err).Str("layer", layerID).Msg("throttled commit failed")
		}
	})
}

// CommitDiscrete replaces the target layer's collection immediately. When
// the feature count changes, stale selected indexes are cleared. Spatial
// tool results are merged back through this same path.
func (c *Controller) CommitDiscrete(fc models.FeatureCollection) error {
	layerID := c.session.TargetLayerID
	if layerID == "" {
		return errors.New("no target layer")
	}
	before, ok := c.registry.Get(layerID)
	if !ok {
		return fmt.Errorf("layer %q not found", layerID)
	}
	if err := c.registry.Commit(layerID, fc); err != nil {
		return err
	}
	if len(before.Geometry.Features) != len(fc.Features) {
		c.session.SelectedIndexes = []int{}
		c.notifySelection()
	}
	return nil
}

// Delete removes the selected features. It is valid only inside edit mode
// with a target layer and a non-empty selection, and requires explicit
// confirmation; an unconfirmed call mutates nothing.
func (c *Controller) Delete(confirmed bool) error {
	if c.session.Mode == models.ModeView {
		return errors.New("delete is not available in view mode")
	}
	if c.session.TargetLayerID == "" {
		return errors.New("no target layer")
	}
	if len(c.session.SelectedIndexes) == 0 {
		return errors.New("nothing selected")
	}
	if !confirmed {
		return ErrConfirmationRequired
	}

	layer, ok := c.registry.Get(c.session.TargetLayerID)
	if !ok {
		return fmt.Errorf("layer %q not found", c.session.TargetLayerID)
	}
	doomed := make(map[int]bool, len(c.session.SelectedIndexes))
	for _, i := range c.session.SelectedIndexes {
		doomed[i] = true
	}
	kept := make([]models.Feature, 0, len(layer.Geometry.Features))
	for i, f := range layer.Geometry.Features {
		if !doomed[i] {
			kept = append(kept, f)
		}
	}
	if err := c.registry.Commit(c.session.TargetLayerID, models.NewFeatureCollection(kept)); err != nil {
		return err
	}
	c.session.SelectedIndexes = []int{}
	c.notifySelection()
	return nil
}

// Nudge shifts every coordinate of every selected feature along one axis.
// Valid only in translate mode with a non-empty selection.
func (c *Controller) Nudge(axis int, direction int, coarse bool) error {
	if c.session.Mode != models.ModeTranslate {
		return errors.New("nudge is only available in translate mode")
	}
	if len(c.session.SelectedIndexes) == 0 {
		return errors.New("nothing selected")
	}
	if axis != AxisLongitude && axis != AxisLatitude {
		return fmt.Errorf("unknown nudge axis %d", axis)
	}
	if direction != 1 && direction != -1 {
		return fmt.Errorf("nudge direction must be ±1")
	}
	layer, ok := c.registry.Get(c.session.TargetLayerID)
	if !ok {
		return fmt.Errorf("layer %q not found", c.session.TargetLayerID)
	}

	step := NudgeStep
	if coarse {
		step = NudgeStepCoarse
	}
	delta := step * float64(direction)

	selected := make(map[int]bool, len(c.session.SelectedIndexes))
	for _, i := range c.session.SelectedIndexes {
		selected[i] = true
	}

	next := layer.Geometry.Clone()
	for i := range next.Features {
		if !selected[i] || next.Features[i].Geometry == nil {
			continue
		}
		g := next.Features[i].Geometry
		g.Coordinates = nudgeCoordinates(g.Coordinates, axis, delta)
	}
	return c.registry.Commit(c.session.TargetLayerID, next)
}

// nudgeCoordinates shifts one axis of every position in a raw coordinate
// tree, whatever the nesting depth.
func nudgeCoordinates(v any, axis int, delta float64) any {
	switch t := v.(type) {
	case []float64:
		if axis < len(t) {
			t[axis] += delta
		}
		return t
	case []any:
		if pos, ok := models.Position(t); ok && len(t) == len(pos) {
			pos[axis] += delta
			return pos
		}
		for i, item := range t {
			t[i] = nudgeCoordinates(item, axis, delta)
		}
		return t
	case [][]float64:
		for _, p := range t {
			if axis < len(p) {
				p[axis] += delta
			}
		}
		return t
	case [][][]float64:
		for _, ring := range t {
			for _, p := range ring {
				if axis < len(p) {
					p[axis] += delta
				}
			}
		}
		return t
	default:
		return v
	}
}

// Escape fires exactly one step of the priority chain: close the detail
// view, else clear the basic-tool selection, else clear the edit-mode
// selection. Any in-flight drag is discarded unconditionally.
func (c *Controller) Escape() {
	c.discardDrag()
	switch {
	case c.detailFeature != nil:
		c.detailFeature = nil
	case len(c.basicSelection) > 0:
		c.basicSelection = nil
		c.basicLayerID = ""
	default:
		if len(c.session.SelectedIndexes) > 0 {
			c.session.SelectedIndexes = []int{}
			c.notifySelection()
		}
	}
}
