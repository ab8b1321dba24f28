package models

// EditMode is the current interpretation assigned to pointer and keyboard
// gestures. The set is closed; anything outside it is rejected at the API
// boundary.
type EditMode string

const (
	ModeView          EditMode = "view"
	ModeSelect        EditMode = "select"
	ModeSelectByArea  EditMode = "selectByArea"
	ModeModify        EditMode = "modify"
	ModeTransform     EditMode = "transform"
	ModeScale         EditMode = "scale"
	ModeTranslate     EditMode = "translate"
	ModeRotate        EditMode = "rotate"
	ModeDrawPoint     EditMode = "drawPoint"
	ModeDrawLine      EditMode = "drawLine"
	ModeDrawPolygon   EditMode = "drawPolygon"
	ModeDrawRectangle EditMode = "drawRectangle"
	ModeDrawCircle    EditMode = "drawCircle"
)

var editModes = map[EditMode]bool{
	ModeView:          true,
	ModeSelect:        true,
	ModeSelectByArea:  true,
	ModeModify:        true,
	ModeTransform:     true,
	ModeScale:         true,
	ModeTranslate:     true,
	ModeRotate:        true,
	ModeDrawPoint:     true,
	ModeDrawLine:      true,
	ModeDrawPolygon:   true,
	ModeDrawRectangle: true,
	ModeDrawCircle:    true,
}

// Valid reports whether m belongs to the closed mode set.
func (m EditMode) Valid() bool {
	return editModes[m]
}

// EditSession is the live editing state. The zero session is the view state.
type EditSession struct {
	Mode            EditMode `json:"mode"`
	TargetLayerID   string   `json:"target_layer_id,omitempty"`
	SelectedIndexes []int    `json:"selected_feature_indexes"`
}

func NewEditSession() EditSession {
	return EditSession{Mode: ModeView, SelectedIndexes: []int{}}
}

// DragState lives only during a movePosition-class gesture.
type DragState struct {
	StartPosition  []float64 `json:"start_position,omitempty"`
	DistanceMeters *float64  `json:"distance_meters,omitempty"`
}

// Active reports whether a drag is in flight.
func (d DragState) Active() bool {
	return d.StartPosition != nil
}

// Gesture edit types accepted by the controller. movePosition is continuous
// and throttle-committed; everything else is a discrete commit.
const (
	EditSelect             = "select"
	EditDeselect           = "deselect"
	EditMovePosition       = "movePosition"
	EditFinishMovePosition = "finishMovePosition"
	EditAddFeature         = "addFeature"
	EditRemoveFeature      = "removeFeature"
	EditAddPosition        = "addPosition"
	EditRemovePosition     = "removePosition"
	EditTranslated         = "translated"
	EditScaled             = "scaled"
	EditRotated            = "rotated"
	EditExtruded           = "extruded"
	EditSplit              = "split"
	EditGeneric            = "edit"
)

// EditEvent is one gesture callback from the geometric editor.
type EditEvent struct {
	Type            string             `json:"edit_type"`
	UpdatedData     *FeatureCollection `json:"updated_data,omitempty"`
	SelectedIndexes []int              `json:"selected_indexes,omitempty"`
	Position        []float64          `json:"position,omitempty"`
}
