// Package geomops is the stateless library of spatial transforms applied to
// a selected feature set. Every tool declares feature-count preconditions
// checked before execution; a violation aborts with a user-facing message
// and no mutation.
package geomops

import (
	"fmt"

	"github.com/khankhulgun/khanedit/models"
)

// PreconditionError is a user-facing selection problem. The operation is
// retryable with a corrected selection.
type PreconditionError struct {
	Tool    string
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Tool, e.Message)
}

func preconditionf(tool, format string, args ...any) *PreconditionError {
	return &PreconditionError{Tool: tool, Message: fmt.Sprintf(format, args...)}
}

type bounds struct {
	min int
	max int // 0 means unbounded
}

var featureBounds = map[string]bounds{
	models.ToolBuffer:     {min: 1},
	models.ToolExtrude:    {min: 1, max: 1},
	models.ToolUnion:      {min: 2},
	models.ToolIntersect:  {min: 2, max: 2},
	models.ToolDifference: {min: 2, max: 2},
	models.ToolSimplify:   {min: 1},
	models.ToolConvexHull: {min: 1},
	models.ToolCentroid:   {min: 1},
	models.ToolDissolve:   {min: 2},
	models.ToolArea:       {min: 1},
	models.ToolLength:     {min: 1},
}

func checkBounds(tool string, count int) error {
	b, ok := featureBounds[tool]
	if !ok {
		return preconditionf(tool, "unknown tool")
	}
	if count < b.min {
		if b.max == b.min {
			return preconditionf(tool, "requires exactly %d selected feature(s), got %d", b.min, count)
		}
		return preconditionf(tool, "requires at least %d selected feature(s), got %d", b.min, count)
	}
	if b.max > 0 && count > b.max {
		return preconditionf(tool, "requires at most %d selected feature(s), got %d", b.max, count)
	}
	return nil
}

// Run executes one spatial tool. On error no state has been mutated; the
// returned result is only meaningful when err is nil.
func Run(req models.OperationRequest) (models.OperationResult, error) {
	if err := checkBounds(req.Tool, len(req.Features)); err != nil {
		return models.OperationResult{}, err
	}

	switch req.Tool {
	case models.ToolBuffer:
		return bufferTool(req.Features, req.Params)
	case models.ToolExtrude:
		return extrudeTool(req.Features[0], req.Params)
	case models.ToolUnion:
		return unionTool(req.Features)
	case models.ToolIntersect:
		return intersectTool(req.Features)
	case models.ToolDifference:
		return differenceTool(req.Features)
	case models.ToolSimplify:
		return simplifyTool(req.Features, req.Params)
	case models.ToolConvexHull:
		return convexHullTool(req.Features)
	case models.ToolCentroid:
		return centroidTool(req.Features)
	case models.ToolDissolve:
		return dissolveTool(req.Features)
	case models.ToolArea:
		return areaTool(req.Features)
	case models.ToolLength:
		return lengthTool(req.Features)
	}
	return models.OperationResult{}, preconditionf(req.Tool, "unknown tool")
}

// distanceMeters normalizes a distance parameter to meters.
func distanceMeters(distance float64, unit string) float64 {
	switch unit {
	case "kilometers", "km":
		return distance * 1000
	case "degrees":
		// One degree of latitude on the mean-radius sphere.
		return distance * 111194.93
	default:
		return distance
	}
}
