package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/khankhulgun/khanedit/editor"
	"github.com/khankhulgun/khanedit/models"
	"github.com/khankhulgun/khanedit/viewport"
)

// GetSession returns the live edit session and drag state.
func GetSession(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"session": ed.Controller.Session(),
			"drag":    ed.Controller.Drag(),
		})
	}
}

// SetMode performs an explicit mode transition.
func SetMode(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Mode models.EditMode `json:"mode"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid mode payload",
				"error":   err.Error(),
			})
		}
		if err := ed.Controller.SetMode(body.Mode); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		return c.JSON(ed.Controller.Session())
	}
}

// SetTargetLayer switches the edit target.
func SetTargetLayer(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := ed.Controller.SetTargetLayer(c.Params("id")); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		return c.JSON(ed.Controller.Session())
	}
}

// PostEditEvent feeds one geometric-editor gesture callback into the state
// machine.
func PostEditEvent(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ev models.EditEvent
		if err := c.BodyParser(&ev); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid edit event",
				"error":   err.Error(),
			})
		}
		if err := ed.Controller.HandleEdit(ev); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"session": ed.Controller.Session(),
			"drag":    ed.Controller.Drag(),
		})
	}
}

// SaveSession commits pending drag data and returns to view mode.
func SaveSession(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ed.Controller.Save()
		return c.JSON(ed.Controller.Session())
	}
}

// CancelSession discards pending drag data and returns to view mode.
func CancelSession(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ed.Controller.Cancel()
		return c.JSON(ed.Controller.Session())
	}
}

// DeleteSelected removes the selected features after explicit confirmation.
func DeleteSelected(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Confirmed bool `json:"confirmed"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid delete payload",
				"error":   err.Error(),
			})
		}
		if err := ed.Controller.Delete(body.Confirmed); err != nil {
			status := fiber.StatusBadRequest
			if err == editor.ErrConfirmationRequired {
				status = fiber.StatusPreconditionRequired
			}
			return c.Status(status).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		return c.JSON(ed.Controller.Session())
	}
}

// NudgeSelected shifts the selected features by one arrow-key step.
func NudgeSelected(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Axis      int  `json:"axis"`
			Direction int  `json:"direction"`
			Coarse    bool `json:"coarse"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid nudge payload",
				"error":   err.Error(),
			})
		}
		if err := ed.Controller.Nudge(body.Axis, body.Direction, body.Coarse); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// EscapeKey fires one step of the escape priority chain.
func EscapeKey(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ed.Controller.Escape()
		return c.JSON(ed.Controller.Session())
	}
}

// UpdateViewport records camera movement from the basemap collaborator.
func UpdateViewport(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var state viewport.State
		if err := c.BodyParser(&state); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid viewport payload",
				"error":   err.Error(),
			})
		}
		ed.Viewport.Update(state)
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
