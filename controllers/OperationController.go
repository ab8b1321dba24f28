package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/khankhulgun/khanedit/editor"
	"github.com/khankhulgun/khanedit/geomops"
	"github.com/khankhulgun/khanedit/models"
)

// RunOperation executes a spatial tool over the current selection. A
// precondition violation reports the selection problem without mutating
// anything.
func RunOperation(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tool := c.Params("tool")
		if tool == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Tool parameter is required",
			})
		}

		var params models.OperationParams
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&params); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"status":  "error",
					"message": "Invalid operation parameters",
					"error":   err.Error(),
				})
			}
		}

		result, err := ed.ApplyOperation(tool, params)
		if err != nil {
			var precondition *geomops.PreconditionError
			if errors.As(err, &precondition) {
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
					"status":  "error",
					"message": precondition.Message,
					"tool":    precondition.Tool,
				})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		return c.JSON(result)
	}
}
