package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/khankhulgun/khanedit/editor"
	"github.com/khankhulgun/khanedit/models"
)

// GetLayers lists the registry's layers in order.
func GetLayers(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(ed.Registry.List())
	}
}

// AddLayer registers a new vector layer from a GeoJSON payload.
func AddLayer(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var layer models.VectorLayer
		if err := c.BodyParser(&layer); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid layer payload",
				"error":   err.Error(),
			})
		}
		if err := ed.Registry.Add(layer); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(layer)
	}
}

// DeleteLayer removes a layer from the registry.
func DeleteLayer(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if !ed.Registry.Remove(id) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "Layer not found",
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// RenameLayer updates a layer's display name.
func RenameLayer(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Name string `json:"name"`
		}
		if err := c.BodyParser(&body); err != nil || body.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Name is required",
			})
		}
		if !ed.Registry.Rename(c.Params("id"), body.Name) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "Layer not found",
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// SetLayerVisibility toggles a layer's visibility.
func SetLayerVisibility(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Visible bool `json:"visible"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid visibility payload",
				"error":   err.Error(),
			})
		}
		if !ed.Registry.SetVisible(c.Params("id"), body.Visible) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "Layer not found",
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// SetLayerStyle replaces a layer's style configuration.
func SetLayerStyle(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var style models.LayerStyleConfig
		if err := c.BodyParser(&style); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid style payload",
				"error":   err.Error(),
			})
		}
		if !ed.Registry.SetStyle(c.Params("id"), style) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "Layer not found",
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// ExportLayer produces the (filename, collection) pair for the persistence
// collaborator.
func ExportLayer(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload, err := ed.Registry.Export(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}
		return c.JSON(payload)
	}
}

// GetRenderLayers is the renderable-layer-list accessor for the rendering
// collaborator.
func GetRenderLayers(ed *editor.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(ed.RenderLayers())
	}
}
