package khanedit

import (
	"github.com/gofiber/fiber/v2"

	"github.com/khankhulgun/khanedit/controllers"
	"github.com/khankhulgun/khanedit/editor"
)

// Set registers the editor API on the host application.
func Set(app *fiber.App, ed *editor.Editor) {
	a := app.Group("/editor/api")

	a.Get("/layers", controllers.GetLayers(ed))
	a.Post("/layers", controllers.AddLayer(ed))
	a.Delete("/layers/:id", controllers.DeleteLayer(ed))
	a.Put("/layers/:id/name", controllers.RenameLayer(ed))
	a.Put("/layers/:id/visibility", controllers.SetLayerVisibility(ed))
	a.Put("/layers/:id/style", controllers.SetLayerStyle(ed))
	a.Get("/export/:id", controllers.ExportLayer(ed))
	a.Get("/render-layers", controllers.GetRenderLayers(ed))

	a.Get("/session", controllers.GetSession(ed))
	a.Post("/session/mode", controllers.SetMode(ed))
	a.Post("/session/target/:id", controllers.SetTargetLayer(ed))
	a.Post("/session/event", controllers.PostEditEvent(ed))
	a.Post("/session/save", controllers.SaveSession(ed))
	a.Post("/session/cancel", controllers.CancelSession(ed))
	a.Post("/session/delete", controllers.DeleteSelected(ed))
	a.Post("/session/nudge", controllers.NudgeSelected(ed))
	a.Post("/session/escape", controllers.EscapeKey(ed))
	a.Post("/viewport", controllers.UpdateViewport(ed))

	a.Post("/operation/:tool", controllers.RunOperation(ed))
}
