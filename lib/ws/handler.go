package ws

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	wsclient "cpm-backend/lib/ws/client"
	connectionhub "cpm-backend/lib/ws/hub/connection-hub"
	"cpm-backend/middleware"
	wsmodels "cpm-backend/models/ws"
)

func InitWs(app *fiber.App) {
	app.Use("", func(ctx *fiber.Ctx) error {
		ctx.Locals("userID", middleware.GetUserID(ctx))
		return ctx.Next()
	})
	app.Get("/:projectID", websocket.New(projectEventsHandler))
}

// @Summary Project event stream
// @Tags Websocket
// @Description Realtime document and approval events of one project
// @Param   Authorization		header		string		true		"Authorization token"
// @Param   projectID			path		string		true		"project id"
// @Success 200 {object} wsmodels.ServerMessage
// @Failure 400
// @Failure 403
// @Failure 500
// @router /ws/{projectID} [get]
func projectEventsHandler(c *websocket.Conn) {
	userID := c.Locals("userID").(string)
	channel := wsmodels.ProjectChannel(c.Params("projectID"))
	client := wsclient.NewClient(userID, c)
	connectionhub.Instance.AddClient(channel, userID, c)
	defer func() {
		connectionhub.Instance.DeleteClient(channel, userID)
	}()
	client.Dispatch()
}
