package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"cpm-backend/controllers"
	"cpm-backend/lib/rbac"
	"cpm-backend/middleware"
	apimodels "cpm-backend/models/api"
)

type profileApiController struct {
	controllers.BaseAPIController
}

func InitProfileApiRouters(app *fiber.App) {
	controller := profileApiController{}
	app.Route("profile", func(router fiber.Router) {
		router.Get("permissions", controller.permissions)
	})
}

// @Summary Permission matrix
// @Tags Profile
// @Description Module permissions of the caller's role
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=map[models.Module][]models.Permission}
// @Failure 401
// @Failure 500 {object} apimodels.Response
// @router /api/v1/profile/permissions [get]
func (c *profileApiController) permissions(ctx *fiber.Ctx) error {
	matrix := rbac.Instance.GetPermissions(middleware.GetUserRole(ctx))
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(matrix))
}
