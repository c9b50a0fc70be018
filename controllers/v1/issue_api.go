package apiv1

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"cpm-backend/controllers"
	xlsexport "cpm-backend/lib/export/xls"
	issuehandler "cpm-backend/lib/issue"
	"cpm-backend/middleware"
	apimodels "cpm-backend/models/api"
	issueapimodels "cpm-backend/models/api/issue"
)

type issueApiController struct {
	controllers.BaseAPIController
}

func InitIssueApiRouters(app *fiber.App) {
	controller := issueApiController{}
	app.Route("issues", func(router fiber.Router) {
		router.Post("overdue", controller.overdue)
		router.Put("overdue/export", controller.overdueExport)
	})
}

// @Summary Overdue issue report
// @Tags Issues
// @Description Aggregated overdue and due-soon issues with grouped counters
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 issueapimodels.OverdueFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=issueapimodels.OverdueStats}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/issues/overdue [post]
func (c *issueApiController) overdue(ctx *fiber.Ctx) error {
	var payload issueapimodels.OverdueFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "overdue report failed")
	}
	stats, err := issuehandler.Instance.Overdue(middleware.GetUserID(ctx), middleware.GetUserRole(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "overdue report failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(stats))
}

// @Summary Overdue issue report export
// @Tags Issues
// @Description Overdue report as an xlsx file
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 issueapimodels.OverdueFilter	true	"request body"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/issues/overdue/export [put]
func (c *issueApiController) overdueExport(ctx *fiber.Ctx) error {
	var payload issueapimodels.OverdueFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "overdue export failed")
	}
	stats, err := issuehandler.Instance.Overdue(middleware.GetUserID(ctx), middleware.GetUserRole(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "overdue export failed")
	}
	buf, err := xlsexport.Instance.ExportOverdueReport(stats)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "overdue export failed")
	}
	fileName := fmt.Sprintf("overdue_issues_%s.xlsx", time.Now().Format("02-01-2006"))
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, fileName))
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return ctx.Status(fiber.StatusOK).SendStream(buf)
}
