package apiv1

import (
	"travel-order-backend/controllers"
	timeloghandler "travel-order-backend/lib/time-log"
	"travel-order-backend/lib/utils/helpers"
	apimodels "travel-order-backend/models/api"
	timelogapimodels "travel-order-backend/models/api/time-log"

	"github.com/gofiber/fiber/v2"
)

type adminTimeLogApiController struct {
	controllers.BaseAPIController
}

func InitAdminTimeLogApiRouters(router fiber.Router) {
	controller := adminTimeLogApiController{}
	router.Route("time-logs", func(timeLogRoute fiber.Router) {
		timeLogRoute.Get("", controller.list)
		timeLogRoute.Post("", controller.create)
		timeLogRoute.Get("export", controller.export)
		timeLogRoute.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
		})
	})
}

// @Summary Time log list
// @Tags Admin time logs
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   search	query	string	false	"account name or remarks"
// @Param   status	query	string	false	"open|closed"
// @Param   personnel_id	query	string	false	"personnel ID"
// @Param   director_id	query	string	false	"director ID"
// @Param   date_from	query	string	false	"YYYY-MM-DD"
// @Param   date_to	query	string	false	"YYYY-MM-DD"
// @Param   page	query	int	false	"page"
// @Param   limit	query	int	false	"rows per page"
// @Success 200 {object} apimodels.ScrollerResponse{data=timelogapimodels.TimeLogListResponse}
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/time-logs [get]
func (c *adminTimeLogApiController) list(ctx *fiber.Ctx) error {
	var filter timelogapimodels.TimeLogFilter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, stats, err := timeloghandler.Instance.List(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list time logs")
	}
	data := timelogapimodels.TimeLogListResponse{Items: list, Stats: stats}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(data, rowCount, filter.Pagination))
}

// @Summary Create time log
// @Tags Admin time logs
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 timelogapimodels.TimeLogData	true	"request body"
// @Success 201 {object} apimodels.Response{data=timelogapimodels.TimeLogView}
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/time-logs [post]
func (c *adminTimeLogApiController) create(ctx *fiber.Ctx) error {
	var payload timelogapimodels.TimeLogData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := timeloghandler.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to create time log")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewMessage("Time log created successfully.", resp))
}

// @Summary Get time log
// @Tags Admin time logs
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"time log ID"
// @Success 200 {object} apimodels.Response{data=timelogapimodels.TimeLogView}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/time-logs/{id} [get]
func (c *adminTimeLogApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := timeloghandler.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get time log")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Update time log
// @Tags Admin time logs
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"time log ID"
// @Param	body body	 timelogapimodels.TimeLogData	true	"request body"
// @Success 200 {object} apimodels.Response{data=timelogapimodels.TimeLogView}
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/time-logs/{id} [put]
func (c *adminTimeLogApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload timelogapimodels.TimeLogData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := timeloghandler.Instance.Update(id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to update time log")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Time log updated successfully.", resp))
}

// @Summary Delete time log
// @Tags Admin time logs
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"time log ID"
// @Success 200 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/time-logs/{id} [delete]
func (c *adminTimeLogApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = timeloghandler.Instance.Delete(id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to delete time log")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Time log deleted successfully.", nil))
}

// @Summary Export time logs
// @Tags Admin time logs
// @Description same filters as the list, without pagination
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {file} file
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/time-logs/export [get]
func (c *adminTimeLogApiController) export(ctx *fiber.Ctx) error {
	var filter timelogapimodels.TimeLogFilter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, fileName, err := timeloghandler.Instance.Export(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to export time logs")
	}
	ctx.Set(fiber.HeaderContentType, xlsxContentType)
	ctx.Set(fiber.HeaderContentDisposition, helpers.ContentDisposition("attachment", fileName))
	return ctx.Status(fiber.StatusOK).SendStream(body)
}
