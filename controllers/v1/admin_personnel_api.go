package apiv1

import (
	"travel-order-backend/controllers"
	personnelhandler "travel-order-backend/lib/personnel"
	apimodels "travel-order-backend/models/api"
	accountapimodels "travel-order-backend/models/api/account"

	"github.com/gofiber/fiber/v2"
)

type adminPersonnelApiController struct {
	controllers.BaseAPIController
}

func InitAdminPersonnelApiRouters(router fiber.Router) {
	controller := adminPersonnelApiController{}
	router.Route("personnel", func(personnelRoute fiber.Router) {
		personnelRoute.Get("", controller.list)
		personnelRoute.Post("", controller.create)
		personnelRoute.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Get("avatar", controller.avatar)
		})
	})
}

// @Summary Personnel list
// @Tags Admin personnel
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   search	query	string	false	"name, username or email"
// @Param   status	query	string	false	"active|inactive"
// @Param   sort_by	query	string	false	"name|created_at|username"
// @Param   sort_dir	query	string	false	"asc|desc"
// @Param   page	query	int	false	"page"
// @Param   limit	query	int	false	"rows per page"
// @Success 200 {object} apimodels.ScrollerResponse{data=accountapimodels.AccountListResponse}
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/personnel [get]
func (c *adminPersonnelApiController) list(ctx *fiber.Ctx) error {
	var filter accountapimodels.AccountFilter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, stats, err := personnelhandler.Instance.List(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list personnel")
	}
	data := accountapimodels.AccountListResponse{Items: list, Stats: stats}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(data, rowCount, filter.Pagination))
}

// @Summary Create personnel
// @Tags Admin personnel
// @Description multipart with an optional "avatar" image
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 accountapimodels.PersonnelData	true	"request body"
// @Success 201 {object} apimodels.Response{data=accountapimodels.PersonnelView}
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/personnel [post]
func (c *adminPersonnelApiController) create(ctx *fiber.Ctx) error {
	var payload accountapimodels.PersonnelData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	avatar, err := c.FormFile(ctx, "avatar")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := personnelhandler.Instance.Create(ctx.UserContext(), payload, avatar)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to create personnel")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewMessage("Personnel created successfully.", resp))
}

// @Summary Get personnel
// @Tags Admin personnel
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"personnel ID"
// @Success 200 {object} apimodels.Response{data=accountapimodels.PersonnelView}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/personnel/{id} [get]
func (c *adminPersonnelApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := personnelhandler.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get personnel")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Update personnel
// @Tags Admin personnel
// @Description an empty password keeps the current one
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"personnel ID"
// @Param	body body	 accountapimodels.PersonnelData	true	"request body"
// @Success 200 {object} apimodels.Response{data=accountapimodels.PersonnelView}
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/personnel/{id} [put]
func (c *adminPersonnelApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload accountapimodels.PersonnelData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	avatar, err := c.FormFile(ctx, "avatar")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := personnelhandler.Instance.Update(ctx.UserContext(), id, payload, avatar)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to update personnel")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Personnel updated successfully.", resp))
}

// @Summary Delete personnel
// @Tags Admin personnel
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"personnel ID"
// @Success 200 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/personnel/{id} [delete]
func (c *adminPersonnelApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = personnelhandler.Instance.Delete(ctx.UserContext(), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to delete personnel")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Personnel deleted successfully.", nil))
}

// @Summary Personnel avatar
// @Tags Admin personnel
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"personnel ID"
// @Success 200 {file} file
// @Failure 404 {object} apimodels.Response
// @router /api/v1/admin/personnel/{id}/avatar [get]
func (c *adminPersonnelApiController) avatar(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, contentType, err := personnelhandler.Instance.Avatar(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to read avatar")
	}
	ctx.Set(fiber.HeaderContentType, contentType)
	return ctx.Status(fiber.StatusOK).Send(body)
}
