package apiv1

import (
	"travel-order-backend/controllers"
	directorhandler "travel-order-backend/lib/director"
	apimodels "travel-order-backend/models/api"
	accountapimodels "travel-order-backend/models/api/account"

	"github.com/gofiber/fiber/v2"
)

type adminDirectorApiController struct {
	controllers.BaseAPIController
}

func InitAdminDirectorApiRouters(router fiber.Router) {
	controller := adminDirectorApiController{}
	router.Route("directors", func(directorRoute fiber.Router) {
		directorRoute.Get("", controller.list)
		directorRoute.Post("", controller.create)
		directorRoute.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Get("avatar", controller.avatar)
			idRoute.Get("signature", controller.signature)
		})
	})
}

// @Summary Director list
// @Tags Admin directors
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
// @router /api/v1/admin/directors [get]
func (c *adminDirectorApiController) list(ctx *fiber.Ctx) error {
	var filter accountapimodels.AccountFilter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, stats, err := directorhandler.Instance.List(filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list directors")
	}
	data := accountapimodels.AccountListResponse{Items: list, Stats: stats}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(data, rowCount, filter.Pagination))
}

// @Summary Create director
// @Tags Admin directors
// @Description multipart with optional "avatar" and "signature" images
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 accountapimodels.DirectorData	true	"request body"
// @Success 201 {object} apimodels.Response{data=accountapimodels.DirectorView}
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/directors [post]
func (c *adminDirectorApiController) create(ctx *fiber.Ctx) error {
	var payload accountapimodels.DirectorData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	avatar, signature, err := c.images(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := directorhandler.Instance.Create(ctx.UserContext(), payload, avatar, signature)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to create director")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewMessage("Director created successfully.", resp))
}

// @Summary Get director
// @Tags Admin directors
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"director ID"
// @Success 200 {object} apimodels.Response{data=accountapimodels.DirectorView}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/directors/{id} [get]
func (c *adminDirectorApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := directorhandler.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get director")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Update director
// @Tags Admin directors
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"director ID"
// @Param	body body	 accountapimodels.DirectorData	true	"request body"
// @Success 200 {object} apimodels.Response{data=accountapimodels.DirectorView}
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/directors/{id} [put]
func (c *adminDirectorApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload accountapimodels.DirectorData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	avatar, signature, err := c.images(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := directorhandler.Instance.Update(ctx.UserContext(), id, payload, avatar, signature)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to update director")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Director updated successfully.", resp))
}

// @Summary Delete director
// @Tags Admin directors
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"director ID"
// @Success 200 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/directors/{id} [delete]
func (c *adminDirectorApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = directorhandler.Instance.Delete(ctx.UserContext(), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to delete director")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Director deleted successfully.", nil))
}

// @Summary Director avatar
// @Tags Admin directors
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"director ID"
// @Success 200 {file} file
// @Failure 404 {object} apimodels.Response
// @router /api/v1/admin/directors/{id}/avatar [get]
func (c *adminDirectorApiController) avatar(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, contentType, err := directorhandler.Instance.Avatar(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to read avatar")
	}
	ctx.Set(fiber.HeaderContentType, contentType)
	return ctx.Status(fiber.StatusOK).Send(body)
}

// @Summary Director signature
// @Tags Admin directors
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"director ID"
// @Success 200 {file} file
// @Failure 404 {object} apimodels.Response
// @router /api/v1/admin/directors/{id}/signature [get]
func (c *adminDirectorApiController) signature(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, contentType, err := directorhandler.Instance.Signature(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to read signature")
	}
	ctx.Set(fiber.HeaderContentType, contentType)
	return ctx.Status(fiber.StatusOK).Send(body)
}

func (c *adminDirectorApiController) images(ctx *fiber.Ctx) (avatar, signature *apimodels.Upload, err error) {
	if avatar, err = c.FormFile(ctx, "avatar"); err != nil {
		return nil, nil, err
	}
	if signature, err = c.FormFile(ctx, "signature"); err != nil {
		return nil, nil, err
	}
	return avatar, signature, nil
}
