package apiv1

import (
	"travel-order-backend/controllers"
	directorhandler "travel-order-backend/lib/director"
	personnelhandler "travel-order-backend/lib/personnel"
	apimodels "travel-order-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type profileApiController struct {
	controllers.BaseAPIController
}

func InitPersonnelProfileApiRouters(router fiber.Router) {
	controller := profileApiController{}
	router.Get("profile", controller.personnelProfile)
}

func InitDirectorProfileApiRouters(router fiber.Router) {
	controller := profileApiController{}
	router.Route("profile", func(profileRoute fiber.Router) {
		profileRoute.Get("", controller.directorProfile)
		profileRoute.Get("signature", controller.signature)
		profileRoute.Put("signature", controller.uploadSignature)
		profileRoute.Delete("signature", controller.deleteSignature)
	})
}

// @Summary Personnel profile
// @Tags Profile
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=accountapimodels.PersonnelView}
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/personnel/profile [get]
func (c *profileApiController) personnelProfile(ctx *fiber.Ctx) error {
	resp, err := personnelhandler.Instance.Profile(c.GetSession(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get personnel profile")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Director profile
// @Tags Profile
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=accountapimodels.DirectorView}
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/director/profile [get]
func (c *profileApiController) directorProfile(ctx *fiber.Ctx) error {
	resp, err := directorhandler.Instance.Profile(c.GetSession(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get director profile")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Own signature image
// @Tags Profile
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {file} file
// @Failure 404 {object} apimodels.Response
// @router /api/v1/director/profile/signature [get]
func (c *profileApiController) signature(ctx *fiber.Ctx) error {
	body, contentType, err := directorhandler.Instance.Signature(ctx.UserContext(), c.GetSession(ctx).UserID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to read signature")
	}
	ctx.Set(fiber.HeaderContentType, contentType)
	return ctx.Status(fiber.StatusOK).Send(body)
}

// @Summary Upload signature
// @Tags Profile
// @Description multipart field "signature" (png/jpg/gif/webp)
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=accountapimodels.DirectorView}
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/director/profile/signature [put]
func (c *profileApiController) uploadSignature(ctx *fiber.Ctx) error {
	signature, err := c.FormFile(ctx, "signature")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var upload apimodels.Upload
	if signature != nil {
		upload = *signature
	}
	resp, err := directorhandler.Instance.UploadSignature(ctx.UserContext(), c.GetSession(ctx), upload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to upload signature")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Signature uploaded successfully.", resp))
}

// @Summary Remove signature
// @Tags Profile
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=accountapimodels.DirectorView}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/director/profile/signature [delete]
func (c *profileApiController) deleteSignature(ctx *fiber.Ctx) error {
	resp, err := directorhandler.Instance.DeleteSignature(ctx.UserContext(), c.GetSession(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to delete signature")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Signature removed successfully.", resp))
}
