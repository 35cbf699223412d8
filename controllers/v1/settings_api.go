package apiv1

import (
	"travel-order-backend/controllers"
	settingshandler "travel-order-backend/lib/settings"
	apimodels "travel-order-backend/models/api"
	settingsapimodels "travel-order-backend/models/api/settings"

	"github.com/gofiber/fiber/v2"
)

type settingsApiController struct {
	controllers.BaseAPIController
}

// InitSettingsApiRouters registers the password change available to every role.
func InitSettingsApiRouters(router fiber.Router) {
	controller := settingsApiController{}
	router.Put("password", controller.changePassword)
}

func InitAdminSettingsApiRouters(router fiber.Router) {
	controller := settingsApiController{}
	router.Route("settings", func(settingsRoute fiber.Router) {
		settingsRoute.Get("branding", controller.getBranding)
		settingsRoute.Put("branding", controller.updateBranding)
	})
}

// @Summary Change own password
// @Tags Settings
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 settingsapimodels.ChangePassword	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/settings/password [put]
func (c *settingsApiController) changePassword(ctx *fiber.Ctx) error {
	var payload settingsapimodels.ChangePassword
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := settingshandler.Instance.ChangePassword(c.GetSession(ctx), payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to change password")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Password changed successfully.", nil))
}

// @Summary Branding settings
// @Tags Admin settings
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=settingsapimodels.Branding}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/settings/branding [get]
func (c *settingsApiController) getBranding(ctx *fiber.Ctx) error {
	resp, err := settingshandler.Instance.GetBranding()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get branding")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Update branding
// @Tags Admin settings
// @Description multipart with logo_text, remove_logo and an optional "logo" image
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 settingsapimodels.BrandingUpdate	true	"request body"
// @Success 200 {object} apimodels.Response{data=settingsapimodels.Branding}
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/settings/branding [put]
func (c *settingsApiController) updateBranding(ctx *fiber.Ctx) error {
	var payload settingsapimodels.BrandingUpdate
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	logo, err := c.FormFile(ctx, "logo")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := settingshandler.Instance.UpdateBranding(ctx.UserContext(), payload, logo)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to update branding")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Branding updated successfully.", resp))
}
