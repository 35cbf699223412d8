package publicapi

import (
	"travel-order-backend/controllers"
	settingshandler "travel-order-backend/lib/settings"
	apimodels "travel-order-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type publicBrandingApiController struct {
	controllers.BaseAPIController
}

func InitPublicBrandingApiRouters(router fiber.Router) {
	controller := publicBrandingApiController{}
	router.Route("branding", func(brandingRoute fiber.Router) {
		brandingRoute.Get("", controller.get)
		brandingRoute.Get("logo", controller.logo)
	})
}

// @Summary Branding
// @Tags Public
// @Description Logo text and logo URL for the login page
// @Success 200 {object} apimodels.Response{data=settingsapimodels.Branding}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/branding [get]
func (c *publicBrandingApiController) get(ctx *fiber.Ctx) error {
	resp, err := settingshandler.Instance.GetBranding()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get branding")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Branding logo
// @Tags Public
// @Success 200 {file} file
// @Failure 404 {object} apimodels.Response
// @router /api/v1/branding/logo [get]
func (c *publicBrandingApiController) logo(ctx *fiber.Ctx) error {
	body, contentType, err := settingshandler.Instance.Logo(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to read logo")
	}
	ctx.Set(fiber.HeaderContentType, contentType)
	ctx.Set(fiber.HeaderCacheControl, "public, max-age=300")
	return ctx.Status(fiber.StatusOK).Send(body)
}
