package apiv1

import (
	"travel-order-backend/controllers"
	authhandler "travel-order-backend/lib/auth"
	"travel-order-backend/middleware"
	apimodels "travel-order-backend/models/api"
	authapimodels "travel-order-backend/models/api/auth"

	"github.com/gofiber/fiber/v2"
)

type authApiController struct {
	controllers.BaseAPIController
}

func InitAuthApiRouters(router fiber.Router) {
	controller := authApiController{}
	router.Route("auth", func(authRoute fiber.Router) {
		authRoute.Post("login", controller.login)
		authRoute.Post("logout", middleware.AuthorizationRequired(), middleware.RbacMiddleware(), controller.logout)
		authRoute.Post("logout-all", middleware.AuthorizationRequired(), middleware.RbacMiddleware(), controller.logoutAll)
		authRoute.Get("me", middleware.AuthorizationRequired(), middleware.RbacMiddleware(), controller.me)
	})
}

// @Summary Log in
// @Tags Auth
// @Description Resolves the username across admins, personnel and directors
// @Param	body				body		authapimodels.LoginRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.LoginResponse}
// @Failure 401 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response{data=authapimodels.InactiveAccount}
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/login [post]
func (c *authApiController) login(ctx *fiber.Ctx) error {
	var payload authapimodels.LoginRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := authhandler.Instance.Login(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to log in")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Login successful.", resp))
}

// @Summary Log out
// @Tags Auth
// @Description Revokes the current token
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/logout [post]
func (c *authApiController) logout(ctx *fiber.Ctx) error {
	err := authhandler.Instance.Logout(middleware.GetTokenID(ctx), middleware.GetTokenExpiresAt(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to log out")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Logged out successfully.", nil))
}

// @Summary Log out from all devices
// @Tags Auth
// @Description Invalidates every token issued to the caller, including the current one
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/logout-all [post]
func (c *authApiController) logoutAll(ctx *fiber.Ctx) error {
	if err := authhandler.Instance.LogoutAll(c.GetSession(ctx)); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to log out from all devices")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Logged out from all devices.", nil))
}

// @Summary Current user
// @Tags Auth
// @Description Profile, role and permissions of the caller
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=authapimodels.MeResponse}
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/me [get]
func (c *authApiController) me(ctx *fiber.Ctx) error {
	resp, err := authhandler.Instance.Me(c.GetSession(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get current user")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}
