package apiv1

import (
	"travel-order-backend/controllers"
	travelorderhandler "travel-order-backend/lib/travel-order"
	apimodels "travel-order-backend/models/api"
	travelorderapimodels "travel-order-backend/models/api/travel-order"

	"github.com/gofiber/fiber/v2"
)

type adminTravelOrderApiController struct {
	controllers.BaseAPIController
}

func InitAdminTravelOrderApiRouters(router fiber.Router) {
	controller := adminTravelOrderApiController{}
	router.Get("travel-orders", controller.list)
}

// @Summary All travel orders
// @Tags Admin travel orders
// @Description read-only; single orders and exports use the shared travel order endpoints
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   status	query	string	false	"draft|pending|approved|rejected"
// @Param   personnel_id	query	string	false	"owner ID"
// @Param   page	query	int	false	"page"
// @Param   limit	query	int	false	"rows per page"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]travelorderapimodels.TravelOrderView}
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/admin/travel-orders [get]
func (c *adminTravelOrderApiController) list(ctx *fiber.Ctx) error {
	var filter travelorderapimodels.ListFilter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := travelorderhandler.Instance.List(c.GetSession(ctx), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list travel orders")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount, filter.Pagination))
}
