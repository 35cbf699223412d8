package apiv1

import (
	"travel-order-backend/controllers"
	approvalworkflow "travel-order-backend/lib/approval-workflow"
	apimodels "travel-order-backend/models/api"
	travelorderapimodels "travel-order-backend/models/api/travel-order"

	"github.com/gofiber/fiber/v2"
)

type directorQueueApiController struct {
	controllers.BaseAPIController
}

func InitDirectorQueueApiRouters(router fiber.Router) {
	controller := directorQueueApiController{}
	router.Route("travel-orders", func(queueRoute fiber.Router) {
		queueRoute.Get("pending", controller.pending)
		queueRoute.Get("history", controller.history)
		queueRoute.Get("recommend-step-completed", controller.recommendStepCompleted)
		queueRoute.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Post("action", controller.action)
		})
	})
}

// @Summary Pending queue
// @Tags Director queue
// @Description Orders whose current actionable step belongs to the caller
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   page	query	int	false	"page"
// @Param   limit	query	int	false	"rows per page"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]travelorderapimodels.DirectorTravelOrderView}
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/director/travel-orders/pending [get]
func (c *directorQueueApiController) pending(ctx *fiber.Ctx) error {
	var pagination apimodels.Pagination
	if err := c.QueryParser(ctx, &pagination); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := approvalworkflow.Instance.ListPending(c.GetSession(ctx), pagination)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list pending travel orders")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount, pagination))
}

// @Summary Decision history
// @Tags Director queue
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   filter	query	string	false	"approved|recommended|rejected"
// @Param   page	query	int	false	"page"
// @Param   limit	query	int	false	"rows per page"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]travelorderapimodels.TravelOrderView}
// @Failure 403 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/director/travel-orders/history [get]
func (c *directorQueueApiController) history(ctx *fiber.Ctx) error {
	var filter travelorderapimodels.HistoryFilter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := approvalworkflow.Instance.ListHistory(c.GetSession(ctx), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list history")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount, filter.Pagination))
}

// @Summary Recommendations awaiting the approver
// @Tags Director queue
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   page	query	int	false	"page"
// @Param   limit	query	int	false	"rows per page"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]travelorderapimodels.TravelOrderView}
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/director/travel-orders/recommend-step-completed [get]
func (c *directorQueueApiController) recommendStepCompleted(ctx *fiber.Ctx) error {
	var pagination apimodels.Pagination
	if err := c.QueryParser(ctx, &pagination); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, rowCount, err := approvalworkflow.Instance.ListRecommendStepCompleted(c.GetSession(ctx), pagination)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list recommended travel orders")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount, pagination))
}

// @Summary Pending order
// @Tags Director queue
// @Description Returns the order with the caller's actionable approval
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"travel order ID"
// @Success 200 {object} apimodels.Response{data=travelorderapimodels.DirectorTravelOrderView}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/director/travel-orders/{id} [get]
func (c *directorQueueApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := approvalworkflow.Instance.GetPending(c.GetSession(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get pending travel order")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Act on the current step
// @Tags Director queue
// @Description recommend, approve or reject
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"travel order ID"
// @Param	body body	 travelorderapimodels.ActionRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=travelorderapimodels.ActionResult}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/director/travel-orders/{id}/action [post]
func (c *directorQueueApiController) action(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload travelorderapimodels.ActionRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := approvalworkflow.Instance.Act(ctx.UserContext(), c.GetSession(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to act on travel order")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage(resp.Message, resp))
}
