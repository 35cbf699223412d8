package apiv1

import (
	"travel-order-backend/controllers"
	approvalworkflow "travel-order-backend/lib/approval-workflow"
	travelorderhandler "travel-order-backend/lib/travel-order"
	"travel-order-backend/lib/utils/helpers"
	"travel-order-backend/models"
	apimodels "travel-order-backend/models/api"
	travelorderapimodels "travel-order-backend/models/api/travel-order"

	"github.com/gofiber/fiber/v2"
)

type travelOrderApiController struct {
	controllers.BaseAPIController
}

func InitTravelOrderApiRouters(router fiber.Router) {
	controller := travelOrderApiController{}
	router.Get("", controller.list)
	router.Post("", controller.create)
	router.Get("directors/available", controller.availableDirectors)
	router.Route(":id", func(idRoute fiber.Router) {
		idRoute.Get("", controller.get)
		idRoute.Put("", controller.update)
		idRoute.Delete("", controller.delete)
		idRoute.Post("submit", controller.submit)
		idRoute.Route("attachments", func(attachRoute fiber.Router) {
			attachRoute.Post("", controller.addAttachments)
			attachRoute.Get(":attachmentId", controller.getAttachment)
			attachRoute.Delete(":attachmentId", controller.deleteAttachment)
		})
		idRoute.Get("export/pdf", controller.exportPDF)
		idRoute.Get("export/excel", controller.exportExcel)
	})
}

// @Summary Own travel orders
// @Tags Travel orders
// @Description Lists the caller's travel orders, newest first
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   status	query	string	false	"draft|pending|approved|rejected"
// @Param   page	query	int	false	"page"
// @Param   limit	query	int	false	"rows per page"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]travelorderapimodels.TravelOrderView}
// @Failure 403 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/travel-orders [get]
func (c *travelOrderApiController) list(ctx *fiber.Ctx) error {
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

// @Summary Create a draft
// @Tags Travel orders
// @Description Creates a draft travel order; accepts multipart with attachments[] files
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 travelorderapimodels.TravelOrderData	true	"request body"
// @Success 201 {object} apimodels.Response{data=travelorderapimodels.TravelOrderView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/travel-orders [post]
func (c *travelOrderApiController) create(ctx *fiber.Ctx) error {
	var payload travelorderapimodels.TravelOrderData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	files, err := c.attachments(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := travelorderhandler.Instance.Create(ctx.UserContext(), c.GetSession(ctx), payload, files)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to create travel order")
	}
	return ctx.Status(fiber.StatusCreated).JSON(apimodels.NewMessage("Travel order created successfully.", resp))
}

// @Summary Get a travel order
// @Tags Travel orders
// @Description Returns the order if the caller may see it
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"travel order ID"
// @Success 200 {object} apimodels.Response{data=travelorderapimodels.TravelOrderView}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/travel-orders/{id} [get]
func (c *travelOrderApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := travelorderhandler.Instance.Get(c.GetSession(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get travel order")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Update a draft
// @Tags Travel orders
// @Description Updates an own draft; accepts multipart with attachments[] and delete_attachment_ids[]
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"travel order ID"
// @Param	body body	 travelorderapimodels.TravelOrderUpdate	true	"request body"
// @Success 200 {object} apimodels.Response{data=travelorderapimodels.TravelOrderView}
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/travel-orders/{id} [put]
func (c *travelOrderApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload travelorderapimodels.TravelOrderUpdate
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if ids := c.FormValues(ctx, "delete_attachment_ids"); len(ids) != 0 {
		payload.DeleteAttachmentIDs = ids
	}
	files, err := c.attachments(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := travelorderhandler.Instance.Update(ctx.UserContext(), c.GetSession(ctx), id, payload, files)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to update travel order")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Travel order updated successfully.", resp))
}

// @Summary Delete a draft
// @Tags Travel orders
// @Description Deletes an own draft together with its attachments
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"travel order ID"
// @Success 200 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/travel-orders/{id} [delete]
func (c *travelOrderApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = travelorderhandler.Instance.Delete(ctx.UserContext(), c.GetSession(ctx), id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to delete travel order")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Travel order deleted successfully.", nil))
}

// @Summary Submit for approval
// @Tags Travel orders
// @Description Moves an own draft to pending and builds the approval chain
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"travel order ID"
// @Param	body body	 travelorderapimodels.SubmitRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=travelorderapimodels.TravelOrderView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/travel-orders/{id}/submit [post]
func (c *travelOrderApiController) submit(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload travelorderapimodels.SubmitRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	session := c.GetSession(ctx)
	if _, err = approvalworkflow.Instance.Submit(ctx.UserContext(), session, id, payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to submit travel order")
	}
	resp, err := travelorderhandler.Instance.Get(session, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get travel order")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Travel order submitted successfully.", resp))
}

// @Summary Add attachments
// @Tags Travel orders
// @Description Adds attachments[] files to an own draft
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"travel order ID"
// @Success 200 {object} apimodels.Response{data=travelorderapimodels.TravelOrderView}
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/travel-orders/{id}/attachments [post]
func (c *travelOrderApiController) addAttachments(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	files, err := c.attachments(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := travelorderhandler.Instance.AddAttachments(ctx.UserContext(), c.GetSession(ctx), id, files)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to add attachments")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Attachments uploaded successfully.", resp))
}

// @Summary Download an attachment
// @Tags Travel orders
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"travel order ID"
// @Param   attachmentId	path	string	true	"attachment ID"
// @Success 200 {file} file
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/travel-orders/{id}/attachments/{attachmentId} [get]
func (c *travelOrderApiController) getAttachment(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	attachmentID, err := c.GetIDByKey(ctx, "attachmentId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, attachment, err := travelorderhandler.Instance.GetAttachment(ctx.UserContext(), c.GetSession(ctx), id, attachmentID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to read attachment")
	}
	contentType := attachment.ContentType
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	ctx.Set(fiber.HeaderContentType, contentType)
	ctx.Set(fiber.HeaderContentDisposition, helpers.ContentDisposition("attachment", attachment.FileName))
	return ctx.Status(fiber.StatusOK).Send(body)
}

// @Summary Delete an attachment
// @Tags Travel orders
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"travel order ID"
// @Param   attachmentId	path	string	true	"attachment ID"
// @Success 200 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/travel-orders/{id}/attachments/{attachmentId} [delete]
func (c *travelOrderApiController) deleteAttachment(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	attachmentID, err := c.GetIDByKey(ctx, "attachmentId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = travelorderhandler.Instance.DeleteAttachment(ctx.UserContext(), c.GetSession(ctx), id, attachmentID); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to delete attachment")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage("Attachment deleted successfully.", nil))
}

// @Summary Directors available for submission
// @Tags Travel orders
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]travelorderapimodels.AccountShort}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/travel-orders/directors/available [get]
func (c *travelOrderApiController) availableDirectors(ctx *fiber.Ctx) error {
	list, err := travelorderhandler.Instance.AvailableDirectors()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list directors")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Export as PDF
// @Tags Travel orders
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"travel order ID"
// @Param   include_ctt	query	bool	false	"include the certification to travel section"
// @Success 200 {file} file
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/travel-orders/{id}/export/pdf [get]
func (c *travelOrderApiController) exportPDF(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var options travelorderapimodels.ExportOptions
	if err = c.QueryParser(ctx, &options); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, fileName, err := travelorderhandler.Instance.ExportPDF(ctx.UserContext(), c.GetSession(ctx), id, options)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to export travel order to pdf")
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, helpers.ContentDisposition("attachment", fileName))
	return ctx.Status(fiber.StatusOK).Send(body)
}

// @Summary Export as spreadsheet
// @Tags Travel orders
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id	path	string	true	"travel order ID"
// @Param   include_ctt	query	bool	false	"include the certification to travel section"
// @Success 200 {file} file
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/travel-orders/{id}/export/excel [get]
func (c *travelOrderApiController) exportExcel(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var options travelorderapimodels.ExportOptions
	if err = c.QueryParser(ctx, &options); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	body, fileName, err := travelorderhandler.Instance.ExportXLS(ctx.UserContext(), c.GetSession(ctx), id, options)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to export travel order to excel")
	}
	ctx.Set(fiber.HeaderContentType, xlsxContentType)
	ctx.Set(fiber.HeaderContentDisposition, helpers.ContentDisposition("attachment", fileName))
	return ctx.Status(fiber.StatusOK).SendStream(body)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// attachments collects attachments[] files with their optional per-file attachment_types[].
func (c *travelOrderApiController) attachments(ctx *fiber.Ctx) ([]travelorderapimodels.AttachmentUpload, error) {
	files, err := c.FormFiles(ctx, "attachments")
	if err != nil {
		return nil, err
	}
	types := c.FormValues(ctx, "attachment_types")
	defaultType := ctx.FormValue("attachment_type")
	result := make([]travelorderapimodels.AttachmentUpload, 0, len(files))
	for idx, file := range files {
		attachmentType := defaultType
		if idx < len(types) && types[idx] != "" {
			attachmentType = types[idx]
		}
		result = append(result, travelorderapimodels.AttachmentUpload{
			Upload: file,
			Type:   models.NormalizeAttachmentType(attachmentType),
		})
	}
	return result, nil
}
