package controllers

import (
	"io"
	"mime/multipart"
	"strings"
	"travel-order-backend/fiberlog"
	"travel-order-backend/middleware"
	"travel-order-backend/models"
	apimodels "travel-order-backend/models/api"
	authapimodels "travel-order-backend/models/api/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const msgServerError = "Server error."

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("failed to parse request body")
		return errors.New("Unable to read the request data.")
	}
	return nil
}

func (c *BaseAPIController) QueryParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.QueryParser(out); err != nil {
		log.WithError(err).Error("failed to parse query")
		return errors.New("Unable to read the query parameters.")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetIDByKey(ctx, "id")
}

func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (string, error) {
	id := ctx.Params(key)
	if id == "" {
		return "", errors.Errorf("The %s parameter is required.", key)
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.Errorf("The %s parameter is invalid.", key)
	}
	return id, nil
}

func (c *BaseAPIController) GetSession(ctx *fiber.Ctx) models.Session {
	return middleware.GetSession(ctx)
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	session := middleware.GetSession(ctx)
	return log.WithFields(log.Fields{
		fiberlog.RequestID: fiberlog.GetRequestID(ctx),
		"user_id":          session.UserID,
		"role":             session.Role,
	})
}

// SendBadRequest answers a malformed request.
func (c *BaseAPIController) SendBadRequest(ctx *fiber.Ctx, err error) error {
	return c.SendError(ctx, c.GetLogger(ctx), err, "")
}

// SendError maps handler errors onto response codes; unknown errors become 500.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	var (
		validationErr *models.ValidationError
		notVisibleErr *models.NotVisibleError
		transitionErr *models.InvalidTransitionError
		stepErr       *models.InvalidStepError
		forbiddenErr  *models.ForbiddenError
		unauthErr     *models.UnauthorizedError
		inactiveErr   *models.AccountInactiveError
		extensionErr  *models.ExtensionUnavailableError
	)
	switch {
	case errors.As(err, &validationErr):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(apimodels.NewValidationError(validationErr.Message, validationErr.Fields))
	case errors.As(err, &notVisibleErr):
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(notVisibleErr.Message))
	case errors.As(err, &transitionErr):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(apimodels.NewError(transitionErr.Reason))
	case errors.As(err, &stepErr):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(apimodels.NewError(stepErr.Reason))
	case errors.As(err, &forbiddenErr):
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(forbiddenErr.Message))
	case errors.As(err, &unauthErr):
		return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(unauthErr.Message))
	case errors.As(err, &inactiveErr):
		resp := apimodels.NewError(inactiveErr.Error())
		resp.Data = authapimodels.InactiveAccount{ReasonForDeactivation: inactiveErr.Reason}
		return ctx.Status(fiber.StatusForbidden).JSON(resp)
	case errors.As(err, &extensionErr):
		logger.WithError(err).Error(msg)
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(extensionErr.Message))
	}
	if msg == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	logger.WithError(err).Error(msg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(msgServerError))
}

// FormFiles reads every multipart file sent under key (with or without the [] suffix).
func (c *BaseAPIController) FormFiles(ctx *fiber.Ctx, key string) ([]apimodels.Upload, error) {
	if !isMultipart(ctx) {
		return nil, nil
	}
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read multipart form")
	}
	headers := append(form.File[key], form.File[key+"[]"]...)
	result := make([]apimodels.Upload, 0, len(headers))
	for _, header := range headers {
		upload, err := readUpload(header)
		if err != nil {
			return nil, err
		}
		result = append(result, upload)
	}
	return result, nil
}

// FormFile reads a single optional multipart file.
func (c *BaseAPIController) FormFile(ctx *fiber.Ctx, key string) (*apimodels.Upload, error) {
	if !isMultipart(ctx) {
		return nil, nil
	}
	header, err := ctx.FormFile(key)
	if err != nil {
		return nil, nil
	}
	upload, err := readUpload(header)
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

// FormValues returns every value sent under key (with or without the [] suffix).
func (c *BaseAPIController) FormValues(ctx *fiber.Ctx, key string) []string {
	form, err := ctx.MultipartForm()
	if !isMultipart(ctx) || err != nil {
		if v := ctx.FormValue(key); v != "" {
			return []string{v}
		}
		return nil
	}
	return append(form.Value[key], form.Value[key+"[]"]...)
}

func isMultipart(ctx *fiber.Ctx) bool {
	return strings.HasPrefix(string(ctx.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

func readUpload(header *multipart.FileHeader) (apimodels.Upload, error) {
	file, err := header.Open()
	if err != nil {
		return apimodels.Upload{}, errors.Wrap(err, "failed to open uploaded file")
	}
	defer file.Close()
	body, err := io.ReadAll(file)
	if err != nil {
		return apimodels.Upload{}, errors.Wrap(err, "failed to read uploaded file")
	}
	return apimodels.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Body:        body,
	}, nil
}
