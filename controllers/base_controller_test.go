package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"travel-order-backend/models"
	apimodels "travel-order-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSendError(t *testing.T) {
	c := BaseAPIController{}
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", models.NewFieldError("destination", "The destination field is required."), fiber.StatusUnprocessableEntity, "The given data was invalid."},
		{"not visible", models.NewNotVisibleError(""), fiber.StatusNotFound, "Travel order not found."},
		{"invalid transition", models.NewInvalidTransitionError("Only draft travel orders can be deleted."), fiber.StatusUnprocessableEntity, "Only draft travel orders can be deleted."},
		{"invalid step", &models.InvalidStepError{Reason: "This step is not a recommending step."}, fiber.StatusUnprocessableEntity, "This step is not a recommending step."},
		{"forbidden", models.NewForbiddenError(""), fiber.StatusForbidden, "Forbidden."},
		{"unauthorized", &models.UnauthorizedError{Message: "Invalid credentials"}, fiber.StatusUnauthorized, "Invalid credentials"},
		{"inactive", &models.AccountInactiveError{Reason: "left"}, fiber.StatusForbidden, "Your account has been deactivated."},
		{"wrapped", errors.Wrap(models.NewNotVisibleError(""), "lookup"), fiber.StatusNotFound, "Travel order not found."},
		{"unknown", errors.New("db down"), fiber.StatusInternalServerError, "Server error."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(ctx *fiber.Ctx) error {
				return c.SendError(ctx, c.GetLogger(ctx), tc.err, "failed")
			})
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.Nil(t, err)
			require.Equal(t, tc.status, resp.StatusCode)

			var body apimodels.Response
			require.Nil(t, json.NewDecoder(resp.Body).Decode(&body))
			require.False(t, body.Success)
			require.Equal(t, tc.message, body.Message)
			if tc.name == "validation" {
				require.Equal(t, []string{"The destination field is required."}, body.Errors["destination"])
			}
			if tc.name == "inactive" {
				require.Equal(t, map[string]interface{}{"reason_for_deactivation": "left"}, body.Data)
			}
		})
	}
}

func TestGetID(t *testing.T) {
	c := BaseAPIController{}
	app := fiber.New()
	app.Get("/:id", func(ctx *fiber.Ctx) error {
		id, err := c.GetID(ctx)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		return ctx.SendString(id)
	})

	t.Run("uuid", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/0b4e3c1e-8a53-4d7e-9a43-6f0f3c1d2e11", nil))
		require.Nil(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
	t.Run("not a uuid", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/42", nil))
		require.Nil(t, err)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		require.Equal(t, "The id parameter is invalid.", string(body))
	})
}

func TestFormFiles(t *testing.T) {
	c := BaseAPIController{}
	app := fiber.New()
	app.Post("/", func(ctx *fiber.Ctx) error {
		files, err := c.FormFiles(ctx, "attachments")
		if err != nil {
			return err
		}
		names := make([]string, 0, len(files))
		for _, file := range files {
			names = append(names, file.FileName+":"+string(file.Body))
		}
		return ctx.JSON(names)
	})

	t.Run("multipart", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		for name, content := range map[string]string{"a.pdf": "one", "b.pdf": "two"} {
			part, err := writer.CreateFormFile("attachments[]", name)
			require.Nil(t, err)
			_, err = part.Write([]byte(content))
			require.Nil(t, err)
		}
		require.Nil(t, writer.Close())

		req := httptest.NewRequest(fiber.MethodPost, "/", body)
		req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
		resp, err := app.Test(req)
		require.Nil(t, err)
		var names []string
		require.Nil(t, json.NewDecoder(resp.Body).Decode(&names))
		require.ElementsMatch(t, []string{"a.pdf:one", "b.pdf:two"}, names)
	})
	t.Run("json body has no files", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodPost, "/", bytes.NewBufferString(`{}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.Nil(t, err)
		var names []string
		require.Nil(t, json.NewDecoder(resp.Body).Decode(&names))
		require.Empty(t, names)
	})
}
