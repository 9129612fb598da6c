package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		want   string
	}{
		{"validation", &services.ValidationError{Fields: []string{"location"}}, http.StatusBadRequest, "Validation failed"},
		{"not found", services.ErrComplaintNotFound, http.StatusNotFound, "Complaint not found"},
		{"transition", &services.TransitionError{ID: 1, Action: "complete", From: "pending"}, http.StatusConflict, "Invalid status transition"},
		{"no fields", services.ErrNoFieldsProvided, http.StatusBadRequest, "No fields to update"},
		{"storage", fmt.Errorf("insert: %w: %w", services.ErrStorageUnavailable, errors.New("pq: relation does not exist")), http.StatusInternalServerError, "Internal server error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return respondError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.want, body.Error)
			assert.NotContains(t, string(raw), "pq:")
		})
	}
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/panic-ish", func(c *fiber.Ctx) error { return errors.New("dial tcp: secret host") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil), -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Contains(t, string(raw), "short and stout")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/panic-ish", nil), -1)
	require.NoError(t, err)
	raw, _ = io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, string(raw), "secret host")
}
