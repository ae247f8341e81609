package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/souqly/internal/services"
)

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"fiber error", fiber.NewError(fiber.StatusBadRequest, "invalid id"), 400, "invalid id"},
		{"not found", services.ErrOrderNotFound, 404, "order not found"},
		{"wrapped transition", fmt.Errorf("%w: delivered to pending", services.ErrInvalidTransition), 409, "invalid order status transition: delivered to pending"},
		{"version conflict", services.ErrVersionConflict, 409, "homepage was modified by someone else"},
		{"invalid reorder", services.ErrInvalidReorder, 400, services.ErrInvalidReorder.Error()},
		{"unknown", errors.New("pq: connection refused"), 500, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body errorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}
