package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
)

const storageHint = "Verify that the database and image store are provisioned and reachable"

// respondError maps service errors to statuses. 5xx bodies never carry err's text.
func respondError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "Validation failed",
			Message: verr.Error(),
			Fields:  verr.Fields,
		})
	case errors.Is(err, services.ErrComplaintNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "Complaint not found",
		})
	case errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error:   "Invalid status transition",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrNoFieldsProvided):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "No fields to update",
		})
	case errors.Is(err, services.ErrStorageUnavailable):
		logServerError(c, "storage unavailable", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error:   "Internal server error",
			Message: "The request could not be completed because storage is unavailable",
			Hint:    storageHint,
		})
	default:
		logServerError(c, "unexpected handler error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Internal server error",
		})
	}
}

func logServerError(c *fiber.Ctx, msg string, err error) {
	attrs := []any{
		"method", c.Method(),
		"path", c.Path(),
		"error", err.Error(),
	}
	if rid, ok := c.Locals("requestid").(string); ok {
		attrs = append(attrs, "request_id", rid)
	}
	if id, ok := c.Locals("complaint_id").(uint); ok {
		attrs = append(attrs, "complaint_id", id)
	}
	slog.Error(msg, attrs...)
}

// complaintID parses the :id parameter. Anything that is not a positive integer
// cannot name a complaint and is reported as not found.
func complaintID(c *fiber.Ctx) (uint, bool) {
	n, err := strconv.ParseUint(c.Params("id"), 10, 0)
	if err != nil || n == 0 {
		return 0, false
	}
	id := uint(n)
	c.Locals("complaint_id", id)
	return id, true
}

func complaintNotFound(c *fiber.Ctx) error {
	return respondError(c, services.ErrComplaintNotFound)
}

// ErrorHandler is the fiber.Config error handler. Only client errors expose their
// message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= 500 {
		logServerError(c, "unhandled server error", err)
		return c.Status(code).JSON(dto.ErrorResponse{Error: "Internal server error"})
	}
	if code == fiber.StatusRequestEntityTooLarge {
		message = "Uploaded file is too large"
	}
	return c.Status(code).JSON(dto.ErrorResponse{Error: message})
}
