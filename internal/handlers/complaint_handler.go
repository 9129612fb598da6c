package handlers

import (
	"io"
	"strings"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ComplaintHandler struct {
	complaintService *services.ComplaintService
}

func NewComplaintHandler(complaintService *services.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

func (h *ComplaintHandler) List(c *fiber.Ctx) error {
	status := models.ComplaintStatus(strings.TrimSpace(c.Query("status")))
	complaints, err := h.complaintService.List(c.UserContext(), status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ComplaintListResponse{Complaints: complaints})
}

func (h *ComplaintHandler) Get(c *fiber.Ctx) error {
	id, ok := complaintID(c)
	if !ok {
		return complaintNotFound(c)
	}
	complaint, err := h.complaintService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ComplaintResponse{Complaint: complaint})
}

func (h *ComplaintHandler) History(c *fiber.Ctx) error {
	id, ok := complaintID(c)
	if !ok {
		return complaintNotFound(c)
	}
	history, err := h.complaintService.History(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ComplaintHistoryResponse{History: history})
}

func (h *ComplaintHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.complaintService.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// Submit accepts multipart fields location, description, contact and the file image.
func (h *ComplaintHandler) Submit(c *fiber.Ctx) error {
	image, err := readImage(c, "image")
	if err != nil {
		return respondError(c, err)
	}

	complaint, err := h.complaintService.Submit(c.UserContext(), services.SubmitInput{
		Location:    c.FormValue("location"),
		Description: c.FormValue("description"),
		Contact:     c.FormValue("contact"),
		Image:       image,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ComplaintMutationResponse{
		Success:   true,
		Message:   "Complaint created successfully",
		Complaint: complaint,
	})
}

// Update accepts multipart fields status, assigned_to and the file after_image.
func (h *ComplaintHandler) Update(c *fiber.Ctx) error {
	id, ok := complaintID(c)
	if !ok {
		return complaintNotFound(c)
	}

	req, err := decodeUpdate(c)
	if err != nil {
		return respondError(c, err)
	}

	complaint, err := h.complaintService.Update(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ComplaintMutationResponse{
		Success:   true,
		Message:   "Complaint updated successfully",
		Complaint: complaint,
	})
}

// Reassign takes assigned_to as a form field or JSON body.
func (h *ComplaintHandler) Reassign(c *fiber.Ctx) error {
	id, ok := complaintID(c)
	if !ok {
		return complaintNotFound(c)
	}

	var req dto.ReassignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid request format",
		})
	}

	complaint, err := h.complaintService.Reassign(c.UserContext(), id, req.AssignedTo)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ComplaintMutationResponse{
		Success:   true,
		Message:   "Complaint reassigned successfully",
		Complaint: complaint,
	})
}

// decodeUpdate picks the transition an update form asks for. An after_image means
// completion, a non-empty assigned_to means assignment. A bare status is passed on
// with its required field empty so that an unknown id still reports not found first.
func decodeUpdate(c *fiber.Ctx) (services.UpdateRequest, error) {
	status := models.ComplaintStatus(strings.TrimSpace(c.FormValue("status")))
	officer := strings.TrimSpace(c.FormValue("assigned_to"))
	image, err := readImage(c, "after_image")
	if err != nil {
		return nil, err
	}

	switch {
	case image != nil && officer != "":
		return nil, &services.ValidationError{
			Fields: []string{"assigned_to", "after_image"},
			Reason: "send either assigned_to or after_image, not both",
		}
	case image != nil:
		if status != "" && status != models.StatusCompleted {
			return nil, statusMismatch(models.StatusCompleted)
		}
		return services.CompleteRequest{Image: image}, nil
	case officer != "":
		if status != "" && status != models.StatusProcessing {
			return nil, statusMismatch(models.StatusProcessing)
		}
		return services.AssignRequest{Officer: officer}, nil
	case status == models.StatusProcessing:
		return services.AssignRequest{}, nil
	case status == models.StatusCompleted:
		return services.CompleteRequest{}, nil
	case status != "":
		return nil, &services.ValidationError{
			Fields: []string{"status"},
			Reason: "status must be processing or completed",
		}
	default:
		return nil, services.ErrNoFieldsProvided
	}
}

func statusMismatch(want models.ComplaintStatus) error {
	return &services.ValidationError{
		Fields: []string{"status"},
		Reason: "status must be " + string(want) + " for this update",
	}
}

// readImage returns nil when the form carries no file under field.
func readImage(c *fiber.Ctx, field string) (*services.Image, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, &services.ValidationError{Fields: []string{field}, Reason: "uploaded file could not be read"}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &services.ValidationError{Fields: []string{field}, Reason: "uploaded file could not be read"}
	}

	return &services.Image{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
