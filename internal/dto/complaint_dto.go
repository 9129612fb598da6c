package dto

import "github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/models"

type ComplaintListResponse struct {
	Complaints []models.Complaint `json:"complaints"`
}

type ComplaintResponse struct {
	Complaint *models.Complaint `json:"complaint"`
}

type ComplaintMutationResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Complaint *models.Complaint `json:"complaint"`
}

type ComplaintHistoryResponse struct {
	History []models.ComplaintStatusLog `json:"history"`
}

type StatsResponse struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
}

// NewStatsResponse folds per-status counts into the dashboard shape.
func NewStatsResponse(counts map[models.ComplaintStatus]int64) *StatsResponse {
	resp := &StatsResponse{
		Pending:    counts[models.StatusPending],
		Processing: counts[models.StatusProcessing],
		Completed:  counts[models.StatusCompleted],
	}
	for _, n := range counts {
		resp.Total += n
	}
	return resp
}

type ReassignRequest struct {
	AssignedTo string `json:"assigned_to" form:"assigned_to"`
}
