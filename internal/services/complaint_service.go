package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/assets"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/cache"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/storage"
)

// Image is an uploaded photo held in memory until it is written to the asset store.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (i *Image) empty() bool {
	return i == nil || len(i.Data) == 0
}

type SubmitInput struct {
	Location    string
	Description string
	Contact     string
	Image       *Image
}

// UpdateRequest is one of AssignRequest or CompleteRequest.
type UpdateRequest interface {
	updateRequest()
}

type AssignRequest struct {
	Officer string
}

type CompleteRequest struct {
	Image *Image
}

func (AssignRequest) updateRequest()   {}
func (CompleteRequest) updateRequest() {}

type ComplaintService struct {
	store  storage.ComplaintStore
	assets assets.Store
	stats  cache.StatsCache
	now    func() time.Time
}

// NewComplaintService wires the lifecycle. assetStore and stats may be nil: without an
// asset store every upload fails with ErrStorageUnavailable, without a cache the
// counters are read from the record store each time.
func NewComplaintService(store storage.ComplaintStore, assetStore assets.Store, stats cache.StatsCache) *ComplaintService {
	return &ComplaintService{
		store:  store,
		assets: assetStore,
		stats:  stats,
		now:    time.Now,
	}
}

func (s *ComplaintService) Submit(ctx context.Context, in SubmitInput) (*models.Complaint, error) {
	location := strings.TrimSpace(in.Location)
	description := strings.TrimSpace(in.Description)

	var missing []string
	if location == "" {
		missing = append(missing, "location")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if in.Image.empty() {
		missing = append(missing, "image")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	now := s.timestamp()
	ref, err := s.storeImage(ctx, assets.PurposeBefore, now, in.Image)
	if err != nil {
		return nil, err
	}

	complaint := &models.Complaint{
		Location:       location,
		Description:    description,
		Contact:        optional(in.Contact),
		Status:         models.StatusPending,
		BeforeImageURL: ref,
		SubmittedAt:    now,
	}
	if err := s.store.Create(ctx, complaint); err != nil {
		slog.Warn("complaint insert failed, before image left orphaned",
			"action", "submit",
			"asset", ref,
			"error", err,
		)
		return nil, storageError("insert complaint", err)
	}

	s.invalidateStats(ctx)
	slog.Info("complaint submitted", "complaint_id", complaint.ID, "action", "submit")
	return complaint, nil
}

// Update dispatches a decoded update body to the matching transition.
func (s *ComplaintService) Update(ctx context.Context, id uint, req UpdateRequest) (*models.Complaint, error) {
	switch r := req.(type) {
	case AssignRequest:
		return s.Assign(ctx, id, r.Officer)
	case CompleteRequest:
		return s.Complete(ctx, id, r.Image)
	default:
		return nil, ErrNoFieldsProvided
	}
}

// Assign moves a pending complaint to processing under the named officer.
func (s *ComplaintService) Assign(ctx context.Context, id uint, officer string) (*models.Complaint, error) {
	complaint, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	officer = strings.TrimSpace(officer)
	if officer == "" {
		return nil, &ValidationError{Fields: []string{"assigned_to"}}
	}
	if !complaint.Status.CanTransitionTo(models.StatusProcessing) {
		return nil, &TransitionError{ID: id, Action: "assign", From: complaint.Status}
	}

	err = s.store.Transition(ctx, id, complaint.Status, models.StatusProcessing,
		map[string]interface{}{"assigned_to": officer},
		storage.TransitionNote{AssignedTo: &officer, Note: "assigned"},
	)
	if err := s.transitionError(id, "assign", complaint.Status, err); err != nil {
		return nil, err
	}

	complaint.Status = models.StatusProcessing
	complaint.AssignedTo = &officer
	s.invalidateStats(ctx)
	slog.Info("complaint assigned", "complaint_id", id, "action", "assign", "officer", officer)
	return complaint, nil
}

// Reassign hands a complaint that is already being worked to another officer. The
// status stays processing.
func (s *ComplaintService) Reassign(ctx context.Context, id uint, officer string) (*models.Complaint, error) {
	complaint, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	officer = strings.TrimSpace(officer)
	if officer == "" {
		return nil, &ValidationError{Fields: []string{"assigned_to"}}
	}
	if complaint.Status != models.StatusProcessing {
		return nil, &TransitionError{ID: id, Action: "reassign", From: complaint.Status}
	}

	err = s.store.Transition(ctx, id, models.StatusProcessing, models.StatusProcessing,
		map[string]interface{}{"assigned_to": officer},
		storage.TransitionNote{AssignedTo: &officer, Note: "reassigned"},
	)
	if err := s.transitionError(id, "reassign", complaint.Status, err); err != nil {
		return nil, err
	}

	complaint.AssignedTo = &officer
	slog.Info("complaint reassigned", "complaint_id", id, "action", "reassign", "officer", officer)
	return complaint, nil
}

// Complete records the resolution photo and closes a processing complaint. The status
// is checked before anything is uploaded.
func (s *ComplaintService) Complete(ctx context.Context, id uint, image *Image) (*models.Complaint, error) {
	complaint, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if image.empty() {
		return nil, &ValidationError{Fields: []string{"after_image"}}
	}
	if !complaint.Status.CanTransitionTo(models.StatusCompleted) {
		return nil, &TransitionError{ID: id, Action: "complete", From: complaint.Status}
	}

	now := s.timestamp()
	ref, err := s.storeImage(ctx, assets.PurposeAfter, now, image)
	if err != nil {
		return nil, err
	}

	err = s.store.Transition(ctx, id, complaint.Status, models.StatusCompleted,
		map[string]interface{}{
			"after_image_url": ref,
			"completed_at":    now,
		},
		storage.TransitionNote{AssignedTo: complaint.AssignedTo, Note: "completed"},
	)
	if err := s.transitionError(id, "complete", complaint.Status, err); err != nil {
		slog.Warn("complaint completion failed, after image left orphaned",
			"complaint_id", id,
			"action", "complete",
			"asset", ref,
			"error", err,
		)
		return nil, err
	}

	complaint.Status = models.StatusCompleted
	complaint.AfterImageURL = &ref
	complaint.CompletedAt = &now
	s.invalidateStats(ctx)
	slog.Info("complaint completed", "complaint_id", id, "action", "complete")
	return complaint, nil
}

// List returns complaints newest first, optionally restricted to one status.
func (s *ComplaintService) List(ctx context.Context, status models.ComplaintStatus) ([]models.Complaint, error) {
	if status != "" && !status.Valid() {
		return nil, &ValidationError{
			Fields: []string{"status"},
			Reason: "unknown status " + string(status),
		}
	}
	complaints, err := s.store.List(ctx, storage.ListFilter{Status: status})
	if err != nil {
		return nil, storageError("list complaints", err)
	}
	return complaints, nil
}

func (s *ComplaintService) Get(ctx context.Context, id uint) (*models.Complaint, error) {
	return s.find(ctx, id)
}

// History returns the status log of a complaint in the order it was written.
func (s *ComplaintService) History(ctx context.Context, id uint) ([]models.ComplaintStatusLog, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	history, err := s.store.History(ctx, id)
	if err != nil {
		return nil, storageError("load history", err)
	}
	return history, nil
}

func (s *ComplaintService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	if s.stats != nil {
		counts, ok, err := s.stats.Get(ctx)
		if err != nil {
			slog.Warn("stats cache read failed", "error", err)
		}
		if ok {
			return dto.NewStatsResponse(counts), nil
		}
	}

	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, storageError("count complaints", err)
	}
	if s.stats != nil {
		if err := s.stats.Set(ctx, counts); err != nil {
			slog.Warn("stats cache write failed", "error", err)
		}
	}
	return dto.NewStatsResponse(counts), nil
}

func (s *ComplaintService) find(ctx context.Context, id uint) (*models.Complaint, error) {
	complaint, err := s.store.FindByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrComplaintNotFound
	}
	if err != nil {
		return nil, storageError("load complaint", err)
	}
	return complaint, nil
}

func (s *ComplaintService) storeImage(ctx context.Context, purpose assets.Purpose, now time.Time, image *Image) (string, error) {
	if s.assets == nil {
		return "", storageError("store image", errors.New("image store is not provisioned"))
	}
	key := assets.NewKey(purpose, now, image.Filename)
	ref, err := s.assets.Put(ctx, key, image.Data, assets.ContentType(image.ContentType, image.Data))
	if err != nil {
		return "", storageError("store image", err)
	}
	return ref, nil
}

func (s *ComplaintService) transitionError(id uint, action string, from models.ComplaintStatus, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return ErrComplaintNotFound
	case errors.Is(err, storage.ErrStatusConflict):
		return &TransitionError{ID: id, Action: action, From: from}
	default:
		return storageError(action+" complaint", err)
	}
}

func (s *ComplaintService) invalidateStats(ctx context.Context) {
	if s.stats == nil {
		return
	}
	if err := s.stats.Invalidate(ctx); err != nil {
		slog.Warn("stats cache invalidation failed", "error", err)
	}
}

// timestamp is truncated to what the record store keeps.
func (s *ComplaintService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
