package models

import (
	"time"
)

// ComplaintStatus is the lifecycle stage of a complaint.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "pending"
	StatusProcessing ComplaintStatus = "processing"
	StatusCompleted  ComplaintStatus = "completed"
)

// Allowed lifecycle edges. Completed is terminal.
var transitions = map[ComplaintStatus]map[ComplaintStatus]struct{}{
	StatusPending:    {StatusProcessing: {}},
	StatusProcessing: {StatusCompleted: {}},
	StatusCompleted:  {},
}

// Valid reports whether s is one of the known statuses.
func (s ComplaintStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s ComplaintStatus) CanTransitionTo(next ComplaintStatus) bool {
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	_, ok = allowed[next]
	return ok
}

// Terminal reports whether no further transition is possible.
func (s ComplaintStatus) Terminal() bool {
	allowed, ok := transitions[s]
	return ok && len(allowed) == 0
}

// Complaint is a citizen-reported sewage issue. Column names are snake_case at the
// storage boundary and camelCase on the wire.
type Complaint struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Location       string          `gorm:"type:text;not null" json:"location"`
	Description    string          `gorm:"type:text;not null" json:"description"`
	Contact        *string         `gorm:"type:text" json:"contact,omitempty"`
	Status         ComplaintStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AssignedTo     *string         `gorm:"column:assigned_to;size:255" json:"assignedTo,omitempty"`
	BeforeImageURL string          `gorm:"column:before_image_url;type:text;not null" json:"beforeImageUrl"`
	AfterImageURL  *string         `gorm:"column:after_image_url;type:text" json:"afterImageUrl,omitempty"`
	SubmittedAt    time.Time       `gorm:"column:submitted_at;not null" json:"submittedAt"`
	CompletedAt    *time.Time      `gorm:"column:completed_at" json:"completedAt,omitempty"`
}

func (Complaint) TableName() string {
	return "complaints"
}

// ComplaintStatusLog records each lifecycle change of a complaint.
type ComplaintStatusLog struct {
	ID          uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	ComplaintID uint             `gorm:"not null;index" json:"complaintId"`
	OldStatus   *ComplaintStatus `gorm:"size:20" json:"oldStatus,omitempty"`
	NewStatus   ComplaintStatus  `gorm:"size:20;not null" json:"newStatus"`
	AssignedTo  *string          `gorm:"size:255" json:"assignedTo,omitempty"`
	Note        string           `gorm:"type:text" json:"note,omitempty"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"createdAt"`
}

func (ComplaintStatusLog) TableName() string {
	return "complaint_status_logs"
}
