package entity

import "time"

// Domain-level filters for querying, used by the repository layer to
// avoid coupling with delivery DTOs.

// FollowUpFilter narrows follow-up listings.
type FollowUpFilter struct {
	PhysicianID *uint
	PatientID   *uint
	Status      FollowUpStatus
	Disease     Disease
}

// ValidationFilter narrows validation listings.
type ValidationFilter struct {
	PhysicianID  *uint
	PredictionID *uint
}

// PrescriptionFilter narrows exam prescription listings.
type PrescriptionFilter struct {
	PhysicianID *uint
	PatientID   *uint
	Status      PrescriptionStatus
}

// DueExamFilter selects scheduled exams whose due date has arrived.
type DueExamFilter struct {
	ReferenceDate time.Time // day granularity, inclusive upper bound
	PhysicianID   *uint
}
