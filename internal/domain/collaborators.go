package domain

import "context"

//go:generate mockgen -source=collaborators.go -destination=collaborators_mock.go -package=domain

// BookingStore is the external persistence collaborator. It owns
// upsert-by-confirmation-number, status-change event logging and
// retry-schedule upsert/deletion (upsert while pending, delete once
// confirmed). The orchestration engine persists nothing itself.
type BookingStore interface {
	// Save records the outcome of one reconciliation attempt.
	Save(ctx context.Context, req *BookingRequest, res *BookingResult) error
}

// Notifier is the external notification collaborator. The driver invokes it
// regardless of booking status; the collaborator itself no-ops when no
// contact address exists.
type Notifier interface {
	// Notify delivers the booking outcome over the traveler's contact channel.
	Notify(ctx context.Context, res *BookingResult) error
}
