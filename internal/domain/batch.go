package domain

import "time"

// BatchStatus tracks a bulk-upload job.
type BatchStatus string

const (
	BatchProcessing BatchStatus = "PROCESSING"
	BatchCompleted  BatchStatus = "COMPLETED"
	BatchFailed     BatchStatus = "FAILED"
	BatchCancelled  BatchStatus = "CANCELLED"
)

// Batch is a bulk-upload job producing many shipments. Shipments carry
// an explicit BatchID foreign key back to their batch.
type Batch struct {
	ID            string
	AccountID     string
	Status        BatchStatus
	TotalRows     int
	ProcessedRows int
	FailedRows    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsTerminal reports whether the batch can no longer change state.
func (b *Batch) IsTerminal() bool {
	return b.Status != BatchProcessing
}
