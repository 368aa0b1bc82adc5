package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskIntegrityCheck audits the ledger of one company, or of every company when none is named.
	TaskIntegrityCheck = "ledger:integrity_check"
)

// IntegrityCheckPayload selects the company to audit. Empty means all.
type IntegrityCheckPayload struct {
	CompanyID string `json:"companyID,omitempty"`
}

// NewIntegrityCheckTask constructs an Asynq task.
func NewIntegrityCheckTask(companyID string) (*asynq.Task, error) {
	data, err := json.Marshal(IntegrityCheckPayload{CompanyID: companyID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIntegrityCheck, data), nil
}
