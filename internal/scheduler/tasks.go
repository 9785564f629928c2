package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskEmailSync re-applies a profile email to the identity provider.
const TaskEmailSync = "identity.email_sync"

type EmailSyncPayload struct {
	UserID string `json:"userId"`
}

func NewEmailSyncTask(payload EmailSyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEmailSync, data), nil
}

func ParseEmailSyncPayload(task *asynq.Task) (EmailSyncPayload, error) {
	var payload EmailSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return EmailSyncPayload{}, err
	}
	return payload, nil
}
