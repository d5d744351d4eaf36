package queue

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TaskBlobDelete removes one object from the blob store.
const TaskBlobDelete = "blob.delete"

type Task struct {
	Type string `json:"type"`
	// Key is the object key for blob tasks.
	Key    string `json:"key,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func BlobDelete(key, reason string) Task {
	return Task{Type: TaskBlobDelete, Key: key, Reason: reason}
}

func (t Task) values() map[string]any {
	values := map[string]any{"type": t.Type}
	if t.Key != "" {
		values["key"] = t.Key
	}
	if t.Reason != "" {
		values["reason"] = t.Reason
	}
	return values
}

// DecodeTask reads a task back from the flat field map of a stream entry.
func DecodeTask(values map[string]any) (Task, error) {
	raw, err := json.Marshal(values)
	if err != nil {
		return Task{}, fmt.Errorf("encode values: %w", err)
	}
	var task Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return Task{}, fmt.Errorf("decode task: %w", err)
	}
	if task.Type == "" {
		return Task{}, errors.New("task without type")
	}
	return task, nil
}
