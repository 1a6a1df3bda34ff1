package cache

import (
	"encoding/json"
	"fmt"
)

// MaxTasks is how many tasks are kept from one update.
const MaxTasks = 20

// Task is a work item tracked by the host, addressed by Key.
type Task struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Project string `json:"proj"`
	Status  string `json:"status"`
	Desc    string `json:"desc"`
}

// ParseTasks decodes a TASKS payload: a JSON array of tasks.
func ParseTasks(payload string) ([]Task, error) {
	var tasks []Task
	if err := json.Unmarshal([]byte(payload), &tasks); err != nil {
		return nil, fmt.Errorf("%w: tasks: %w", ErrMalformed, err)
	}
	if len(tasks) > MaxTasks {
		tasks = tasks[:MaxTasks]
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}
