package core

import (
	"fmt"
	"strings"
)

// TaskType selects the evaluation directive every advisor receives.
type TaskType string

const (
	// TaskCritique asks advisors to find weaknesses and failure points.
	TaskCritique TaskType = "critique"
	// TaskBrainstorm asks advisors to generate variations and improvements.
	TaskBrainstorm TaskType = "brainstorm"
	// TaskFindPMF asks advisors to analyze product-market fit.
	TaskFindPMF TaskType = "find-pmf"
)

var taskDirectives = map[TaskType]string{
	TaskCritique:   "Find weaknesses, risks, and failure points. Be specific about what could go wrong.",
	TaskBrainstorm: "Generate variations and improvements. Build on the core insight. Stay constructive.",
	TaskFindPMF:    "Analyze product-market fit. Who has this problem? How badly? Will they pay?",
}

// TaskTypes lists the supported task types in menu order.
func TaskTypes() []TaskType {
	return []TaskType{TaskCritique, TaskBrainstorm, TaskFindPMF}
}

// Valid reports whether t is a known task type.
func (t TaskType) Valid() bool {
	_, ok := taskDirectives[t]
	return ok
}

// Directive returns the instruction injected into every advisor prompt.
func (t TaskType) Directive() string {
	return taskDirectives[t]
}

// String implements fmt.Stringer.
func (t TaskType) String() string { return string(t) }

// ParseTaskType resolves a task name or its menu number ("1".."3"). An empty
// string selects TaskCritique.
func ParseTaskType(s string) (TaskType, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "1":
		return TaskCritique, nil
	case "2":
		return TaskBrainstorm, nil
	case "3":
		return TaskFindPMF, nil
	default:
		t := TaskType(v)
		if !t.Valid() {
			return "", fmt.Errorf("unknown task type %q", s)
		}
		return t, nil
	}
}
