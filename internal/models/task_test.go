package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTaskStatus(t *testing.T) {
	cases := map[string]TaskStatus{
		"To Do":            TaskStatusToDo,
		"ToDo":             TaskStatusToDo,
		"Work In Progress": TaskStatusWorkInProgress,
		"WorkInProgress":   TaskStatusWorkInProgress,
		"Under Review":     TaskStatusUnderReview,
		"UnderReview":      TaskStatusUnderReview,
		"Completed":        TaskStatusCompleted,
	}
	for input, want := range cases {
		got, ok := ParseTaskStatus(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}

	for _, input := range []string{"", "done", "to do", "DONE"} {
		_, ok := ParseTaskStatus(input)
		assert.False(t, ok, input)
	}
}

func TestParseTaskPriority(t *testing.T) {
	for _, p := range TaskPriorities {
		got, ok := ParseTaskPriority(string(p))
		assert.True(t, ok)
		assert.Equal(t, p, got)
	}

	_, ok := ParseTaskPriority("Critical")
	assert.False(t, ok)
}
