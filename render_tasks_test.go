package main

import (
	"image"
	"strings"
	"testing"
)

func TestRenderTaskList(t *testing.T) {
	r := newTestRenderer()

	tests := []struct {
		name  string
		tasks []string
	}{
		{"none", nil},
		{"three", []string{"Buy milk", "Cash check", "Take out trash!"}},
		{"long", []string{strings.Repeat("very long task ", 20)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := r.RenderTaskList(tt.tasks)
			if img.Rect.Dx() != taskListWidth {
				t.Errorf("width = %d", img.Rect.Dx())
			}
			if want := TaskListHeight(len(tt.tasks)); img.Rect.Dy() != want {
				t.Errorf("height = %d, want %d", img.Rect.Dy(), want)
			}
			if img.InkCount(img.Rect) == 0 {
				t.Error("no heading drawn")
			}
			strip := image.Rect(taskListWidth-taskListPadding, 0, taskListWidth, img.Rect.Dy())
			if n := img.InkCount(strip); n != 0 {
				t.Errorf("%d ink pixels in the right padding", n)
			}
		})
	}
}

func TestTaskListHeight(t *testing.T) {
	if got := TaskListHeight(2); got != 20*2+40*3 {
		t.Errorf("TaskListHeight(2) = %d", got)
	}
}
