package main

const (
	taskListTitle      = "Today's Tasks"
	taskListWidth      = 576
	taskListPadding    = 20
	taskListLineHeight = 40
	taskListFontSize   = 28
)

// TaskListHeight is the fixed-pitch height of a list of n tasks.
func TaskListHeight(n int) int {
	return taskListPadding*2 + taskListLineHeight*(n+1)
}

// RenderTaskList draws the plain "[ ] task" list: a heading and one line per
// task at a fixed pitch. Tasks too long for the paper are ellipsized.
func (r *NoteRenderer) RenderTaskList(tasks []string) *Monochrome {
	f := r.fonts.Get(true, taskListFontSize)
	height := TaskListHeight(len(tasks))
	sink := newPaintSink(taskListWidth, height)
	m := sink.Metrics()
	maxWidth := float64(taskListWidth - 2*taskListPadding)

	sink.Text(Ellipsize(m, taskListTitle, f, maxWidth), f, taskListPadding, taskListPadding, false)
	for i, task := range tasks {
		y := taskListPadding + (i+1)*taskListLineHeight
		line := Ellipsize(m, "[ ] "+task, f, maxWidth)
		sink.Text(line, f, taskListPadding, float64(y), false)
	}

	logDebugModule("render", "task list: %d tasks, %dx%d", len(tasks), taskListWidth, height)
	return sink.Image(height)
}
