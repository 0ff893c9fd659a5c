package project

import (
	"testing"
	"time"
)

func TestComputeProgress(t *testing.T) {
	task := func(completed bool) TodoItem {
		return TodoItem{ID: "t", Title: "task", Completed: completed}
	}

	tests := []struct {
		name string
		list []TodoItem
		want int
	}{
		{"empty list", nil, 0},
		{"none completed", []TodoItem{task(false), task(false)}, 0},
		{"one of four", []TodoItem{task(true), task(false), task(false), task(false)}, 25},
		{"three of four", []TodoItem{task(true), task(true), task(true), task(false)}, 75},
		{"all completed", []TodoItem{task(true), task(true)}, 100},
		{"one of three rounds down", []TodoItem{task(true), task(false), task(false)}, 33},
		{"two of three rounds up", []TodoItem{task(true), task(true), task(false)}, 67},
		{"one of eight rounds half up", []TodoItem{task(true), task(false), task(false), task(false), task(false), task(false), task(false), task(false)}, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeProgress(tt.list); got != tt.want {
				t.Errorf("ComputeProgress() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestApplyCompletion(t *testing.T) {
	now := time.Now()
	task := &TodoItem{ID: "t1", Title: "write report"}

	applyCompletion(task, true, now)
	if !task.Completed {
		t.Fatal("task should be completed")
	}
	if task.CompletedAt == nil || !task.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt = %v, want %v", task.CompletedAt, now)
	}

	applyCompletion(task, false, now.Add(time.Hour))
	if task.Completed {
		t.Fatal("task should not be completed")
	}
	if task.CompletedAt != nil {
		t.Errorf("CompletedAt should be cleared when un-completing, got %v", task.CompletedAt)
	}
}

func TestFindTask(t *testing.T) {
	p := &Project{TodoList: []TodoItem{{ID: "a"}, {ID: "b"}}}

	if got := findTask(p, "b"); got == nil || got.ID != "b" {
		t.Errorf("findTask(b) = %v", got)
	}
	if got := findTask(p, "missing"); got != nil {
		t.Errorf("findTask(missing) = %v, want nil", got)
	}

	// The returned pointer aliases the embedded slice element.
	findTask(p, "a").Completed = true
	if !p.TodoList[0].Completed {
		t.Error("mutating the found task should mutate the project's list")
	}
}

// Walks the lifecycle of a task list the way the handlers drive it: start
// empty, add four tasks, complete some, delete one, recomputing at each step.
func TestProgressLifecycle(t *testing.T) {
	now := time.Now()
	p := &Project{TodoList: []TodoItem{}}

	if got := ComputeProgress(p.TodoList); got != 0 {
		t.Fatalf("empty list progress = %d, want 0", got)
	}

	for _, id := range []string{"t1", "t2", "t3", "t4"} {
		p.TodoList = append(p.TodoList, TodoItem{ID: id, Title: id, CreatedAt: now})
	}
	if got := ComputeProgress(p.TodoList); got != 0 {
		t.Fatalf("four fresh tasks progress = %d, want 0", got)
	}

	applyCompletion(findTask(p, "t1"), true, now)
	if got := ComputeProgress(p.TodoList); got != 25 {
		t.Fatalf("1/4 complete progress = %d, want 25", got)
	}

	applyCompletion(findTask(p, "t2"), true, now)
	applyCompletion(findTask(p, "t3"), true, now)
	if got := ComputeProgress(p.TodoList); got != 75 {
		t.Fatalf("3/4 complete progress = %d, want 75", got)
	}

	// Delete a completed task; progress is recomputed over the remaining 3.
	kept := p.TodoList[:0]
	for _, task := range p.TodoList {
		if task.ID != "t1" {
			kept = append(kept, task)
		}
	}
	p.TodoList = kept
	if got := ComputeProgress(p.TodoList); got != 67 {
		t.Fatalf("2/3 complete progress = %d, want 67", got)
	}
}
