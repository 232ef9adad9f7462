package components

import (
	"context"
	"fmt"

	"github.com/pthm/tagview"
)

const todoItemTemplate = `<li class="todo{{if .IsCompleted}} done{{end}}"><span class="title">{{.Title}}</span> {{range .Tags}}<ui:tag kind="{{.}}"></ui:tag>{{end}}</li>`

// TodoItem renders one todo.
//
//	<ui:todo id="todo-1"></ui:todo>
type TodoItem struct {
	tagview.Base
	tagview.Splice

	TodoID string `arg:"id"`

	todo *Todo
}

// Build loads the todo from the store.
func (c *TodoItem) Build(_ context.Context, services tagview.Services) error {
	s, err := store(services)
	if err != nil {
		return err
	}
	c.todo = s.Get(c.TodoID)
	if c.todo == nil {
		return fmt.Errorf("todo %q not found", c.TodoID)
	}
	return nil
}

func (c *TodoItem) Compile(ctx context.Context, compiler *tagview.Compiler) (string, error) {
	return compiler.RenderSource(ctx, todoItemTemplate, c.todo)
}
