package components

import (
	"context"

	"github.com/pthm/tagview"
)

const todoListTemplate = `<ul class="todos">{{range .}}<ui:todo id="{{.ID}}"></ui:todo>{{else}}<li class="empty">Nothing to do</li>{{end}}</ul>`

// TodoList displays the todos with a status.
//
//	<ui:todos status="pending"></ui:todos>
type TodoList struct {
	tagview.Base
	tagview.Splice

	Status string `arg:"status"`

	todos []*Todo
}

// Build loads the todos from the store.
func (c *TodoList) Build(_ context.Context, services tagview.Services) error {
	s, err := store(services)
	if err != nil {
		return err
	}
	c.todos = s.List(Status(c.Status))
	return nil
}

func (c *TodoList) Compile(ctx context.Context, compiler *tagview.Compiler) (string, error) {
	return compiler.RenderSource(ctx, todoListTemplate, c.todos)
}
