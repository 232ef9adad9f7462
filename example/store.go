package main

import (
	"fmt"
	"slices"
	"sync"

	"github.com/pthm/tagview/example/components"
)

// Store keeps todos in memory, newest first. The handlers write to it and
// the components read it through components.TodoStore.
type Store struct {
	mu    sync.RWMutex
	todos []*components.Todo
	seq   int
}

var _ components.TodoStore = (*Store)(nil)

// NewStore returns a store holding a few sample todos.
func NewStore() *Store {
	s := &Store{}
	s.Add("Buy groceries", components.TagPersonal)
	s.Add("Review pull request", components.TagWork, components.TagUrgent)
	s.Add("Call the dentist", components.TagPersonal)
	return s
}

// Add stores a pending todo and returns its id.
func (s *Store) Add(title string, tags ...components.Tag) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := fmt.Sprintf("todo-%d", s.seq)
	s.todos = slices.Insert(s.todos, 0, &components.Todo{
		ID:     id,
		Title:  title,
		Status: components.StatusPending,
		Tags:   tags,
	})
	return id
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.todos, func(t *components.Todo) bool { return t.ID == id })
}

func (s *Store) Get(id string) *components.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.todos[i]
	}
	return nil
}

// Toggle flips a todo between pending and completed.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return false
	}
	if t := s.todos[i]; t.IsCompleted() {
		t.Status = components.StatusPending
	} else {
		t.Status = components.StatusCompleted
	}
	return true
}

func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.todos = slices.Delete(s.todos, i, i+1)
	return true
}

func (s *Store) List(status components.Status) []*components.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if status == "" {
		return slices.Clone(s.todos)
	}
	var out []*components.Todo
	for _, t := range s.todos {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) Stats() components.TodoStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := components.TodoStats{Total: len(s.todos)}
	for _, t := range s.todos {
		if t.IsCompleted() {
			stats.Completed++
		} else {
			stats.Pending++
		}
	}
	return stats
}
