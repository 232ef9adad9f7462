package components

// Status is the completion status of a todo.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Tag is a category rendered as <ui:tag kind="...">.
type Tag string

const (
	TagWork     Tag = "work"
	TagPersonal Tag = "personal"
	TagUrgent   Tag = "urgent"
)

// Todo is one item of the list.
type Todo struct {
	ID     string
	Title  string
	Status Status
	Tags   []Tag
}

// IsCompleted reports whether the todo is done.
func (t *Todo) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// TodoStats is what <ui:stats> displays.
type TodoStats struct {
	Total     int
	Completed int
	Pending   int
}

// TodoStore is the read side the components build from. It is registered
// under StoreService.
type TodoStore interface {
	// Get returns nil for an unknown id.
	Get(id string) *Todo
	// List returns the todos with status, or every todo when status is "".
	List(status Status) []*Todo
	Stats() TodoStats
}

// StoreService is the service name components look the store up by.
const StoreService = "todos"
