package model

// Todo is the domain model for a todo entry as the API serves it.
type Todo struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Detail    string `json:"detail"`
	Completed bool   `json:"completed"`
}

// Draft is the form buffer shared by the create and edit flows.
// A nil ID means the draft describes a todo that does not exist yet.
type Draft struct {
	ID        *int   `json:"id" mapstructure:"id"`
	Title     string `json:"title" mapstructure:"title"`
	Detail    string `json:"detail" mapstructure:"detail"`
	Completed bool   `json:"completed" mapstructure:"completed"`
}

// EmptyDraft returns the create-mode draft with every field cleared.
func EmptyDraft() Draft {
	return Draft{}
}

// DraftOf copies t into an edit-mode draft.
func DraftOf(t Todo) Draft {
	id := t.ID
	return Draft{ID: &id, Title: t.Title, Detail: t.Detail, Completed: t.Completed}
}

// IsNew reports whether the draft is in create mode.
func (d Draft) IsNew() bool { return d.ID == nil }

// Clone returns a copy that does not share the ID pointer.
func (d Draft) Clone() Draft {
	if d.ID != nil {
		id := *d.ID
		d.ID = &id
	}
	return d
}

// Filter names the active view.
type Filter string

const (
	FilterAll        Filter = ""
	FilterCompleted  Filter = "completedTodos"
	FilterIncomplete Filter = "incompleteTodos"
)

// ParseFilter maps user-facing names ("completed", "incomplete", "all") and the
// route names themselves to a Filter. Unknown names map to FilterAll.
func ParseFilter(s string) Filter {
	switch s {
	case "completed", "done", string(FilterCompleted):
		return FilterCompleted
	case "incomplete", "pending", string(FilterIncomplete):
		return FilterIncomplete
	}
	return FilterAll
}

func (f Filter) String() string {
	if f == FilterAll {
		return "all"
	}
	return string(f)
}
