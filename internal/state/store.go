// Package state holds the client-side state of the todo app.
//
// The Store owns the todo collection, the draft used by the editor, the
// active filter and the two display messages. Reads go through getters,
// writes go through the named mutation methods, and the action methods
// perform the API calls and then commit mutations. State fields are
// unexported so nothing else can write them directly.
package state

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/todoclient/internal/api"
	"github.com/idilsaglam/todoclient/internal/logging"
	"github.com/idilsaglam/todoclient/internal/model"
)

// Fixed display strings.
const (
	EmptyCompletedMessage  = "There are no completed todos."
	EmptyIncompleteMessage = "There are no incomplete todos."
	EmptyAllMessage        = "Nothing has been added to the todo list yet."
	UnreachableMessage     = "Cannot reach the server. Check your network connection and that the server is running."
	RequiredFieldsMessage  = "Both a title and a detail are required."
)

var (
	// ErrTodoNotFound is returned when an edit targets a todo that is not in the collection.
	ErrTodoNotFound = errors.New("todo not found")
	// ErrInvalidField is returned by UpdateTargetTodo for unknown names or mismatched values.
	ErrInvalidField = errors.New("invalid draft field")
)

// API is the subset of the REST client the store needs.
type API interface {
	List(ctx context.Context) ([]model.Todo, error)
	Create(ctx context.Context, in api.NewTodo) (model.Todo, error)
	Update(ctx context.Context, id int, p api.Patch) (model.Todo, error)
	Delete(ctx context.Context, id int) error
}

// ErrorPayload is what a failed request hands to ShowError.
type ErrorPayload struct {
	Data string
}

// Snapshot is a consistent copy of the whole state tree.
type Snapshot struct {
	Todos        []model.Todo
	Filter       model.Filter
	TargetTodo   model.Draft
	ErrorMessage string
	EmptyMessage string
}

// Store is the single owner of application state. It is safe for use from
// several goroutines; every mutation is atomic and actions never hold the
// lock while a request is in flight.
type Store struct {
	api    API
	logger *logrus.Entry

	mu           sync.Mutex
	todos        []model.Todo
	filter       model.Filter
	target       model.Draft
	errorMessage string
	emptyMessage string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *logrus.Entry) Option {
	return func(s *Store) { s.logger = l }
}

// New returns an empty store backed by the given API.
func New(c API, opts ...Option) *Store {
	s := &Store{
		api:    c,
		logger: logging.NewLogger("store"),
		todos:  []model.Todo{},
		target: model.EmptyDraft(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot copies the current state under a single lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Todos:        cloneTodos(s.todos),
		Filter:       s.filter,
		TargetTodo:   s.target.Clone(),
		ErrorMessage: s.errorMessage,
		EmptyMessage: s.emptyMessage,
	}
}

// Todos returns a copy of the collection, most recent first.
func (s *Store) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTodos(s.todos)
}

// Filter returns the active filter.
func (s *Store) Filter() model.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// TargetTodo returns a copy of the draft.
func (s *Store) TargetTodo() model.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target.Clone()
}

// ErrorMessage returns the current error text, "" when there is none.
func (s *Store) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errorMessage
}

// EmptyMessage returns the text shown when the active view has no todos.
func (s *Store) EmptyMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emptyMessage
}

// CompletedTodos returns the completed todos of the collection.
func (s *Store) CompletedTodos() []model.Todo { return CompletedTodos(s.Todos()) }

// IncompleteTodos returns the open todos of the collection.
func (s *Store) IncompleteTodos() []model.Todo { return IncompleteTodos(s.Todos()) }

// CompletedCount returns how many todos are completed.
func (s *Store) CompletedCount() int { return CompletedCount(s.Todos()) }

// IncompleteCount returns how many todos are still open.
func (s *Store) IncompleteCount() int { return IncompleteCount(s.Todos()) }

// VisibleTodos returns the todos selected by the active filter.
func (s *Store) VisibleTodos() []model.Todo {
	snap := s.Snapshot()
	return Visible(snap.Todos, snap.Filter)
}

func cloneTodos(in []model.Todo) []model.Todo {
	out := make([]model.Todo, len(in))
	copy(out, in)
	return out
}
