package backend

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/idilsaglam/todoclient/internal/backend/jsonstore"
	"github.com/idilsaglam/todoclient/internal/model"
)

// ErrNotFound is returned for ids the repository does not hold.
var ErrNotFound = errors.New("not found")

// Changes is a partial update. Nil fields are left alone.
type Changes struct {
	Title     *string `json:"title"`
	Detail    *string `json:"detail"`
	Completed *bool   `json:"completed"`
}

// Repository keeps todos in memory and, when a path is set, mirrors every
// write to a JSON file.
type Repository struct {
	sync.RWMutex
	todos  map[int]*model.Todo
	nextID int
	path   string
}

// NewRepository returns an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		todos:  make(map[int]*model.Todo),
		nextID: 1,
	}
}

// OpenRepository loads path and persists later writes back to it.
func OpenRepository(path string) (*Repository, error) {
	d, err := jsonstore.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load todos: %w", err)
	}
	r := NewRepository()
	r.path = path
	r.nextID = d.NextID
	for i := range d.Todos {
		t := d.Todos[i]
		r.todos[t.ID] = &t
	}
	return r, nil
}

// List returns every todo ordered by id, oldest first.
func (r *Repository) List() []model.Todo {
	r.RLock()
	defer r.RUnlock()
	return r.sorted()
}

// Get returns the todo with the given id.
func (r *Repository) Get(id int) (model.Todo, error) {
	r.RLock()
	defer r.RUnlock()

	todo, ok := r.todos[id]
	if !ok {
		return model.Todo{}, notFound(id)
	}
	return *todo, nil
}

// Add stores a new open todo and assigns it the next id.
func (r *Repository) Add(title, detail string) (model.Todo, error) {
	r.Lock()
	defer r.Unlock()

	todo := &model.Todo{
		ID:     r.nextID,
		Title:  title,
		Detail: detail,
	}
	r.todos[todo.ID] = todo
	r.nextID++

	if err := r.save(); err != nil {
		return model.Todo{}, err
	}
	return *todo, nil
}

// Update applies c to the todo with the given id.
func (r *Repository) Update(id int, c Changes) (model.Todo, error) {
	r.Lock()
	defer r.Unlock()

	todo, ok := r.todos[id]
	if !ok {
		return model.Todo{}, notFound(id)
	}
	if c.Title != nil {
		todo.Title = *c.Title
	}
	if c.Detail != nil {
		todo.Detail = *c.Detail
	}
	if c.Completed != nil {
		todo.Completed = *c.Completed
	}

	if err := r.save(); err != nil {
		return model.Todo{}, err
	}
	return *todo, nil
}

// Delete removes the todo with the given id.
func (r *Repository) Delete(id int) error {
	r.Lock()
	defer r.Unlock()

	if _, ok := r.todos[id]; !ok {
		return notFound(id)
	}
	delete(r.todos, id)
	return r.save()
}

// sorted expects the caller to hold the lock.
func (r *Repository) sorted() []model.Todo {
	out := make([]model.Todo, 0, len(r.todos))
	for _, t := range r.todos {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// save expects the caller to hold the write lock.
func (r *Repository) save() error {
	if r.path == "" {
		return nil
	}
	if err := jsonstore.Save(r.path, jsonstore.Data{Todos: r.sorted(), NextID: r.nextID}); err != nil {
		return fmt.Errorf("failed to persist todos: %w", err)
	}
	return nil
}

func notFound(id int) error {
	return fmt.Errorf("todo with ID %d %w", id, ErrNotFound)
}
