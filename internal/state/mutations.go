package state

import (
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/todoclient/internal/model"
)

// Mutations are the only code that writes state. Each one takes the lock,
// changes the tree and returns; none of them performs I/O.

// SetFilter selects the active view.
func (s *Store) SetFilter(name model.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = name
	s.committed("setFilter", logrus.Fields{"filter": name.String()})
}

// SetEmptyMessage picks the empty-view text for the named view.
func (s *Store) SetEmptyMessage(name model.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emptyMessage = emptyMessageFor(name)
	s.committed("setEmptyMessage", logrus.Fields{"filter": name.String()})
}

// InitTargetTodo resets the draft to create mode with empty fields.
func (s *Store) InitTargetTodo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initTargetTodo()
}

func (s *Store) initTargetTodo() {
	s.target = model.EmptyDraft()
	s.committed("initTargetTodo", nil)
}

// HideError clears the error message.
func (s *Store) HideError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorMessage = ""
	s.committed("hideError", nil)
}

// ShowError displays payload.Data, or the connectivity message when the
// request produced no response at all.
func (s *Store) ShowError(payload *ErrorPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if payload != nil && payload.Data != "" {
		s.errorMessage = payload.Data
	} else {
		s.errorMessage = UnreachableMessage
	}
	s.committed("showError", logrus.Fields{"message": s.errorMessage})
}

// UpdateTargetTodo sets one draft field by its exact JSON name ("id",
// "title", "detail" or "completed"). Only "id" accepts nil, which clears it;
// ids must be integral. The draft is left untouched on error.
func (s *Store) UpdateTargetTodo(name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.target.Clone()
	switch {
	case name == "id" && isNil(value):
		next.ID = nil
	case isNil(value):
		return fmt.Errorf("%w %q: nil value", ErrInvalidField, name)
	case name == "id" && !integral(value):
		return fmt.Errorf("%w %q: %v is not a whole number", ErrInvalidField, name, value)
	default:
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      &next,
			ErrorUnused: true,
			MatchName:   func(key, field string) bool { return key == field },
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidField, err)
		}
		if err := dec.Decode(map[string]any{name: value}); err != nil {
			return fmt.Errorf("%w %q: %v", ErrInvalidField, name, err)
		}
	}
	s.target = next
	s.committed("updateTargetTodo", logrus.Fields{"field": name})
	return nil
}

// SetTodos replaces the collection with list in reverse order, so the most
// recently created todo comes first. The caller's slice is not modified.
// When list repeats an id, the entry nearest the end of list wins.
func (s *Store) SetTodos(list []model.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Todo, 0, len(list))
	seen := make(map[int]bool, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		if seen[list[i].ID] {
			continue
		}
		seen[list[i].ID] = true
		out = append(out, list[i])
	}
	s.todos = out
	s.committed("setTodos", logrus.Fields{"count": len(out)})
}

// AddTodo puts item at the front of the collection. An existing entry with
// the same id is dropped first.
func (s *Store) AddTodo(item model.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Todo, 0, len(s.todos)+1)
	out = append(out, item)
	for _, t := range s.todos {
		if t.ID != item.ID {
			out = append(out, t)
		}
	}
	s.todos = out
	s.committed("addTodo", logrus.Fields{"id": item.ID})
}

// ShowEditor copies item into the draft, switching it to edit mode.
func (s *Store) ShowEditor(item model.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = model.DraftOf(item)
	s.committed("showEditor", logrus.Fields{"id": item.ID})
}

// EditTodo replaces the entry whose id matches item. Order is kept; an
// unknown id leaves the collection as it is.
func (s *Store) EditTodo(item model.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Todo, len(s.todos))
	for i, t := range s.todos {
		if t.ID == item.ID {
			out[i] = item
		} else {
			out[i] = t
		}
	}
	s.todos = out
	s.committed("editTodo", logrus.Fields{"id": item.ID})
}

func (s *Store) committed(mutation string, fields logrus.Fields) {
	s.logger.WithField("mutation", mutation).WithFields(fields).Debug("state changed")
}

func emptyMessageFor(name model.Filter) string {
	switch name {
	case model.FilterCompleted:
		return EmptyCompletedMessage
	case model.FilterIncomplete:
		return EmptyIncompleteMessage
	}
	return EmptyAllMessage
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func integral(v any) bool {
	switch f := v.(type) {
	case float32:
		return float64(f) == math.Trunc(float64(f))
	case float64:
		return f == math.Trunc(f)
	}
	return true
}
