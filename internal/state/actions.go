package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/todoclient/internal/api"
	"github.com/idilsaglam/todoclient/internal/model"
)

// Actions call the API and commit mutations with the outcome. They block
// until the request finishes. Failures never surface as return values
// except where noted; they land in the error message instead.
//
// CreateTodo, ToggleCompleted, SubmitEdit and DeleteTodo reset the draft as
// soon as the request is issued, before its outcome is known.

// FetchTodos loads the full list from the server.
func (s *Store) FetchTodos(ctx context.Context) {
	log := s.action("fetchTodos", nil)

	todos, err := s.api.List(ctx)
	if err != nil {
		s.fail(log, err)
		return
	}
	s.SetTodos(todos)
	s.HideError()
}

// CreateTodo submits the draft as a new todo. A draft missing its title or
// detail is rejected locally: no request is made and the draft is kept so
// the form can be corrected.
func (s *Store) CreateTodo(ctx context.Context) {
	draft := s.TargetTodo()
	log := s.action("createTodo", nil)

	if draft.Title == "" || draft.Detail == "" {
		log.Debug("rejected: missing required fields")
		s.ShowError(&ErrorPayload{Data: RequiredFieldsMessage})
		return
	}

	s.InitTargetTodo()
	created, err := s.api.Create(ctx, api.NewTodo{Title: draft.Title, Detail: draft.Detail})
	if err != nil {
		s.fail(log, err)
		return
	}
	s.AddTodo(created)
	s.HideError()
}

// ToggleCompleted flips the completed flag of todo on the server.
func (s *Store) ToggleCompleted(ctx context.Context, todo model.Todo) {
	log := s.action("toggleCompleted", logrus.Fields{"id": todo.ID})

	completed := !todo.Completed
	s.InitTargetTodo()
	updated, err := s.api.Update(ctx, todo.ID, api.Patch{Completed: &completed})
	if err != nil {
		s.fail(log, err)
		return
	}
	s.EditTodo(updated)
	s.HideError()
}

// SubmitEdit sends the draft's title and detail for the todo it was opened
// from. It returns ErrTodoNotFound, also shown as the error message, when the
// draft has no id or the id is no longer in the collection. A draft whose
// title and detail are unchanged is discarded without a request.
func (s *Store) SubmitEdit(ctx context.Context) error {
	snap := s.Snapshot()
	draft := snap.TargetTodo

	if draft.IsNew() {
		err := fmt.Errorf("%w: draft has no id", ErrTodoNotFound)
		s.action("submitEdit", nil).WithError(err).Warn("nothing to edit")
		s.ShowError(&ErrorPayload{Data: err.Error()})
		s.InitTargetTodo()
		return err
	}

	id := *draft.ID
	log := s.action("submitEdit", logrus.Fields{"id": id})

	stored, ok := findTodo(snap.Todos, id)
	if !ok {
		err := fmt.Errorf("%w: id %d", ErrTodoNotFound, id)
		log.WithError(err).Warn("edited todo is gone")
		s.ShowError(&ErrorPayload{Data: err.Error()})
		s.InitTargetTodo()
		return err
	}

	if stored.Title == draft.Title && stored.Detail == draft.Detail {
		log.Debug("unchanged, nothing to send")
		s.InitTargetTodo()
		return nil
	}

	title, detail := draft.Title, draft.Detail
	s.InitTargetTodo()
	updated, err := s.api.Update(ctx, id, api.Patch{Title: &title, Detail: &detail})
	if err != nil {
		s.fail(log, err)
		return nil
	}
	s.EditTodo(updated)
	s.HideError()
	return nil
}

// DeleteTodo removes a todo on the server. It always returns once the request
// is done and reports whether the delete succeeded; the collection itself is
// not changed, callers refetch on success.
func (s *Store) DeleteTodo(ctx context.Context, id int) bool {
	log := s.action("deleteTodo", logrus.Fields{"id": id})

	s.InitTargetTodo()
	if err := s.api.Delete(ctx, id); err != nil {
		s.fail(log, err)
		return false
	}
	s.HideError()
	return true
}

func (s *Store) action(name string, fields logrus.Fields) *logrus.Entry {
	log := s.logger.WithField("action", name).WithFields(fields)
	log.Debug("dispatch")
	return log
}

func (s *Store) fail(log *logrus.Entry, err error) {
	payload := payloadOf(err)
	log.WithError(err).Warn("request failed")
	s.ShowError(payload)
}

// payloadOf extracts the server payload from err. Errors without a server
// response (refused connections, timeouts) yield nil.
func payloadOf(err error) *ErrorPayload {
	var rerr *api.ResponseError
	if errors.As(err, &rerr) {
		return &ErrorPayload{Data: rerr.Data}
	}
	return nil
}
