package state

import "github.com/idilsaglam/todoclient/internal/model"

// Getters are pure functions of the collection. Nothing derived is stored.

// CompletedTodos keeps the completed todos in collection order.
func CompletedTodos(todos []model.Todo) []model.Todo {
	return filterTodos(todos, true)
}

// IncompleteTodos keeps the open todos in collection order.
func IncompleteTodos(todos []model.Todo) []model.Todo {
	return filterTodos(todos, false)
}

// CompletedCount counts the completed todos.
func CompletedCount(todos []model.Todo) int { return len(CompletedTodos(todos)) }

// IncompleteCount counts the open todos.
func IncompleteCount(todos []model.Todo) int { return len(IncompleteTodos(todos)) }

// Visible applies a filter. FilterAll returns todos unchanged.
func Visible(todos []model.Todo, f model.Filter) []model.Todo {
	switch f {
	case model.FilterCompleted:
		return CompletedTodos(todos)
	case model.FilterIncomplete:
		return IncompleteTodos(todos)
	}
	return todos
}

func filterTodos(todos []model.Todo, completed bool) []model.Todo {
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if t.Completed == completed {
			out = append(out, t)
		}
	}
	return out
}

func findTodo(todos []model.Todo, id int) (model.Todo, bool) {
	for _, t := range todos {
		if t.ID == id {
			return t, true
		}
	}
	return model.Todo{}, false
}
