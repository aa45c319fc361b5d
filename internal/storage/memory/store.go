// Package memory implements the storage interfaces with mutex-guarded
// maps. It backs the unit tests and can be selected as a storage driver
// for local runs where no database is around.
//
// Observable list semantics match the postgres store: lexicographic
// status order, nulls last ascending and first descending, ties broken
// by insertion order.
package memory

import (
	"sync"

	"github.com/avoronin/go-tasks/internal/models"
)

type taskRecord struct {
	task models.Task
	seq  uint64
}

type Store struct {
	mu       sync.RWMutex
	seq      uint64
	tasks    map[string]*taskRecord
	users    map[string]*models.User
	emails   map[string]string // email -> user id
	sessions map[string]*models.Session
}

func New() *Store {
	return &Store{
		tasks:    make(map[string]*taskRecord),
		users:    make(map[string]*models.User),
		emails:   make(map[string]string),
		sessions: make(map[string]*models.Session),
	}
}

func cloneTask(task models.Task) *models.Task {
	if task.Deadline != nil {
		deadline := *task.Deadline
		task.Deadline = &deadline
	}
	if task.FinishedTime != nil {
		finished := *task.FinishedTime
		task.FinishedTime = &finished
	}
	return &task
}
