package inmemdb

import (
	"sync"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/progress"
	"github.com/trezcool/darasa/core/user"
)

// DB is a thread-safe in-memory store; it backs tests and local smoke runs.
type DB struct {
	mutex sync.RWMutex

	users    map[string]*user.User
	courses  map[string]*course.Course
	lectures map[string]*course.Lecture
	progress map[string]*progress.Progress
}

func Open() *DB {
	db := new(DB)
	db.reset()
	return db
}

func (db *DB) reset() {
	db.users = make(map[string]*user.User)
	db.courses = make(map[string]*course.Course)
	db.lectures = make(map[string]*course.Lecture)
	db.progress = make(map[string]*progress.Progress)
}

// Reset empties all tables.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.reset()
}
