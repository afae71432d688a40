package inmemdb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core/progress"
)

type progressRepository struct {
	db *DB
}

var _ progress.Repository = (*progressRepository)(nil) // interface compliance check

func NewProgressRepository(db *DB) *progressRepository {
	return &progressRepository{db: db}
}

func (repo *progressRepository) getLocked(studentID, courseID string) (*progress.Progress, bool) {
	for _, prog := range repo.db.progress {
		if prog.StudentID == studentID && prog.CourseID == courseID {
			return prog, true
		}
	}
	return nil, false
}

func (repo *progressRepository) GetProgress(_ context.Context, studentID, courseID string) (progress.Progress, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if prog, ok := repo.getLocked(studentID, courseID); ok {
		return *prog, nil
	}
	return progress.Progress{}, progress.ErrNotFound
}

func (repo *progressRepository) CreateProgress(_ context.Context, prog progress.Progress) (progress.Progress, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// (student, course) pair is unique
	if _, ok := repo.getLocked(prog.StudentID, prog.CourseID); ok {
		return progress.Progress{}, progress.ErrProgressExists
	}

	prog.ID = uuid.New().String()
	if prog.CompletedLectures == nil {
		prog.CompletedLectures = []progress.CompletedLecture{}
	}
	repo.db.progress[prog.ID] = &prog
	return prog, nil
}

func (repo *progressRepository) AddCompletedLecture(_ context.Context, progressID string, cl progress.CompletedLecture) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	prog, ok := repo.db.progress[progressID]
	if !ok {
		return false, progress.ErrNotFound
	}
	if prog.HasCompleted(cl.LectureID) {
		return false, nil // duplicate completion is a no-op
	}
	prog.CompletedLectures = append(prog.CompletedLectures, cl)
	prog.UpdatedAt = time.Now().UTC()
	return true, nil
}
