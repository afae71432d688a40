package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core/course"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	crs.ID = uuid.New().String()
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) GetCourseByID(_ context.Context, id string) (course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if crs, ok := repo.db.courses[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) QueryAllCourses(_ context.Context) ([]course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.courses))
	for _, crs := range repo.db.courses {
		courses = append(courses, *crs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.Before(courses[j].CreatedAt) })
	return courses, nil
}

func (repo *courseRepository) DeleteCourse(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.courses, id)
	for lecID, lec := range repo.db.lectures {
		if lec.CourseID == id {
			delete(repo.db.lectures, lecID)
		}
	}
	return nil
}

func (repo *courseRepository) CreateLecture(_ context.Context, lec course.Lecture) (course.Lecture, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	lec.ID = uuid.New().String()
	repo.db.lectures[lec.ID] = &lec
	return lec, nil
}

func (repo *courseRepository) GetLectureByID(_ context.Context, id string) (course.Lecture, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if lec, ok := repo.db.lectures[id]; ok {
		return *lec, nil
	}
	return course.Lecture{}, course.ErrLectureNotFound
}

func (repo *courseRepository) QueryLecturesByCourse(_ context.Context, courseID string) ([]course.Lecture, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var lectures []course.Lecture
	for _, lec := range repo.db.lectures {
		if lec.CourseID == courseID {
			lectures = append(lectures, *lec)
		}
	}
	course.SortLectures(lectures)
	return lectures, nil
}

func (repo *courseRepository) CountLecturesByCourse(_ context.Context, courseID string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int
	for _, lec := range repo.db.lectures {
		if lec.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (repo *courseRepository) DeleteLecture(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.lectures, id)
	return nil
}
