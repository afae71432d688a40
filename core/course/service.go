package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound           = errors.New("course not found")
	ErrLectureNotFound    = errors.New("lecture not found")
	ErrInvalidLectureKind = errors.New("invalid lecture type for this operation")
	ErrNotOwner           = errors.New("course does not belong to this instructor")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		QueryAllCourses(ctx context.Context) ([]Course, error)
		DeleteCourse(ctx context.Context, id string) error

		CreateLecture(ctx context.Context, lec Lecture) (Lecture, error)
		GetLectureByID(ctx context.Context, id string) (Lecture, error)
		// QueryLecturesByCourse returns the course's lectures sorted by Order ascending.
		QueryLecturesByCourse(ctx context.Context, courseID string) ([]Lecture, error)
		CountLecturesByCourse(ctx context.Context, courseID string) (int, error)
		DeleteLecture(ctx context.Context, id string) error
	}

	Service interface {
		CreateCourse(ctx context.Context, nc NewCourse, instructor user.User) (Course, error)
		GetCourse(ctx context.Context, id string) (Course, error)
		QueryAllCourses(ctx context.Context) ([]Course, error)
		DeleteCourse(ctx context.Context, id string, instructor user.User) error

		AddLecture(ctx context.Context, nl NewLecture, instructor user.User) (Lecture, error)
		GetLecture(ctx context.Context, id string) (Lecture, error)
		CourseLectures(ctx context.Context, courseID string) ([]Lecture, error)
		LectureCount(ctx context.Context, courseID string) (int, error)
		DeleteLecture(ctx context.Context, id string, instructor user.User) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (svc *service) CreateCourse(ctx context.Context, nc NewCourse, instructor user.User) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		Title:        nc.Title,
		Description:  nc.Description,
		InstructorID: instructor.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *service) GetCourse(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *service) QueryAllCourses(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx)
}

// DeleteCourse deletes the course and all its lectures; only the owning
// instructor (or an admin) may do so.
func (svc *service) DeleteCourse(ctx context.Context, id string, instructor user.User) error {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return err
	}
	if err = checkOwnership(crs, instructor); err != nil {
		return err
	}
	return svc.repo.DeleteCourse(ctx, crs.ID)
}

func (svc *service) AddLecture(ctx context.Context, nl NewLecture, instructor user.User) (Lecture, error) {
	crs, err := svc.repo.GetCourseByID(ctx, nl.CourseID)
	if err != nil {
		return Lecture{}, err
	}
	if err = checkOwnership(crs, instructor); err != nil {
		return Lecture{}, err
	}

	now := time.Now().UTC()
	lec := Lecture{
		CourseID:  crs.ID,
		Title:     nl.Title,
		Type:      nl.Type,
		Content:   nl.Content,
		Questions: nl.questions(),
		Order:     nl.Order,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateLecture(ctx, lec)
}

func (svc *service) GetLecture(ctx context.Context, id string) (Lecture, error) {
	return svc.repo.GetLectureByID(ctx, id)
}

func (svc *service) CourseLectures(ctx context.Context, courseID string) ([]Lecture, error) {
	lectures, err := svc.repo.QueryLecturesByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	SortLectures(lectures) // repos already order; do not trust them
	return lectures, nil
}

func (svc *service) LectureCount(ctx context.Context, courseID string) (int, error) {
	return svc.repo.CountLecturesByCourse(ctx, courseID)
}

func (svc *service) DeleteLecture(ctx context.Context, id string, instructor user.User) error {
	lec, err := svc.repo.GetLectureByID(ctx, id)
	if err != nil {
		return err
	}
	crs, err := svc.repo.GetCourseByID(ctx, lec.CourseID)
	if err != nil {
		return err
	}
	if err = checkOwnership(crs, instructor); err != nil {
		return err
	}
	return svc.repo.DeleteLecture(ctx, lec.ID)
}

func checkOwnership(crs Course, instructor user.User) error {
	if instructor.IsAdmin() {
		return nil
	}
	if crs.InstructorID != instructor.ID {
		return ErrNotOwner
	}
	return nil
}
