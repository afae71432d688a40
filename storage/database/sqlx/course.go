package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
)

var (
	courseOrdering  = core.DBOrdering{Field: "created_at", Ascending: true}
	lectureOrdering = core.DBOrdering{Field: `"order"`, Ascending: true}
)

type courseRow struct {
	ID           string      `db:"id"`
	Title        string      `db:"title"`
	Description  null.String `db:"description"`
	InstructorID string      `db:"instructor_id"`
	CreatedAt    null.Time   `db:"created_at"`
	UpdatedAt    null.Time   `db:"updated_at"`
}

func (r courseRow) unpack() course.Course {
	return course.Course{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description.String,
		InstructorID: r.InstructorID,
		CreatedAt:    r.CreatedAt.Time,
		UpdatedAt:    r.UpdatedAt.Time,
	}
}

type lectureRow struct {
	ID        string      `db:"id"`
	CourseID  string      `db:"course_id"`
	Title     string      `db:"title"`
	Type      string      `db:"type"`
	Content   null.String `db:"content"`
	Questions null.JSON   `db:"questions"`
	Order     int         `db:"order"`
	CreatedAt null.Time   `db:"created_at"`
	UpdatedAt null.Time   `db:"updated_at"`
}

func (r lectureRow) unpack() (course.Lecture, error) {
	lec := course.Lecture{
		ID:        r.ID,
		CourseID:  r.CourseID,
		Title:     r.Title,
		Type:      r.Type,
		Content:   r.Content.String,
		Order:     r.Order,
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
	if r.Questions.Valid {
		if err := json.Unmarshal(r.Questions.JSON, &lec.Questions); err != nil {
			return course.Lecture{}, errors.Wrap(err, "unmarshalling questions")
		}
	}
	return lec, nil
}

func packLecture(lec course.Lecture) (lectureRow, error) {
	row := lectureRow{
		ID:        lec.ID,
		CourseID:  lec.CourseID,
		Title:     lec.Title,
		Type:      lec.Type,
		Content:   null.NewString(lec.Content, lec.Content != ""),
		Order:     lec.Order,
		CreatedAt: null.NewTime(lec.CreatedAt.UTC(), !lec.CreatedAt.IsZero()),
		UpdatedAt: null.NewTime(lec.UpdatedAt.UTC(), !lec.UpdatedAt.IsZero()),
	}
	if len(lec.Questions) > 0 {
		data, err := json.Marshal(lec.Questions)
		if err != nil {
			return lectureRow{}, errors.Wrap(err, "marshalling questions")
		}
		row.Questions = null.JSONFrom(data)
	}
	return row, nil
}

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{db: wrap(db)}
}

// trapNoRowsErr maps psql "no rows" err to the package's not-found sentinels
func (repo courseRepository) trapNoRowsErr(err, sentinel error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return sentinel
	}
	return errors.Wrap(err, msg)
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	crs.ID = uuid.New().String()
	row := courseRow{
		ID:           crs.ID,
		Title:        crs.Title,
		Description:  null.NewString(crs.Description, crs.Description != ""),
		InstructorID: crs.InstructorID,
		CreatedAt:    null.TimeFrom(crs.CreatedAt.UTC()),
		UpdatedAt:    null.TimeFrom(crs.UpdatedAt.UTC()),
	}
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO course (id, title, description, instructor_id, created_at, updated_at)
		VALUES (:id, :title, :description, :instructor_id, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return row.unpack(), nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	var row courseRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM course WHERE id = $1`, id); err != nil {
		return course.Course{}, repo.trapNoRowsErr(err, course.ErrNotFound, "getting course by ID")
	}
	return row.unpack(), nil
}

func (repo courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM course ORDER BY `+courseOrdering.String()); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.unpack())
	}
	return courses, nil
}

// DeleteCourse deletes the course; its lectures follow via FK cascade.
func (repo courseRepository) DeleteCourse(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM course WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return nil
}

func (repo courseRepository) CreateLecture(ctx context.Context, lec course.Lecture) (course.Lecture, error) {
	lec.ID = uuid.New().String()
	row, err := packLecture(lec)
	if err != nil {
		return course.Lecture{}, err
	}
	_, err = repo.db.NamedExecContext(ctx, `
		INSERT INTO lecture (id, course_id, title, type, content, questions, "order", created_at, updated_at)
		VALUES (:id, :course_id, :title, :type, :content, :questions, :order, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return course.Lecture{}, errors.Wrap(err, "inserting lecture")
	}
	return lec, nil
}

func (repo courseRepository) GetLectureByID(ctx context.Context, id string) (course.Lecture, error) {
	var row lectureRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM lecture WHERE id = $1`, id); err != nil {
		return course.Lecture{}, repo.trapNoRowsErr(err, course.ErrLectureNotFound, "getting lecture by ID")
	}
	return row.unpack()
}

func (repo courseRepository) QueryLecturesByCourse(ctx context.Context, courseID string) ([]course.Lecture, error) {
	var rows []lectureRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM lecture WHERE course_id = $1 ORDER BY `+lectureOrdering.String(), courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying lectures")
	}
	lectures := make([]course.Lecture, 0, len(rows))
	for _, row := range rows {
		lec, err := row.unpack()
		if err != nil {
			return nil, err
		}
		lectures = append(lectures, lec)
	}
	return lectures, nil
}

func (repo courseRepository) CountLecturesByCourse(ctx context.Context, courseID string) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM lecture WHERE course_id = $1`, courseID)
	if err != nil {
		return 0, errors.Wrap(err, "counting lectures")
	}
	return count, nil
}

func (repo courseRepository) DeleteLecture(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM lecture WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting lecture")
	}
	return nil
}
