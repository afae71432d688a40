package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/progress"
)

type progressRow struct {
	ID        string    `db:"id"`
	StudentID string    `db:"student_id"`
	CourseID  string    `db:"course_id"`
	CreatedAt null.Time `db:"created_at"`
	UpdatedAt null.Time `db:"updated_at"`
}

type completedLectureRow struct {
	ProgressID  string       `db:"progress_id"`
	LectureID   string       `db:"lecture_id"`
	CompletedAt null.Time    `db:"completed_at"`
	Score       null.Float64 `db:"score"`
}

func (r completedLectureRow) unpack() progress.CompletedLecture {
	return progress.CompletedLecture{
		LectureID:   r.LectureID,
		CompletedAt: r.CompletedAt.Time,
		Score:       r.Score.Ptr(),
	}
}

type progressRepository struct {
	db *sqlx.DB
}

var _ progress.Repository = (*progressRepository)(nil) // interface compliance check

func NewProgressRepository(db *sql.DB) *progressRepository {
	return &progressRepository{db: wrap(db)}
}

func (repo progressRepository) GetProgress(ctx context.Context, studentID, courseID string) (progress.Progress, error) {
	var row progressRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT * FROM progress WHERE student_id = $1 AND course_id = $2`, studentID, courseID)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return progress.Progress{}, progress.ErrNotFound
		}
		return progress.Progress{}, errors.Wrap(err, "getting progress")
	}

	prog := progress.Progress{
		ID:        row.ID,
		StudentID: row.StudentID,
		CourseID:  row.CourseID,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}

	var clRows []completedLectureRow
	err = repo.db.SelectContext(ctx, &clRows,
		`SELECT * FROM completed_lecture WHERE progress_id = $1 ORDER BY completed_at`, prog.ID)
	if err != nil {
		return progress.Progress{}, errors.Wrap(err, "querying completed lectures")
	}
	prog.CompletedLectures = make([]progress.CompletedLecture, 0, len(clRows))
	for _, clRow := range clRows {
		prog.CompletedLectures = append(prog.CompletedLectures, clRow.unpack())
	}
	return prog, nil
}

func (repo progressRepository) CreateProgress(ctx context.Context, prog progress.Progress) (progress.Progress, error) {
	prog.ID = uuid.New().String()
	row := progressRow{
		ID:        prog.ID,
		StudentID: prog.StudentID,
		CourseID:  prog.CourseID,
		CreatedAt: null.TimeFrom(prog.CreatedAt.UTC()),
		UpdatedAt: null.TimeFrom(prog.UpdatedAt.UTC()),
	}
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO progress (id, student_id, course_id, created_at, updated_at)
		VALUES (:id, :student_id, :course_id, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		// the (student_id, course_id) unique constraint arbitrates concurrent
		// first-creation; the caller re-fetches the record that won
		if isUniqueViolation(err) {
			return progress.Progress{}, progress.ErrProgressExists
		}
		return progress.Progress{}, errors.Wrap(err, "inserting progress")
	}
	if prog.CompletedLectures == nil {
		prog.CompletedLectures = []progress.CompletedLecture{}
	}
	return prog, nil
}

func (repo progressRepository) AddCompletedLecture(ctx context.Context, progressID string, cl progress.CompletedLecture) (bool, error) {
	res, err := repo.db.ExecContext(ctx, `
		INSERT INTO completed_lecture (progress_id, lecture_id, completed_at, score)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (progress_id, lecture_id) DO NOTHING`,
		progressID, cl.LectureID, null.TimeFrom(cl.CompletedAt.UTC()), null.Float64FromPtr(cl.Score),
	)
	if err != nil {
		return false, errors.Wrap(err, "inserting completed lecture")
	}
	added, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "checking completed lecture insert")
	}
	if added > 0 {
		if _, err = repo.db.ExecContext(ctx,
			`UPDATE progress SET updated_at = $1 WHERE id = $2`, timeNowUTC(), progressID); err != nil {
			return true, errors.Wrap(err, "bumping progress")
		}
	}
	return added > 0, nil
}
