package progress

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound       = errors.New("progress not found")
	ErrProgressExists = errors.New("a progress record already exists for this student and course")
)

type (
	Repository interface {
		GetProgress(ctx context.Context, studentID, courseID string) (Progress, error)
		// CreateProgress fails with ErrProgressExists when a record already
		// exists for the (student, course) pair.
		CreateProgress(ctx context.Context, prog Progress) (Progress, error)
		// AddCompletedLecture appends cl to the record's ledger. It reports
		// whether an entry was actually added: a duplicate lecture is a
		// successful no-op, never a second entry.
		AddCompletedLecture(ctx context.Context, progressID string, cl CompletedLecture) (bool, error)
	}

	Service interface {
		GetOrCreate(ctx context.Context, studentID, courseID string) (Progress, error)
		CompleteReading(ctx context.Context, studentID, courseID, lectureID string) error
		CompleteQuiz(ctx context.Context, studentID string, lec course.Lecture, answers []int) (course.QuizResult, error)
		Summary(ctx context.Context, studentID, courseID string) (CompletionSummary, error)
	}

	service struct {
		repo      Repository
		courseSvc course.Service
		usrSvc    user.Service
		mailSvc   core.EmailService
		logger    core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, courseSvc course.Service, usrSvc user.Service, mailSvc core.EmailService, logger core.Logger) *service {
	return &service{
		repo:      repo,
		courseSvc: courseSvc,
		usrSvc:    usrSvc,
		mailSvc:   mailSvc,
		logger:    logger,
	}
}

// GetOrCreate fetches the ledger for the (student, course) pair, lazily
// creating an empty one on first use. A concurrent first-creation race is
// resolved by re-fetching the record that won; the conflict never surfaces.
func (svc *service) GetOrCreate(ctx context.Context, studentID, courseID string) (Progress, error) {
	prog, err := svc.repo.GetProgress(ctx, studentID, courseID)
	if err == nil {
		return prog, nil
	}
	if errors.Cause(err) != ErrNotFound {
		return Progress{}, errors.Wrap(err, "fetching progress")
	}

	now := time.Now().UTC()
	prog, err = svc.repo.CreateProgress(ctx, Progress{
		StudentID: studentID,
		CourseID:  courseID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Cause(err) == ErrProgressExists {
			// lost the race; the existing record wins
			return svc.repo.GetProgress(ctx, studentID, courseID)
		}
		return Progress{}, errors.Wrap(err, "creating progress")
	}
	return prog, nil
}

// CompleteReading records a reading-lecture completion for the student.
// Re-marking an already completed lecture is a successful no-op.
func (svc *service) CompleteReading(ctx context.Context, studentID, courseID, lectureID string) error {
	lec, err := svc.courseSvc.GetLecture(ctx, lectureID)
	if err != nil {
		return err
	}
	if !lec.IsReading() {
		return course.ErrInvalidLectureKind
	}

	prog, err := svc.GetOrCreate(ctx, studentID, courseID)
	if err != nil {
		return err
	}
	return svc.recordCompletion(ctx, prog, lectureID, nil)
}

// CompleteQuiz grades the submission and, only when it passes, records the
// completion with its score. The grading result is always returned so a
// failing student sees their score; a failed submission leaves the ledger
// untouched.
func (svc *service) CompleteQuiz(ctx context.Context, studentID string, lec course.Lecture, answers []int) (course.QuizResult, error) {
	res, err := course.Grade(lec, answers)
	if err != nil {
		return course.QuizResult{}, err
	}
	if !res.Passed {
		return res, nil
	}

	prog, err := svc.GetOrCreate(ctx, studentID, lec.CourseID)
	if err != nil {
		return course.QuizResult{}, err
	}
	score := res.Score
	if err = svc.recordCompletion(ctx, prog, lec.ID, &score); err != nil {
		return course.QuizResult{}, err
	}
	return res, nil
}

// Summary returns the completion rollup for the pair; a student who has not
// started the course gets zero counts, not an error.
func (svc *service) Summary(ctx context.Context, studentID, courseID string) (CompletionSummary, error) {
	total, err := svc.courseSvc.LectureCount(ctx, courseID)
	if err != nil {
		return CompletionSummary{}, errors.Wrap(err, "counting lectures")
	}

	summary := CompletionSummary{
		Total:             total,
		CompletedLectures: []CompletedLecture{},
	}
	prog, err := svc.repo.GetProgress(ctx, studentID, courseID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return summary, nil
		}
		return CompletionSummary{}, errors.Wrap(err, "fetching progress")
	}
	summary.Completed = len(prog.CompletedLectures)
	if prog.CompletedLectures != nil {
		summary.CompletedLectures = prog.CompletedLectures
	}
	return summary, nil
}

func (svc *service) recordCompletion(ctx context.Context, prog Progress, lectureID string, score *float64) error {
	cl := CompletedLecture{
		LectureID:   lectureID,
		CompletedAt: time.Now().UTC(),
		Score:       score,
	}
	added, err := svc.repo.AddCompletedLecture(ctx, prog.ID, cl)
	if err != nil {
		return errors.Wrap(err, "recording completion")
	}
	if added {
		svc.notifyCourseCompleted(ctx, prog)
	}
	return nil
}

// notifyCourseCompleted emails the student when this completion closes out the
// whole course. Best effort: failures are logged, never surfaced.
func (svc *service) notifyCourseCompleted(ctx context.Context, prog Progress) {
	summary, err := svc.Summary(ctx, prog.StudentID, prog.CourseID)
	if err != nil || summary.Total == 0 || summary.Completed < summary.Total {
		if err != nil {
			svc.logger.Warn("checking course completion", err)
		}
		return
	}

	usr, err := svc.usrSvc.GetByID(ctx, prog.StudentID)
	if err != nil {
		svc.logger.Warn("fetching student for course-completed mail", err)
		return
	}
	crs, err := svc.courseSvc.GetCourse(ctx, prog.CourseID)
	if err != nil {
		svc.logger.Warn("fetching course for course-completed mail", err)
		return
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Congratulations! You completed " + crs.Title,
		TemplateName: "course_completed",
		TemplateData: struct {
			Name        string
			CourseTitle string
		}{usr.Name, crs.Title},
	})
}
