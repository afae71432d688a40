package progress_test

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/progress"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	logsvc "github.com/trezcool/darasa/services/logger"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
)

type testEnv struct {
	svc       progress.Service
	courseSvc course.Service

	student user.User
	crs     course.Course
	reading course.Lecture
	quiz    course.Lecture
}

var sampleQuestions = []course.Question{
	{Text: "2 + 2 ?", Options: []string{"3", "4", "5"}, CorrectAnswer: 1},
	{Text: "Capital of DRC ?", Options: []string{"Kinshasa", "Lubumbashi"}, CorrectAnswer: 0},
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	conf := core.NewConfig("test")
	conf.TestMode = true

	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	courseRepo := inmemdb.NewCourseRepository(db)
	progressRepo := inmemdb.NewProgressRepository(db)

	logger := logsvc.NewConsoleLogger(log.New(io.Discard, "", 0))
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(usrRepo)
	courseSvc := course.NewService(courseRepo)
	svc := progress.NewService(progressRepo, courseSvc, usrSvc, mailSvc, logger)

	emailsvc.SentMessages = emailsvc.SentMessages[:0]

	ctx := context.Background()
	now := time.Now().UTC()

	student := user.User{Name: "Student", Username: "awe", Email: "awe@test.cd", Roles: []string{user.RoleStudent}, CreatedAt: now, UpdatedAt: now}
	student.SetActive(true)
	student, err := usrRepo.CreateUser(ctx, student)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	instructor := user.User{Name: "Prof", Username: "prof", Email: "prof@test.cd", Roles: []string{user.RoleInstructor}, CreatedAt: now, UpdatedAt: now}
	instructor, err = usrRepo.CreateUser(ctx, instructor)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	crs, err := courseSvc.CreateCourse(ctx, course.NewCourse{Title: "Some Course"}, instructor)
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	reading, err := courseRepo.CreateLecture(ctx, course.Lecture{
		CourseID: crs.ID, Title: "Basics", Type: course.LectureTypeReading, Content: "lorem", Order: 1, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateLecture() failed: %v", err)
	}
	quiz, err := courseRepo.CreateLecture(ctx, course.Lecture{
		CourseID: crs.ID, Title: "Checkpoint", Type: course.LectureTypeQuiz, Questions: sampleQuestions, Order: 2, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateLecture() failed: %v", err)
	}

	return &testEnv{
		svc:       svc,
		courseSvc: courseSvc,
		student:   student,
		crs:       crs,
		reading:   reading,
		quiz:      quiz,
	}
}

func TestService_GetOrCreate(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	prog, err := env.svc.GetOrCreate(ctx, env.student.ID, env.crs.ID)
	if err != nil {
		t.Fatalf("GetOrCreate() failed: %v", err)
	}
	if prog.ID == "" || prog.StudentID != env.student.ID || prog.CourseID != env.crs.ID {
		t.Errorf("unexpected progress: %+v", prog)
	}
	if len(prog.CompletedLectures) != 0 {
		t.Errorf("a fresh ledger should be empty: %+v", prog.CompletedLectures)
	}

	// the same record is returned on subsequent calls
	again, err := env.svc.GetOrCreate(ctx, env.student.ID, env.crs.ID)
	if err != nil {
		t.Fatalf("GetOrCreate() failed: %v", err)
	}
	if again.ID != prog.ID {
		t.Errorf("GetOrCreate() created a second record: %s != %s", again.ID, prog.ID)
	}
}

// racingRepository simulates losing the concurrent first-creation race: the
// record does not exist at fetch time, but another request creates it before
// CreateProgress lands.
type racingRepository struct {
	winner  progress.Progress
	gets    int
	creates int
}

func (repo *racingRepository) GetProgress(ctx context.Context, studentID, courseID string) (progress.Progress, error) {
	repo.gets++
	if repo.gets == 1 {
		return progress.Progress{}, progress.ErrNotFound
	}
	return repo.winner, nil
}

func (repo *racingRepository) CreateProgress(ctx context.Context, prog progress.Progress) (progress.Progress, error) {
	repo.creates++
	return progress.Progress{}, progress.ErrProgressExists
}

func (repo *racingRepository) AddCompletedLecture(ctx context.Context, progressID string, cl progress.CompletedLecture) (bool, error) {
	return false, nil
}

func TestService_GetOrCreate_lostCreationRace(t *testing.T) {
	winner := progress.Progress{ID: "winner", StudentID: "stu", CourseID: "crs"}
	repo := &racingRepository{winner: winner}
	svc := progress.NewService(repo, nil, nil, nil, nil)

	prog, err := svc.GetOrCreate(context.Background(), winner.StudentID, winner.CourseID)
	if err != nil {
		t.Fatalf("GetOrCreate() failed: %v", err)
	}
	if prog.ID != winner.ID {
		t.Errorf("expected the winning record, got %+v", prog)
	}
	if repo.creates != 1 {
		t.Errorf("CreateProgress should be attempted exactly once, got %d", repo.creates)
	}
	if repo.gets != 2 {
		t.Errorf("the winning record should be re-fetched, got %d fetches", repo.gets)
	}
}

func TestService_CompleteReading(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	t.Run("unknown lecture", func(t *testing.T) {
		if err := env.svc.CompleteReading(ctx, env.student.ID, env.crs.ID, "lol"); err != course.ErrLectureNotFound {
			t.Errorf("CompleteReading() error = %v, want %v", err, course.ErrLectureNotFound)
		}
	})

	t.Run("quiz cannot be completed directly", func(t *testing.T) {
		if err := env.svc.CompleteReading(ctx, env.student.ID, env.crs.ID, env.quiz.ID); err != course.ErrInvalidLectureKind {
			t.Errorf("CompleteReading() error = %v, want %v", err, course.ErrInvalidLectureKind)
		}
	})

	t.Run("completion is recorded once", func(t *testing.T) {
		if err := env.svc.CompleteReading(ctx, env.student.ID, env.crs.ID, env.reading.ID); err != nil {
			t.Fatalf("CompleteReading() failed: %v", err)
		}
		// duplicate completion is a successful no-op
		if err := env.svc.CompleteReading(ctx, env.student.ID, env.crs.ID, env.reading.ID); err != nil {
			t.Fatalf("CompleteReading() failed on duplicate: %v", err)
		}

		summary, err := env.svc.Summary(ctx, env.student.ID, env.crs.ID)
		if err != nil {
			t.Fatalf("Summary() failed: %v", err)
		}
		if summary.Completed != 1 {
			t.Errorf("expected a single ledger entry, got %d", summary.Completed)
		}
		if summary.CompletedLectures[0].Score != nil {
			t.Error("reading completions carry no score")
		}
	})
}

func TestService_CompleteQuiz(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	t.Run("failed submission leaves the ledger untouched", func(t *testing.T) {
		res, err := env.svc.CompleteQuiz(ctx, env.student.ID, env.quiz, []int{0, 1})
		if err != nil {
			t.Fatalf("CompleteQuiz() failed: %v", err)
		}
		if res.Passed || res.Score != 0 {
			t.Errorf("unexpected result: %+v", res)
		}

		summary, err := env.svc.Summary(ctx, env.student.ID, env.crs.ID)
		if err != nil {
			t.Fatalf("Summary() failed: %v", err)
		}
		if summary.Completed != 0 {
			t.Errorf("failed quiz must not record a completion; got %d", summary.Completed)
		}
	})

	t.Run("passing submission records the score", func(t *testing.T) {
		res, err := env.svc.CompleteQuiz(ctx, env.student.ID, env.quiz, []int{1, 0})
		if err != nil {
			t.Fatalf("CompleteQuiz() failed: %v", err)
		}
		if !res.Passed || res.Score != 100 {
			t.Errorf("unexpected result: %+v", res)
		}

		summary, err := env.svc.Summary(ctx, env.student.ID, env.crs.ID)
		if err != nil {
			t.Fatalf("Summary() failed: %v", err)
		}
		if summary.Completed != 1 {
			t.Fatalf("passing quiz must record a completion; got %d", summary.Completed)
		}
		cl := summary.CompletedLectures[0]
		if cl.LectureID != env.quiz.ID || cl.Score == nil || *cl.Score != 100 {
			t.Errorf("unexpected ledger entry: %+v", cl)
		}
	})

	t.Run("re-passing is a no-op", func(t *testing.T) {
		if _, err := env.svc.CompleteQuiz(ctx, env.student.ID, env.quiz, []int{1, 0}); err != nil {
			t.Fatalf("CompleteQuiz() failed: %v", err)
		}
		summary, _ := env.svc.Summary(ctx, env.student.ID, env.crs.ID)
		if summary.Completed != 1 {
			t.Errorf("expected a single ledger entry, got %d", summary.Completed)
		}
	})

	t.Run("grading a reading fails", func(t *testing.T) {
		if _, err := env.svc.CompleteQuiz(ctx, env.student.ID, env.reading, []int{0}); err != course.ErrInvalidLectureKind {
			t.Errorf("CompleteQuiz() error = %v, want %v", err, course.ErrInvalidLectureKind)
		}
	})
}

func TestService_Summary(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	// a student who never started gets zero counts, not an error
	summary, err := env.svc.Summary(ctx, env.student.ID, env.crs.ID)
	if err != nil {
		t.Fatalf("Summary() failed: %v", err)
	}
	if summary.Completed != 0 || summary.Total != 2 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.CompletedLectures == nil {
		t.Error("ledger should be empty, not nil")
	}
}

func TestService_courseCompletedEmail(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	if err := env.svc.CompleteReading(ctx, env.student.ID, env.crs.ID, env.reading.ID); err != nil {
		t.Fatalf("CompleteReading() failed: %v", err)
	}
	if len(emailsvc.SentMessages) != 0 {
		t.Fatalf("no email before the course is fully completed; got %d", len(emailsvc.SentMessages))
	}

	if _, err := env.svc.CompleteQuiz(ctx, env.student.ID, env.quiz, []int{1, 0}); err != nil {
		t.Fatalf("CompleteQuiz() failed: %v", err)
	}
	if len(emailsvc.SentMessages) != 1 {
		t.Fatalf("expected the course-completed email; got %d messages", len(emailsvc.SentMessages))
	}

	msg := emailsvc.SentMessages[0]
	if len(msg.To) != 1 || msg.To[0].Address != env.student.Email {
		t.Errorf("unexpected recipients: %+v", msg.To)
	}
	if msg.TemplateName != "course_completed" {
		t.Errorf("unexpected template: %s", msg.TemplateName)
	}

	// finishing an already finished course must not mail twice
	if err := env.svc.CompleteReading(ctx, env.student.ID, env.crs.ID, env.reading.ID); err != nil {
		t.Fatalf("CompleteReading() failed: %v", err)
	}
	if len(emailsvc.SentMessages) != 1 {
		t.Errorf("duplicate completion must not re-send the email; got %d messages", len(emailsvc.SentMessages))
	}
}
