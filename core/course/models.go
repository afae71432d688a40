package course

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

// Lecture types
const (
	LectureTypeReading = "reading"
	LectureTypeQuiz    = "quiz"
)

type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	InstructorID string    `json:"instructor_id"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// Question belongs exclusively to its quiz Lecture; it is never addressable on its own.
// CorrectAnswer is a zero-based index into Options.
type Question struct {
	Text          string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

type Lecture struct {
	ID        string     `json:"id"`
	CourseID  string     `json:"course_id"`
	Title     string     `json:"title"`
	Type      string     `json:"type"`
	Content   string     `json:"content,omitempty"`
	Questions []Question `json:"questions,omitempty"`
	Order     int        `json:"order"`
	CreatedAt time.Time  `json:"created_at"` // UTC
	UpdatedAt time.Time  `json:"updated_at"` // UTC
}

func (l Lecture) IsQuiz() bool    { return l.Type == LectureTypeQuiz }
func (l Lecture) IsReading() bool { return l.Type == LectureTypeReading }

// QuestionView is the student-facing rendition of a Question: the answer key
// is absent from the type altogether, not merely zeroed.
type QuestionView struct {
	Text    string   `json:"question_text"`
	Options []string `json:"options"`
}

// LectureView is a Lecture stripped of any answer-key data.
type LectureView struct {
	ID        string         `json:"id"`
	CourseID  string         `json:"course_id"`
	Title     string         `json:"title"`
	Type      string         `json:"type"`
	Content   string         `json:"content,omitempty"`
	Questions []QuestionView `json:"questions,omitempty"`
	Order     int            `json:"order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Redact returns the lecture with all answer-key data removed.
func (l Lecture) Redact() LectureView {
	view := LectureView{
		ID:        l.ID,
		CourseID:  l.CourseID,
		Title:     l.Title,
		Type:      l.Type,
		Content:   l.Content,
		Order:     l.Order,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
	if len(l.Questions) > 0 {
		view.Questions = make([]QuestionView, 0, len(l.Questions))
		for _, q := range l.Questions {
			view.Questions = append(view.Questions, QuestionView{Text: q.Text, Options: q.Options})
		}
	}
	return view
}

// RedactForRole returns a lecture rendition safe for the given role: students
// never see a quiz's answer key; everyone else gets the lecture unchanged.
// This must run before the lecture reaches any serialization boundary.
func RedactForRole(l Lecture, role string) interface{} {
	if l.IsQuiz() && IsStudentRole(role) {
		return l.Redact()
	}
	return l
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

func (nc *NewCourse) Validate(validate *validator.Validate, _ ut.Translator) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

// NewQuestion contains information needed to create a Question on a quiz Lecture.
type NewQuestion struct {
	Text          string   `json:"question_text" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer int      `json:"correct_answer" validate:"min=0"`
}

// NewLecture contains information needed to create a new Lecture.
type NewLecture struct {
	CourseID  string        `json:"course_id" validate:"required"`
	Title     string        `json:"title" validate:"required"`
	Type      string        `json:"type" validate:"required,lecturetype"`
	Content   string        `json:"content"`
	Questions []NewQuestion `json:"questions" validate:"omitempty,dive"`
	Order     int           `json:"order" validate:"min=0"`
}

func (nl *NewLecture) Validate(validate *validator.Validate, _ ut.Translator) error {
	nl.Title = core.CleanString(nl.Title)
	nl.Type = core.CleanString(nl.Type, true /* lower */)
	return validate.Struct(nl)
}

func (nl NewLecture) questions() []Question {
	if len(nl.Questions) == 0 {
		return nil
	}
	qs := make([]Question, 0, len(nl.Questions))
	for _, nq := range nl.Questions {
		qs = append(qs, Question{Text: nq.Text, Options: nq.Options, CorrectAnswer: nq.CorrectAnswer})
	}
	return qs
}
