package course

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLecture_Redact(t *testing.T) {
	now := time.Now().UTC()
	quiz := Lecture{
		ID:       "lec1",
		CourseID: "crs1",
		Title:    "Checkpoint",
		Type:     LectureTypeQuiz,
		Questions: []Question{
			{Text: "2 + 2 ?", Options: []string{"3", "4"}, CorrectAnswer: 1},
			{Text: "1 + 1 ?", Options: []string{"2", "11"}, CorrectAnswer: 0},
		},
		Order:     2,
		CreatedAt: now,
		UpdatedAt: now,
	}

	view := quiz.Redact()

	if len(view.Questions) != len(quiz.Questions) {
		t.Fatalf("Redact() dropped questions: got %d, want %d", len(view.Questions), len(quiz.Questions))
	}
	for i, q := range view.Questions {
		if q.Text != quiz.Questions[i].Text {
			t.Errorf("question %d: text = %q, want %q", i, q.Text, quiz.Questions[i].Text)
		}
		if len(q.Options) != len(quiz.Questions[i].Options) {
			t.Errorf("question %d: options mangled: %v", i, q.Options)
		}
	}

	// the answer key must be absent from the payload, not merely zeroed
	data, err := json.Marshal(view)
	assert.NoError(t, err)
	assert.NotContains(t, string(data), "correct_answer")

	// the original lecture still serializes its key
	data, err = json.Marshal(quiz)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "correct_answer")
}

func TestRedactForRole(t *testing.T) {
	quiz := Lecture{
		ID:   "lec1",
		Type: LectureTypeQuiz,
		Questions: []Question{
			{Text: "?", Options: []string{"a", "b"}, CorrectAnswer: 0},
		},
	}
	reading := Lecture{ID: "lec2", Type: LectureTypeReading, Content: "lorem"}

	tests := []struct {
		name     string
		lec      Lecture
		role     string
		wantView bool
	}{
		{name: "student quiz is redacted", lec: quiz, role: "student:", wantView: true},
		{name: "instructor quiz is full", lec: quiz, role: "instructor:"},
		{name: "admin quiz is full", lec: quiz, role: "admin:owner"},
		{name: "student reading is full", lec: reading, role: "student:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RedactForRole(tt.lec, tt.role)
			if _, isView := got.(LectureView); isView != tt.wantView {
				t.Errorf("RedactForRole() returned %T, wantView %v", got, tt.wantView)
			}
		})
	}
}
