package progress

import "time"

// CompletedLecture is one append-only ledger entry: which lecture, when, and
// the grading score for quiz-derived completions.
type CompletedLecture struct {
	LectureID   string    `json:"lecture_id"`
	CompletedAt time.Time `json:"completed_at"` // UTC; set at insertion, never modified
	Score       *float64  `json:"score,omitempty"`
}

// Progress is the per-(student, course) completion ledger. The pair is unique;
// entries are ordered by insertion and hold at most one entry per lecture.
type Progress struct {
	ID                string             `json:"id"`
	StudentID         string             `json:"student_id"`
	CourseID          string             `json:"course_id"`
	CompletedLectures []CompletedLecture `json:"completed_lectures"`
	CreatedAt         time.Time          `json:"created_at"` // UTC
	UpdatedAt         time.Time          `json:"updated_at"` // UTC
}

// HasCompleted reports whether the ledger already holds an entry for lectureID.
func (p Progress) HasCompleted(lectureID string) bool {
	for _, cl := range p.CompletedLectures {
		if cl.LectureID == lectureID {
			return true
		}
	}
	return false
}

// CompletedIDs returns the set of completed lecture IDs, for access-gate checks.
func (p Progress) CompletedIDs() map[string]bool {
	ids := make(map[string]bool, len(p.CompletedLectures))
	for _, cl := range p.CompletedLectures {
		ids[cl.LectureID] = true
	}
	return ids
}

// CompletionSummary is the student-facing progress rollup for one course.
type CompletionSummary struct {
	Completed         int                `json:"completed"`
	Total             int                `json:"total"`
	CompletedLectures []CompletedLecture `json:"completed_lectures"`
}
