package course

// PassThreshold is the fixed score (percent) a quiz submission must reach for
// the completion to count toward progress. Deliberately not configurable.
const PassThreshold = 70.0

// noAnswer marks a missing or out-of-range submission entry; it can never
// match a stored correct-option index.
const noAnswer = -1

// QuizResult is the outcome of grading one submission against one quiz lecture.
type QuizResult struct {
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Score   float64 `json:"score"` // percent; rounding is a presentation concern
	Passed  bool    `json:"passed"`
}

// Grade scores the submitted answers against the lecture's answer key.
// It is a pure function: no side effects, deterministic for identical inputs.
// The lecture must be a quiz with at least one question.
func Grade(lec Lecture, answers []int) (QuizResult, error) {
	if !lec.IsQuiz() || len(lec.Questions) == 0 {
		return QuizResult{}, ErrInvalidLectureKind
	}

	var correct int
	for i, q := range lec.Questions {
		answer := noAnswer
		if i < len(answers) && answers[i] >= 0 && answers[i] < len(q.Options) {
			answer = answers[i]
		}
		if answer == q.CorrectAnswer {
			correct++
		}
	}

	total := len(lec.Questions)
	score := 100 * float64(correct) / float64(total)
	return QuizResult{
		Correct: correct,
		Total:   total,
		Score:   score,
		Passed:  score >= PassThreshold,
	}, nil
}
