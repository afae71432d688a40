package course

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

var (
	lectureTypeTag  = "lecturetype"
	lectureTypeText = "type must be one of 'reading' or 'quiz'"

	contentRequiredTag  = "content_required"
	contentRequiredText = "content is required for reading lectures"

	questionsRequiredTag  = "questions_required"
	questionsRequiredText = "questions are required for quiz lectures"

	correctAnswerTag  = "correct_answer_range"
	correctAnswerText = "correct_answer must index one of the options"
)

// RegisterValidators registers course-specific validators & translations.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(lectureTypeTag, lectureTypeValidation)
	core.RegisterCustomTranslation(validate, translator, lectureTypeTag, lectureTypeText)

	validate.RegisterStructValidation(lectureStructValidation, NewLecture{})
	core.RegisterCustomTranslation(validate, translator, contentRequiredTag, contentRequiredText)
	core.RegisterCustomTranslation(validate, translator, questionsRequiredTag, questionsRequiredText)
	core.RegisterCustomTranslation(validate, translator, correctAnswerTag, correctAnswerText)
}

func lectureTypeValidation(fl validator.FieldLevel) bool {
	typ := fl.Field().String()
	return typ == LectureTypeReading || typ == LectureTypeQuiz
}

// lectureStructValidation enforces the per-type shape of a NewLecture:
// readings carry a non-empty content body, quizzes a non-empty question
// sequence whose answer keys index existing options.
func lectureStructValidation(sl validator.StructLevel) {
	nl, ok := sl.Current().Interface().(NewLecture)
	if !ok {
		return
	}

	switch nl.Type {
	case LectureTypeReading:
		if nl.Content == "" {
			sl.ReportError(nl.Content, "content", "Content", contentRequiredTag, "")
		}
	case LectureTypeQuiz:
		if len(nl.Questions) == 0 {
			sl.ReportError(nl.Questions, "questions", "Questions", questionsRequiredTag, "")
			return
		}
		for _, q := range nl.Questions {
			if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
				sl.ReportError(nl.Questions, "questions", "Questions", correctAnswerTag, "")
				return
			}
		}
	}
}
