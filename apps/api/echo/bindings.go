package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/progress"
)

// Shared request/response payloads.
type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	// QuizSubmission carries a student's chosen option indices, one per
	// question in display order. Answers may be shorter than the question
	// list; unanswered questions are simply wrong.
	QuizSubmission struct {
		Answers []int `json:"answers"`
	}

	// CompleteLectureRequest marks a reading lecture as completed.
	CompleteLectureRequest struct {
		CourseID  string `json:"course_id" validate:"required"`
		LectureID string `json:"lecture_id" validate:"required"`
	}

	// CourseDetailResponse is a course together with its gate-annotated
	// curriculum and the caller's completion rollup.
	CourseDetailResponse struct {
		course.Course
		Lectures []course.LectureInfo       `json:"lectures"`
		Progress progress.CompletionSummary `json:"progress"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}

func (cr *CompleteLectureRequest) Validate(validate *validator.Validate) error {
	cr.CourseID = core.CleanString(cr.CourseID)
	cr.LectureID = core.CleanString(cr.LectureID)
	return validate.Struct(cr)
}
