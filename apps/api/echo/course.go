package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/progress"
	"github.com/trezcool/darasa/core/user"
)

type courseApi struct {
	svc         course.Service
	progressSvc progress.Service
	usrSvc      user.Service
	validate    *validator.Validate
	translator  ut.Translator
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := courseApi{
		svc:         deps.CourseSvc,
		progressSvc: deps.ProgressSvc,
		usrSvc:      deps.UserSvc,
		validate:    deps.Validate,
		translator:  deps.Translator,
	}

	cg := g.Group("/courses", jwt)
	cg.POST("", api.create, instructorMiddleware())
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.DELETE("/:id", api.destroy, instructorMiddleware())

	lg := g.Group("/lectures", jwt)
	lg.POST("", api.createLecture, instructorMiddleware())
	lg.GET("/:id", api.retrieveLecture)
	lg.DELETE("/:id", api.destroyLecture, instructorMiddleware())
	lg.POST("/:id/submit", api.submitQuiz, studentMiddleware())
}

// Course handlers

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	crs, err := api.svc.CreateCourse(ctx.Request().Context(), data, ctxUsr)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) query(ctx echo.Context) error {
	courses, err := api.svc.QueryAllCourses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

// retrieve returns the course together with its gate-annotated curriculum:
// each lecture is summarized (no content, no questions) and flagged completed
// and/or unlocked for the calling user.
func (api *courseApi) retrieve(ctx echo.Context) error {
	rctx := ctx.Request().Context()

	crs, err := api.svc.GetCourse(rctx, ctx.Param("id"))
	if err != nil {
		return err
	}
	lectures, err := api.svc.CourseLectures(rctx, crs.ID)
	if err != nil {
		return errors.Wrap(err, "querying lectures")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	role := claims.primaryRole()

	summary, err := api.progressSvc.Summary(rctx, claims.Subject, crs.ID)
	if err != nil {
		return errors.Wrap(err, "fetching progress summary")
	}
	completedIDs := make(map[string]bool, len(summary.CompletedLectures))
	for _, cl := range summary.CompletedLectures {
		completedIDs[cl.LectureID] = true
	}

	return ctx.JSON(http.StatusOK, CourseDetailResponse{
		Course:   crs,
		Lectures: course.AnnotateLectures(lectures, completedIDs, role),
		Progress: summary,
	})
}

func (api *courseApi) destroy(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err := api.svc.DeleteCourse(ctx.Request().Context(), ctx.Param("id"), ctxUsr); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Lecture handlers

func (api *courseApi) createLecture(ctx echo.Context) error {
	var data course.NewLecture
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLecture")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	lec, err := api.svc.AddLecture(ctx.Request().Context(), data, ctxUsr)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, lec)
}

// retrieveLecture serves the lecture redacted for the caller: a student never
// sees a quiz's answer key; instructors and admins get the full lecture.
func (api *courseApi) retrieveLecture(ctx echo.Context) error {
	lec, err := api.svc.GetLecture(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	return ctx.JSON(http.StatusOK, course.RedactForRole(lec, claims.primaryRole()))
}

func (api *courseApi) destroyLecture(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err := api.svc.DeleteLecture(ctx.Request().Context(), ctx.Param("id"), ctxUsr); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// submitQuiz grades the submission; the result is returned either way and the
// completion is recorded only on a pass.
func (api *courseApi) submitQuiz(ctx echo.Context) error {
	var data QuizSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuizSubmission")
	}

	rctx := ctx.Request().Context()
	lec, err := api.svc.GetLecture(rctx, ctx.Param("id"))
	if err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	res, err := api.progressSvc.CompleteQuiz(rctx, claims.Subject, lec, data.Answers)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}
