package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/progress"
)

type progressApi struct {
	svc      progress.Service
	validate *validator.Validate
}

func registerProgressAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := progressApi{
		svc:      deps.ProgressSvc,
		validate: deps.Validate,
	}

	pg := g.Group("/progress", jwt, studentMiddleware())
	pg.POST("/complete", api.complete)
	pg.GET("/courses/:courseId", api.courseProgress)
}

// complete marks a reading lecture as completed for the calling student.
// Re-marking an already completed lecture is a successful no-op.
func (api *progressApi) complete(ctx echo.Context) error {
	var data CompleteLectureRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CompleteLectureRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.CompleteReading(ctx.Request().Context(), claims.Subject, data.CourseID, data.LectureID); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Lecture marked as completed."})
}

func (api *progressApi) courseProgress(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	summary, err := api.svc.Summary(ctx.Request().Context(), claims.Subject, ctx.Param("courseId"))
	if err != nil {
		return errors.Wrap(err, "fetching progress summary")
	}
	return ctx.JSON(http.StatusOK, summary)
}
