package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/attendance"
	"github.com/trezcool/ratiba/core/timetable"
	"github.com/trezcool/ratiba/core/user"
)

type attendanceApi struct {
	svc      *attendance.Service
	ttSvc    *timetable.Service
	usrSvc   user.Service
	validate *validator.Validate
}

func registerAttendanceAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *attendance.Service,
	ttSvc *timetable.Service,
	usrSvc user.Service,
	validate *validator.Validate,
) {
	api := attendanceApi{
		svc:      svc,
		ttSvc:    ttSvc,
		usrSvc:   usrSvc,
		validate: validate,
	}

	ag := g.Group("/attendance", jwt)
	ag.POST("", api.mark)
	ag.GET("/:timetableID", api.query)
	ag.GET("/:timetableID/stats", api.stats)
}

// Handlers

func (api *attendanceApi) mark(ctx echo.Context) error {
	var data attendance.MarkAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkAttendance")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	// the mark must point at an owned timetable and a declared subject
	tt, err := api.ttSvc.Get(ctx.Request().Context(), data.TimetableID)
	if err != nil || tt.OwnerID != ctxUsr.ID {
		if err != nil && errors.Cause(err) != timetable.ErrNotFound {
			return errors.Wrap(err, "finding timetable by ID")
		}
		return core.NewValidationError(nil, core.FieldError{Field: "timetable_id", Error: "timetable not found"})
	}
	if _, ok := tt.FindSubject(data.Subject); !ok {
		return core.NewValidationError(nil, core.FieldError{Field: "subject", Error: "subject not declared in this timetable"})
	}

	rec, err := api.svc.Mark(ctx.Request().Context(), ctxUsr.ID, data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	recs, err := api.svc.Query(ctx.Request().Context(), ctxUsr.ID, ctx.Param("timetableID"))
	if err != nil {
		return errors.Wrap(err, "querying attendance records")
	}
	if recs == nil {
		recs = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *attendanceApi) stats(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	stats, err := api.svc.Stats(ctx.Request().Context(), ctxUsr.ID, ctx.Param("timetableID"))
	if err != nil {
		return errors.Wrap(err, "computing attendance stats")
	}
	if stats == nil {
		stats = []attendance.SubjectStats{}
	}
	return ctx.JSON(http.StatusOK, stats)
}
