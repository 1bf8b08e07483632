package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/attendance"
	"github.com/trezcool/ratiba/core/timetable"
	"github.com/trezcool/ratiba/core/user"
	exportsvc "github.com/trezcool/ratiba/services/export"
)

var errTTNotFoundInCtx = errors.New("timetable object not found in echo.Context")

type timetableApi struct {
	svc      *timetable.Service
	attSvc   *attendance.Service
	usrSvc   user.Service
	validate *validator.Validate
}

func registerTimetableAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *timetable.Service,
	attSvc *attendance.Service,
	usrSvc user.Service,
	validate *validator.Validate,
) {
	api := timetableApi{
		svc:      svc,
		attSvc:   attSvc,
		usrSvc:   usrSvc,
		validate: validate,
	}

	tg := g.Group("/timetables", jwt)
	tg.POST("/import", api.importTimetable)
	tg.POST("/import-ocr", api.importOCR)
	tg.POST("/validate", api.validateTimetable)
	tg.GET("", api.query)

	// detail endpoints
	dg := tg.Group("/:id", ownedTimetableMiddleware(api.svc, api.usrSvc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/export.xlsx", api.exportExcel)
	dg.GET("/export.ics", api.exportICS)
}

// Handlers

func (api *timetableApi) importTimetable(ctx echo.Context) error {
	var data interface{}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding import payload")
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	tt, err := api.svc.Import(ctx.Request().Context(), ctxUsr.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, tt)
}

func (api *timetableApi) importOCR(ctx echo.Context) error {
	var data OCRImportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to OCRImportRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	tt, err := api.svc.ImportOCR(ctx.Request().Context(), ctxUsr.ID, data.Name, data.Text)
	if err != nil {
		return errors.Wrap(err, "importing OCR text")
	}
	return ctx.JSON(http.StatusCreated, tt)
}

// validateTimetable parses and checks a payload without persisting anything;
// the full issue list and sanitized copy are returned for the client to act on.
func (api *timetableApi) validateTimetable(ctx echo.Context) error {
	var data interface{}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding validate payload")
	}

	tt, err := timetable.Parse(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, timetable.Validate(tt))
}

func (api *timetableApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	tts, err := api.svc.Query(ctx.Request().Context(), ctxUsr.ID, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying timetables")
	}
	if tts == nil {
		tts = []timetable.Timetable{}
	}
	return ctx.JSON(http.StatusOK, tts)
}

func (api *timetableApi) retrieve(ctx echo.Context) error {
	tt, ok := ctx.Get("object").(timetable.Timetable)
	if !ok {
		return errors.Wrap(errTTNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, tt)
}

func (api *timetableApi) update(ctx echo.Context) error {
	tt, ok := ctx.Get("object").(timetable.Timetable)
	if !ok {
		return errors.Wrap(errTTNotFoundInCtx, "retrieving object from context")
	}

	var data timetable.Timetable
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Timetable")
	}
	// identity fields are not client-settable
	data.ID = tt.ID
	data.OwnerID = tt.OwnerID
	data.CreatedAt = tt.CreatedAt

	updated, err := api.svc.Update(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, updated)
}

func (api *timetableApi) destroy(ctx echo.Context) error {
	tt, ok := ctx.Get("object").(timetable.Timetable)
	if !ok {
		return errors.Wrap(errTTNotFoundInCtx, "retrieving object from context")
	}

	if err := api.svc.Delete(ctx.Request().Context(), tt.ID); err != nil {
		return errors.Wrap(err, "deleting timetable")
	}
	if err := api.attSvc.Purge(ctx.Request().Context(), tt.ID); err != nil {
		return errors.Wrap(err, "purging attendance records")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *timetableApi) exportExcel(ctx echo.Context) error {
	tt, ok := ctx.Get("object").(timetable.Timetable)
	if !ok {
		return errors.Wrap(errTTNotFoundInCtx, "retrieving object from context")
	}

	buf, filename, err := exportsvc.Excel(&tt)
	if err != nil {
		return errors.Wrap(err, "exporting workbook")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (api *timetableApi) exportICS(ctx echo.Context) error {
	tt, ok := ctx.Get("object").(timetable.Timetable)
	if !ok {
		return errors.Wrap(errTTNotFoundInCtx, "retrieving object from context")
	}

	weekStart := nextMonday(time.Now().UTC())
	if raw := ctx.QueryParam("week_start"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "week_start", Error: "must be a YYYY-MM-DD date"})
		}
		weekStart = parsed
	}

	buf, filename, err := exportsvc.ICS(&tt, weekStart)
	if err != nil {
		return errors.Wrap(err, "exporting calendar")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Blob(http.StatusOK, "text/calendar", buf.Bytes())
}

// nextMonday returns the Monday on or after t, at midnight UTC.
func nextMonday(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, offset)
}

func ownedTimetableMiddleware(svc *timetable.Service, usrSvc user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctxUsr, err := getContextUser(ctx, usrSvc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}

			tt, err := svc.Get(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == timetable.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding timetable by ID")
			}
			// hide other users' timetables
			if tt.OwnerID != ctxUsr.ID && !ctxUsr.IsAdmin() {
				return errHttpNotFound
			}
			ctx.Set("object", tt)
			return next(ctx)
		}
	}
}

type OCRImportRequest struct {
	Name string `json:"name"`
	Text string `json:"text" validate:"required"`
}

func (r *OCRImportRequest) Validate(validate *validator.Validate) error {
	r.Name = core.CleanString(r.Name)
	return validate.Struct(r)
}
