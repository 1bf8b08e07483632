package timetable

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
)

var ErrNotFound = errors.New("timetable not found")

// NowFunc can be overridden in tests.
var NowFunc = time.Now

type (
	// Repository persists canonical timetables.
	Repository interface {
		CreateTimetable(ctx context.Context, tt *Timetable) error
		GetTimetableByID(ctx context.Context, id string) (Timetable, error)
		QueryTimetablesByOwner(ctx context.Context, ownerID string, ordering ...core.DBOrdering) ([]Timetable, error)
		UpdateTimetable(ctx context.Context, tt *Timetable) error
		DeleteTimetablesByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Import parses arbitrary decoded JSON into a canonical timetable, validates
// it structurally and persists the sanitized copy. A *FormatError means the
// shape was unrecognizable; a core.ValidationError carries every structural
// issue found.
func (svc *Service) Import(ctx context.Context, ownerID string, data interface{}) (Timetable, error) {
	tt, err := Parse(data)
	if err != nil {
		return Timetable{}, err
	}

	res := Validate(tt)
	if !res.Valid {
		fields := make([]core.FieldError, 0, len(res.Issues))
		for _, iss := range res.Issues {
			fields = append(fields, core.FieldError{Field: string(iss.Kind), Error: iss.Message})
		}
		return Timetable{}, core.NewValidationError(errors.New("timetable failed validation"), fields...)
	}

	out := res.Sanitized
	out.ID = uuid.New().String()
	out.OwnerID = ownerID
	out.CreatedAt = NowFunc().UTC()
	out.UpdatedAt = out.CreatedAt

	if err := svc.repo.CreateTimetable(ctx, out); err != nil {
		return Timetable{}, errors.Wrap(err, "creating timetable")
	}
	return *out, nil
}

// ImportOCR recovers a draft timetable from raw OCR text. The draft skips
// structural validation: the whole point is to hand the user something to fix
// up, so it is stored as-is with Draft set.
func (svc *Service) ImportOCR(ctx context.Context, ownerID, name, raw string) (Timetable, error) {
	grid := ParseOCRText(raw)
	tt := grid.Timetable(name)
	tt.ID = uuid.New().String()
	tt.OwnerID = ownerID
	tt.CreatedAt = NowFunc().UTC()
	tt.UpdatedAt = tt.CreatedAt

	if err := svc.repo.CreateTimetable(ctx, tt); err != nil {
		return Timetable{}, errors.Wrap(err, "creating draft timetable")
	}
	return *tt, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Timetable, error) {
	tt, err := svc.repo.GetTimetableByID(ctx, id)
	if err != nil {
		return Timetable{}, err
	}
	return tt, nil
}

func (svc *Service) Query(ctx context.Context, ownerID string, ordering ...core.DBOrdering) ([]Timetable, error) {
	return svc.repo.QueryTimetablesByOwner(ctx, ownerID, ordering...)
}

// Update revalidates the full timetable before persisting; a draft being
// finalized must pass the same structural checks as a fresh import.
func (svc *Service) Update(ctx context.Context, tt Timetable) (Timetable, error) {
	res := Validate(&tt)
	if !res.Valid {
		fields := make([]core.FieldError, 0, len(res.Issues))
		for _, iss := range res.Issues {
			fields = append(fields, core.FieldError{Field: string(iss.Kind), Error: iss.Message})
		}
		return Timetable{}, core.NewValidationError(errors.New("timetable failed validation"), fields...)
	}

	out := res.Sanitized
	out.Draft = false
	out.UpdatedAt = NowFunc().UTC()

	if err := svc.repo.UpdateTimetable(ctx, out); err != nil {
		return Timetable{}, errors.Wrap(err, "updating timetable")
	}
	return *out, nil
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteTimetablesByID(ctx, ids...)
}
