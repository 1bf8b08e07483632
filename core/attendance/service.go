package attendance

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
)

var ErrNotFound = errors.New("attendance record not found")

// NowFunc can be overridden in tests.
var NowFunc = time.Now

type (
	Repository interface {
		// UpsertRecord inserts the record, or updates Present on the existing
		// one with the same (owner, timetable, day, period, date) key.
		UpsertRecord(ctx context.Context, rec Record) (Record, error)
		QueryRecordsByOwner(ctx context.Context, ownerID, timetableID string) ([]Record, error)
		DeleteRecordsByTimetableID(ctx context.Context, timetableID string) error
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Mark records (or re-records) attendance for one period on one date.
func (svc *Service) Mark(ctx context.Context, ownerID string, ma MarkAttendance) (Record, error) {
	now := NowFunc().UTC()
	rec := Record{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		TimetableID: ma.TimetableID,
		Subject:     ma.Subject,
		Day:         ma.Day,
		PeriodIndex: ma.PeriodIndex,
		Date:        ma.ParsedDate(),
		Present:     ma.Present,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	out, err := svc.repo.UpsertRecord(ctx, rec)
	if err != nil {
		return Record{}, errors.Wrap(err, "upserting attendance record")
	}
	return out, nil
}

// Query returns all of a user's marks for one timetable.
func (svc *Service) Query(ctx context.Context, ownerID, timetableID string) ([]Record, error) {
	return svc.repo.QueryRecordsByOwner(ctx, ownerID, timetableID)
}

// Stats aggregates a user's marks per subject, sorted by subject name.
func (svc *Service) Stats(ctx context.Context, ownerID, timetableID string) ([]SubjectStats, error) {
	recs, err := svc.repo.QueryRecordsByOwner(ctx, ownerID, timetableID)
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}

	bySubject := make(map[string]*SubjectStats)
	for _, rec := range recs {
		stats, ok := bySubject[rec.Subject]
		if !ok {
			stats = &SubjectStats{Subject: rec.Subject}
			bySubject[rec.Subject] = stats
		}
		stats.Total++
		if rec.Present {
			stats.Attended++
		}
	}

	out := make([]SubjectStats, 0, len(bySubject))
	for _, stats := range bySubject {
		stats.Percentage = math.Round(float64(stats.Attended)/float64(stats.Total)*10000) / 100
		out = append(out, *stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subject < out[j].Subject })
	return out, nil
}

// Purge drops all marks tied to a deleted timetable.
func (svc *Service) Purge(ctx context.Context, timetableID string) error {
	return svc.repo.DeleteRecordsByTimetableID(ctx, timetableID)
}
