package inmemdb

import (
	"context"
	"fmt"
	"sort"

	"github.com/trezcool/ratiba/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

// slotKey is the upsert key: one mark per period per date per user.
func slotKey(rec attendance.Record) string {
	return fmt.Sprintf("%s|%s|%s|%d|%s", rec.OwnerID, rec.TimetableID, rec.Day, rec.PeriodIndex, rec.Date.Format("2006-01-02"))
}

func (repo *attendanceRepository) UpsertRecord(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := slotKey(rec)
	if orig, ok := repo.db.table[key]; ok {
		orig.Subject = rec.Subject
		orig.Present = rec.Present
		orig.UpdatedAt = rec.UpdatedAt
		return *orig, nil
	}
	cp := rec
	repo.db.table[key] = &cp
	return rec, nil
}

func (repo *attendanceRepository) QueryRecordsByOwner(_ context.Context, ownerID, timetableID string) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	recs := make([]attendance.Record, 0)
	for _, rec := range repo.db.table {
		if rec.OwnerID == ownerID && rec.TimetableID == timetableID {
			recs = append(recs, *rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Date.Before(recs[j].Date) })
	return recs, nil
}

func (repo *attendanceRepository) DeleteRecordsByTimetableID(_ context.Context, timetableID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for key, rec := range repo.db.table {
		if rec.TimetableID == timetableID {
			delete(repo.db.table, key)
		}
	}
	return nil
}
