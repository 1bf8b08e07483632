package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

// attendanceRow mirrors the attendance_record table.
type attendanceRow struct {
	ID          string    `db:"id"`
	OwnerID     string    `db:"owner_id"`
	TimetableID string    `db:"timetable_id"`
	Subject     string    `db:"subject"`
	Day         string    `db:"day"`
	PeriodIndex int       `db:"period_index"`
	Date        time.Time `db:"date"`
	Present     bool      `db:"present"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func recordRow(rec attendance.Record) attendanceRow { return attendanceRow(rec) }

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) UpsertRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := `
	INSERT INTO attendance_record (id, owner_id, timetable_id, subject, day, period_index, date, present, created_at, updated_at)
	VALUES (:id, :owner_id, :timetable_id, :subject, :day, :period_index, :date, :present, :created_at, :updated_at)
	ON CONFLICT (owner_id, timetable_id, day, period_index, date)
	DO UPDATE SET subject = EXCLUDED.subject, present = EXCLUDED.present, updated_at = EXCLUDED.updated_at
	RETURNING id, created_at`

	rows, err := repo.db.NamedQueryContext(ctx, q, recordRow(rec))
	if err != nil {
		return attendance.Record{}, errors.Wrap(err, "upserting attendance record")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err := rows.Scan(&rec.ID, &rec.CreatedAt); err != nil {
			return attendance.Record{}, errors.Wrap(err, "upserting attendance record")
		}
	}
	return rec, rows.Err()
}

func (repo *attendanceRepository) QueryRecordsByOwner(ctx context.Context, ownerID, timetableID string) ([]attendance.Record, error) {
	q := `
	SELECT id, owner_id, timetable_id, subject, day, period_index, date, present, created_at, updated_at
	FROM attendance_record
	WHERE owner_id = $1 AND timetable_id = $2
	ORDER BY date, day, period_index`

	var rows []attendanceRow
	if err := repo.db.SelectContext(ctx, &rows, q, ownerID, timetableID); err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	recs := make([]attendance.Record, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, attendance.Record(r))
	}
	return recs, nil
}

func (repo *attendanceRepository) DeleteRecordsByTimetableID(ctx context.Context, timetableID string) error {
	q := `DELETE FROM attendance_record WHERE timetable_id = $1`
	if _, err := repo.db.ExecContext(ctx, q, timetableID); err != nil {
		return errors.Wrap(err, "deleting attendance records")
	}
	return nil
}
