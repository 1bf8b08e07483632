package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/timetable"
)

type timetableRepository struct {
	db *sqlx.DB
}

func NewTimetableRepository(db *sqlx.DB) timetable.Repository {
	return &timetableRepository{db: db}
}

// timetableRow mirrors the timetable table; subjects and schedule are stored
// as jsonb documents.
type timetableRow struct {
	ID           string    `db:"id"`
	OwnerID      string    `db:"owner_id"`
	Name         string    `db:"name"`
	Semester     string    `db:"semester"`
	AcademicYear string    `db:"academic_year"`
	Draft        bool      `db:"draft"`
	Subjects     []byte    `db:"subjects"`
	Schedule     []byte    `db:"schedule"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r timetableRow) toTimetable() (timetable.Timetable, error) {
	tt := timetable.Timetable{
		ID:           r.ID,
		OwnerID:      r.OwnerID,
		Name:         r.Name,
		Semester:     r.Semester,
		AcademicYear: r.AcademicYear,
		Draft:        r.Draft,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if err := json.Unmarshal(r.Subjects, &tt.Subjects); err != nil {
		return timetable.Timetable{}, errors.Wrap(err, "decoding subjects")
	}
	if err := json.Unmarshal(r.Schedule, &tt.Schedule); err != nil {
		return timetable.Timetable{}, errors.Wrap(err, "decoding schedule")
	}
	return tt, nil
}

func marshalDocs(tt *timetable.Timetable) (subjects, schedule []byte, err error) {
	if subjects, err = json.Marshal(tt.Subjects); err != nil {
		return nil, nil, errors.Wrap(err, "encoding subjects")
	}
	if schedule, err = json.Marshal(tt.Schedule); err != nil {
		return nil, nil, errors.Wrap(err, "encoding schedule")
	}
	return subjects, schedule, nil
}

const timetableColumns = `id, owner_id, name, semester, academic_year, draft, subjects, schedule, created_at, updated_at`

func (repo *timetableRepository) CreateTimetable(ctx context.Context, tt *timetable.Timetable) error {
	subjects, schedule, err := marshalDocs(tt)
	if err != nil {
		return err
	}
	q := `
	INSERT INTO timetable (id, owner_id, name, semester, academic_year, draft, subjects, schedule, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = repo.db.ExecContext(
		ctx, q,
		tt.ID, tt.OwnerID, tt.Name, tt.Semester, tt.AcademicYear, tt.Draft,
		subjects, schedule, tt.CreatedAt, tt.UpdatedAt,
	)
	return errors.Wrap(err, "inserting timetable")
}

func (repo *timetableRepository) GetTimetableByID(ctx context.Context, id string) (timetable.Timetable, error) {
	var row timetableRow
	q := `SELECT ` + timetableColumns + ` FROM timetable WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		if err == sql.ErrNoRows {
			return timetable.Timetable{}, timetable.ErrNotFound
		}
		return timetable.Timetable{}, errors.Wrap(err, "getting timetable")
	}
	return row.toTimetable()
}

func (repo *timetableRepository) QueryTimetablesByOwner(ctx context.Context, ownerID string, ordering ...core.DBOrdering) ([]timetable.Timetable, error) {
	q := `SELECT ` + timetableColumns + ` FROM timetable WHERE owner_id = $1`
	if ob := orderBy(ordering); ob != "" {
		q += ob
	} else {
		q += ` ORDER BY updated_at DESC`
	}

	var rows []timetableRow
	if err := repo.db.SelectContext(ctx, &rows, q, ownerID); err != nil {
		return nil, errors.Wrap(err, "querying timetables")
	}

	tts := make([]timetable.Timetable, 0, len(rows))
	for _, row := range rows {
		tt, err := row.toTimetable()
		if err != nil {
			return nil, err
		}
		tts = append(tts, tt)
	}
	return tts, nil
}

func (repo *timetableRepository) UpdateTimetable(ctx context.Context, tt *timetable.Timetable) error {
	subjects, schedule, err := marshalDocs(tt)
	if err != nil {
		return err
	}
	q := `
	UPDATE timetable
	SET name = $1, semester = $2, academic_year = $3, draft = $4, subjects = $5, schedule = $6, updated_at = $7
	WHERE id = $8`
	res, err := repo.db.ExecContext(
		ctx, q,
		tt.Name, tt.Semester, tt.AcademicYear, tt.Draft, subjects, schedule, tt.UpdatedAt, tt.ID,
	)
	if err != nil {
		return errors.Wrap(err, "updating timetable")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return timetable.ErrNotFound
	}
	return nil
}

func (repo *timetableRepository) DeleteTimetablesByID(ctx context.Context, ids ...string) error {
	q := `DELETE FROM timetable WHERE id = ANY($1)`
	if _, err := repo.db.ExecContext(ctx, q, pq.StringArray(ids)); err != nil {
		return errors.Wrap(err, "deleting timetables")
	}
	return nil
}
