package attendance

import (
	"context"
	"testing"
)

type fakeRepo struct {
	recs []Record
}

func key(r Record) [5]interface{} {
	return [5]interface{}{r.OwnerID, r.TimetableID, r.Day, r.PeriodIndex, r.Date}
}

func (f *fakeRepo) UpsertRecord(_ context.Context, rec Record) (Record, error) {
	for i, r := range f.recs {
		if key(r) == key(rec) {
			f.recs[i].Present = rec.Present
			return f.recs[i], nil
		}
	}
	f.recs = append(f.recs, rec)
	return rec, nil
}

func (f *fakeRepo) QueryRecordsByOwner(_ context.Context, ownerID, timetableID string) ([]Record, error) {
	var out []Record
	for _, r := range f.recs {
		if r.OwnerID == ownerID && r.TimetableID == timetableID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) DeleteRecordsByTimetableID(_ context.Context, timetableID string) error {
	kept := f.recs[:0]
	for _, r := range f.recs {
		if r.TimetableID != timetableID {
			kept = append(kept, r)
		}
	}
	f.recs = kept
	return nil
}

func TestServiceMarkUpserts(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	ma := MarkAttendance{
		TimetableID: "tt-1",
		Subject:     "DBMS",
		Day:         "Monday",
		PeriodIndex: 0,
		Date:        "2026-02-02",
		Present:     true,
	}
	if _, err := svc.Mark(ctx, "owner-1", ma); err != nil {
		t.Fatalf("Mark() error = %v", err)
	}

	// marking the same slot again flips the existing record
	ma.Present = false
	if _, err := svc.Mark(ctx, "owner-1", ma); err != nil {
		t.Fatalf("Mark() error = %v", err)
	}
	if len(repo.recs) != 1 {
		t.Fatalf("len(recs) = %d, want 1", len(repo.recs))
	}
	if repo.recs[0].Present {
		t.Error("Present not updated on upsert")
	}
}

func TestServiceStats(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	marks := []MarkAttendance{
		{TimetableID: "tt-1", Subject: "DBMS", Day: "Monday", PeriodIndex: 0, Date: "2026-02-02", Present: true},
		{TimetableID: "tt-1", Subject: "DBMS", Day: "Tuesday", PeriodIndex: 1, Date: "2026-02-03", Present: false},
		{TimetableID: "tt-1", Subject: "DBMS", Day: "Wednesday", PeriodIndex: 0, Date: "2026-02-04", Present: true},
		{TimetableID: "tt-1", Subject: "CN", Day: "Monday", PeriodIndex: 1, Date: "2026-02-02", Present: true},
		{TimetableID: "tt-2", Subject: "ML", Day: "Monday", PeriodIndex: 0, Date: "2026-02-02", Present: false},
	}
	for _, ma := range marks {
		if _, err := svc.Mark(ctx, "owner-1", ma); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := svc.Stats(ctx, "owner-1", "tt-1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	want := []SubjectStats{
		{Subject: "CN", Attended: 1, Total: 1, Percentage: 100},
		{Subject: "DBMS", Attended: 2, Total: 3, Percentage: 66.67},
	}
	if len(stats) != len(want) {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Errorf("stats[%d] = %+v, want %+v", i, stats[i], want[i])
		}
	}
}

func TestMarkAttendanceParsedDate(t *testing.T) {
	ma := MarkAttendance{Date: "2026-02-02"}
	if got := ma.ParsedDate().Format("2006-01-02"); got != "2026-02-02" {
		t.Errorf("ParsedDate() = %q", got)
	}

	ma.Date = ""
	if got := ma.ParsedDate(); got.Hour() != 0 || got.Location() != got.UTC().Location() {
		t.Errorf("default date not truncated UTC: %v", got)
	}
}
