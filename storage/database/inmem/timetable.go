package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/timetable"
)

type timetableRepository struct {
	db *timetableTable
}

func NewTimetableRepository(db *DB) timetable.Repository {
	return &timetableRepository{db: db.timetable}
}

func (repo *timetableRepository) CreateTimetable(_ context.Context, tt *timetable.Timetable) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	cp := *tt
	repo.db.table[tt.ID] = &cp
	return nil
}

func (repo *timetableRepository) GetTimetableByID(_ context.Context, id string) (timetable.Timetable, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if tt, ok := repo.db.table[id]; ok {
		return *tt, nil
	}
	return timetable.Timetable{}, timetable.ErrNotFound
}

func (repo *timetableRepository) QueryTimetablesByOwner(_ context.Context, ownerID string, _ ...core.DBOrdering) ([]timetable.Timetable, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	tts := make([]timetable.Timetable, 0)
	for _, tt := range repo.db.table {
		if tt.OwnerID == ownerID {
			tts = append(tts, *tt)
		}
	}
	sort.Slice(tts, func(i, j int) bool { return tts[i].UpdatedAt.After(tts[j].UpdatedAt) })
	return tts, nil
}

func (repo *timetableRepository) UpdateTimetable(_ context.Context, tt *timetable.Timetable) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[tt.ID]; !ok {
		return timetable.ErrNotFound
	}
	cp := *tt
	repo.db.table[tt.ID] = &cp
	return nil
}

func (repo *timetableRepository) DeleteTimetablesByID(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
