// Package inmemdb provides map-backed repositories for tests and local hacking.
package inmemdb

import (
	"sync"

	"github.com/trezcool/ratiba/core/attendance"
	"github.com/trezcool/ratiba/core/timetable"
	"github.com/trezcool/ratiba/core/user"
)

type (
	DB struct {
		user       *userTable
		timetable  *timetableTable
		attendance *attendanceTable
	}

	userTable struct {
		table map[string]*user.User
		mutex sync.RWMutex
	}

	timetableTable struct {
		table map[string]*timetable.Timetable
		mutex sync.RWMutex
	}

	attendanceTable struct {
		table map[string]*attendance.Record
		mutex sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		timetable:  &timetableTable{table: make(map[string]*timetable.Timetable)},
		attendance: &attendanceTable{table: make(map[string]*attendance.Record)},
	}
	return db, nil
}
