package tests

import (
	"net/http"
	"strings"
	"testing"

	"github.com/trezcool/ratiba/core/timetable"
)

var standardPayload = []byte(`{
	"name": "Semester 5",
	"semester": "Fall",
	"academicYear": "2026-27",
	"subjects": [
		{"name": "Math", "type": "Lecture", "color": "#ABC123", "teacher": "Dr. Ada", "room": "S-101"},
		{"name": "DBMS", "type": "Practical"}
	],
	"schedule": [
		{"day": "Monday", "periods": [
			{"subject": "Math", "startTime": "9:00", "endTime": "10:00"},
			{"subject": "DBMS", "startTime": "10:00", "endTime": "12:00", "room": "Lab_1"}
		]}
	]
}`)

func importTimetable(t *testing.T, token string, payload []byte) timetable.Timetable {
	req, rec := newAuthRequest(http.MethodPost, "/v1/timetables/import", token, payload)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("import code = %v; want %v; body = %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var tt timetable.Timetable
	decodeBody(t, rec, &tt)
	return tt
}

func TestTimetableImport(t *testing.T) {
	usr := createUser(t, "Importer", "importer", "importer@test.cd", "G00d&Unguessable", nil)
	token := getToken(t, usr)

	t.Run("missing token", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/timetables/import", standardPayload)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)}, rec)
	})

	t.Run("standard format", func(t *testing.T) {
		tt := importTimetable(t, token, standardPayload)
		if tt.ID == "" || tt.OwnerID != usr.ID {
			t.Errorf("import identity fields = %+v", tt)
		}
		if tt.Name != "Semester 5" || len(tt.Subjects) != 2 {
			t.Errorf("import tt = %+v", tt)
		}
		if tt.Schedule[0].Periods[0].StartTime != "09:00" {
			t.Errorf("startTime = %q, want normalized %q", tt.Schedule[0].Periods[0].StartTime, "09:00")
		}
		if tt.Draft {
			t.Error("imported timetable must not be a draft")
		}
	})

	t.Run("unrecognizable shape", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/timetables/import", token, []byte(`{"foo":"bar"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("import code = %v; want %v; body = %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})

	t.Run("structural issues are collected", func(t *testing.T) {
		payload := []byte(`{
			"name": "Broken",
			"subjects": [{"name": "Math", "type": "Lecture"}],
			"schedule": [{"day": "Monday", "periods": [
				{"subject": "Math", "startTime": "10:00", "endTime": "09:00"},
				{"subject": "Ghost", "startTime": "11:00", "endTime": "12:00"}
			]}]
		}`)
		req, rec := newAuthRequest(http.MethodPost, "/v1/timetables/import", token, payload)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("import code = %v; want %v; body = %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
		var fldErrs map[string]string
		decodeBody(t, rec, &fldErrs)
		for _, key := range []string{"time_order_violation", "dangling_reference"} {
			if _, ok := fldErrs[key]; !ok {
				t.Errorf("import issues missing %q: %v", key, fldErrs)
			}
		}
	})
}

func TestTimetableValidate(t *testing.T) {
	usr := createUser(t, "Checker", "checker1", "checker@test.cd", "G00d&Unguessable", nil)
	token := getToken(t, usr)

	req, rec := newAuthRequest(http.MethodPost, "/v1/timetables/validate", token, standardPayload)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("validate code = %v; body = %s", rec.Code, rec.Body.String())
	}
	var res timetable.ValidationResult
	decodeBody(t, rec, &res)
	if !res.Valid || len(res.Issues) != 0 {
		t.Errorf("validate result = %+v", res)
	}
	if res.Sanitized == nil {
		t.Error("validate returned no sanitized copy")
	}

	// nothing was persisted
	tts, err := ttSvc.Query(req.Context(), usr.ID)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(tts) != 0 {
		t.Errorf("validate persisted %d timetables", len(tts))
	}
}

func TestTimetableImportOCR(t *testing.T) {
	usr := createUser(t, "Scanner", "scanner1", "scanner@test.cd", "G00d&Unguessable", nil)
	token := getToken(t, usr)

	t.Run("text is required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/timetables/import-ocr", token, []byte(`{"name":"Scan"}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"text":"text is a required field"}`),
		}, rec)
	})

	t.Run("draft is recovered", func(t *testing.T) {
		body := marshallObj(t, map[string]string{
			"name": "Scanned Week",
			"text": "Monday Tuesday\n9.00 10:00\nDBMS L  CN-Lab\nDr. Smith  S-101",
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/timetables/import-ocr", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("import-ocr code = %v; body = %s", rec.Code, rec.Body.String())
		}
		var tt timetable.Timetable
		decodeBody(t, rec, &tt)
		if !tt.Draft {
			t.Error("OCR import must produce a draft")
		}
		if tt.Name != "Scanned Week" || tt.ID == "" {
			t.Errorf("import-ocr tt = %+v", tt)
		}
	})
}

func TestTimetableDetail(t *testing.T) {
	owner := createUser(t, "Owner", "owner1", "owner@test.cd", "G00d&Unguessable", nil)
	intruder := createUser(t, "Intruder", "intruder1", "intruder@test.cd", "G00d&Unguessable", nil)
	tt := importTimetable(t, getToken(t, owner), standardPayload)

	t.Run("owner retrieves", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/timetables/"+tt.ID, getToken(t, owner))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("retrieve code = %v; body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("other users get 404", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/timetables/"+tt.ID, getToken(t, intruder))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: []byte(`{"error":"not found"}`)}, rec)
	})

	t.Run("update revalidates", func(t *testing.T) {
		bad := tt
		bad.Schedule[0].Periods[0].EndTime = "08:00" // before start
		req, rec := newAuthRequest(http.MethodPut, "/v1/timetables/"+tt.ID, getToken(t, owner), marshallObj(t, bad))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("update code = %v; want %v; body = %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
		bad.Schedule[0].Periods[0].EndTime = "10:00"
	})

	t.Run("delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/timetables/"+tt.ID, getToken(t, owner))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("delete code = %v; body = %s", rec.Code, rec.Body.String())
		}
		req, rec = newAuthRequest(http.MethodGet, "/v1/timetables/"+tt.ID, getToken(t, owner))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("retrieve after delete code = %v; want %v", rec.Code, http.StatusNotFound)
		}
	})
}

func TestTimetableExport(t *testing.T) {
	usr := createUser(t, "Exporter", "exporter1", "exporter@test.cd", "G00d&Unguessable", nil)
	token := getToken(t, usr)
	tt := importTimetable(t, token, standardPayload)

	t.Run("xlsx", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/timetables/"+tt.ID+"/export.xlsx", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("export code = %v; body = %s", rec.Code, rec.Body.String())
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, ".xlsx") {
			t.Errorf("Content-Disposition = %q", cd)
		}
		if rec.Body.Len() == 0 {
			t.Error("export body is empty")
		}
	})

	t.Run("ics", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/timetables/"+tt.ID+"/export.ics?week_start=2026-09-07", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("export code = %v; body = %s", rec.Code, rec.Body.String())
		}
		body := rec.Body.String()
		for _, want := range []string{"BEGIN:VCALENDAR", "SUMMARY:Math", "DTSTART:20260907T090000Z"} {
			if !strings.Contains(body, want) {
				t.Errorf("export body missing %q", want)
			}
		}
	})

	t.Run("ics rejects a bad week_start", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/timetables/"+tt.ID+"/export.ics?week_start=next-week", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"week_start":"must be a YYYY-MM-DD date"}`),
		}, rec)
	})
}
