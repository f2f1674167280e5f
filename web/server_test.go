package web

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fitlog/config"
	"fitlog/internal/timeutil"
	"fitlog/storage"
	"fitlog/workout"
)

func TestServer_DashboardShowsSummary(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	insertEntries(t, store, seedEntries())
	ts := newTestServer(t, store, config.Config{})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("request dashboard: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	text := string(body)
	for _, want := range []string{"Peak Performance", "Most Recent", "4.50 km", "2025-07-10"} {
		if !strings.Contains(text, want) {
			t.Fatalf("dashboard missing %q: %s", want, text)
		}
	}
}

func TestServer_DashboardNeedsTwoWorkoutsForProgress(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	insertEntries(t, store, []workout.Entry{
		{Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local), Activity: "Running", Value: 2.5, Unit: "km"},
	})
	ts := newTestServer(t, store, config.Config{})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("request dashboard: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	text := string(body)
	for _, want := range []string{"N/A", "Need more data"} {
		if !strings.Contains(text, want) {
			t.Fatalf("dashboard missing %q for single workout: %s", want, text)
		}
	}
}

func TestServer_DashboardGoalInputPrefilled(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	insertEntries(t, store, seedEntries())
	cfg := config.Config{
		Goals: []config.Goal{{Activity: "Running", Target: 10}},
	}
	ts := newTestServer(t, store, cfg)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("request dashboard: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `name="goal" value="10"`) {
		t.Fatalf("expected configured goal to pre-fill the input: %s", body)
	}

	resp, err = http.Get(ts.URL + "/?goal=7")
	if err != nil {
		t.Fatalf("request dashboard with goal: %v", err)
	}
	defer resp.Body.Close()

	body, _ = io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `name="goal" value="7"`) {
		t.Fatalf("expected query goal to win over configured goal: %s", body)
	}
}

func TestServer_DashboardEmptyState(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ts := newTestServer(t, store, config.Config{})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("request dashboard: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "No workouts logged yet") {
		t.Fatalf("expected empty-state message, got: %s", body)
	}
}

func TestServer_DashboardUnknownActivity(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	insertEntries(t, store, seedEntries())
	ts := newTestServer(t, store, config.Config{})

	resp, err := http.Get(ts.URL + "/?activity=Bogus")
	if err != nil {
		t.Fatalf("request dashboard: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	text := string(body)
	if !strings.Contains(text, "No data found for") || !strings.Contains(text, "Bogus") {
		t.Fatalf("expected no-data message for unknown activity, got: %s", text)
	}
}

func TestServer_LogPageNewestFirst(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	insertEntries(t, store, seedEntries())
	ts := newTestServer(t, store, config.Config{})

	resp, err := http.Get(ts.URL + "/log")
	if err != nil {
		t.Fatalf("request log page: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	text := string(body)
	newest := strings.Index(text, "2025-07-10")
	oldest := strings.Index(text, "2025-07-01")
	if newest < 0 || oldest < 0 {
		t.Fatalf("log page missing entry dates: %s", text)
	}
	if newest > oldest {
		t.Fatalf("expected newest entry before oldest, got positions %d and %d", newest, oldest)
	}
}

func TestServer_AboutPage(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ts := newTestServer(t, store, config.Config{})

	resp, err := http.Get(ts.URL + "/about")
	if err != nil {
		t.Fatalf("request about page: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	text := string(body)
	if !strings.Contains(text, "Fitness Progress Tracker") {
		t.Fatalf("about page missing title: %s", text)
	}
	if !strings.Contains(text, "workouts.csv") {
		t.Fatalf("about page missing data file path: %s", text)
	}
}

func TestServer_FormAppendsWorkout(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	insertEntries(t, store, seedEntries())
	ts := newTestServer(t, store, config.Config{})

	resp, err := noRedirectClient().PostForm(ts.URL+"/workouts", url.Values{
		"date":     {"2025-07-11"},
		"activity": {"running"},
		"value":    {"5"},
		"unit":     {"km"},
	})
	if err != nil {
		t.Fatalf("post workout form: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != "/?activity=Running&logged=1" {
		t.Fatalf("unexpected redirect target: %q", got)
	}

	entries, err := store.List()
	if err != nil {
		t.Fatalf("list workouts: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries after append, got %d", len(entries))
	}
	last := entries[len(entries)-1]
	if last.Activity != "Running" || last.Value != 5 || last.Unit != "km" {
		t.Fatalf("unexpected appended entry: %+v", last)
	}
}

func TestServer_FormDefaultsDateToToday(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ts := newTestServer(t, store, config.Config{})

	resp, err := noRedirectClient().PostForm(ts.URL+"/workouts", url.Values{
		"activity": {"Plank"},
		"value":    {"90"},
		"unit":     {"seconds"},
	})
	if err != nil {
		t.Fatalf("post workout form: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}

	entries, err := store.List()
	if err != nil {
		t.Fatalf("list workouts: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !timeutil.SameDay(entries[0].Date, time.Now()) {
		t.Fatalf("expected entry dated today, got %v", entries[0].Date)
	}
}

func TestServer_FormValidationMessages(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	insertEntries(t, store, seedEntries())
	ts := newTestServer(t, store, config.Config{})

	testCases := []struct {
		name        string
		form        url.Values
		wantMessage string
	}{
		{
			name:        "missing activity",
			form:        url.Values{"value": {"5"}, "unit": {"km"}},
			wantMessage: "Activity and Unit fields cannot be empty.",
		},
		{
			name:        "missing unit",
			form:        url.Values{"activity": {"Running"}, "value": {"5"}},
			wantMessage: "Activity and Unit fields cannot be empty.",
		},
		{
			name:        "value not numeric",
			form:        url.Values{"activity": {"Running"}, "value": {"fast"}, "unit": {"km"}},
			wantMessage: "Value must be a number.",
		},
		{
			name:        "value negative",
			form:        url.Values{"activity": {"Running"}, "value": {"-3"}, "unit": {"km"}},
			wantMessage: "Value must be zero or greater.",
		},
		{
			name:        "bad date",
			form:        url.Values{"date": {"03.07.2025"}, "activity": {"Running"}, "value": {"5"}, "unit": {"km"}},
			wantMessage: "Invalid date format (expected YYYY-MM-DD).",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			resp, err := noRedirectClient().PostForm(ts.URL+"/workouts", tc.form)
			if err != nil {
				t.Fatalf("post workout form: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tc.wantMessage) {
				t.Fatalf("expected message %q in body: %s", tc.wantMessage, body)
			}

			entries, err := store.List()
			if err != nil {
				t.Fatalf("list workouts: %v", err)
			}
			if len(entries) != 3 {
				t.Fatalf("expected rejected form to append nothing, got %d entries", len(entries))
			}
		})
	}
}

func TestServer_ChartServesPNG(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	insertEntries(t, store, seedEntries())
	ts := newTestServer(t, store, config.Config{})

	for _, path := range []string{"/chart/Running", "/chart/Running?goal=5"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("request %s: %v", path, err)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			t.Fatalf("expected 200 for %s, got %d", path, resp.StatusCode)
		}
		if got := resp.Header.Get("Content-Type"); got != "image/png" {
			resp.Body.Close()
			t.Fatalf("expected image/png for %s, got %q", path, got)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if !bytes.HasPrefix(body, pngMagic) {
			t.Fatalf("expected PNG signature for %s, got %d bytes", path, len(body))
		}
	}
}

func TestServer_ChartUnknownActivity(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	insertEntries(t, store, seedEntries())
	ts := newTestServer(t, store, config.Config{})

	resp, err := http.Get(ts.URL + "/chart/Swimming")
	if err != nil {
		t.Fatalf("request chart: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestServer_APIWorkoutsFilterReturnsOnlyMatching(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	insertEntries(t, store, seedEntries())
	ts := newTestServer(t, store, config.Config{})

	resp, err := http.Get(ts.URL + "/api/workouts?activity=Running")
	if err != nil {
		t.Fatalf("request workouts: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out workoutListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode workout list: %v", err)
	}
	if out.Count != 2 || len(out.Workouts) != 2 {
		t.Fatalf("expected 2 running workouts, got %+v", out)
	}
	for _, item := range out.Workouts {
		if item.Activity != "Running" {
			t.Fatalf("expected only Running rows, got %+v", item)
		}
	}
}

func TestServer_APIWorkoutCreateAppends(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	insertEntries(t, store, seedEntries())
	ts := newTestServer(t, store, config.Config{})

	payload := `{"date":"2025-07-12","activity":"rowing","value":2.2,"unit":"km"}`
	resp, err := http.Post(ts.URL+"/api/workouts", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("post workout: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var out workoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode created workout: %v", err)
	}
	if out.Activity != "Rowing" || out.Value != 2.2 {
		t.Fatalf("unexpected created workout: %+v", out)
	}

	entries, err := store.List()
	if err != nil {
		t.Fatalf("list workouts: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries after create, got %d", len(entries))
	}
}

func TestServer_APIWorkoutCreateDefaultsDateToToday(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ts := newTestServer(t, store, config.Config{})

	payload := `{"activity":"Rowing","value":2.2,"unit":"km"}`
	resp, err := http.Post(ts.URL+"/api/workouts", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("post workout: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	entries, err := store.List()
	if err != nil {
		t.Fatalf("list workouts: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !timeutil.SameDay(entries[0].Date, time.Now()) {
		t.Fatalf("expected entry dated today, got %v", entries[0].Date)
	}
}

func TestServer_APIWorkoutCreateRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ts := newTestServer(t, store, config.Config{})

	payload := `{"date":"2025-07-12","activity":"Rowing","value":2.2,"unit":"km","bogus":true}`
	resp, err := http.Post(ts.URL+"/api/workouts", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("post workout: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestServer_APISummaryReportsPeak(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	insertEntries(t, store, seedEntries())
	ts := newTestServer(t, store, config.Config{})

	resp, err := http.Get(ts.URL + "/api/summary/Running")
	if err != nil {
		t.Fatalf("request summary: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if out.PeakValue != 4.5 || out.PeakDate != "2025-07-10" {
		t.Fatalf("unexpected peak: %+v", out)
	}
	if !out.HasChange || out.Change != 2 {
		t.Fatalf("unexpected change: %+v", out)
	}
}

func TestServer_APISummaryUnknownActivity(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	insertEntries(t, store, seedEntries())
	ts := newTestServer(t, store, config.Config{})

	resp, err := http.Get(ts.URL + "/api/summary/Swimming")
	if err != nil {
		t.Fatalf("request summary: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestServer_APIImportSkipsDuplicates(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	insertEntries(t, store, seedEntries())
	ts := newTestServer(t, store, config.Config{})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "tracker.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	content := "date,activity,value,unit\n" +
		"2025-07-01,Running,2.5,km\n" +
		"2025-08-01,Rowing,3,km\n"
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	resp, err := http.Post(ts.URL+"/api/import", writer.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("post import: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, raw)
	}

	var out importResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode import response: %v", err)
	}
	if out.FilesProcessed != 1 || out.RowsRead != 2 || out.RowsMapped != 2 {
		t.Fatalf("unexpected import counts: %+v", out)
	}
	if out.Duplicates != 1 || out.RowsPersisted != 1 {
		t.Fatalf("expected 1 duplicate and 1 persisted row, got %+v", out)
	}

	entries, err := store.List()
	if err != nil {
		t.Fatalf("list workouts: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries after import, got %d", len(entries))
	}
}

func seedEntries() []workout.Entry {
	return []workout.Entry{
		{Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local), Activity: "Running", Value: 2.5, Unit: "km"},
		{Date: time.Date(2025, 7, 2, 0, 0, 0, 0, time.Local), Activity: "Push-ups", Value: 30, Unit: "reps"},
		{Date: time.Date(2025, 7, 10, 0, 0, 0, 0, time.Local), Activity: "Running", Value: 4.5, Unit: "km"},
	}
}

func openTestStore(t *testing.T) *storage.CSVStore {
	t.Helper()

	store, err := storage.OpenCSV(filepath.Join(t.TempDir(), "workouts.csv"), false)
	if err != nil {
		t.Fatalf("open csv store: %v", err)
	}
	return store
}

func insertEntries(t *testing.T, store *storage.CSVStore, entries []workout.Entry) {
	t.Helper()
	inserted, err := store.AppendAll(entries)
	if err != nil {
		t.Fatalf("append workouts: %v", err)
	}
	if inserted != len(entries) {
		t.Fatalf("expected %d appended rows, got %d", len(entries), inserted)
	}
}

func newTestServer(t *testing.T, store *storage.CSVStore, cfg config.Config) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewServer(store, cfg))
	t.Cleanup(ts.Close)
	return ts
}

func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
