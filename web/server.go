// Package web serves a localhost-only single-user UI; it intentionally has no
// auth/CSRF protection in this mode.
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fitlog/config"
	"fitlog/importer"
	"fitlog/internal/classify"
	"fitlog/internal/timeutil"
	"fitlog/output"
	"fitlog/storage"
	"fitlog/workout"

	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

type Server struct {
	store *storage.CSVStore
	cfg   config.Config
	mux   *http.ServeMux
}

// formState carries the sidebar form back to the page, including the
// submitted values when validation fails.
type formState struct {
	Date     string
	Activity string
	Value    string
	Unit     string
	Error    string
	Success  string
}

type dashboardPageView struct {
	Title      string
	Active     string
	Form       formState
	Activities []string
	Selected   string
	Goal       string
	ChartURL   string
	HasData    bool
	Summary    output.ActivitySummary
}

type logPageView struct {
	Title  string
	Active string
	Form   formState
	Rows   []LogRow
}

type aboutPageView struct {
	Title    string
	Active   string
	Form     formState
	DataFile string
}

type workoutMutationRequest struct {
	Date     string  `json:"date"`
	Activity string  `json:"activity"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit"`
}

type workoutResponse struct {
	Date     string  `json:"date"`
	Activity string  `json:"activity"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit"`
}

type workoutListResponse struct {
	Workouts []workoutResponse `json:"workouts"`
	Count    int               `json:"count"`
}

type activityListResponse struct {
	Activities []string `json:"activities"`
}

type summaryResponse struct {
	Activity    string  `json:"activity"`
	Unit        string  `json:"unit"`
	Workouts    int     `json:"workouts"`
	PeakValue   float64 `json:"peakValue"`
	PeakDate    string  `json:"peakDate"`
	LatestValue float64 `json:"latestValue"`
	LatestDate  string  `json:"latestDate"`
	FirstValue  float64 `json:"firstValue"`
	FirstDate   string  `json:"firstDate"`
	Change      float64 `json:"change"`
	HasChange   bool    `json:"hasChange"`
}

type importResponse struct {
	FilesProcessed int `json:"filesProcessed"`
	RowsRead       int `json:"rowsRead"`
	RowsMapped     int `json:"rowsMapped"`
	RowsSkipped    int `json:"rowsSkipped"`
	Duplicates     int `json:"duplicates"`
	RowsPersisted  int `json:"rowsPersisted"`
}

func NewServer(store *storage.CSVStore, cfg config.Config) http.Handler {
	server := &Server{
		store: store,
		cfg:   cfg,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", server.handleDashboard)
	mux.HandleFunc("GET /log", server.handleLog)
	mux.HandleFunc("GET /about", server.handleAbout)
	mux.HandleFunc("POST /workouts", server.handleWorkoutForm)
	mux.HandleFunc("GET /chart/{activity}", server.handleChart)
	mux.HandleFunc("GET /api/workouts", server.handleAPIWorkoutList)
	mux.HandleFunc("POST /api/workouts", server.handleAPIWorkoutCreate)
	mux.HandleFunc("GET /api/activities", server.handleAPIActivities)
	mux.HandleFunc("GET /api/summary/{activity}", server.handleAPISummary)
	mux.HandleFunc("POST /api/import", server.handleAPIImport)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List()
	if err != nil {
		log.Errorf("failed to load workouts: %s", err)
		http.Error(w, fmt.Sprintf("load workouts: %v", err), http.StatusInternalServerError)
		return
	}

	view := s.dashboardView(
		entries,
		strings.TrimSpace(r.URL.Query().Get("activity")),
		strings.TrimSpace(r.URL.Query().Get("goal")),
	)
	if r.URL.Query().Get("logged") == "1" {
		view.Form.Success = "Workout logged successfully!"
	}

	if err := renderTemplate(w, "dashboard.html", view); err != nil {
		log.Errorf("failed to render dashboard: %s", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) dashboardView(entries []workout.Entry, selected, goalRaw string) dashboardPageView {
	names := workout.Activities(entries)
	if selected == "" && len(names) > 0 {
		selected = names[0]
	}

	// The query parameter wins; otherwise the configured goal for the
	// selected activity pre-fills the input, matching the chart endpoint.
	goal := goalRaw
	if goal == "" {
		if target, ok := s.cfg.GoalForActivity(selected); ok {
			goal = formatValue(target)
		}
	}

	view := dashboardPageView{
		Title:      "fitlog - dashboard",
		Active:     "dashboard",
		Form:       defaultForm(),
		Activities: names,
		Selected:   selected,
		Goal:       goal,
	}

	summary, ok := output.SummarizeActivity(selected, entries)
	if !ok {
		return view
	}
	view.HasData = true
	view.Summary = summary

	chartURL := "/chart/" + url.PathEscape(selected)
	if goalRaw != "" {
		chartURL += "?goal=" + url.QueryEscape(goalRaw)
	}
	view.ChartURL = chartURL
	return view
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List()
	if err != nil {
		log.Errorf("failed to load workouts: %s", err)
		http.Error(w, fmt.Sprintf("load workouts: %v", err), http.StatusInternalServerError)
		return
	}

	view := logPageView{
		Title:  "fitlog - full log",
		Active: "log",
		Form:   defaultForm(),
		Rows:   BuildLogRows(entries),
	}
	if err := renderTemplate(w, "log.html", view); err != nil {
		log.Errorf("failed to render log page: %s", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	view := aboutPageView{
		Title:    "fitlog - about",
		Active:   "about",
		Form:     defaultForm(),
		DataFile: s.store.Path(),
	}
	if err := renderTemplate(w, "about.html", view); err != nil {
		log.Errorf("failed to render about page: %s", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleWorkoutForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, fmt.Sprintf("parse form: %v", err), http.StatusBadRequest)
		return
	}

	form := formState{
		Date:     strings.TrimSpace(r.PostFormValue("date")),
		Activity: strings.TrimSpace(r.PostFormValue("activity")),
		Value:    strings.TrimSpace(r.PostFormValue("value")),
		Unit:     strings.TrimSpace(r.PostFormValue("unit")),
	}

	entry, message := buildEntryFromForm(form)
	if message != "" {
		entries, err := s.store.List()
		if err != nil {
			log.Errorf("failed to load workouts: %s", err)
			http.Error(w, fmt.Sprintf("load workouts: %v", err), http.StatusInternalServerError)
			return
		}
		view := s.dashboardView(entries, "", "")
		form.Error = message
		view.Form = form

		w.WriteHeader(http.StatusBadRequest)
		if err := renderTemplate(w, "dashboard.html", view); err != nil {
			log.Errorf("failed to render dashboard: %s", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	if err := s.store.Append(entry); err != nil {
		log.Errorf("failed to append workout [%s]: %s", entry.Activity, err)
		http.Error(w, fmt.Sprintf("append workout: %v", err), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/?activity="+url.QueryEscape(entry.Activity)+"&logged=1", http.StatusSeeOther)
}

// buildEntryFromForm validates the sidebar form and returns either an entry
// ready to append or a user-facing message. An empty date means today.
func buildEntryFromForm(form formState) (workout.Entry, string) {
	if form.Activity == "" || form.Unit == "" {
		return workout.Entry{}, "Activity and Unit fields cannot be empty."
	}

	value, err := strconv.ParseFloat(form.Value, 64)
	if err != nil {
		return workout.Entry{}, "Value must be a number."
	}
	if value < 0 {
		return workout.Entry{}, "Value must be zero or greater."
	}

	day := timeutil.StartOfDay(time.Now())
	if form.Date != "" {
		parsed, err := timeutil.ParseDay(form.Date)
		if err != nil {
			return workout.Entry{}, "Invalid date format (expected YYYY-MM-DD)."
		}
		day = parsed
	}

	return workout.Entry{
		Date:     day,
		Activity: workout.NormalizeActivity(form.Activity),
		Value:    value,
		Unit:     form.Unit,
	}, ""
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	activity := strings.TrimSpace(r.PathValue("activity"))

	entries, err := s.store.List()
	if err != nil {
		log.Errorf("failed to load workouts for chart [%s]: %s", activity, err)
		http.Error(w, fmt.Sprintf("load workouts: %v", err), http.StatusInternalServerError)
		return
	}

	matching := workout.FilterByActivity(entries, activity)
	if len(matching) == 0 {
		http.Error(w, fmt.Sprintf("no workouts found for activity %q", activity), http.StatusNotFound)
		return
	}

	png, err := renderProgressPNG(activity, matching, s.goalFor(activity, r.URL.Query().Get("goal")))
	if err != nil {
		log.Errorf("failed to render chart [%s]: %s", activity, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// goalFor resolves the target line for a chart. The query parameter wins over
// the configured goal; zero or negative hides the line entirely.
func (s *Server) goalFor(activity, override string) float64 {
	if raw := strings.TrimSpace(override); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err == nil {
			return parsed
		}
		log.Tracef("goal override %q ignored: %s", raw, err)
	}
	if target, ok := s.cfg.GoalForActivity(activity); ok {
		return target
	}
	return 0
}

func (s *Server) handleAPIWorkoutList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List()
	if err != nil {
		log.Errorf("failed to list workouts: %s", err)
		http.Error(w, fmt.Sprintf("load workouts: %v", err), http.StatusInternalServerError)
		return
	}
	if activity := strings.TrimSpace(r.URL.Query().Get("activity")); activity != "" {
		entries = workout.FilterByActivity(entries, activity)
	}

	resp := workoutListResponse{
		Workouts: make([]workoutResponse, 0, len(entries)),
		Count:    len(entries),
	}
	for _, entry := range entries {
		resp.Workouts = append(resp.Workouts, toWorkoutResponse(entry))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPIWorkoutCreate(w http.ResponseWriter, r *http.Request) {
	var body workoutMutationRequest
	if err := decodeJSON(r, &body); err != nil {
		log.Tracef("create workout, decode json body: %s", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := buildEntryFromMutation(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.store.Append(entry); err != nil {
		log.Errorf("failed to append workout [%s]: %s", entry.Activity, err)
		http.Error(w, fmt.Sprintf("append workout: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkoutResponse(entry))
}

func (s *Server) handleAPIActivities(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List()
	if err != nil {
		log.Errorf("failed to load activities: %s", err)
		http.Error(w, fmt.Sprintf("load workouts: %v", err), http.StatusInternalServerError)
		return
	}

	names := workout.Activities(entries)
	if names == nil {
		names = make([]string, 0)
	}
	writeJSON(w, http.StatusOK, activityListResponse{Activities: names})
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	activity := strings.TrimSpace(r.PathValue("activity"))

	entries, err := s.store.List()
	if err != nil {
		log.Errorf("failed to load workouts for summary [%s]: %s", activity, err)
		http.Error(w, fmt.Sprintf("load workouts: %v", err), http.StatusInternalServerError)
		return
	}

	summary, ok := output.SummarizeActivity(activity, entries)
	if !ok {
		http.Error(w, fmt.Sprintf("no workouts found for activity %q", activity), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

func (s *Server) handleAPIImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("parse multipart form: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	mapperName := strings.TrimSpace(r.FormValue("mapper"))
	if mapperName == "" {
		mapperName = "workouts"
	}
	mapper, err := importer.MapperByName(mapperName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tmp, err := os.CreateTemp("", tempUploadPattern(header.Filename))
	if err != nil {
		log.Errorf("failed to create temp upload file: %s", err)
		http.Error(w, fmt.Sprintf("create temp upload: %v", err), http.StatusInternalServerError)
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		log.Errorf("failed to save upload [%s]: %s", header.Filename, err)
		http.Error(w, fmt.Sprintf("save upload: %v", err), http.StatusInternalServerError)
		return
	}
	if err := tmp.Close(); err != nil {
		log.Errorf("failed to close upload temp file: %s", err)
		http.Error(w, fmt.Sprintf("close upload temp file: %v", err), http.StatusInternalServerError)
		return
	}

	result, err := importer.Run(
		[]string{tmpPath},
		strings.TrimSpace(r.FormValue("format")),
		mapper,
		s.cfg,
		importer.RunOptions{
			Activity: strings.TrimSpace(r.FormValue("activity")),
			Unit:     strings.TrimSpace(r.FormValue("unit")),
		},
	)
	if err != nil {
		log.Tracef("import run failed [%s]: %s", header.Filename, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	existing, err := s.store.List()
	if err != nil {
		log.Errorf("failed to load existing workouts: %s", err)
		http.Error(w, fmt.Sprintf("load workouts: %v", err), http.StatusInternalServerError)
		return
	}
	toAdd, duplicates := classify.ClassifyImportEntries(result.Entries, existing)

	inserted, err := s.store.AppendAll(toAdd)
	if err != nil {
		log.Errorf("failed to append imported workouts: %s", err)
		http.Error(w, fmt.Sprintf("append imported workouts: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, importResponse{
		FilesProcessed: result.FilesProcessed,
		RowsRead:       result.RowsRead,
		RowsMapped:     result.RowsMapped,
		RowsSkipped:    result.RowsSkipped,
		Duplicates:     duplicates,
		RowsPersisted:  inserted,
	})
}

// buildEntryFromMutation validates an API create body. Like the form, an
// empty date means today.
func buildEntryFromMutation(body workoutMutationRequest) (workout.Entry, error) {
	day := timeutil.StartOfDay(time.Now())
	if strings.TrimSpace(body.Date) != "" {
		parsed, err := timeutil.ParseDay(strings.TrimSpace(body.Date))
		if err != nil {
			return workout.Entry{}, fmt.Errorf("invalid date format (expected YYYY-MM-DD)")
		}
		day = parsed
	}

	entry := workout.Entry{
		Date:     day,
		Activity: workout.NormalizeActivity(body.Activity),
		Value:    body.Value,
		Unit:     strings.TrimSpace(body.Unit),
	}
	if err := entry.Validate(); err != nil {
		return workout.Entry{}, err
	}
	return entry, nil
}

func toWorkoutResponse(entry workout.Entry) workoutResponse {
	return workoutResponse{
		Date:     timeutil.FormatDay(entry.Date),
		Activity: entry.Activity,
		Value:    entry.Value,
		Unit:     entry.Unit,
	}
}

func toSummaryResponse(summary output.ActivitySummary) summaryResponse {
	return summaryResponse{
		Activity:    summary.Activity,
		Unit:        summary.Unit,
		Workouts:    summary.Workouts,
		PeakValue:   summary.PeakValue,
		PeakDate:    timeutil.FormatDay(summary.PeakDate),
		LatestValue: summary.LatestValue,
		LatestDate:  timeutil.FormatDay(summary.LatestDate),
		FirstValue:  summary.FirstValue,
		FirstDate:   timeutil.FormatDay(summary.FirstDate),
		Change:      summary.Change,
		HasChange:   summary.HasChange,
	}
}

func defaultForm() formState {
	return formState{Date: timeutil.FormatDay(time.Now())}
}

func renderTemplate(w http.ResponseWriter, pageTemplate string, data any) error {
	tmpl, err := template.New("base.html").Funcs(template.FuncMap{
		"fmtValue": func(value float64) string {
			return fmt.Sprintf("%.2f", value)
		},
		"fmtChange": func(value float64) string {
			return fmt.Sprintf("%+.2f", value)
		},
		"fmtDay": timeutil.FormatDay,
	}).ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}
	return nil
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func tempUploadPattern(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." {
		return "upload-*"
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = "upload"
	}
	if ext == "" {
		return stem + "-*"
	}
	return stem + "-*" + ext
}
