// ABOUTME: Web UI server with embedded templates
// ABOUTME: Serves the appointment list, booking forms, dashboard, and graph views
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/apptbase/data"
	"github.com/harperreed/apptbase/forms"
	"github.com/harperreed/apptbase/models"
	"github.com/harperreed/apptbase/query"
	"github.com/harperreed/apptbase/viz"
)

//go:embed templates/*
var templatesFS embed.FS

type Server struct {
	store     *data.Store
	templates *template.Template
	generator *viz.GraphGenerator

	mu         sync.Mutex
	formTokens map[string]struct{}
}

func NewServer(store *data.Store) (*Server, error) {
	// Helper functions for templates
	funcMap := template.FuncMap{
		"contains": func(list []string, s string) bool {
			for _, item := range list {
				if item == s {
					return true
				}
			}
			return false
		},
		"pct": func(count, total int) int {
			if total == 0 {
				return 0
			}
			return count * 100 / total
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		store:      store,
		templates:  tmpl,
		generator:  viz.NewGraphGenerator(store),
		formTokens: make(map[string]struct{}),
	}, nil
}

func (s *Server) Start(port int) error {
	// Routes
	http.HandleFunc("/", s.handleAppointments)
	http.HandleFunc("/refresh", s.handleRefresh)
	http.HandleFunc("/appointments/new", s.handleNew)
	http.HandleFunc("/appointments/edit", s.handleEdit)
	http.HandleFunc("/dashboard", s.handleDashboard)
	http.HandleFunc("/graph", s.handleGraph)

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting web server at http://localhost%s", addr)
	return http.ListenAndServe(addr, nil)
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data map[string]interface{}) {
	err := s.templates.ExecuteTemplate(w, name, data)
	if err != nil {
		log.Printf("Template error rendering %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// renderPage renders the named content block inside the layout, or bare when
// HTMX asked for a partial swap.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, data map[string]interface{}) {
	name, _ := data["ContentTemplate"].(string)
	if r.Header.Get("HX-Request") == "true" {
		s.renderTemplate(w, name, data)
		return
	}
	s.renderTemplate(w, "layout.html", data)
}

// redirect navigates the full window even when the request came in through an
// HTMX form swap.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, to string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// issueToken mints a one-shot form token.
func (s *Server) issueToken() string {
	token := uuid.NewString()
	s.mu.Lock()
	s.formTokens[token] = struct{}{}
	s.mu.Unlock()
	return token
}

// consumeToken burns a one-shot form token. The second submit of the same
// form misses the map and must not create a second record.
func (s *Server) consumeToken(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.formTokens[token]; !ok {
		return false
	}
	delete(s.formTokens, token)
	return true
}

// currentSnapshot returns the cached snapshot, fetching once when the server
// has never loaded. A failed fetch degrades to an empty snapshot plus a flash
// message; pages still render.
func (s *Server) currentSnapshot(ctx context.Context) (*data.Snapshot, string) {
	if snap, ok := s.store.Snapshot(); ok {
		return snap, ""
	}
	snap, err := s.store.Refresh(ctx)
	if err != nil {
		log.Printf("Refresh failed: %v", err)
		return &data.Snapshot{}, "Could not reach the record store. Showing an empty schedule until the next refresh."
	}
	return snap, ""
}

func (s *Server) ensureDirectory(ctx context.Context) error {
	if len(s.store.Contacts()) > 0 && len(s.store.Agents()) > 0 {
		return nil
	}
	return s.store.RefreshDirectory(ctx)
}

// filterView carries the raw filter inputs back into the form fields.
type filterView struct {
	Status string
	Agents []string
	Query  string
	From   string
	To     string
	Sort   string
}

type statusTab struct {
	Label  string
	URL    string
	Count  int
	Active bool
}

type appointmentRow struct {
	ID          string
	Date        string
	Status      models.Status
	StatusClass string
	Address     string
	Contact     string
	Agents      string
}

type listView struct {
	Rows        []appointmentRow
	TotalItems  int
	TotalPages  int
	CurrentPage int
	HasPrev     bool
	HasNext     bool
	PrevURL     string
	NextURL     string
}

type option struct {
	ID   string
	Name string
}

var statusClasses = map[models.Status]string{
	models.StatusUpcoming:  "text-green-600",
	models.StatusCompleted: "text-gray-500",
	models.StatusCancelled: "text-red-600",
}

// parseFilter reads the list filters out of a query string or form body.
// Unknown statuses and unparseable dates read as no filter.
func parseFilter(values url.Values) (filterView, query.Spec) {
	f := filterView{
		Status: values.Get("status"),
		Agents: values["agent"],
		Query:  values.Get("q"),
		From:   values.Get("from"),
		To:     values.Get("to"),
		Sort:   values.Get("sort"),
	}

	status, ok := models.ParseStatus(f.Status)
	if !ok {
		status = models.StatusAll
		f.Status = ""
	}

	spec := query.Spec{
		Status:     status,
		AgentNames: f.Agents,
		Text:       f.Query,
		Sort:       query.ParseOrder(f.Sort),
		Page:       1,
	}
	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		spec.Page = page
	}
	if f.From != "" {
		if parsed, err := forms.ParseDate(f.From); err == nil {
			spec.From = parsed
		}
	}
	if f.To != "" {
		if parsed, err := forms.ParseDate(f.To); err == nil {
			spec.To = parsed
		}
	}
	return f, spec
}

// pageURL rebuilds the list URL with the given page, carrying every filter.
// The filter form itself has no page field, so submitting it lands on page 1.
func pageURL(f filterView, page int) string {
	v := url.Values{}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	for _, a := range f.Agents {
		v.Add("agent", a)
	}
	if f.Query != "" {
		v.Set("q", f.Query)
	}
	if f.From != "" {
		v.Set("from", f.From)
	}
	if f.To != "" {
		v.Set("to", f.To)
	}
	if f.Sort != "" {
		v.Set("sort", f.Sort)
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

func buildTabs(f filterView, counts map[models.Status]int) []statusTab {
	tabs := make([]statusTab, 0, 4)
	for _, status := range models.Statuses() {
		tabFilter := f
		tabFilter.Status = string(status)
		if status == models.StatusAll {
			tabFilter.Status = ""
		}
		tabs = append(tabs, statusTab{
			Label:  string(status),
			URL:    pageURL(tabFilter, 1),
			Count:  counts[status],
			Active: f.Status == tabFilter.Status,
		})
	}
	return tabs
}

func buildListView(result query.Result, now time.Time, f filterView) listView {
	rows := make([]appointmentRow, 0, len(result.Items))
	for _, appt := range result.Items {
		status := appt.StatusAt(now)
		rows = append(rows, appointmentRow{
			ID:          appt.ID,
			Date:        appt.Date.Local().Format("2006-01-02 15:04"),
			Status:      status,
			StatusClass: statusClasses[status],
			Address:     appt.Address,
			Contact:     appt.Contact.Name,
			Agents:      strings.Join(appt.AgentNames(), ", "),
		})
	}

	view := listView{
		Rows:        rows,
		TotalItems:  result.TotalItems,
		TotalPages:  result.TotalPages,
		CurrentPage: result.CurrentPage,
		HasPrev:     result.CurrentPage > 1,
		HasNext:     result.CurrentPage < result.TotalPages,
	}
	if view.HasPrev {
		view.PrevURL = pageURL(f, result.CurrentPage-1)
	}
	if view.HasNext {
		view.NextURL = pageURL(f, result.CurrentPage+1)
	}
	return view
}

func agentOptions(agents []models.Agent) []option {
	out := make([]option, 0, len(agents))
	for i := range agents {
		out = append(out, option{ID: agents[i].ID, Name: agents[i].FullName()})
	}
	return out
}

func contactOptions(contacts []models.Contact) []option {
	out := make([]option, 0, len(contacts))
	for i := range contacts {
		out = append(out, option{ID: contacts[i].ID, Name: contacts[i].FullName()})
	}
	return out
}

// listData assembles everything the list page and its partial render from.
// Filtering and pagination run locally over the snapshot; no remote call
// happens here.
func (s *Server) listData(ctx context.Context, values url.Values, flash string) map[string]interface{} {
	f, spec := parseFilter(values)
	snap, snapFlash := s.currentSnapshot(ctx)
	if flash == "" {
		flash = snapFlash
	}

	now := time.Now()
	result := query.Run(snap.Appointments, now, spec)
	counts := query.StatusCounts(snap.Appointments, now)

	fetched := "never"
	if !snap.FetchedAt.IsZero() {
		fetched = snap.FetchedAt.Local().Format("15:04:05")
	}

	return map[string]interface{}{
		"Title":     "Appointments",
		"Flash":     flash,
		"Filter":    f,
		"Tabs":      buildTabs(f, counts),
		"Agents":    agentOptions(s.store.Agents()),
		"List":      buildListView(result, now, f),
		"FetchedAt": fetched,
	}
}

func (s *Server) handleAppointments(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := s.listData(r.Context(), r.URL.Query(), "")
	data["ContentTemplate"] = "appointments-content"
	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_ = r.ParseForm()

	flash := ""
	if _, err := s.store.Refresh(r.Context()); err != nil {
		log.Printf("Refresh failed: %v", err)
		flash = "Refresh failed. Showing the last loaded schedule."
	}

	data := s.listData(r.Context(), r.Form, flash)
	s.renderTemplate(w, "appointment-list", data)
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	if err := s.ensureDirectory(r.Context()); err != nil {
		log.Printf("Directory load failed: %v", err)
	}

	switch r.Method {
	case http.MethodGet:
		s.renderCreateForm(w, r, &forms.CreateForm{}, forms.Errors{}, s.issueToken(), "")
	case http.MethodPost:
		s.handleCreate(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderCreateForm(w http.ResponseWriter, r *http.Request, form *forms.CreateForm, errs forms.Errors, token, flash string) {
	data := map[string]interface{}{
		"Title":           "New appointment",
		"Flash":           flash,
		"Form":            form,
		"Errors":          errs,
		"Token":           token,
		"Contacts":        contactOptions(s.store.Contacts()),
		"Agents":          agentOptions(s.store.Agents()),
		"ContentTemplate": "appointment-new-content",
	}
	s.renderPage(w, r, data)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := &forms.CreateForm{
		ContactID: r.PostFormValue("contact"),
		Address:   r.PostFormValue("address"),
		Date:      r.PostFormValue("date"),
		AgentIDs:  r.PostForm["agents"],
	}
	token := r.PostFormValue("token")

	date, errs := form.Validate(time.Now())
	if errs.Any() {
		// The same token goes back out: fixing a field must not burn the submit
		s.renderCreateForm(w, r, form, errs, token, "")
		return
	}

	if !s.consumeToken(token) {
		// Second submit of the same form; the first one already created
		s.redirect(w, r, "/")
		return
	}

	if _, err := s.store.CreateAppointment(r.Context(), date, form.Address, form.ContactID, form.CleanAgentIDs()); err != nil {
		log.Printf("Create failed: %v", err)
		s.renderCreateForm(w, r, form, forms.Errors{}, s.issueToken(), "Could not save the appointment. Try again.")
		return
	}

	s.redirect(w, r, "/")
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	_, flash := s.currentSnapshot(r.Context())

	switch r.Method {
	case http.MethodGet:
		id := r.URL.Query().Get("id")
		appt, found := s.store.AppointmentByID(id)
		if !found {
			http.Error(w, "Appointment not found", http.StatusNotFound)
			return
		}

		now := time.Now()
		form := &forms.EditForm{
			ID:       appt.ID,
			Address:  appt.Address,
			Date:     forms.InputValue(appt.Date),
			Status:   string(appt.StatusAt(now)),
			AgentIDs: appt.AgentIDs(),
		}
		s.renderEditForm(w, r, form, forms.Errors{}, flash)
	case http.MethodPost:
		s.handleUpdate(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderEditForm(w http.ResponseWriter, r *http.Request, form *forms.EditForm, errs forms.Errors, flash string) {
	data := map[string]interface{}{
		"Title":           "Edit appointment",
		"Flash":           flash,
		"Form":            form,
		"Errors":          errs,
		"Agents":          agentOptions(s.store.Agents()),
		"StatusOptions":   []string{string(models.StatusUpcoming), string(models.StatusCompleted), string(models.StatusCancelled)},
		"ContentTemplate": "appointment-edit-content",
	}
	s.renderPage(w, r, data)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	id := r.PostFormValue("id")
	appt, found := s.store.AppointmentByID(id)
	if !found {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return
	}

	form := &forms.EditForm{
		ID:       id,
		Address:  r.PostFormValue("address"),
		Date:     r.PostFormValue("date"),
		Status:   r.PostFormValue("status"),
		AgentIDs: r.PostForm["agents"],
	}

	now := time.Now()
	// Keeping the stored status while moving the date lets the boundary
	// auto-adjust kick in; an explicit status choice sticks
	if form.Status == string(appt.StatusAt(now)) {
		if moved, err := forms.ParseDate(form.Date); err == nil {
			form.Status = string(forms.NormalizeStatus(appt.StatusAt(now), moved, now))
		}
	}

	date, status, errs := form.Validate(now)
	if errs.Any() {
		s.renderEditForm(w, r, form, errs, "")
		return
	}

	changes := form.Changes(appt, date, status)
	if !changes.Changed() {
		s.redirect(w, r, "/")
		return
	}

	if _, err := s.store.UpdateAppointment(r.Context(), id, changes); err != nil {
		log.Printf("Update failed: %v", err)
		s.renderEditForm(w, r, form, forms.Errors{}, "Could not save the changes. Try again.")
		return
	}

	s.redirect(w, r, "/")
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, flash := s.currentSnapshot(r.Context())
	stats := viz.BuildDashboardStats(snap.Appointments, time.Now())

	data := map[string]interface{}{
		"Title":           "Dashboard",
		"Flash":           flash,
		"Stats":           stats,
		"ContentTemplate": "dashboard-content",
	}
	s.renderPage(w, r, data)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	status, ok := models.ParseStatus(r.URL.Query().Get("status"))
	if !ok {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}

	svg, err := s.generator.ScheduleGraphSVG(r.Context(), status)
	if err != nil {
		log.Printf("Graph render failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	statuses := make([]string, 0, 4)
	for _, st := range models.Statuses() {
		statuses = append(statuses, string(st))
	}

	data := map[string]interface{}{
		"Title":           "Booking network",
		"Status":          string(status),
		"Statuses":        statuses,
		"SVG":             template.HTML(svg),
		"ContentTemplate": "graph-content",
	}
	s.renderPage(w, r, data)
}
