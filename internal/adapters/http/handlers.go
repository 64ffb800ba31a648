package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"wellness/internal/adapters/http/middleware"
	"wellness/internal/application/orchestrators"
	"wellness/internal/application/projections"
	"wellness/internal/domain/account"
	"wellness/internal/domain/selection"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set),
// preventing XSS through record notes.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts a record note to sanitized HTML.
func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTMLEscapeString(md)
	}
	return buf.String()
}

// internalError logs the real error and returns a generic message to
// the client, preventing leaking internal details.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", handleLogin)
	mux.HandleFunc("POST /api/logout", handleLogout)
	mux.HandleFunc("GET /api/session", handleSession)

	mux.Handle("GET /api/form-context", middleware.RequireAuth(http.HandlerFunc(handleFormContext)))
	mux.Handle("POST /api/records/check-in", middleware.RequireAuth(http.HandlerFunc(handleCheckIn)))
	mux.Handle("POST /api/records/check-out", middleware.RequireAuth(http.HandlerFunc(handleCheckOut)))
	mux.Handle("GET /api/records", middleware.RequireAuth(http.HandlerFunc(handleRecordLog)))
	mux.Handle("POST /api/records/delete",
		middleware.RequireRole(account.RoleAdmin, account.RoleDeveloper)(http.HandlerFunc(handleDeleteRecords)))
	mux.Handle("GET /api/catalogs/{name}", middleware.RequireAuth(http.HandlerFunc(handleCatalog)))
}

// handleLogin authenticates and establishes the cookie-backed session.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	sc, ok := middleware.GetSessionContext(r.Context())
	if !ok {
		internalError(w, errors.New("no session context"))
		return
	}

	var input orchestrators.LoginInput
	if err := strictDecode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
		AccountStore: stores.AccountStore,
		Tokens:       sessionCodec,
		Jar:          sc.Jar,
		State:        sc.State,
		AppName:      appConfig.AppName,
	})
	switch {
	case err == nil:
	case errors.Is(err, orchestrators.ErrInvalidCredentials),
		errors.Is(err, orchestrators.ErrAccountDisabled):
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, orchestrators.ErrAccessDenied):
		writeError(w, http.StatusForbidden, err.Error())
		return
	default:
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"username": result.Username,
		"role":     result.Role,
		"name":     result.Name,
	})
}

// handleLogout tears the session down; always succeeds for the client.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	sc, ok := middleware.GetSessionContext(r.Context())
	if !ok {
		internalError(w, errors.New("no session context"))
		return
	}
	orchestrators.ExecuteLogout(r.Context(), orchestrators.LogoutDeps{Jar: sc.Jar, State: sc.State})
	writeJSON(w, http.StatusOK, map[string]bool{"logged_out": true})
}

// handleSession reports the resolved auth state of this request.
func handleSession(w http.ResponseWriter, r *http.Request) {
	sc, ok := middleware.GetSessionContext(r.Context())
	if !ok || !sc.State.IsLoggedIn {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"username":      sc.State.Username,
		"role":          sc.State.Role,
		"name":          sc.State.Name,
		"expires_at":    sc.State.ExpiresAt,
	})
}

// formContextResponse is the payload a wellness form renders from.
type formContextResponse struct {
	Athletes []formAthlete `json:"athletes"`
	Selected string        `json:"selected"`
	Reset    bool          `json:"reset"`
}

type formAthlete struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// handleFormContext computes the eligible athletes for a form context
// and reconciles the locked selection against them in one round trip.
func handleFormContext(w http.ResponseWriter, r *http.Request) {
	sc, _ := middleware.GetSessionContext(r.Context())
	q := r.URL.Query()

	action := q.Get("action")
	if action != selection.ActionCheckIn && action != selection.ActionCheckOut {
		writeError(w, http.StatusBadRequest, "action must be check-in or check-out")
		return
	}

	eligible, err := projections.QueryGetEligibleAthletes(r.Context(), projections.GetEligibleAthletesQuery{
		Roster:      q.Get("roster"),
		SessionDate: q.Get("date"),
		Shift:       q.Get("shift"),
		Action:      action,
		ActorRole:   sc.State.Role,
	}, projections.GetEligibleAthletesDeps{
		AthleteStore: stores.AthleteStore,
		AbsenceStore: stores.AbsenceStore,
		RecordStore:  stores.RecordStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	response := formContextResponse{Athletes: make([]formAthlete, 0, len(eligible))}
	for _, a := range eligible {
		response.Athletes = append(response.Athletes, formAthlete{ID: a.ID, Name: a.FullName()})
	}

	result, err := orchestrators.ExecuteReconcileSelection(r.Context(), orchestrators.ReconcileSelectionInput{
		Key: selection.Key{
			SessionID: sc.State.SessionID,
			Roster:    q.Get("roster"),
			Action:    action,
			Shift:     q.Get("shift"),
		},
		Candidates:  eligible,
		RequestedID: q.Get("selected"),
	}, orchestrators.ReconcileSelectionDeps{Locks: selectionLocks})
	switch {
	case err == nil:
		response.Selected = result.Selected.ID
		response.Reset = result.Reset
	case errors.Is(err, orchestrators.ErrNoEligibleAthletes):
		// An empty form is a normal state, not an error.
	default:
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// handleCheckIn records a pre-session wellness form.
func handleCheckIn(w http.ResponseWriter, r *http.Request) {
	sc, _ := middleware.GetSessionContext(r.Context())

	var input orchestrators.SubmitCheckInInput
	if err := strictDecode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := orchestrators.ExecuteSubmitCheckIn(r.Context(), input, orchestrators.SubmitCheckInDeps{
		RecordStore: stores.RecordStore,
		ActorEmail:  sc.State.Username,
		ActorRole:   sc.State.Role,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"recorded": true})
}

// handleCheckOut closes an open record with the post-session fields.
func handleCheckOut(w http.ResponseWriter, r *http.Request) {
	sc, _ := middleware.GetSessionContext(r.Context())

	var input orchestrators.SubmitCheckOutInput
	if err := strictDecode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := orchestrators.ExecuteSubmitCheckOut(r.Context(), input, orchestrators.SubmitCheckOutDeps{
		RecordStore: stores.RecordStore,
		ActorEmail:  sc.State.Username,
		ActorRole:   sc.State.Role,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"closed": true})
	case errors.Is(err, orchestrators.ErrNoPriorCheckIn):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	}
}

// recordLogEntry is one hydrated record for the log view.
type recordLogEntry struct {
	ID          int64    `json:"id"`
	Athlete     string   `json:"athlete"`
	SessionDate string   `json:"session_date"`
	Shift       string   `json:"shift"`
	Kind        string   `json:"kind"`
	Status      int      `json:"status"`
	Recovery    int      `json:"recovery"`
	Fatigue     int      `json:"fatigue"`
	Sleep       int      `json:"sleep"`
	Stress      int      `json:"stress"`
	Pain        int      `json:"pain"`
	PainZones   []string `json:"pain_zones,omitempty"`
	Segment     string   `json:"segment,omitempty"`
	LoadType    string   `json:"load_type,omitempty"`
	RehabType   string   `json:"rehab_type,omitempty"`
	Condition   string   `json:"condition,omitempty"`
	Minutes     int      `json:"session_minutes,omitempty"`
	RPE         int      `json:"rpe,omitempty"`
	Load        int      `json:"internal_load,omitempty"`
	NoteHTML    string   `json:"note_html,omitempty"`
	RecordedBy  string   `json:"recorded_by"`
}

// handleRecordLog lists the actor partition's records, newest first.
func handleRecordLog(w http.ResponseWriter, r *http.Request) {
	sc, _ := middleware.GetSessionContext(r.Context())

	result, err := projections.QueryGetRecordLog(r.Context(), projections.GetRecordLogQuery{
		ActorRole: sc.State.Role,
	}, projections.GetRecordLogDeps{
		RecordStore:  stores.RecordStore,
		AthleteStore: stores.AthleteStore,
		CatalogStore: stores.CatalogStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	entries := make([]recordLogEntry, 0, len(result.Entries))
	for _, e := range result.Entries {
		entry := recordLogEntry{
			ID:          e.Record.ID,
			Athlete:     e.AthleteName,
			SessionDate: e.Record.SessionDate,
			Shift:       e.Record.Shift,
			Kind:        e.Record.Kind,
			Status:      e.Record.Status,
			Recovery:    e.Record.Recovery,
			Fatigue:     e.Record.Fatigue,
			Sleep:       e.Record.Sleep,
			Stress:      e.Record.Stress,
			Pain:        e.Record.Pain,
			PainZones:   e.PainZoneNames,
			Segment:     e.SegmentName,
			LoadType:    e.LoadTypeName,
			RehabType:   e.RehabTypeName,
			Condition:   e.ConditionName,
			Minutes:     e.Record.SessionMinutes,
			RPE:         e.Record.RPE,
			Load:        e.Record.InternalLoad,
			RecordedBy:  e.Record.RecordedBy,
		}
		if e.Record.Note != "" {
			entry.NoteHTML = renderMarkdown(e.Record.Note)
		}
		entries = append(entries, entry)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"partition": result.Partition,
		"records":   entries,
	})
}

// handleDeleteRecords soft-deletes a batch of records.
func handleDeleteRecords(w http.ResponseWriter, r *http.Request) {
	sc, _ := middleware.GetSessionContext(r.Context())

	var input orchestrators.SoftDeleteRecordsInput
	if err := strictDecode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := orchestrators.ExecuteSoftDeleteRecords(r.Context(), input, orchestrators.SoftDeleteRecordsDeps{
		RecordStore: stores.RecordStore,
		ActorEmail:  sc.State.Username,
	})
	switch {
	case err == nil:
	case errors.Is(err, orchestrators.ErrNoRecordsSelected):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	default:
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"deleted": result.Deleted,
		"message": result.Message,
	})
}

// handleCatalog lists one lookup catalog for form selects.
func handleCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := stores.CatalogStore.ListByCatalog(r.Context(), r.PathValue("name"))
	if err != nil {
		internalError(w, err)
		return
	}

	type catalogEntry struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	entries := make([]catalogEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, catalogEntry{ID: item.ID, Name: item.Name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entries})
}
