// Package api exposes HTTP handlers for the progress engine.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"example.com/progress/internal/auth"
	"example.com/progress/internal/domain"
	"example.com/progress/internal/observability"
	"example.com/progress/internal/persistence"
)

// JobRegistry is the slice of the reminder scheduler the handlers drive when
// schedules or notification settings change.
type JobRegistry interface {
	RegisterSportReminders(userID, timezone string, slots []domain.ScheduleSlot) (bool, error)
	RegisterWeeklyReport(userID, timezone string, dayOfWeek, hour int) (bool, error)
	ClearUser(userID string)
}

// Handler coordinates HTTP requests with the domain service and the reminder
// scheduler.
type Handler struct {
	service  *domain.Service
	jobs     JobRegistry
	renderer domain.Renderer
	notifier domain.Notifier

	reportDayOfWeek int
	reportHour      int
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, jobs JobRegistry, renderer domain.Renderer, notifier domain.Notifier, reportDayOfWeek, reportHour int) *Handler {
	return &Handler{
		service:         service,
		jobs:            jobs,
		renderer:        renderer,
		notifier:        notifier,
		reportDayOfWeek: reportDayOfWeek,
		reportHour:      reportHour,
	}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/events", h.events)
	mux.HandleFunc("/v1/summary", h.summary)
	mux.HandleFunc("/v1/points", h.points)
	mux.HandleFunc("/v1/goals", h.goals)
	mux.HandleFunc("/v1/goals/evaluation", h.goalEvaluation)
	mux.HandleFunc("/v1/activity-types", h.activityTypes)
	mux.HandleFunc("/v1/schedule", h.schedule)
	mux.HandleFunc("/v1/settings", h.settings)
	mux.HandleFunc("/v1/report", h.report)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// authorize extracts claims and checks the scope. Write scope implies read.
func authorize(w http.ResponseWriter, r *http.Request, scope string) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	if claims.HasScope(scope) {
		return claims, true
	}
	if scope == auth.ScopeProgressRead && claims.HasScope(auth.ScopeProgressWrite) {
		return claims, true
	}
	writeError(w, http.StatusForbidden, "forbidden", "scope "+scope+" required")
	return nil, false
}

func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.logEvent(w, r)
	case http.MethodGet:
		h.listEvents(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) logEvent(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeProgressWrite)
	if !ok {
		return
	}

	var req LogEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	event, awarded, err := h.service.LogEvent(r.Context(), domain.LogEventInput{
		UserID:  claims.Subject,
		Kind:    domain.EventKind(req.Kind),
		Value:   req.Value,
		TypeRef: req.TypeRef,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, LogEventResponse{
		Event:         toEventView(*event),
		PointsAwarded: awarded,
	})
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeProgressRead)
	if !ok {
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			if parsed > 100 {
				parsed = 100
			}
			limit = parsed
		}
	}

	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	events, next, err := h.service.ListEvents(r.Context(), claims.Subject, cursor, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]EventView, 0, len(events))
	for _, ev := range events {
		items = append(items, toEventView(ev))
	}
	writeJSON(w, http.StatusOK, ListEventsResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := authorize(w, r, auth.ScopeProgressRead)
	if !ok {
		return
	}

	windowDays := 7
	if raw := r.URL.Query().Get("window_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "window_days must be an integer")
			return
		}
		windowDays = parsed
	}

	summary, err := h.service.Summarize(r.Context(), claims.Subject, windowDays)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SummaryResponse{
		WindowDays: windowDays,
		Summary:    toSummaryView(summary),
	})
}

func (h *Handler) points(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := authorize(w, r, auth.ScopeProgressRead)
	if !ok {
		return
	}

	balance, err := h.service.PointsBalance(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, PointsResponse{Balance: balance})
}

func (h *Handler) goals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := authorize(w, r, auth.ScopeProgressWrite)
	if !ok {
		return
	}

	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	goal, err := h.service.CreateGoal(r.Context(), domain.CreateGoalInput{
		UserID:      claims.Subject,
		Title:       req.Title,
		Reward:      req.Reward,
		SportMin:    req.SportMin,
		BusinessMin: req.BusinessMin,
		SalesMin:    req.SalesMin,
		SpiritMin:   req.SpiritMin,
		PointsMin:   req.PointsMin,
		Deadline:    req.Deadline,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalView(*goal))
}

func (h *Handler) goalEvaluation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := authorize(w, r, auth.ScopeProgressRead)
	if !ok {
		return
	}

	evaluation, err := h.service.EvaluateGoals(r.Context(), claims.Subject, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	resp := GoalEvaluationResponse{
		Eligible: make([]GoalView, 0, len(evaluation.Eligible)),
		Pending:  make([]PendingGoalView, 0, len(evaluation.Pending)),
	}
	for _, goal := range evaluation.Eligible {
		resp.Eligible = append(resp.Eligible, toGoalView(goal))
	}
	for _, pending := range evaluation.Pending {
		view := PendingGoalView{
			Goal:       toGoalView(pending.Goal),
			Shortfalls: make([]ShortfallView, 0, len(pending.Shortfalls)),
		}
		for _, s := range pending.Shortfalls {
			view.Shortfalls = append(view.Shortfalls, ShortfallView{
				Dimension: s.Dimension,
				Current:   s.Current,
				Required:  s.Required,
			})
		}
		resp.Pending = append(resp.Pending, view)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) activityTypes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.replaceActivityTypes(w, r)
	case http.MethodGet:
		h.listActivityTypes(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) replaceActivityTypes(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeProgressWrite)
	if !ok {
		return
	}

	var req ReplaceActivityTypesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	types, err := h.service.SetupActivityTypes(r.Context(), claims.Subject, req.Names)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Replacing the types drops schedule entries for removed ones, so the
	// registered reminders must follow the surviving schedule.
	if err := h.syncReminders(r, claims.Subject); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toActivityTypesResponse(types))
}

func (h *Handler) listActivityTypes(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeProgressRead)
	if !ok {
		return
	}

	types, err := h.service.ActivityTypes(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toActivityTypesResponse(types))
}

func (h *Handler) schedule(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.replaceSchedule(w, r)
	case http.MethodGet:
		h.getSchedule(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) replaceSchedule(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeProgressWrite)
	if !ok {
		return
	}

	var req ReplaceScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	inputs := make([]domain.ScheduleEntryInput, 0, len(req.Entries))
	for _, e := range req.Entries {
		inputs = append(inputs, domain.ScheduleEntryInput{
			TypeID:    e.TypeID,
			DayOfWeek: e.DayOfWeek,
			TimeOfDay: e.TimeOfDay,
		})
	}

	entries, err := h.service.SetSchedule(r.Context(), claims.Subject, inputs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.syncReminders(r, claims.Subject); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	resp := ScheduleResponse{Entries: make([]ScheduleEntryView, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, toScheduleEntryView(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getSchedule(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeProgressRead)
	if !ok {
		return
	}

	slots, err := h.service.ScheduleSlots(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	resp := ScheduleSlotsResponse{Slots: make([]ScheduleSlotView, 0, len(slots))}
	for _, slot := range slots {
		resp.Slots = append(resp.Slots, ScheduleSlotView{
			ActivityName: slot.ActivityName,
			DayOfWeek:    slot.DayOfWeek,
			TimeOfDay:    slot.TimeOfDay,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) settings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.updateSettings(w, r)
	case http.MethodGet:
		h.getSettings(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeProgressRead)
	if !ok {
		return
	}

	settings, err := h.service.Settings(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSettingsView(settings))
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeProgressWrite)
	if !ok {
		return
	}

	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	settings, err := h.service.UpdateSettings(r.Context(), claims.Subject, domain.UpdateSettingsInput{
		Timezone:      req.Timezone,
		SaleThreshold: req.SaleThreshold,
		NotifyEnabled: req.NotifyEnabled,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Timezone and notify changes both invalidate the registered jobs.
	if err := h.syncReminders(r, claims.Subject); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toSettingsView(settings))
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := authorize(w, r, auth.ScopeProgressRead)
	if !ok {
		return
	}

	report, err := h.service.BuildReport(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	text, err := h.renderer.Render(r.Context(), claims.Subject, report)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	observability.RecordReportBuilt(time.Now().UTC())

	// Delivery is best effort; the rendered text is the response either way.
	delivered := true
	if err := h.notifier.Send(r.Context(), claims.Subject, text); err != nil {
		delivered = false
	}

	writeJSON(w, http.StatusOK, ReportResponse{
		Text:      text,
		Delivered: delivered,
		Week:      toSummaryView(report.Week),
		Month:     toSummaryView(report.Month),
		Points:    report.Points,
	})
}

// syncReminders re-registers the user's scheduler jobs from current state.
// The previous registration for the user is always dropped first, so a user
// who turned notifications off ends up with no jobs at all.
func (h *Handler) syncReminders(r *http.Request, userID string) error {
	h.jobs.ClearUser(userID)

	settings, err := h.service.Settings(r.Context(), userID)
	if err != nil {
		return err
	}
	if !settings.NotifyEnabled {
		return nil
	}

	slots, err := h.service.ScheduleSlots(r.Context(), userID)
	if err != nil {
		return err
	}
	if _, err := h.jobs.RegisterSportReminders(userID, settings.Timezone, slots); err != nil {
		return err
	}
	_, err = h.jobs.RegisterWeeklyReport(userID, settings.Timezone, h.reportDayOfWeek, h.reportHour)
	return err
}

// LogEventRequest is the payload for POST /v1/events.
type LogEventRequest struct {
	Kind    string `json:"kind"`
	Value   int64  `json:"value,omitempty"`
	TypeRef string `json:"type_ref,omitempty"`
}

// Validate ensures request correctness.
func (r LogEventRequest) Validate() error {
	if strings.TrimSpace(r.Kind) == "" {
		return errors.New("kind is required")
	}
	if r.Value < 0 {
		return errors.New("value must not be negative")
	}
	return nil
}

// LogEventResponse reports the stored event and the points it earned.
type LogEventResponse struct {
	Event         EventView `json:"event"`
	PointsAwarded int64     `json:"points_awarded"`
}

// EventView exposes one log entry.
type EventView struct {
	EventID   string    `json:"event_id"`
	Kind      string    `json:"kind"`
	Value     int64     `json:"value,omitempty"`
	TypeRef   string    `json:"type_ref,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListEventsResponse packages list results.
type ListEventsResponse struct {
	Items      []EventView `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// SummaryView is the JSON shape of a windowed summary.
type SummaryView struct {
	SportCount        int   `json:"sport_count"`
	CallCount         int   `json:"call_count"`
	VisibilityCount   int   `json:"visibility_count"`
	SaleCount         int   `json:"sale_count"`
	SaleSum           int64 `json:"sale_sum"`
	CashSum           int64 `json:"cash_sum"`
	SleepHours        int64 `json:"sleep_hours"`
	MeditationMinutes int64 `json:"meditation_minutes"`
	ReadingMinutes    int64 `json:"reading_minutes"`
}

// SummaryResponse pairs a summary with the window it covers.
type SummaryResponse struct {
	WindowDays int         `json:"window_days"`
	Summary    SummaryView `json:"summary"`
}

// PointsResponse reports the cumulative balance.
type PointsResponse struct {
	Balance int64 `json:"balance"`
}

// CreateGoalRequest is the payload for POST /v1/goals.
type CreateGoalRequest struct {
	Title       string    `json:"title"`
	Reward      string    `json:"reward,omitempty"`
	SportMin    int       `json:"sport_min"`
	BusinessMin int       `json:"business_min"`
	SalesMin    int       `json:"sales_min"`
	SpiritMin   int       `json:"spirit_min"`
	PointsMin   int64     `json:"points_min"`
	Deadline    time.Time `json:"deadline"`
}

// Validate ensures request correctness.
func (r CreateGoalRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if r.Deadline.IsZero() {
		return errors.New("deadline is required")
	}
	return nil
}

// GoalView exposes a stored goal.
type GoalView struct {
	GoalID      string    `json:"goal_id"`
	Title       string    `json:"title"`
	Reward      string    `json:"reward,omitempty"`
	SportMin    int       `json:"sport_min"`
	BusinessMin int       `json:"business_min"`
	SalesMin    int       `json:"sales_min"`
	SpiritMin   int       `json:"spirit_min"`
	PointsMin   int64     `json:"points_min"`
	Deadline    time.Time `json:"deadline"`
	CreatedAt   time.Time `json:"created_at"`
}

// ShortfallView names one unmet threshold.
type ShortfallView struct {
	Dimension string `json:"dimension"`
	Current   int64  `json:"current"`
	Required  int64  `json:"required"`
}

// PendingGoalView pairs a goal with its shortfalls.
type PendingGoalView struct {
	Goal       GoalView        `json:"goal"`
	Shortfalls []ShortfallView `json:"shortfalls"`
}

// GoalEvaluationResponse splits goals into eligible and pending.
type GoalEvaluationResponse struct {
	Eligible []GoalView        `json:"eligible"`
	Pending  []PendingGoalView `json:"pending"`
}

// ReplaceActivityTypesRequest is the payload for PUT /v1/activity-types.
type ReplaceActivityTypesRequest struct {
	Names []string `json:"names"`
}

// ActivityTypeView exposes one user-defined activity type.
type ActivityTypeView struct {
	TypeID string `json:"type_id"`
	Name   string `json:"name"`
}

// ActivityTypesResponse packages the user's full type set.
type ActivityTypesResponse struct {
	Types []ActivityTypeView `json:"types"`
}

// ScheduleEntryRequest is one reminder slot in PUT /v1/schedule.
type ScheduleEntryRequest struct {
	TypeID    string `json:"type_id"`
	DayOfWeek int    `json:"day_of_week"`
	TimeOfDay string `json:"time_of_day"`
}

// ReplaceScheduleRequest is the payload for PUT /v1/schedule.
type ReplaceScheduleRequest struct {
	Entries []ScheduleEntryRequest `json:"entries"`
}

// ScheduleEntryView exposes one stored schedule entry.
type ScheduleEntryView struct {
	EntryID   string `json:"entry_id"`
	TypeID    string `json:"type_id"`
	DayOfWeek int    `json:"day_of_week"`
	TimeOfDay string `json:"time_of_day"`
}

// ScheduleResponse packages the stored schedule.
type ScheduleResponse struct {
	Entries []ScheduleEntryView `json:"entries"`
}

// ScheduleSlotView is a schedule entry joined with its activity name.
type ScheduleSlotView struct {
	ActivityName string `json:"activity_name"`
	DayOfWeek    int    `json:"day_of_week"`
	TimeOfDay    string `json:"time_of_day"`
}

// ScheduleSlotsResponse packages the joined schedule.
type ScheduleSlotsResponse struct {
	Slots []ScheduleSlotView `json:"slots"`
}

// UpdateSettingsRequest patches per-user settings; omitted fields keep their
// current value.
type UpdateSettingsRequest struct {
	Timezone      *string `json:"timezone,omitempty"`
	SaleThreshold *int64  `json:"sale_threshold,omitempty"`
	NotifyEnabled *bool   `json:"notify_enabled,omitempty"`
}

// SettingsView exposes the user's settings.
type SettingsView struct {
	Timezone      string `json:"timezone"`
	NotifyEnabled bool   `json:"notify_enabled"`
	SaleThreshold int64  `json:"sale_threshold"`
}

// ReportResponse carries the rendered report text plus its raw aggregates.
type ReportResponse struct {
	Text      string      `json:"text"`
	Delivered bool        `json:"delivered"`
	Week      SummaryView `json:"week"`
	Month     SummaryView `json:"month"`
	Points    int64       `json:"points"`
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrUnknownActivityType):
		writeError(w, http.StatusUnprocessableEntity, "unknown_activity_type", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toEventView(ev domain.Event) EventView {
	return EventView{
		EventID:   ev.ID,
		Kind:      string(ev.Kind),
		Value:     ev.Value,
		TypeRef:   ev.TypeRef,
		CreatedAt: ev.CreatedAt,
	}
}

func toSummaryView(s domain.Summary) SummaryView {
	return SummaryView{
		SportCount:        s.SportCount,
		CallCount:         s.CallCount,
		VisibilityCount:   s.VisibilityCount,
		SaleCount:         s.SaleCount,
		SaleSum:           s.SaleSum,
		CashSum:           s.CashSum,
		SleepHours:        s.SleepHours,
		MeditationMinutes: s.MeditationMinutes,
		ReadingMinutes:    s.ReadingMinutes,
	}
}

func toGoalView(goal domain.Goal) GoalView {
	return GoalView{
		GoalID:      goal.ID,
		Title:       goal.Title,
		Reward:      goal.Reward,
		SportMin:    goal.SportMin,
		BusinessMin: goal.BusinessMin,
		SalesMin:    goal.SalesMin,
		SpiritMin:   goal.SpiritMin,
		PointsMin:   goal.PointsMin,
		Deadline:    goal.Deadline,
		CreatedAt:   goal.CreatedAt,
	}
}

func toScheduleEntryView(e domain.ScheduleEntry) ScheduleEntryView {
	return ScheduleEntryView{
		EntryID:   e.ID,
		TypeID:    e.TypeID,
		DayOfWeek: e.DayOfWeek,
		TimeOfDay: e.TimeOfDay,
	}
}

func toSettingsView(s domain.Settings) SettingsView {
	return SettingsView{
		Timezone:      s.Timezone,
		NotifyEnabled: s.NotifyEnabled,
		SaleThreshold: s.SaleThreshold,
	}
}

func toActivityTypesResponse(types []domain.ActivityType) ActivityTypesResponse {
	resp := ActivityTypesResponse{Types: make([]ActivityTypeView, 0, len(types))}
	for _, t := range types {
		resp.Types = append(resp.Types, ActivityTypeView{TypeID: t.ID, Name: t.Name})
	}
	return resp
}
