package site

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-genform/pkg/model"
	"github.com/goliatone/go-genform/pkg/render"
	"github.com/goliatone/go-genform/pkg/validation"
)

const maxBodyBytes = 1 << 20

// MessageUnknownOption is recorded on a select field whose submitted value
// matches none of its options.
const MessageUnknownOption = "Choose one of the listed options"

// Receipt acknowledges a submission accepted by a SubmitHandler.
type Receipt struct {
	ID         string         `json:"id"`
	ReceivedAt time.Time      `json:"received_at"`
	Values     map[string]any `json:"values"`
}

// SubmitHandler processes a submission that passed validation. A non-empty
// error payload rejects it; keys are mapped onto fields with
// render.MapErrorPayload. A nil receipt with no payload falls back to the
// default save-and-redirect flow.
type SubmitHandler func(ctx context.Context, form model.Form, values map[string]any) (*Receipt, map[string][]string, error)

type submitResponse struct {
	Form       string              `json:"form"`
	Valid      bool                `json:"valid"`
	Values     map[string]any      `json:"values"`
	Errors     map[string][]string `json:"errors,omitempty"`
	FormErrors []string            `json:"form_errors,omitempty"`
	Receipt    *Receipt            `json:"receipt,omitempty"`
}

type validateRequest struct {
	Field   string         `json:"field"`
	Value   any            `json:"value"`
	Trigger string         `json:"trigger"`
	Values  map[string]any `json:"values"`
}

type validateResponse struct {
	Field     string   `json:"field"`
	Trigger   string   `json:"trigger"`
	Validated bool     `json:"validated"`
	Errors    []string `json:"errors,omitempty"`
}

type pageView struct {
	route      Route
	form       model.Form
	data       model.FormData
	formErrors []string
	saved      bool
	receipt    *Receipt
}

func (s *Site) handleHome(w http.ResponseWriter, r *http.Request) {
	pages := []map[string]any{}
	for _, route := range Routes() {
		if route.Form == "" {
			continue
		}
		pages = append(pages, map[string]any{"href": s.href(route.Path), "title": route.Title})
	}

	snapshot := s.store.Snapshot()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	buckets := make([]map[string]any, 0, len(names))
	for _, name := range names {
		bucket := map[string]any{"name": name, "json": prettyJSON(snapshot[name])}
		if route, ok := routeForForm(name); ok {
			bucket["href"] = s.href(route.Path)
		}
		buckets = append(buckets, bucket)
	}

	body, err := s.pages.RenderTemplate(s.partial(PartialHome), map[string]any{
		"pages":   pages,
		"buckets": buckets,
	})
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeLayout(w, r, http.StatusOK, Routes()[0], body)
}

func (s *Site) handlePage(route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := s.forms[route.Form]
		if !ok {
			http.NotFound(w, r)
			return
		}
		s.writePage(w, r, http.StatusOK, pageView{
			route: route,
			form:  form,
			data:  model.NewFormData(form, s.store.Form(route.Form)),
			saved: r.URL.Query().Get("saved") == "1",
		})
	}
}

func (s *Site) handleSubmit(route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, ok := s.forms[route.Form]
		if !ok {
			http.NotFound(w, r)
			return
		}
		logger := s.logger.WithField("form", form.Name)

		raw, err := readSubmission(w, r, form)
		if err != nil {
			s.fail(w, r, http.StatusBadRequest, err)
			return
		}

		data := model.NewFormData(form, nil)
		unknown := decodeValues(form, data, raw)
		valid := s.engine.ValidateForm(form, data)
		for _, name := range unknown {
			data.SetErrors(name, append(data[name].Errors, MessageUnknownOption))
			valid = false
		}

		view := pageView{route: route, form: form, data: data}
		if !valid {
			logger.WithField("errors", data.Errors()).Info("submission invalid")
			s.metrics.ObserveSubmission(form.Name, OutcomeInvalid)
			s.respondSubmit(w, r, http.StatusUnprocessableEntity, view)
			return
		}

		if handler, ok := s.handlers[form.Name]; ok {
			receipt, payload, err := handler(r.Context(), form, data.Values())
			if err != nil {
				s.fail(w, r, http.StatusInternalServerError, fmt.Errorf("site: submit %s: %w", form.Name, err))
				return
			}
			if len(payload) > 0 {
				mapping := render.MapErrorPayload(form, payload)
				mapping.ApplyErrors(data)
				view.formErrors = mapping.Form
				logger.WithField("errors", payload).Info("submission rejected by handler")
				s.metrics.ObserveSubmission(form.Name, OutcomeRejected)
				s.respondSubmit(w, r, http.StatusUnprocessableEntity, view)
				return
			}
			view.receipt = receipt
		}

		s.store.UpdateForm(form.Name, data.Values())
		s.metrics.ObserveSubmission(form.Name, OutcomeAccepted)
		logger.Info("submission accepted")

		if view.receipt != nil || wantsJSON(r) {
			s.respondSubmit(w, r, http.StatusOK, view)
			return
		}
		http.Redirect(w, r, s.href(route.Path)+"?saved=1", http.StatusSeeOther)
	}
}

func (s *Site) handleValidate(w http.ResponseWriter, r *http.Request) {
	route, form, ok := s.pageForm(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var req validateRequest
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.UseNumber()
	if err := decoder.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	trigger := validation.Trigger(strings.ToLower(strings.TrimSpace(req.Trigger)))
	if trigger == "" {
		trigger = validation.TriggerChange
	}

	data := model.NewFormData(form, nil)
	decodeValues(form, data, req.Values)
	field, ok := form.Field(req.Field)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("form %q has no field %q", form.Name, req.Field)})
		return
	}
	value, known := decodeValue(field, req.Value)

	errs, err := s.engine.Apply(form, data, validation.Event{Field: field.Name, Value: value, Trigger: trigger})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	validated := data[field.Name].Validated
	if !known && validation.ShouldValidate(field.Mode(), trigger) {
		errs = append(errs, MessageUnknownOption)
	}

	s.logger.WithFields(logrus.Fields{
		"form":      route.Form,
		"field":     field.Name,
		"trigger":   trigger,
		"validated": validated,
		"errors":    len(errs),
	}).Debug("field validated")

	writeJSON(w, http.StatusOK, validateResponse{
		Field:     field.Name,
		Trigger:   string(trigger),
		Validated: validated,
		Errors:    errs,
	})
}

func (s *Site) handleReset(w http.ResponseWriter, r *http.Request) {
	route, _, ok := s.pageForm(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.store.ResetForm(route.Form)
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"form": route.Form, "values": s.store.Form(route.Form)})
		return
	}
	http.Redirect(w, r, s.href(route.Path), http.StatusSeeOther)
}

// receiptHandler backs the submit-handler page. It plays the part of a
// backend: "admin" is a reserved username and comes back as an error payload.
func (s *Site) receiptHandler(_ context.Context, form model.Form, values map[string]any) (*Receipt, map[string][]string, error) {
	if strings.EqualFold(strings.TrimSpace(model.StringValue(values["username"])), "admin") {
		return nil, map[string][]string{
			"/body/username": {"Username is reserved"},
		}, nil
	}

	echo := render.SanitizeValues(values)
	for _, field := range form.Fields {
		if strings.EqualFold(field.Attrs["type"], "password") {
			if _, ok := echo[field.Name]; ok {
				echo[field.Name] = "********"
			}
		}
	}
	return &Receipt{
		ID:         s.newID(),
		ReceivedAt: s.now().UTC(),
		Values:     echo,
	}, nil, nil
}

func (s *Site) pageForm(r *http.Request) (Route, model.Form, bool) {
	page := mux.Vars(r)["page"]
	for _, route := range Routes() {
		if route.Form == "" || route.Path != page {
			continue
		}
		form, ok := s.forms[route.Form]
		return route, form, ok
	}
	return Route{}, model.Form{}, false
}

func (s *Site) respondSubmit(w http.ResponseWriter, r *http.Request, status int, view pageView) {
	if !wantsJSON(r) {
		s.writePage(w, r, status, view)
		return
	}
	writeJSON(w, status, submitResponse{
		Form:       view.form.Name,
		Valid:      status < http.StatusBadRequest,
		Values:     view.data.Values(),
		Errors:     view.data.Errors(),
		FormErrors: view.formErrors,
		Receipt:    view.receipt,
	})
}

func (s *Site) writePage(w http.ResponseWriter, r *http.Request, status int, view pageView) {
	formHTML, err := s.renderer.Render(r.Context(), view.form, render.RenderOptions{
		Action:     s.href(view.route.Path),
		Data:       view.data,
		Slots:      slotsFor(view.form.Name),
		FormErrors: view.formErrors,
	})
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	ctx := map[string]any{
		"title":        view.form.Title,
		"saved":        view.saved,
		"form":         string(formHTML),
		"stored":       prettyJSON(s.store.Form(view.form.Name)),
		"resettable":   true,
		"reset_action": s.href(view.route.Path + "/reset"),
	}
	if view.form.Title == "" {
		ctx["title"] = view.route.Title
	}
	if view.receipt != nil {
		ctx["receipt"] = receiptContext(view.receipt)
	}

	body, err := s.pages.RenderTemplate(s.partial(PartialPage), ctx)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeLayout(w, r, status, view.route, body)
}

func (s *Site) writeLayout(w http.ResponseWriter, r *http.Request, status int, active Route, body string) {
	nav := make([]map[string]any, 0, len(Routes()))
	for _, route := range Routes() {
		nav = append(nav, map[string]any{
			"href":   s.href(route.Path),
			"title":  route.Title,
			"active": route.Path == active.Path,
		})
	}

	stylesheet := ""
	if s.theme.AssetURL != nil {
		stylesheet = s.theme.AssetURL("stylesheet")
	}
	out, err := s.pages.RenderTemplate(s.partial(PartialLayout), map[string]any{
		"theme":       s.theme.Theme,
		"variant":     s.theme.Variant,
		"page_title":  active.Title,
		"stylesheet":  stylesheet,
		"theme_style": CSSVarsStyle(s.theme.CSSVars),
		"nav":         nav,
		"body":        body,
	})
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, out)
}

func (s *Site) partial(key string) string {
	if name, ok := s.theme.Partials[key]; ok && name != "" {
		return name
	}
	return defaultPartials[key]
}

func (s *Site) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	entry := s.logger.WithFields(logrus.Fields{
		"path":   r.URL.Path,
		"status": status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
		http.Error(w, http.StatusText(status), status)
		return
	}
	entry.Info("bad request")
	http.Error(w, err.Error(), status)
}

// readSubmission returns raw submitted values from a urlencoded, multipart or
// JSON body. Form posts must carry the form name hidden field.
func readSubmission(w http.ResponseWriter, r *http.Request, form model.Form) (map[string]any, error) {
	if isJSON(r.Header.Get("Content-Type")) {
		values := map[string]any{}
		decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
		decoder.UseNumber()
		if err := decoder.Decode(&values); err != nil {
			return nil, fmt.Errorf("site: decode JSON submission: %w", err)
		}
		return values, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("site: parse submission: %w", err)
	}
	if got := r.PostForm.Get(render.FormNameField); got != form.Name {
		return nil, fmt.Errorf("site: submission is for form %q, want %q", got, form.Name)
	}
	return postedValues(form, r.PostForm), nil
}

func postedValues(form model.Form, posted url.Values) map[string]any {
	values := make(map[string]any, len(form.Fields))
	for _, field := range form.Fields {
		if _, ok := posted[field.Name]; !ok {
			// unchecked boxes are not posted
			if field.Type == model.FieldTypeCheckbox {
				values[field.Name] = false
			}
			continue
		}
		values[field.Name] = posted.Get(field.Name)
	}
	return values
}

// decodeValues coerces raw values into data and returns the select fields
// whose value matched no option.
func decodeValues(form model.Form, data model.FormData, raw map[string]any) []string {
	var unknown []string
	for _, field := range form.Fields {
		value, ok := raw[field.Name]
		if !ok {
			continue
		}
		decoded, known := decodeValue(field, value)
		data.SetValue(field.Name, decoded)
		if !known {
			unknown = append(unknown, field.Name)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// decodeValue maps a submitted value onto the field's value type. Select
// values resolve back to the declared option value so numeric options keep
// their type.
func decodeValue(field model.Field, raw any) (any, bool) {
	switch field.Type {
	case model.FieldTypeCheckbox:
		return model.BoolValue(raw), true
	case model.FieldTypeSelect:
		submitted := model.StringValue(raw)
		if submitted == "" {
			return "", true
		}
		for _, option := range field.Options {
			if option.OptionValue() == submitted {
				return option.Value, true
			}
		}
		return submitted, false
	default:
		return model.StringValue(raw), true
	}
}

func receiptContext(receipt *Receipt) map[string]any {
	names := make([]string, 0, len(receipt.Values))
	for name := range receipt.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]map[string]any, 0, len(names))
	for _, name := range names {
		entries = append(entries, map[string]any{"name": name, "value": model.StringValue(receipt.Values[name])})
	}
	return map[string]any{
		"id":          receipt.ID,
		"received_at": receipt.ReceivedAt.Format(time.RFC3339),
		"values":      entries,
	}
}

func prettyJSON(value any) string {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(out)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
