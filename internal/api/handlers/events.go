package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/devevents/server/internal/api/problem"
	"github.com/devevents/server/internal/domain/events"
	"github.com/devevents/server/internal/metrics"
)

// Uploader pushes an image to the external image host and returns its
// public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

type EventsHandler struct {
	Service  *events.Service
	Uploader Uploader
	Env      string
}

func NewEventsHandler(service *events.Service, uploader Uploader, env string) *EventsHandler {
	return &EventsHandler{Service: service, Uploader: uploader, Env: env}
}

type eventListResponse struct {
	Events []events.Event `json:"events"`
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		writeEventError(w, r, err, h.Env)
		return
	}
	if items == nil {
		items = []events.Event{}
	}
	writeJSON(w, http.StatusOK, eventListResponse{Events: items})
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.Service.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeEventError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input events.EventInput
	if isMultipart(r) {
		parsed, err := h.eventInputFromForm(r)
		if err != nil {
			writeEventError(w, r, err, h.Env)
			return
		}
		input = parsed
	} else {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
			return
		}
	}

	event, err := h.Service.Create(r.Context(), input)
	if err != nil {
		writeEventError(w, r, err, h.Env)
		return
	}

	metrics.EventsCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, event)
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	idOrSlug := r.PathValue("idOrSlug")

	var patch events.EventPatch
	if isMultipart(r) {
		parsed, err := h.eventPatchFromForm(r)
		if err != nil {
			writeEventError(w, r, err, h.Env)
			return
		}
		patch = parsed
	} else {
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, h.Env)
			return
		}
	}

	event, err := h.Service.Update(r.Context(), idOrSlug, patch)
	if err != nil {
		writeEventError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	event, err := h.Service.Delete(r.Context(), r.PathValue("idOrSlug"))
	if err != nil {
		writeEventError(w, r, err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// eventInputFromForm builds a full create submission from a multipart form.
// The image arrives as a file, is pushed to the image host, and the returned
// URL replaces it. Agenda and tags arrive as JSON-encoded arrays.
func (h *EventsHandler) eventInputFromForm(r *http.Request) (events.EventInput, error) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return events.EventInput{}, events.ValidationError{Message: "malformed multipart form"}
	}

	input := events.EventInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Overview:    r.FormValue("overview"),
		Venue:       r.FormValue("venue"),
		Location:    r.FormValue("location"),
		Date:        r.FormValue("date"),
		Time:        r.FormValue("time"),
		Mode:        r.FormValue("mode"),
		Audience:    r.FormValue("audience"),
		Organizer:   r.FormValue("organizer"),
	}

	agenda, err := stringSliceField(r.FormValue("agenda"))
	if err != nil {
		return events.EventInput{}, events.ValidationError{Field: "agenda", Message: "must be a JSON array of strings"}
	}
	input.Agenda = agenda

	tags, err := stringSliceField(r.FormValue("tags"))
	if err != nil {
		return events.EventInput{}, events.ValidationError{Field: "tags", Message: "must be a JSON array of strings"}
	}
	input.Tags = tags

	imageURL, err := h.uploadFormImage(r)
	if err != nil {
		return events.EventInput{}, err
	}
	if imageURL == "" {
		return events.EventInput{}, events.ValidationError{Field: "image", Message: "image file is required"}
	}
	input.Image = imageURL

	return input, nil
}

// eventPatchFromForm builds a partial update from a multipart form. Only
// fields present in the form are patched; an attached image file is uploaded
// and its URL substituted.
func (h *EventsHandler) eventPatchFromForm(r *http.Request) (events.EventPatch, error) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return events.EventPatch{}, events.ValidationError{Message: "malformed multipart form"}
	}

	var patch events.EventPatch
	patch.Title = formField(r, "title")
	patch.Description = formField(r, "description")
	patch.Overview = formField(r, "overview")
	patch.Venue = formField(r, "venue")
	patch.Location = formField(r, "location")
	patch.Date = formField(r, "date")
	patch.Time = formField(r, "time")
	patch.Mode = formField(r, "mode")
	patch.Audience = formField(r, "audience")
	patch.Organizer = formField(r, "organizer")

	if raw := formField(r, "agenda"); raw != nil {
		agenda, err := stringSliceField(*raw)
		if err != nil {
			return events.EventPatch{}, events.ValidationError{Field: "agenda", Message: "must be a JSON array of strings"}
		}
		patch.Agenda = &agenda
	}
	if raw := formField(r, "tags"); raw != nil {
		tags, err := stringSliceField(*raw)
		if err != nil {
			return events.EventPatch{}, events.ValidationError{Field: "tags", Message: "must be a JSON array of strings"}
		}
		patch.Tags = &tags
	}

	imageURL, err := h.uploadFormImage(r)
	if err != nil {
		return events.EventPatch{}, err
	}
	if imageURL != "" {
		patch.Image = &imageURL
	}

	return patch, nil
}

// uploadFormImage pushes the attached image to the host. A missing file is
// not an error here; callers decide whether the image is required.
func (h *EventsHandler) uploadFormImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", events.ValidationError{Field: "image", Message: "malformed image upload"}
	}
	if h.Uploader == nil {
		return "", fmt.Errorf("image host is not configured")
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read image upload: %w", err)
	}

	url, err := h.Uploader.Upload(r.Context(), header.Filename, data)
	if err != nil {
		metrics.ImageUploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("image host upload: %w", err)
	}
	metrics.ImageUploadsTotal.WithLabelValues("success").Inc()
	return url, nil
}

func formField(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func stringSliceField(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
