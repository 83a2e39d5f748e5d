package controllers

import (
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// identity returns the authenticated caller or writes a 401.
func identity(w http.ResponseWriter, r *http.Request) (*domain.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return nil, false
	}
	return id, true
}

// pathValue returns the named path segment or writes a 400 when it is empty.
func pathValue(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.PathValue(name)
	if v == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing "+name)
		return "", false
	}
	return v, true
}

// Success envelopes, for the API docs.

type ConferenceSuccessResponse struct {
	Data  *domain.Conference `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type ConferenceListSuccessResponse struct {
	Data  []*domain.Conference `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type ProfileSuccessResponse struct {
	Data  *domain.Profile   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type SpeakerSuccessResponse struct {
	Data  *domain.Speaker   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type SpeakerListSuccessResponse struct {
	Data  []*domain.Speaker `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type SessionSuccessResponse struct {
	Data  *domain.Session   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type SessionListSuccessResponse struct {
	Data  []*domain.Session `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type BoolSuccessResponse struct {
	Data  bool              `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type StringSuccessResponse struct {
	Data  string            `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// QueryRequest is the request body for the filter query endpoints.
type QueryRequest struct {
	Filters []domain.FilterSpec `json:"filters"`
}
