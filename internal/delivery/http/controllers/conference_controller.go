package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

// ConferenceRequest is the request body for POST /conferences and PUT /conferences/{conferenceID}.
// Dates use YYYY-MM-DD. On update, omitted fields are unchanged.
type ConferenceRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Topics       []string `json:"topics"`
	City         string   `json:"city"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	MaxAttendees *int     `json:"max_attendees" validate:"omitempty,min=0"`
}

func (c ConferenceRequest) form() domain.ConferenceForm {
	return domain.ConferenceForm{
		Name:         c.Name,
		Description:  c.Description,
		Topics:       c.Topics,
		City:         c.City,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		MaxAttendees: c.MaxAttendees,
	}
}

// CreateConferenceRequest requires a name.
type CreateConferenceRequest struct {
	ConferenceRequest
}

// Validate implements Validator.
func (c CreateConferenceRequest) Validate() []string {
	if strings.TrimSpace(c.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

type ConferenceController struct {
	Logger  *slog.Logger
	Service domain.ConferenceService
}

func NewConferenceController(logger *slog.Logger, svc domain.ConferenceService) *ConferenceController {
	return &ConferenceController{Logger: logger, Service: svc}
}

// CreateConference godoc
// @Summary Create a conference
// @Description Creates a conference owned by the caller. Missing city and topics get defaults; seats_available starts at max_attendees. A confirmation email is queued for the organizer.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conference body CreateConferenceRequest true "Conference data"
// @Success 201 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences [post]
func (c *ConferenceController) CreateConference(w http.ResponseWriter, r *http.Request) {
	var req CreateConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	id, ok := identity(w, r)
	if !ok {
		return
	}
	conf, err := c.Service.Create(r.Context(), id, req.form())
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, conf)
}

// UpdateConference godoc
// @Summary Update a conference
// @Description Updates the non-empty fields of a conference. Only the organizer may update. Changing max_attendees keeps existing registrations.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID"
// @Param conference body ConferenceRequest true "Fields to update"
// @Success 200 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{conferenceID} [put]
func (c *ConferenceController) UpdateConference(w http.ResponseWriter, r *http.Request) {
	conferenceID, ok := pathValue(w, r, "conferenceID")
	if !ok {
		return
	}
	var req ConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	id, ok := identity(w, r)
	if !ok {
		return
	}
	conf, err := c.Service.Update(r.Context(), id, conferenceID, req.form())
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conf)
}

// GetConference godoc
// @Summary Get a conference
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} controllers.ConferenceSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{conferenceID} [get]
func (c *ConferenceController) GetConference(w http.ResponseWriter, r *http.Request) {
	conferenceID, ok := pathValue(w, r, "conferenceID")
	if !ok {
		return
	}
	conf, err := c.Service.Get(r.Context(), conferenceID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conf)
}

// ListCreated godoc
// @Summary List conferences created by the caller
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /conferences/created [get]
func (c *ConferenceController) ListCreated(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	confs, err := c.Service.ListCreatedBy(r.Context(), id)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, confs)
}

// QueryConferences godoc
// @Summary Query conferences by filters
// @Description Filters are (field, operator, value) triples over CITY, TOPIC, MONTH and MAX_ATTENDEES with EQ, NE, GT, GTEQ, LT, LTEQ. Inequalities may reference only one field; results are then ordered by that field, then name.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param query body QueryRequest true "Filters"
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_filter, multiple_inequality_fields or invalid_filter_value"
// @Router /conferences/query [post]
func (c *ConferenceController) QueryConferences(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	confs, err := c.Service.Query(r.Context(), req.Filters)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, confs)
}
