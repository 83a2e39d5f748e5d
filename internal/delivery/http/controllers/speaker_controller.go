package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

// SpeakerRequest is the request body for POST /speakers.
type SpeakerRequest struct {
	Name    string   `json:"name" validate:"required"`
	Email   string   `json:"email" validate:"required,email"`
	Company string   `json:"company"`
	Sex     string   `json:"sex"`
	Field   []string `json:"field"`
}

type SpeakerController struct {
	Logger  *slog.Logger
	Service domain.SpeakerService
}

func NewSpeakerController(logger *slog.Logger, svc domain.SpeakerService) *SpeakerController {
	return &SpeakerController{Logger: logger, Service: svc}
}

// CreateSpeaker godoc
// @Summary Create a speaker
// @Description Speakers are keyed by email. Missing company, sex and field get defaults.
// @Tags speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param speaker body SpeakerRequest true "Speaker data"
// @Success 201 {object} controllers.SpeakerSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (email taken)"
// @Router /speakers [post]
func (c *SpeakerController) CreateSpeaker(w http.ResponseWriter, r *http.Request) {
	var req SpeakerRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	speaker, err := c.Service.Create(r.Context(), &domain.Speaker{
		Email:   req.Email,
		Name:    req.Name,
		Company: req.Company,
		Sex:     req.Sex,
		Field:   req.Field,
	})
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, speaker)
}

// QuerySpeakers godoc
// @Summary Query speakers by filters
// @Description Filter fields are NAME, COMPANY, SEX and FIELD.
// @Tags speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param query body QueryRequest true "Filters"
// @Success 200 {object} controllers.SpeakerListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_filter"
// @Router /speakers/query [post]
func (c *SpeakerController) QuerySpeakers(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	speakers, err := c.Service.Query(r.Context(), req.Filters)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, speakers)
}
