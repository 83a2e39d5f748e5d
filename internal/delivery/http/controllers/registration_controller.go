package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{Logger: logger, Service: svc}
}

// Register godoc
// @Summary Register for a conference
// @Description Takes one seat. Fails with 409 when already registered or sold out.
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} controllers.BoolSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /conferences/{conferenceID}/registration [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	conferenceID, ok := pathValue(w, r, "conferenceID")
	if !ok {
		return
	}
	id, ok := identity(w, r)
	if !ok {
		return
	}
	registered, err := c.Service.Register(r.Context(), id, conferenceID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, registered)
}

// Unregister godoc
// @Summary Cancel a conference registration
// @Description Releases the caller's seat. data is false when the caller was not registered.
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Param conferenceID path string true "Conference ID"
// @Success 200 {object} controllers.BoolSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /conferences/{conferenceID}/registration [delete]
func (c *RegistrationController) Unregister(w http.ResponseWriter, r *http.Request) {
	conferenceID, ok := pathValue(w, r, "conferenceID")
	if !ok {
		return
	}
	id, ok := identity(w, r)
	if !ok {
		return
	}
	cancelled, err := c.Service.Cancel(r.Context(), id, conferenceID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, cancelled)
}

// ListAttending godoc
// @Summary List conferences the caller is registered for
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /conferences/attending [get]
func (c *RegistrationController) ListAttending(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	confs, err := c.Service.ListAttending(r.Context(), id)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, confs)
}
