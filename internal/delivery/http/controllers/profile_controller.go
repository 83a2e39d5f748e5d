package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

// ProfileRequest is the request body for POST /profile. Empty fields are left unchanged.
type ProfileRequest struct {
	DisplayName  string `json:"display_name"`
	TeeShirtSize string `json:"tee_shirt_size"`
}

// Validate implements Validator.
func (p ProfileRequest) Validate() []string {
	if p.TeeShirtSize != "" && !domain.TeeShirtSize(p.TeeShirtSize).Valid() {
		return []string{"tee_shirt_size is not a known size"}
	}
	return nil
}

type ProfileController struct {
	Logger  *slog.Logger
	Service domain.ProfileService
}

func NewProfileController(logger *slog.Logger, svc domain.ProfileService) *ProfileController {
	return &ProfileController{Logger: logger, Service: svc}
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Description Returns the caller's profile, creating it on first use.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /profile [get]
func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	profile, err := c.Service.GetOrCreate(r.Context(), id)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, profile)
}

// SaveProfile godoc
// @Summary Update the caller's profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body ProfileRequest true "Profile fields"
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /profile [post]
func (c *ProfileController) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	id, ok := identity(w, r)
	if !ok {
		return
	}
	profile, err := c.Service.Save(r.Context(), id, domain.ProfileUpdate{
		DisplayName:  req.DisplayName,
		TeeShirtSize: domain.TeeShirtSize(req.TeeShirtSize),
	})
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, profile)
}
