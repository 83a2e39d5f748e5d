package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

// AnnouncementController serves the cached announcement slots.
type AnnouncementController struct {
	Logger          *slog.Logger
	Announcements   domain.AnnouncementService
	FeaturedSpeaker domain.FeaturedSpeakerService
}

func NewAnnouncementController(logger *slog.Logger, announcements domain.AnnouncementService, featured domain.FeaturedSpeakerService) *AnnouncementController {
	return &AnnouncementController{Logger: logger, Announcements: announcements, FeaturedSpeaker: featured}
}

// GetAnnouncement godoc
// @Summary Get the nearly sold out announcement
// @Description data is empty when no conference has between 1 and 5 seats left.
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.StringSuccessResponse
// @Router /announcement [get]
func (c *AnnouncementController) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Announcements.Get(r.Context()))
}

// GetFeaturedSpeaker godoc
// @Summary Get the featured speaker announcement
// @Tags announcements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.StringSuccessResponse
// @Router /featured-speaker [get]
func (c *AnnouncementController) GetFeaturedSpeaker(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, c.FeaturedSpeaker.Get(r.Context()))
}
