package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

type WishlistController struct {
	Logger  *slog.Logger
	Service domain.WishlistService
}

func NewWishlistController(logger *slog.Logger, svc domain.WishlistService) *WishlistController {
	return &WishlistController{Logger: logger, Service: svc}
}

// AddToWishlist godoc
// @Summary Add a session to the caller's wishlist
// @Description The caller must be registered for the session's conference.
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} controllers.BoolSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not registered, or already wishlisted)"
// @Router /wishlist/{sessionID} [post]
func (c *WishlistController) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathValue(w, r, "sessionID")
	if !ok {
		return
	}
	id, ok := identity(w, r)
	if !ok {
		return
	}
	added, err := c.Service.Add(r.Context(), id, sessionID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, added)
}

// RemoveFromWishlist godoc
// @Summary Remove a session from the caller's wishlist
// @Description data is false when the session was not on the wishlist.
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Param sessionID path string true "Session ID"
// @Success 200 {object} controllers.BoolSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /wishlist/{sessionID} [delete]
func (c *WishlistController) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := pathValue(w, r, "sessionID")
	if !ok {
		return
	}
	id, ok := identity(w, r)
	if !ok {
		return
	}
	removed, err := c.Service.Remove(r.Context(), id, sessionID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, removed)
}

// ListWishlist godoc
// @Summary List the caller's wishlisted sessions
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /wishlist [get]
func (c *WishlistController) ListWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	sessions, err := c.Service.List(r.Context(), id)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sessions)
}
