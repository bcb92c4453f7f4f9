package controllers

import (
	"net"
	"net/http"
	"time"

	"blogd/app/blog"
	"blogd/app/cache"
	"blogd/app/models"
	"blogd/app/services"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// ResponseController handles HTTP requests for comments and trackbacks
type ResponseController struct {
	controller
	responses *services.ResponseService
}

// NewResponseController creates a new ResponseController
func NewResponseController(manager *blog.Manager, responses *services.ResponseService, cache cache.CacheProviderInterface, log *logrus.Logger) *ResponseController {
	return &ResponseController{
		controller: controller{manager: manager, cache: cache, log: log},
		responses:  responses,
	}
}

// ClientIP strips the port from the request's remote address.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// AddComment handles a reader submitting a comment
func (rc *ResponseController) AddComment(w http.ResponseWriter, r *http.Request) {
	b, ok := rc.blog(w, r)
	if !ok {
		return
	}
	var c models.Comment
	if !rc.decodeJSON(w, r, &c) {
		return
	}
	c.ID, c.State, c.Date = "", "", time.Time{}
	c.IPAddress = ClientIP(r)

	added, err := rc.responses.AddComment(b, mux.Vars(r)["id"], &c)
	if err != nil {
		rc.sendServiceError(w, r, err)
		return
	}
	rc.invalidate()
	rc.sendJSON(w, http.StatusCreated, added)
}

// AddTrackBack handles another site announcing a link to an entry
func (rc *ResponseController) AddTrackBack(w http.ResponseWriter, r *http.Request) {
	b, ok := rc.blog(w, r)
	if !ok {
		return
	}
	var tb models.TrackBack
	if !rc.decodeJSON(w, r, &tb) {
		return
	}
	tb.ID, tb.State, tb.Date = "", "", time.Time{}
	tb.IPAddress = ClientIP(r)

	added, err := rc.responses.AddTrackBack(b, mux.Vars(r)["id"], &tb)
	if err != nil {
		rc.sendServiceError(w, r, err)
		return
	}
	rc.invalidate()
	rc.sendJSON(w, http.StatusCreated, added)
}

// ModerateComment approves or rejects a comment
func (rc *ResponseController) ModerateComment(w http.ResponseWriter, r *http.Request) {
	b, ok := rc.blog(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)

	var (
		c   *models.Comment
		err error
	)
	switch vars["action"] {
	case ActionApprove:
		c, err = rc.responses.ApproveComment(b, vars["id"], vars["cid"])
	case ActionReject:
		c, err = rc.responses.RejectComment(b, vars["id"], vars["cid"])
	default:
		rc.sendError(w, "Unknown action", http.StatusBadRequest)
		return
	}
	if err != nil {
		rc.sendServiceError(w, r, err)
		return
	}
	rc.invalidate()
	rc.sendJSON(w, http.StatusOK, c)
}

// ModerateTrackBack approves or rejects a trackback
func (rc *ResponseController) ModerateTrackBack(w http.ResponseWriter, r *http.Request) {
	b, ok := rc.blog(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)

	var (
		tb  *models.TrackBack
		err error
	)
	switch vars["action"] {
	case ActionApprove:
		tb, err = rc.responses.ApproveTrackBack(b, vars["id"], vars["tid"])
	case ActionReject:
		tb, err = rc.responses.RejectTrackBack(b, vars["id"], vars["tid"])
	default:
		rc.sendError(w, "Unknown action", http.StatusBadRequest)
		return
	}
	if err != nil {
		rc.sendServiceError(w, r, err)
		return
	}
	rc.invalidate()
	rc.sendJSON(w, http.StatusOK, tb)
}

// RemoveComment deletes a comment and its replies
func (rc *ResponseController) RemoveComment(w http.ResponseWriter, r *http.Request) {
	b, ok := rc.blog(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	if err := rc.responses.RemoveComment(b, vars["id"], vars["cid"]); err != nil {
		rc.sendServiceError(w, r, err)
		return
	}
	rc.invalidate()
	w.WriteHeader(http.StatusNoContent)
}

// RemoveTrackBack deletes a trackback
func (rc *ResponseController) RemoveTrackBack(w http.ResponseWriter, r *http.Request) {
	b, ok := rc.blog(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	if err := rc.responses.RemoveTrackBack(b, vars["id"], vars["tid"]); err != nil {
		rc.sendServiceError(w, r, err)
		return
	}
	rc.invalidate()
	w.WriteHeader(http.StatusNoContent)
}
