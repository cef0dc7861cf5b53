package controllers

import (
	"net/http"

	"github.com/velvethq/velvet-backend/api/middleware"
	"github.com/velvethq/velvet-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "private", "status": "ok"}
		if venue := middleware.VenueIDFromContext(r.Context()); venue != "" {
			payload["venue_id"] = venue
		}
		responses.WriteSuccess(w, payload)
	}
}
