package http

import (
	"net/http"

	"github.com/edumentor/learnconnect/internal/server/service"
	"github.com/edumentor/learnconnect/pkg/httpx"
)

type AnalyticsHandler struct {
	Analytics *service.AnalyticsService
}

type summaryPayload struct {
	TotalSessions     int     `json:"totalSessions"`
	CompletedSessions int     `json:"completedSessions"`
	CancelledSessions int     `json:"cancelledSessions"`
	TotalMinutes      int     `json:"totalMinutes"`
	AverageRating     float64 `json:"averageRating"`
}

func (h *AnalyticsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())

	sum, err := h.Analytics.Summary(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, summaryPayload{
		TotalSessions:     sum.TotalSessions,
		CompletedSessions: sum.CompletedSessions,
		CancelledSessions: sum.CancelledSessions,
		TotalMinutes:      sum.TotalMinutes,
		AverageRating:     sum.AverageRating,
	})
}

type activityBucketPayload struct {
	Weekday int `json:"weekday"`
	Hour    int `json:"hour"`
	Count   int `json:"count"`
}

type activityPayload struct {
	Buckets []activityBucketPayload `json:"buckets"`
}

func (h *AnalyticsHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())

	buckets, err := h.Analytics.Activity(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := activityPayload{Buckets: make([]activityBucketPayload, 0, len(buckets))}
	for _, b := range buckets {
		out.Buckets = append(out.Buckets, activityBucketPayload{Weekday: b.Weekday, Hour: b.Hour, Count: b.Count})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type scoreBucketPayload struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

type scoresPayload struct {
	Buckets []scoreBucketPayload `json:"buckets"`
}

func (h *AnalyticsHandler) HandleScores(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromCtx(r.Context())

	buckets, err := h.Analytics.Scores(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := scoresPayload{Buckets: make([]scoreBucketPayload, 0, len(buckets))}
	for _, b := range buckets {
		out.Buckets = append(out.Buckets, scoreBucketPayload{Rating: b.Rating, Count: b.Count})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
