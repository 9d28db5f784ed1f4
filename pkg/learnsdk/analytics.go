package learnsdk

import (
	"context"
	"net/http"
)

// AnalyticsSummary returns the headline dashboard numbers for the caller.
func (c *Client) AnalyticsSummary(ctx context.Context) (*AnalyticsSummary, error) {
	var summary AnalyticsSummary
	if err := c.doJSON(ctx, http.MethodGet, "/v1/analytics/summary", nil, nil, &summary, http.StatusOK, true); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ActivityHeatmap returns the caller's session activity bucketed by weekday
// and hour, pre-aggregated server-side.
func (c *Client) ActivityHeatmap(ctx context.Context) (*ActivityHeatmap, error) {
	var heatmap ActivityHeatmap
	if err := c.doJSON(ctx, http.MethodGet, "/v1/analytics/activity", nil, nil, &heatmap, http.StatusOK, true); err != nil {
		return nil, err
	}
	return &heatmap, nil
}

// ScoreDistribution returns the review-score histogram for the caller.
func (c *Client) ScoreDistribution(ctx context.Context) (*ScoreDistribution, error) {
	var dist ScoreDistribution
	if err := c.doJSON(ctx, http.MethodGet, "/v1/analytics/scores", nil, nil, &dist, http.StatusOK, true); err != nil {
		return nil, err
	}
	return &dist, nil
}
