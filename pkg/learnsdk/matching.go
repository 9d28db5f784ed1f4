package learnsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// FindTutors searches for tutors matching the filter, best rated first.
func (c *Client) FindTutors(ctx context.Context, filter TutorFilter) (*TutorMatchList, error) {
	query := url.Values{}
	if filter.Skill != "" {
		query.Set("skill", filter.Skill)
	}
	if filter.MinRating > 0 {
		query.Set("minRating", strconv.FormatFloat(filter.MinRating, 'f', -1, 64))
	}
	if filter.MaxRate > 0 {
		query.Set("maxRate", strconv.FormatFloat(filter.MaxRate, 'f', -1, 64))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var list TutorMatchList
	if err := c.doJSON(ctx, http.MethodGet, "/v1/matching/tutors", query, nil, &list, http.StatusOK, true); err != nil {
		return nil, err
	}
	return &list, nil
}
