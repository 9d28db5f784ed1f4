package learnsdk

import (
	"context"
	"net/http"
)

// ListSkills returns the catalogue of teachable skills.
func (c *Client) ListSkills(ctx context.Context) (*SkillList, error) {
	var list SkillList
	if err := c.doJSON(ctx, http.MethodGet, "/v1/skills", nil, nil, &list, http.StatusOK, true); err != nil {
		return nil, err
	}
	return &list, nil
}

// AddTutorSkill declares a skill the authenticated tutor teaches.
func (c *Client) AddTutorSkill(ctx context.Context, skillID string) error {
	req := AddSkillRequest{SkillID: skillID}
	return c.doJSON(ctx, http.MethodPost, "/v1/users/me/skills", nil, req, nil, http.StatusNoContent, true)
}
