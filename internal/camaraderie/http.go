package camaraderie

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

// BonusResponse is the payload the remote chemistry service returns.
type BonusResponse struct {
	TeamID string  `json:"team_id"`
	Bonus  float64 `json:"bonus"`
}

// HTTPProvider fetches the bonus from a remote chemistry service.
type HTTPProvider struct {
	baseURL string
	client  *fasthttp.Client
}

func NewHTTPProvider(baseURL string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (p *HTTPProvider) Bonus(ctx context.Context, teamID string) (float64, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("%s/teams/%s/camaraderie", p.baseURL, teamID))
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := p.client.DoDeadline(req, resp, deadline); err != nil {
			return 0, fmt.Errorf("camaraderie request for team %s: %w", teamID, err)
		}
	} else {
		if err := p.client.Do(req, resp); err != nil {
			return 0, fmt.Errorf("camaraderie request for team %s: %w", teamID, err)
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return 0, fmt.Errorf("camaraderie service returned %d for team %s", resp.StatusCode(), teamID)
	}

	var body BonusResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return 0, fmt.Errorf("decoding camaraderie response: %w", err)
	}
	return body.Bonus, nil
}
