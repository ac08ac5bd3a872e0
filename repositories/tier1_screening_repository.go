package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/clearwatch/screening-backend/infra"
	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/repositories/httpmodels"
)

// Tier1ScreeningRepository calls the external comprehensive screening
// provider. It only performs the HTTP exchange; retries, circuit breaking
// and rate limiting live in the orchestrator's resilience guard.
type Tier1ScreeningRepository struct {
	provider infra.Tier1Provider
	client   *http.Client
}

func NewTier1ScreeningRepository(provider infra.Tier1Provider, client *http.Client) *Tier1ScreeningRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return &Tier1ScreeningRepository{
		provider: provider,
		client:   client,
	}
}

func (repo *Tier1ScreeningRepository) IsConfigured() bool {
	return repo.provider.IsConfigured()
}

func (repo *Tier1ScreeningRepository) Search(ctx context.Context,
	entity models.ScreeningEntity,
) ([]models.Match, error) {
	body, err := json.Marshal(httpmodels.AdaptTier1ScreeningRequest(entity))
	if err != nil {
		return nil, errors.Wrap(models.BadParameterError, err.Error())
	}

	u := fmt.Sprintf("%s/v1/screenings", repo.provider.Host())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "could not build tier-1 request")
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey := repo.provider.ApiKey(); apiKey != "" {
		req.Header.Set("Authorization", "ApiKey "+apiKey)
	}

	resp, err := repo.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "tier-1 provider unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, errors.Newf("tier-1 provider returned status %d", resp.StatusCode)
	default:
		// 4xx other than 429 will not get better on retry.
		return nil, errors.Wrap(models.BadParameterError,
			fmt.Sprintf("tier-1 provider rejected the request with status %d", resp.StatusCode))
	}

	var payload httpmodels.HTTPTier1ScreeningResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "could not decode tier-1 response")
	}

	return httpmodels.AdaptTier1Matches(payload), nil
}
