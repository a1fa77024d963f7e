package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/diillson/cost-insights-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-insights-dashboard-go/internal/domain/repository"
	"github.com/diillson/cost-insights-dashboard-go/internal/logging"
	"github.com/diillson/cost-insights-dashboard-go/internal/shared/types"
	"go.uber.org/zap"
)

// CatalogRepositoryImpl implementa o CatalogRepository sobre a API HTTP do catálogo.
type CatalogRepositoryImpl struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewCatalogRepository cria uma nova implementação do CatalogRepository.
// token é opcional e enviado como bearer token.
func NewCatalogRepository(baseURL, token string, timeout time.Duration) (repository.CatalogRepository, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("catalog: %w", types.ErrMissingBaseURL)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &CatalogRepositoryImpl{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// GetEntities lists the entities matching every entry of the filter.
func (r *CatalogRepositoryImpl) GetEntities(ctx context.Context, filter entity.EntityFilter) ([]entity.Entity, error) {
	endpoint := r.baseURL + "/entities"
	if len(filter) > 0 {
		endpoint += "?" + url.Values{"filter": {filter.String()}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling catalog API: %w", err)
	}
	defer resp.Body.Close()

	logging.Debug("catalog request", zap.String("url", endpoint), zap.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	entities := []entity.Entity{}
	if err := json.NewDecoder(resp.Body).Decode(&entities); err != nil {
		return nil, fmt.Errorf("error decoding catalog entities: %w", err)
	}
	return entities, nil
}
