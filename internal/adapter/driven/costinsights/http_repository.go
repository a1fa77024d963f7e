package costinsights

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

// maxErrorBody limita quanto do corpo de uma resposta de erro é incluído na mensagem.
const maxErrorBody = 512

// HTTPRepositoryImpl implementa o CostInsightsRepository sobre uma API REST JSON.
type HTTPRepositoryImpl struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRepository cria uma nova implementação HTTP do CostInsightsRepository.
func NewHTTPRepository(baseURL string, timeout time.Duration) (repository.CostInsightsRepository, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("cost insights: %w", types.ErrMissingBaseURL)
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid cost insights URL %q: %w", baseURL, err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPRepositoryImpl{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (r *HTTPRepositoryImpl) GetLastCompleteBillingDate(ctx context.Context) (string, error) {
	var body struct {
		Date string `json:"date"`
	}
	if err := r.get(ctx, "/last-complete-billing-date", nil, &body); err != nil {
		return "", err
	}
	return body.Date, nil
}

func (r *HTTPRepositoryImpl) GetUserGroups(ctx context.Context, userID string) ([]entity.Group, error) {
	groups := []entity.Group{}
	err := r.get(ctx, "/users/"+url.PathEscape(userID)+"/groups", nil, &groups)
	return groups, err
}

func (r *HTTPRepositoryImpl) GetGroupProjects(ctx context.Context, group string) ([]entity.Project, error) {
	projects := []entity.Project{}
	err := r.get(ctx, "/groups/"+url.PathEscape(group)+"/projects", nil, &projects)
	return projects, err
}

func (r *HTTPRepositoryImpl) GetAlerts(ctx context.Context, group string) ([]entity.Alert, error) {
	alerts := []entity.Alert{}
	err := r.get(ctx, "/groups/"+url.PathEscape(group)+"/alerts", nil, &alerts)
	return alerts, err
}

func (r *HTTPRepositoryImpl) GetDailyMetricData(ctx context.Context, metric string, intervals string) (entity.MetricData, error) {
	var data entity.MetricData
	err := r.get(ctx, "/metrics/"+url.PathEscape(metric)+"/daily", url.Values{"intervals": {intervals}}, &data)
	return data, err
}

func (r *HTTPRepositoryImpl) GetProjectDailyCost(ctx context.Context, project string, intervals string) (entity.Cost, error) {
	var cost entity.Cost
	err := r.get(ctx, "/projects/"+url.PathEscape(project)+"/daily-cost", url.Values{"intervals": {intervals}}, &cost)
	return cost, err
}

func (r *HTTPRepositoryImpl) GetGroupDailyCost(ctx context.Context, group string, intervals string) (entity.Cost, error) {
	var cost entity.Cost
	err := r.get(ctx, "/groups/"+url.PathEscape(group)+"/daily-cost", url.Values{"intervals": {intervals}}, &cost)
	return cost, err
}

// get faz um GET e decodifica a resposta JSON em out.
func (r *HTTPRepositoryImpl) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := r.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("error calling cost insights API: %w", err)
	}
	defer resp.Body.Close()

	logging.Debug("cost insights request",
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := fmt.Errorf("cost insights API returned %d for %s: %s", resp.StatusCode, path, strings.TrimSpace(string(excerpt)))
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %v", types.ErrNotFound, statusErr)
		}
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response from %s: %w", path, err)
	}
	return nil
}
