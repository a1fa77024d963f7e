package aws

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/budgets"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/diillson/cost-insights-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-insights-dashboard-go/internal/logging"
	"go.uber.org/zap"
)

const (
	costMetric  = "UnblendedCost"
	usageMetric = "UsageQuantity"
	// Cost Explorer e Budgets só respondem em us-east-1
	billingRegion = "us-east-1"
)

type costExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
	GetTags(ctx context.Context, params *costexplorer.GetTagsInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetTagsOutput, error)
}

type budgetsAPI interface {
	DescribeBudgets(ctx context.Context, params *budgets.DescribeBudgetsInput, optFns ...func(*budgets.Options)) (*budgets.DescribeBudgetsOutput, error)
}

type stsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// AWSRepositoryImpl implementa o CostInsightsRepository sobre o Cost Explorer,
// usando tags de alocação de custo como grupo e projeto.
type AWSRepositoryImpl struct {
	profile       string
	groupTagKey   string
	projectTagKey string
	now           func() time.Time

	cfgCache    map[string]aws.Config
	clientCache map[string]interface{}
	mu          sync.Mutex
}

// NewAWSRepository cria uma nova implementação do repositório AWS.
func NewAWSRepository(profile, groupTagKey, projectTagKey string) *AWSRepositoryImpl {
	return &AWSRepositoryImpl{
		profile:       profile,
		groupTagKey:   groupTagKey,
		projectTagKey: projectTagKey,
		now:           time.Now,
		cfgCache:      make(map[string]aws.Config),
		clientCache:   make(map[string]interface{}),
	}
}

func (r *AWSRepositoryImpl) getAWSConfig(ctx context.Context, profile string) (aws.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg, ok := r.cfgCache[profile]; ok {
		return cfg, nil
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(billingRegion)}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %s: %w", profile, err)
	}

	r.cfgCache[profile] = cfg
	return cfg, nil
}

func (r *AWSRepositoryImpl) getServiceClient(ctx context.Context, profile, service string) (interface{}, error) {
	cacheKey := fmt.Sprintf("%s-%s", profile, service)

	r.mu.Lock()
	if client, ok := r.clientCache[cacheKey]; ok {
		r.mu.Unlock()
		return client, nil
	}
	r.mu.Unlock()

	cfg, err := r.getAWSConfig(ctx, profile)
	if err != nil {
		return nil, err
	}

	var client interface{}
	switch service {
	case "sts":
		client = sts.NewFromConfig(cfg)
	case "costexplorer":
		client = costexplorer.NewFromConfig(cfg)
	case "budgets":
		client = budgets.NewFromConfig(cfg)
	default:
		return nil, fmt.Errorf("unsupported service: %s", service)
	}

	r.mu.Lock()
	r.clientCache[cacheKey] = client
	r.mu.Unlock()

	return client, nil
}

func (r *AWSRepositoryImpl) costExplorer(ctx context.Context) (costExplorerAPI, error) {
	client, err := r.getServiceClient(ctx, r.profile, "costexplorer")
	if err != nil {
		return nil, err
	}
	return client.(costExplorerAPI), nil
}

// GetCallerARN returns the ARN of the identity behind the profile.
func (r *AWSRepositoryImpl) GetCallerARN(ctx context.Context, profile string) (string, error) {
	identity, err := r.callerIdentity(ctx, profile)
	if err != nil {
		return "", err
	}
	return aws.ToString(identity.Arn), nil
}

func (r *AWSRepositoryImpl) callerIdentity(ctx context.Context, profile string) (*sts.GetCallerIdentityOutput, error) {
	client, err := r.getServiceClient(ctx, profile, "sts")
	if err != nil {
		return nil, err
	}

	result, err := client.(stsAPI).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("error getting caller identity for profile %s: %w", profile, err)
	}
	return result, nil
}

// GetLastCompleteBillingDate retorna ontem (UTC); o dia corrente ainda está sendo faturado.
func (r *AWSRepositoryImpl) GetLastCompleteBillingDate(ctx context.Context) (string, error) {
	return r.now().UTC().AddDate(0, 0, -1).Format(entity.DateFormat), nil
}

// GetUserGroups lists every value of the group tag. Cost Explorer has no
// notion of membership, so the user ID does not narrow the result.
func (r *AWSRepositoryImpl) GetUserGroups(ctx context.Context, userID string) ([]entity.Group, error) {
	values, err := r.tagValues(ctx, r.groupTagKey, nil)
	if err != nil {
		return nil, err
	}

	groups := make([]entity.Group, 0, len(values))
	for _, v := range values {
		groups = append(groups, entity.Group{ID: v})
	}
	return groups, nil
}

func (r *AWSRepositoryImpl) GetGroupProjects(ctx context.Context, group string) ([]entity.Project, error) {
	values, err := r.tagValues(ctx, r.projectTagKey, tagFilter(r.groupTagKey, group))
	if err != nil {
		return nil, err
	}

	projects := make([]entity.Project, 0, len(values))
	for _, v := range values {
		projects = append(projects, entity.Project{ID: v})
	}
	return projects, nil
}

// tagValues lista os valores não vazios de uma tag nos últimos 90 dias.
func (r *AWSRepositoryImpl) tagValues(ctx context.Context, key string, filter *ceTypes.Expression) ([]string, error) {
	client, err := r.costExplorer(ctx)
	if err != nil {
		return nil, err
	}

	end := r.now().UTC()
	start := end.AddDate(0, 0, -90)

	seen := map[string]bool{}
	var token *string
	for {
		out, err := client.GetTags(ctx, &costexplorer.GetTagsInput{
			TimePeriod: &ceTypes.DateInterval{
				Start: aws.String(start.Format(entity.DateFormat)),
				End:   aws.String(end.Format(entity.DateFormat)),
			},
			TagKey:        aws.String(key),
			Filter:        filter,
			NextPageToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("error listing values of tag %s: %w", key, err)
		}

		for _, v := range out.Tags {
			if v != "" {
				seen[v] = true
			}
		}

		if out.NextPageToken == nil || *out.NextPageToken == "" {
			break
		}
		token = out.NextPageToken
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

// GetAlerts turns the budgets scoped to the group tag into alerts when
// actual or forecasted spend exceeds the limit.
func (r *AWSRepositoryImpl) GetAlerts(ctx context.Context, group string) ([]entity.Alert, error) {
	identity, err := r.callerIdentity(ctx, r.profile)
	if err != nil {
		return nil, err
	}

	client, err := r.getServiceClient(ctx, r.profile, "budgets")
	if err != nil {
		return nil, err
	}
	budgetsClient := client.(budgetsAPI)

	scope := fmt.Sprintf("user:%s$%s", r.groupTagKey, group)
	alerts := []entity.Alert{}

	var token *string
	for {
		out, err := budgetsClient.DescribeBudgets(ctx, &budgets.DescribeBudgetsInput{
			AccountId: identity.Account,
			NextToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("error describing budgets: %w", err)
		}

		for _, budget := range out.Budgets {
			if !containsString(budget.CostFilters["TagKeyValue"], scope) {
				continue
			}

			name := aws.ToString(budget.BudgetName)
			var limit, actual, forecast float64
			if budget.BudgetLimit != nil {
				limit = parseAmount(budget.BudgetLimit.Amount)
			}
			if budget.CalculatedSpend != nil {
				if budget.CalculatedSpend.ActualSpend != nil {
					actual = parseAmount(budget.CalculatedSpend.ActualSpend.Amount)
				}
				if budget.CalculatedSpend.ForecastedSpend != nil {
					forecast = parseAmount(budget.CalculatedSpend.ForecastedSpend.Amount)
				}
			}

			link := "https://console.aws.amazon.com/billing/home#/budgets/details?name=" + url.QueryEscape(name)
			switch {
			case limit > 0 && actual > limit:
				alerts = append(alerts, entity.Alert{
					ID:       name,
					Title:    fmt.Sprintf("Budget %s exceeded", name),
					Subtitle: fmt.Sprintf("Actual spend $%.2f is over the $%.2f limit", actual, limit),
					URL:      link,
				})
			case limit > 0 && forecast > limit:
				alerts = append(alerts, entity.Alert{
					ID:       name,
					Title:    fmt.Sprintf("Budget %s forecast to exceed", name),
					Subtitle: fmt.Sprintf("Forecasted spend $%.2f is over the $%.2f limit", forecast, limit),
					URL:      link,
				})
			}
		}

		if out.NextToken == nil || *out.NextToken == "" {
			break
		}
		token = out.NextToken
	}

	return alerts, nil
}

// GetDailyMetricData reads the daily usage quantity of a usage type group.
func (r *AWSRepositoryImpl) GetDailyMetricData(ctx context.Context, metric string, intervals string) (entity.MetricData, error) {
	filter := &ceTypes.Expression{
		Dimensions: &ceTypes.DimensionValues{
			Key:    ceTypes.DimensionUsageTypeGroup,
			Values: []string{metric},
		},
	}

	aggregation, _, err := r.dailySeries(ctx, intervals, usageMetric, filter, false)
	if err != nil {
		return entity.MetricData{}, err
	}

	return entity.MetricData{
		ID:          metric,
		Format:      entity.MetricFormatNumber,
		Aggregation: aggregation,
		Change:      entity.ChangeOf(aggregation),
	}, nil
}

func (r *AWSRepositoryImpl) GetProjectDailyCost(ctx context.Context, project string, intervals string) (entity.Cost, error) {
	return r.dailyCost(ctx, project, intervals, tagFilter(r.projectTagKey, project))
}

func (r *AWSRepositoryImpl) GetGroupDailyCost(ctx context.Context, group string, intervals string) (entity.Cost, error) {
	return r.dailyCost(ctx, group, intervals, tagFilter(r.groupTagKey, group))
}

func (r *AWSRepositoryImpl) dailyCost(ctx context.Context, id, intervals string, filter *ceTypes.Expression) (entity.Cost, error) {
	aggregation, groupings, err := r.dailySeries(ctx, intervals, costMetric, filter, true)
	if err != nil {
		return entity.Cost{}, err
	}

	return entity.Cost{
		ID:          id,
		Aggregation: aggregation,
		Groupings:   groupings,
	}.WithDerived(), nil
}

// dailySeries busca a série diária do metric; com byService agrupa por SERVICE
// e soma os grupos para obter o total do dia.
func (r *AWSRepositoryImpl) dailySeries(
	ctx context.Context,
	intervals string,
	metric string,
	filter *ceTypes.Expression,
	byService bool,
) ([]entity.DateAggregation, map[string][]entity.DateAggregation, error) {
	window, err := entity.ParseIntervals(intervals)
	if err != nil {
		return nil, nil, err
	}

	client, err := r.costExplorer(ctx)
	if err != nil {
		return nil, nil, err
	}

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(window.Start.Format(entity.DateFormat)),
			End:   aws.String(window.End.Format(entity.DateFormat)),
		},
		Granularity: ceTypes.GranularityDaily,
		Metrics:     []string{metric},
		Filter:      filter,
	}
	if byService {
		input.GroupBy = []ceTypes.GroupDefinition{
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		}
	}

	aggregation := []entity.DateAggregation{}
	var groupings map[string][]entity.DateAggregation
	if byService {
		groupings = make(map[string][]entity.DateAggregation)
	}

	for {
		out, err := client.GetCostAndUsage(ctx, input)
		if err != nil {
			return nil, nil, fmt.Errorf("error getting cost and usage: %w", err)
		}

		for _, period := range out.ResultsByTime {
			date := aws.ToString(period.TimePeriod.Start)
			amount := 0.0

			if byService {
				for _, g := range period.Groups {
					value, ok := g.Metrics[metric]
					if !ok || len(g.Keys) == 0 {
						continue
					}
					groupAmount := parseAmount(value.Amount)
					amount += groupAmount
					groupings[g.Keys[0]] = append(groupings[g.Keys[0]], entity.DateAggregation{Date: date, Amount: groupAmount})
				}
			} else if value, ok := period.Total[metric]; ok {
				amount = parseAmount(value.Amount)
			}

			aggregation = append(aggregation, entity.DateAggregation{Date: date, Amount: amount})
		}

		if out.NextPageToken == nil || *out.NextPageToken == "" {
			break
		}
		input.NextPageToken = out.NextPageToken
	}

	logging.Debug("cost explorer daily series",
		zap.String("metric", metric),
		zap.String("intervals", intervals),
		zap.Int("points", len(aggregation)),
	)

	return aggregation, groupings, nil
}

func tagFilter(key, value string) *ceTypes.Expression {
	return &ceTypes.Expression{
		Tags: &ceTypes.TagValues{
			Key:          aws.String(key),
			Values:       []string{value},
			MatchOptions: []ceTypes.MatchOption{ceTypes.MatchOptionEquals},
		},
	}
}

func parseAmount(amount *string) float64 {
	if amount == nil {
		return 0
	}
	value, _ := strconv.ParseFloat(strings.TrimSpace(*amount), 64)
	return value
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
