package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/diillson/cost-insights-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-insights-dashboard-go/internal/domain/repository"
	"github.com/diillson/cost-insights-dashboard-go/internal/logging"
	"github.com/diillson/cost-insights-dashboard-go/internal/shared/types"
	"github.com/pterm/pterm"
	"go.uber.org/zap"
)

// AWSARNAnnotation is the user annotation holding the IAM ARN of the user.
const AWSARNAnnotation = "aws.amazon.com/arn"

// IdentityUseCase looks up catalog users.
type IdentityUseCase struct {
	catalogRepo repository.CatalogRepository
	callerRepo  repository.CallerIdentityRepository
	console     types.ConsoleInterface
}

// NewIdentityUseCase creates a new identity use case.
func NewIdentityUseCase(
	catalogRepo repository.CatalogRepository,
	callerRepo repository.CallerIdentityRepository,
	console types.ConsoleInterface,
) *IdentityUseCase {
	return &IdentityUseCase{
		catalogRepo: catalogRepo,
		callerRepo:  callerRepo,
		console:     console,
	}
}

// LookupUser returns the single user entity carrying all the annotations.
// Zero matches fail with ErrNotFound and more than one with ErrConflict.
func (uc *IdentityUseCase) LookupUser(ctx context.Context, annotations map[string]string) (entity.Entity, error) {
	filter := entity.UserFilter(annotations)

	entities, err := uc.catalogRepo.GetEntities(ctx, filter)
	if err != nil {
		return entity.Entity{}, fmt.Errorf("error querying catalog: %w", err)
	}

	logging.Debug("catalog user lookup", zap.String("filter", filter.String()), zap.Int("matches", len(entities)))

	switch len(entities) {
	case 0:
		return entity.Entity{}, fmt.Errorf("%w: no user found with %s", types.ErrNotFound, describeAnnotations(annotations))
	case 1:
		return entities[0], nil
	default:
		return entity.Entity{}, fmt.Errorf("%w: %d users found with %s", types.ErrConflict, len(entities), describeAnnotations(annotations))
	}
}

// LookupAWSCaller resolves the current AWS caller and looks up the user annotated with its ARN.
func (uc *IdentityUseCase) LookupAWSCaller(ctx context.Context, profile string) (entity.Entity, error) {
	if uc.callerRepo == nil {
		return entity.Entity{}, fmt.Errorf("AWS caller identity is not available")
	}

	arn, err := uc.callerRepo.GetCallerARN(ctx, profile)
	if err != nil {
		return entity.Entity{}, err
	}

	return uc.LookupUser(ctx, map[string]string{AWSARNAnnotation: arn})
}

// ParseAnnotations parses key=value pairs.
func ParseAnnotations(pairs []string) (map[string]string, error) {
	annotations := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid annotation %q (expected key=value)", pair)
		}
		annotations[key] = strings.TrimSpace(value)
	}
	return annotations, nil
}

// RunIdentityLookup executa a busca de identidade e exibe o usuário encontrado.
func (uc *IdentityUseCase) RunIdentityLookup(ctx context.Context, args *types.CLIArgs) (entity.Entity, error) {
	var (
		user entity.Entity
		err  error
	)

	if args.AWSCaller {
		user, err = uc.LookupAWSCaller(ctx, args.AWSProfile)
	} else {
		if len(args.Annotations) == 0 {
			return entity.Entity{}, types.ErrNoAnnotations
		}
		annotations, parseErr := ParseAnnotations(args.Annotations)
		if parseErr != nil {
			return entity.Entity{}, parseErr
		}
		user, err = uc.LookupUser(ctx, annotations)
	}

	if err != nil {
		return entity.Entity{}, err
	}

	table := uc.console.CreateTable()
	table.AddColumn("Entity")
	table.AddColumn("Name")
	table.AddColumn("Annotations")

	keys := make([]string, 0, len(user.Metadata.Annotations))
	for k := range user.Metadata.Annotations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, user.Metadata.Annotations[k]))
	}

	name := user.Metadata.Name
	if user.Metadata.Title != "" {
		name = fmt.Sprintf("%s (%s)", user.Metadata.Title, user.Metadata.Name)
	}

	table.AddRow(pterm.FgMagenta.Sprint(user.Ref()), name, strings.Join(lines, "\n"))
	uc.console.Print(table.Render())

	return user, nil
}

func describeAnnotations(annotations map[string]string) string {
	filter := entity.EntityFilter(annotations)
	if len(filter) == 0 {
		return "no annotations"
	}
	return "annotations " + filter.String()
}
