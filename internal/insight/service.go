package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/bwmarrin/snowflake"
	"github.com/geliahq/gelia/internal/gateway"
	"github.com/geliahq/gelia/internal/providers/ai"
	"github.com/geliahq/gelia/internal/tenantcontext"
	"github.com/geliahq/gelia/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInsightNotFound = errors.New("insight: not found")
	ErrEmptyPrompt     = errors.New("insight: prompt is required")
	ErrEmptyModule     = errors.New("insight: module is required")
)

// activeStatuses are the lifecycle states surfaced on dashboards.
var activeStatuses = []string{"new", "reviewed"}

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Providers *ai.Registry
}

// Service lists stored insights and generates new ones through the
// configured language-model providers.
type Service struct {
	log       *zap.Logger
	genID     *snowflake.Node
	insights  *gateway.Store[Insight, *Insight]
	providers *ai.Registry
}

func New(p Params) *Service {
	return &Service{
		log:       p.Log.Named("insight.service"),
		genID:     p.GenID,
		insights:  gateway.NewStore[Insight](p.DB, p.Log),
		providers: p.Providers,
	}
}

// ListActive returns the tenant's most recent new and reviewed insights.
func (s *Service) ListActive(ctx context.Context, limit int) ([]Insight, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.insights.List(ctx, gateway.Query{
		Pagination: pagination.Pagination{Limit: limit},
		Filters:    map[string]any{"status": activeStatuses},
		OrderBy:    "created_at DESC",
	})
}

// AnalyzeResult is the synchronous answer to an ad-hoc analysis request.
type AnalyzeResult struct {
	Response       string  `json:"response"`
	Service        string  `json:"service"`
	Model          string  `json:"model"`
	Confidence     float64 `json:"confidence"`
	ProcessingTime float64 `json:"processing_time"`
}

// Analyze runs an ad-hoc prompt through the requested provider without
// persisting anything.
func (s *Service) Analyze(ctx context.Context, service, prompt string, promptContext map[string]any) (*AnalyzeResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	start := time.Now()
	result, err := s.providers.Generate(ctx, service, prompt, promptContext)
	if err != nil {
		return nil, err
	}

	return &AnalyzeResult{
		Response:       result.Response,
		Service:        result.Service,
		Model:          result.Model,
		Confidence:     0.85,
		ProcessingTime: time.Since(start).Seconds(),
	}, nil
}

// Generate asks the default provider for a strategic insight about one
// business module and stores the answer for the tenant.
func (s *Service) Generate(ctx context.Context, module string) (*Insight, error) {
	module = strings.ToLower(strings.TrimSpace(module))
	if module == "" {
		return nil, ErrEmptyModule
	}

	principal, ok := tenantcontext.PrincipalFromContext(ctx)
	if !ok {
		return nil, gateway.ErrUnauthorized
	}

	prompt := fmt.Sprintf("Generate a strategic business insight for the %s module. Include specific recommendations and impact assessment.", module)
	promptContext := map[string]any{
		"tenant_id": principal.TenantID.String(),
		"module":    module,
		"user_role": principal.Role,
	}

	result, err := s.providers.Default(ctx, prompt, promptContext)
	if err != nil {
		return nil, err
	}

	recommendations, _ := json.Marshal([]string{
		"Review AI recommendations",
		"Implement suggested changes",
		"Monitor impact",
	})

	record := &Insight{
		ID:              s.genID.Generate(),
		InsightType:     "ai_generated",
		Title:           fmt.Sprintf("AI-Generated %s Insight", titleCase(module)),
		Description:     result.Response,
		ConfidenceScore: 0.85,
		ImpactLevel:     "medium",
		ModuleAffected:  module,
		Recommendations: recommendations,
		Status:          "new",
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.insights.Create(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info("insight generated",
		zap.String("tenant_id", principal.TenantID.String()),
		zap.String("module", module),
		zap.String("provider", result.Service),
	)
	return record, nil
}

// CountActive reports how many active insights the tenant has.
func (s *Service) CountActive(ctx context.Context) (int64, error) {
	return s.insights.Count(ctx, map[string]any{"status": activeStatuses})
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
