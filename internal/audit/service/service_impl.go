package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/geliahq/gelia/internal/audit/domain"
	"github.com/geliahq/gelia/internal/audit/masking"
	"github.com/geliahq/gelia/internal/tenantcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  auditdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  auditdomain.Repository
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

// Record writes one entry. Tenant and actor default to the request
// principal when the entry does not carry them; secrets in metadata are
// redacted before persisting.
func (s *Service) Record(ctx context.Context, entry auditdomain.Entry) error {
	action := strings.TrimSpace(entry.Action)
	if action == "" {
		return auditdomain.ErrInvalidAction
	}

	tenantID := entry.TenantID
	actorID := entry.ActorID
	if principal, ok := tenantcontext.PrincipalFromContext(ctx); ok {
		if tenantID == 0 {
			tenantID = principal.TenantID
		}
		if actorID == nil && principal.UserID != 0 {
			id := principal.UserID
			actorID = &id
		}
	}
	if tenantID == 0 {
		return auditdomain.ErrInvalidTenant
	}

	actorType := strings.TrimSpace(entry.ActorType)
	if actorType == "" {
		actorType = "user"
	}
	targetType := strings.TrimSpace(entry.TargetType)
	if targetType == "" {
		targetType = "unknown"
	}

	metadata := masking.MaskMetadata(entry.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}

	record := auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		TenantID:   tenantID,
		ActorID:    actorID,
		ActorType:  actorType,
		Action:     action,
		TargetType: targetType,
		TargetID:   strings.TrimSpace(entry.TargetID),
		Metadata:   datatypes.JSONMap(metadata),
		IPAddress:  strings.TrimSpace(entry.IPAddress),
		UserAgent:  strings.TrimSpace(entry.UserAgent),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, &record); err != nil {
		// Audit failures are logged, never propagated into the request
		// path that triggered them.
		s.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

// List returns the principal's tenant trail, newest first.
func (s *Service) List(ctx context.Context, req auditdomain.ListRequest) ([]auditdomain.AuditLog, error) {
	principal, ok := tenantcontext.PrincipalFromContext(ctx)
	if !ok {
		return nil, auditdomain.ErrInvalidTenant
	}
	if req.StartAt != nil && req.EndAt != nil && req.StartAt.After(*req.EndAt) {
		return nil, auditdomain.ErrInvalidTimeRange
	}
	return s.repo.List(ctx, s.db, principal.TenantID, req)
}
