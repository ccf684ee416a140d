package service

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tcheflux/helpdesk/internal/repository"
	apperrors "github.com/tcheflux/helpdesk/pkg/util"
)

// AreaResolver maps a department area name to its identifier, creating the
// department on first reference.
type AreaResolver interface {
	Resolve(ctx context.Context, area string) (int64, error)
}

const departmentCacheTTL = 10 * time.Minute

// DepartmentDirectory resolves area names through a Redis read-through
// cache backed by the department repository's atomic upsert.
type DepartmentDirectory struct {
	departments repository.DepartmentRepository
	cache       *redis.Client
	logger      *zap.Logger
}

// NewDepartmentDirectory builds the directory. The cache client may be nil.
func NewDepartmentDirectory(departments repository.DepartmentRepository, cache *redis.Client, logger *zap.Logger) *DepartmentDirectory {
	return &DepartmentDirectory{departments: departments, cache: cache, logger: logger}
}

// Resolve returns the department id for an area name. Lookup is
// case-sensitive exact match; unseen areas are created.
func (d *DepartmentDirectory) Resolve(ctx context.Context, area string) (int64, error) {
	if area == "" {
		return 0, apperrors.NewValidationError("departamento_area é obrigatório", nil)
	}

	key := cacheKey(area)
	if d.cache != nil {
		if cached, err := d.cache.Get(ctx, key).Result(); err == nil {
			if id, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return id, nil
			}
		}
	}

	id, err := d.departments.Resolve(ctx, area)
	if err != nil {
		return 0, err
	}

	if d.cache != nil {
		if err := d.cache.Set(ctx, key, strconv.FormatInt(id, 10), departmentCacheTTL).Err(); err != nil {
			d.logger.Debug("department cache set failed", zap.String("area", area), zap.Error(err))
		}
	}
	return id, nil
}

func cacheKey(area string) string {
	return "depto:" + area
}
