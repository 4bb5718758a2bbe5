package usecase

import (
	"context"
	"regexp"
	"strings"

	"github.com/tair/grocery-pos/internal/setting/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/logger"
)

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_.]{0,99}$`)

// SettingService reads and writes store settings
type SettingService struct {
	repo domain.SettingRepository
}

func NewSettingService(repo domain.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// SeedDefaults creates the default settings that do not exist yet
func (s *SettingService) SeedDefaults(ctx context.Context) error {
	n, err := s.repo.CreateMissing(ctx, domain.Defaults)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info(ctx).Int64("count", n).Msg("Default settings created")
	}
	return nil
}

func (s *SettingService) List(ctx context.Context) ([]domain.Setting, error) {
	return s.repo.List(ctx)
}

func (s *SettingService) Get(ctx context.Context, key string) (*domain.Setting, error) {
	return s.repo.Get(ctx, key)
}

// UpsertCommand sets a value. An empty description keeps the stored one.
type UpsertCommand struct {
	Key         string
	Value       string
	Description string
	ActorID     uint
}

func (s *SettingService) Upsert(ctx context.Context, cmd UpsertCommand) (*domain.Setting, error) {
	key := strings.TrimSpace(cmd.Key)
	if !keyPattern.MatchString(key) {
		return nil, apperror.InvalidInput("invalid setting key %q", cmd.Key)
	}

	description := strings.TrimSpace(cmd.Description)
	if description == "" {
		if existing, err := s.repo.Get(ctx, key); err == nil {
			description = existing.Description
		} else if apperror.KindOf(err) != apperror.KindNotFound {
			return nil, err
		}
	}

	actorID := cmd.ActorID
	setting := &domain.Setting{
		Key:         key,
		Value:       cmd.Value,
		Description: description,
		UpdatedBy:   &actorID,
	}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, key)
}

func (s *SettingService) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}
