package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"aibuilder/internal/domain/entity"
	"aibuilder/internal/domain/repository"
	"aibuilder/internal/infrastructure/metrics"
)

// FallbackID is returned in place of a store-assigned id when the
// persistence attempt fails for any reason.
const FallbackID = "no-db"

const persistTimeout = 5 * time.Second

type PlanResult struct {
	ID     string
	Status string
	Plan   *entity.Plan
}

type PlanUsecase interface {
	BuildPlan(ctx context.Context, idea string, features []string) (*PlanResult, error)
}

var _ PlanUsecase = (*PlanService)(nil)

type PlanService struct {
	generations repository.GenerationRepository
	logger      *slog.Logger
}

// NewPlanService wires the plan builder. generations may be nil when no
// store is configured; every request then falls back to FallbackID.
func NewPlanService(generations repository.GenerationRepository, logger *slog.Logger) *PlanService {
	return &PlanService{
		generations: generations,
		logger:      logger,
	}
}

func (s *PlanService) BuildPlan(ctx context.Context, idea string, features []string) (*PlanResult, error) {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		return nil, entity.InvalidArgumentError("idea is required")
	}

	plan := entity.NewPlan(idea, features)
	metrics.IncPlansCreated()

	// Best effort: the plan is returned whether or not the write lands.
	id := s.persist(ctx, idea, plan)

	return &PlanResult{
		ID:     id,
		Status: entity.GenerationStatusPlanned,
		Plan:   plan,
	}, nil
}

func (s *PlanService) persist(ctx context.Context, idea string, plan *entity.Plan) string {
	if s.generations == nil {
		metrics.IncPlanPersist("fallback")
		return FallbackID
	}

	ctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	gen := entity.NewGeneration(idea, plan.Features, plan)
	id, err := s.generations.Create(ctx, gen)
	if err != nil {
		s.logger.Warn("persist generation failed, using fallback id", "err", err)
		metrics.IncPlanPersist("fallback")
		return FallbackID
	}
	metrics.IncPlanPersist("stored")
	return id
}
