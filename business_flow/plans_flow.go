// Package businessflow contains the core business logic and use cases for the plan catalog
package businessflow

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nuvylux/subscription-backend/app/dto"
	"github.com/nuvylux/subscription-backend/models"
	"github.com/nuvylux/subscription-backend/repository"
	"github.com/nuvylux/subscription-backend/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const catalogCacheKey = "plans:catalog"

// PlansFlow serves the public plan catalog and its admin-side management
type PlansFlow interface {
	ListCatalog(ctx context.Context) ([]dto.TrackInfo, error)
	CreateTrack(ctx context.Context, req *dto.CreateTrackRequest) (*dto.TrackInfo, error)
	UpdateTrack(ctx context.Context, trackID uint, req *dto.UpdateTrackRequest) (*dto.TrackInfo, error)
	DeleteTrack(ctx context.Context, trackID uint) error
	CreatePlan(ctx context.Context, trackID uint, req *dto.CreatePlanRequest) (*dto.PlanInfo, error)
	UpdatePlan(ctx context.Context, planID uint, req *dto.UpdatePlanRequest) (*dto.PlanInfo, error)
	DeletePlan(ctx context.Context, planID uint) error
}

// PlansFlowImpl implements the plan catalog flow
type PlansFlowImpl struct {
	trackRepo   repository.TrackRepository
	planRepo    repository.PlanRepository
	rc          *redis.Client
	cachePrefix string
	cacheTTL    time.Duration
	db          *gorm.DB
}

// NewPlansFlow creates a new plan catalog flow instance. A nil redis
// client disables catalog caching.
func NewPlansFlow(
	trackRepo repository.TrackRepository,
	planRepo repository.PlanRepository,
	rc *redis.Client,
	cachePrefix string,
	cacheTTL time.Duration,
	db *gorm.DB,
) PlansFlow {
	return &PlansFlowImpl{
		trackRepo:   trackRepo,
		planRepo:    planRepo,
		rc:          rc,
		cachePrefix: cachePrefix,
		cacheTTL:    cacheTTL,
		db:          db,
	}
}

// ListCatalog returns all tracks with their active plans, ordered for
// display. The rendered catalog is cached; any track or plan mutation
// invalidates it.
func (f *PlansFlowImpl) ListCatalog(ctx context.Context) ([]dto.TrackInfo, error) {
	if f.rc != nil {
		if bs, err := f.rc.Get(ctx, f.cacheKey()).Bytes(); err == nil && len(bs) > 0 {
			var cached []dto.TrackInfo
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	tracks, err := f.trackRepo.ListOrderedWithActivePlans(ctx)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to load plan catalog", err)
	}

	catalog := make([]dto.TrackInfo, 0, len(tracks))
	for _, track := range tracks {
		catalog = append(catalog, ToTrackInfo(*track))
	}

	if f.rc != nil {
		if bs, err := json.Marshal(catalog); err == nil {
			_ = f.rc.Set(ctx, f.cacheKey(), bs, f.cacheTTL).Err()
		}
	}

	return catalog, nil
}

// CreateTrack adds a new track to the catalog
func (f *PlansFlowImpl) CreateTrack(ctx context.Context, req *dto.CreateTrackRequest) (*dto.TrackInfo, error) {
	track := &models.Track{
		Label:    req.Label,
		Color:    req.Color,
		Title:    req.Title,
		Subtitle: req.Subtitle,
	}
	if req.Order != nil {
		track.Order = *req.Order
	}

	if err := f.trackRepo.Save(ctx, track); err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to create track", err)
	}
	f.invalidateCatalog(ctx)

	info := ToTrackInfo(*track)
	return &info, nil
}

// UpdateTrack applies partial changes to a track
func (f *PlansFlowImpl) UpdateTrack(ctx context.Context, trackID uint, req *dto.UpdateTrackRequest) (*dto.TrackInfo, error) {
	track, err := f.trackRepo.ByID(ctx, trackID)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to update track", err)
	}
	if track == nil {
		return nil, NewBusinessError(CodeNotFound, "Track not found", ErrTrackNotFound)
	}

	if req.Label != nil {
		track.Label = *req.Label
	}
	if req.Color != nil {
		track.Color = *req.Color
	}
	if req.Title != nil {
		track.Title = *req.Title
	}
	if req.Subtitle != nil {
		track.Subtitle = *req.Subtitle
	}
	if req.Order != nil {
		track.Order = *req.Order
	}

	if err := f.trackRepo.Update(ctx, track); err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to update track", err)
	}
	f.invalidateCatalog(ctx)

	info := ToTrackInfo(*track)
	return &info, nil
}

// DeleteTrack removes a track. Tracks that still carry plans cannot be
// deleted.
func (f *PlansFlowImpl) DeleteTrack(ctx context.Context, trackID uint) error {
	track, err := f.trackRepo.ByID(ctx, trackID)
	if err != nil {
		return NewBusinessError(CodeInternalError, "Failed to delete track", err)
	}
	if track == nil {
		return NewBusinessError(CodeNotFound, "Track not found", ErrTrackNotFound)
	}

	count, err := f.planRepo.CountByTrack(ctx, trackID)
	if err != nil {
		return NewBusinessError(CodeInternalError, "Failed to delete track", err)
	}
	if count > 0 {
		return NewBusinessError(CodeConflict, "Delete or deactivate all plans in this track first", ErrTrackHasPlans)
	}

	if err := f.trackRepo.Delete(ctx, trackID); err != nil {
		return NewBusinessError(CodeInternalError, "Failed to delete track", err)
	}
	f.invalidateCatalog(ctx)
	return nil
}

// CreatePlan adds a plan to an existing track
func (f *PlansFlowImpl) CreatePlan(ctx context.Context, trackID uint, req *dto.CreatePlanRequest) (*dto.PlanInfo, error) {
	track, err := f.trackRepo.ByID(ctx, trackID)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to create plan", err)
	}
	if track == nil {
		return nil, NewBusinessError(CodeNotFound, "Track not found", ErrTrackNotFound)
	}

	plan := &models.Plan{
		TrackID:         trackID,
		Name:            req.Name,
		Price:           req.Price,
		SetupFee:        req.SetupFee,
		ForLabel:        req.ForLabel,
		Features:        append([]string{}, req.Features...),
		Highlight:       req.Highlight,
		ResponseTime:    req.ResponseTime,
		GatewayPlanCode: req.GatewayPlanCode,
		IsActive:        utils.ToPtr(true),
	}
	if req.Order != nil {
		plan.Order = *req.Order
	}

	if err := f.planRepo.Save(ctx, plan); err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to create plan", err)
	}
	f.invalidateCatalog(ctx)

	info := ToPlanInfo(*plan)
	return &info, nil
}

// UpdatePlan applies partial changes to a plan
func (f *PlansFlowImpl) UpdatePlan(ctx context.Context, planID uint, req *dto.UpdatePlanRequest) (*dto.PlanInfo, error) {
	plan, err := f.planRepo.ByID(ctx, planID)
	if err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to update plan", err)
	}
	if plan == nil {
		return nil, NewBusinessError(CodeNotFound, "Plan not found", ErrPlanNotFound)
	}

	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.SetupFee != nil {
		plan.SetupFee = req.SetupFee
	}
	if req.ForLabel != nil {
		plan.ForLabel = *req.ForLabel
	}
	if req.Features != nil {
		plan.Features = append([]string{}, req.Features...)
	}
	if req.Highlight != nil {
		plan.Highlight = req.Highlight
	}
	if req.ResponseTime != nil {
		plan.ResponseTime = req.ResponseTime
	}
	if req.GatewayPlanCode != nil {
		plan.GatewayPlanCode = req.GatewayPlanCode
	}
	if req.Order != nil {
		plan.Order = *req.Order
	}
	if req.IsActive != nil {
		plan.IsActive = req.IsActive
	}

	if err := f.planRepo.Update(ctx, plan); err != nil {
		return nil, NewBusinessError(CodeInternalError, "Failed to update plan", err)
	}
	f.invalidateCatalog(ctx)

	info := ToPlanInfo(*plan)
	return &info, nil
}

// DeletePlan soft-deletes a plan so existing subscriptions keep their
// history while the catalog stops offering it.
func (f *PlansFlowImpl) DeletePlan(ctx context.Context, planID uint) error {
	plan, err := f.planRepo.ByID(ctx, planID)
	if err != nil {
		return NewBusinessError(CodeInternalError, "Failed to delete plan", err)
	}
	if plan == nil {
		return NewBusinessError(CodeNotFound, "Plan not found", ErrPlanNotFound)
	}

	if _, err := f.planRepo.Deactivate(ctx, planID); err != nil {
		return NewBusinessError(CodeInternalError, "Failed to delete plan", err)
	}
	f.invalidateCatalog(ctx)
	return nil
}

func (f *PlansFlowImpl) cacheKey() string {
	return f.cachePrefix + catalogCacheKey
}

func (f *PlansFlowImpl) invalidateCatalog(ctx context.Context) {
	if f.rc != nil {
		_ = f.rc.Del(ctx, f.cacheKey()).Err()
	}
}
