package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/macrotrack/internal/errs"
	"github.com/mmynk/macrotrack/internal/models"
	"github.com/mmynk/macrotrack/internal/storage"
	"github.com/mmynk/macrotrack/internal/targets"
	"github.com/mmynk/macrotrack/pkg/api"
	"github.com/mmynk/macrotrack/pkg/api/apiconnect"
)

var _ apiconnect.ProfileServiceHandler = (*ProfileService)(nil)

// ProfileService implements the Connect ProfileService.
type ProfileService struct {
	store storage.ProfileStore
}

// NewProfileService creates a new ProfileService with the given storage backend.
func NewProfileService(store storage.ProfileStore) *ProfileService {
	return &ProfileService{store: store}
}

// SaveProfile stores the profile and recomputes the user's targets. This is
// the only way targets change.
func (s *ProfileService) SaveProfile(ctx context.Context, req *connect.Request[api.SaveProfileRequest]) (*connect.Response[api.SaveProfileResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("SaveProfile request received", "user_id", userID)

	in := req.Msg.Profile
	if in == nil {
		return nil, connectError(errs.Validation("SaveProfile", "profile is required"))
	}
	profile := &models.Profile{
		UserID:        userID,
		DisplayName:   strings.TrimSpace(in.DisplayName),
		Sex:           models.Sex(strings.ToLower(in.Sex)),
		Age:           int(in.Age),
		HeightCM:      in.HeightCm,
		WeightKG:      in.WeightKg,
		ActivityLevel: strings.ToLower(in.ActivityLevel),
		Goal:          models.Goal(strings.ToLower(in.Goal)),
	}

	computed, err := targets.Compute(profile)
	if err != nil {
		return nil, connectError(err)
	}

	if err := s.store.SaveProfile(ctx, profile, computed); err != nil {
		slog.Error("SaveProfile failed", "user_id", userID, "error", err)
		return nil, connectError(storage.Classify("SaveProfile", err))
	}

	slog.Info("Profile saved", "user_id", userID, "calories_target", computed.Calories)
	return connect.NewResponse(&api.SaveProfileResponse{
		Profile: toAPIProfile(profile),
		Targets: toAPITargets(computed),
	}), nil
}

// GetProfile returns the caller's profile and current targets.
func (s *ProfileService) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetProfile request received", "user_id", userID)

	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, connectError(storage.Classify("GetProfile", err))
	}
	t, err := s.store.GetTargets(ctx, userID)
	if err != nil {
		return nil, connectError(storage.Classify("GetProfile", err))
	}

	return connect.NewResponse(&api.GetProfileResponse{
		Profile: toAPIProfile(profile),
		Targets: toAPITargets(*t),
	}), nil
}
