package usecase

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Victor-armando18/vehicle-admin/internal/domain"
	"github.com/Victor-armando18/vehicle-admin/internal/domain/guard"
	"github.com/Victor-armando18/vehicle-admin/internal/infrastructure"
	"github.com/Victor-armando18/vehicle-admin/internal/interfaces"
	"github.com/Victor-armando18/vehicle-admin/pkg/payload"
)

type UpdateService struct {
	api        interfaces.VehicleAPI
	reconciler *payload.Reconciler
	guards     interfaces.GuardChecker
	metrics    interfaces.MetricsRecorder
}

// NewUpdateService wires the update workflow. guards and metrics may be nil.
func NewUpdateService(api interfaces.VehicleAPI, reconciler *payload.Reconciler, guards interfaces.GuardChecker, metrics interfaces.MetricsRecorder) *UpdateService {
	if reconciler == nil {
		reconciler = payload.NewReconciler(nil)
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UpdateService{api: api, reconciler: reconciler, guards: guards, metrics: metrics}
}

// UpdateVehicle sends the fields that changed between the original and the
// updated record as a PATCH. Nothing is sent when nothing changed.
func (s *UpdateService) UpdateVehicle(ctx context.Context, req domain.UpdateRequest) (*domain.UpdateResult, error) {
	if req.ID == "" {
		return nil, fmt.Errorf("%w: missing vehicle id", domain.ErrInvalidRecord)
	}
	ctx, corrID := withCorrelation(ctx)
	logger := log.With().Str("vehicle", req.ID).Str("correlation_id", corrID).Logger()

	original := req.Original
	if original == nil {
		fetched, err := s.api.GetVehicle(ctx, req.ID)
		if err != nil {
			s.metrics.RecordUpstreamError("get")
			return nil, fmt.Errorf("load vehicle %s: %w", req.ID, err)
		}
		original = fetched
	}

	body, changed := s.reconciler.Reconcile(original, req.Updated)
	if !changed {
		logger.Debug().Msg("no changes, patch skipped")
		s.metrics.RecordUpdate(string(domain.StatusUnchanged), 0)
		return &domain.UpdateResult{
			ID:            req.ID,
			Status:        domain.StatusUnchanged,
			CorrelationID: corrID,
			Vehicle:       original,
		}, nil
	}

	if hits := s.check(ctx, guard.Facts{Original: original, Updated: req.Updated, Delta: body}); len(hits) > 0 {
		return s.blocked(logger, req.ID, corrID, body, hits)
	}

	resp, err := s.api.PatchVehicle(ctx, req.ID, body)
	if err != nil {
		s.metrics.RecordUpstreamError("patch")
		s.metrics.RecordUpdate("failed", len(body))
		return nil, fmt.Errorf("patch vehicle %s: %w", req.ID, err)
	}

	vehicle := resp
	if len(vehicle) == 0 {
		if vehicle, err = infrastructure.ProjectUpdate(original, body); err != nil {
			logger.Warn().Err(err).Msg("could not project updated vehicle")
		}
	}

	logger.Info().Strs("fields", fieldNames(body)).Msg("vehicle updated")
	s.metrics.RecordUpdate(string(domain.StatusUpdated), len(body))
	return &domain.UpdateResult{
		ID:            req.ID,
		Status:        domain.StatusUpdated,
		CorrelationID: corrID,
		Body:          body,
		Vehicle:       vehicle,
	}, nil
}

// CreateVehicle sanitizes a full record and creates it.
func (s *UpdateService) CreateVehicle(ctx context.Context, record domain.Record) (*domain.UpdateResult, error) {
	ctx, corrID := withCorrelation(ctx)
	logger := log.With().Str("correlation_id", corrID).Logger()

	body := s.reconciler.Sanitizer.Sanitize(record)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: nothing to create", domain.ErrInvalidRecord)
	}

	if hits := s.check(ctx, guard.Facts{Updated: record, Delta: body}); len(hits) > 0 {
		return s.blocked(logger, "", corrID, body, hits)
	}

	resp, err := s.api.CreateVehicle(ctx, body)
	if err != nil {
		s.metrics.RecordUpstreamError("create")
		s.metrics.RecordUpdate("failed", len(body))
		return nil, fmt.Errorf("create vehicle: %w", err)
	}

	id := ""
	if v, ok := resp["id"]; ok && v != nil {
		id = fmt.Sprint(v)
	}
	logger.Info().Str("vehicle", id).Msg("vehicle created")
	s.metrics.RecordUpdate(string(domain.StatusCreated), len(body))
	return &domain.UpdateResult{
		ID:            id,
		Status:        domain.StatusCreated,
		CorrelationID: corrID,
		Body:          body,
		Vehicle:       resp,
	}, nil
}

func (s *UpdateService) check(ctx context.Context, facts guard.Facts) []domain.GuardViolation {
	if s.guards == nil {
		return nil
	}
	return s.guards.Check(ctx, facts)
}

func (s *UpdateService) blocked(logger zerolog.Logger, id, corrID string, body domain.Record, hits []domain.GuardViolation) (*domain.UpdateResult, error) {
	logger.Warn().Str("rule", hits[0].RuleID).Int("violations", len(hits)).Msg("update blocked by guards")
	s.metrics.RecordUpdate(string(domain.StatusBlocked), len(body))
	return &domain.UpdateResult{
		ID:            id,
		Status:        domain.StatusBlocked,
		CorrelationID: corrID,
		Body:          body,
		GuardsHit:     hits,
	}, fmt.Errorf("%w: %s", domain.ErrGuardViolation, hits[0].Context)
}

func withCorrelation(ctx context.Context) (context.Context, string) {
	if id := domain.CorrelationIDFrom(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return domain.WithCorrelationID(ctx, id), id
}

func fieldNames(rec domain.Record) []string {
	return slices.Sorted(maps.Keys(rec))
}

type noopMetrics struct{}

func (noopMetrics) RecordUpdate(string, int)   {}
func (noopMetrics) RecordUpstreamError(string) {}
