package interfaces

import (
	"context"

	"github.com/Victor-armando18/vehicle-admin/internal/domain"
	"github.com/Victor-armando18/vehicle-admin/internal/domain/guard"
)

var ErrRuleExecutionFailed = domain.ErrRuleExecutionFailed

// RulePackLoader loads guard packs (from disk, network, etc.).
type RulePackLoader interface {
	Load(ctx context.Context, version string) (*domain.RulePackDefinition, error)
}

// RuleExecutor executes a JsonLogic rule with custom operators.
type RuleExecutor interface {
	Execute(ctx context.Context, ruleData map[string]any, contextVars map[string]any) (any, error)
	RegisterCustomOperator(name string, logic func(args ...any) any)
}

type GuardChecker interface {
	Check(ctx context.Context, facts guard.Facts) []domain.GuardViolation
}

// VehicleAPI is the remote dealership REST API.
type VehicleAPI interface {
	GetVehicle(ctx context.Context, id string) (domain.Record, error)
	PatchVehicle(ctx context.Context, id string, body domain.Record) (domain.Record, error)
	CreateVehicle(ctx context.Context, body domain.Record) (domain.Record, error)
}

type MetricsRecorder interface {
	RecordUpdate(outcome string, fields int)
	RecordUpstreamError(operation string)
}

// UpdateFacade is the entry point used by the HTTP service and the CLI.
type UpdateFacade interface {
	UpdateVehicle(ctx context.Context, req domain.UpdateRequest) (*domain.UpdateResult, error)
	CreateVehicle(ctx context.Context, record domain.Record) (*domain.UpdateResult, error)
}
