package preview

import (
	"context"
	"encoding/json"

	"github.com/mitchellh/copystructure"

	"github.com/Victor-armando18/vehicle-admin/internal/domain"
	"github.com/Victor-armando18/vehicle-admin/internal/domain/guard"
	"github.com/Victor-armando18/vehicle-admin/internal/infrastructure"
	"github.com/Victor-armando18/vehicle-admin/pkg/payload"
)

// Result describes what an update would send without sending it.
type Result struct {
	Delta       domain.Record           `json:"delta"`
	Body        domain.Record           `json:"body"`
	Projected   domain.Record           `json:"projected"`
	MergePatch  json.RawMessage         `json:"mergePatch,omitempty"`
	GuardsHit   []domain.GuardViolation `json:"guardsHit"`
	ServerDelta bool                    `json:"serverDelta"`
}

type UseCase struct {
	Reconciler *payload.Reconciler
	Guards     interface {
		Check(ctx context.Context, facts guard.Facts) []domain.GuardViolation
	}
}

func (u *UseCase) Run(ctx context.Context, original, updated domain.Record) (Result, error) {
	before, err := copystructure.Copy(original)
	if err != nil {
		return Result{}, err
	}
	snapshot, _ := before.(domain.Record)

	delta := payload.ChangedFields(original, updated)
	body, changed := u.reconciler().Reconcile(original, updated)

	res := Result{
		Delta:       delta,
		Body:        body,
		Projected:   snapshot,
		GuardsHit:   []domain.GuardViolation{},
		ServerDelta: changed,
	}
	if snapshot == nil {
		res.Projected = domain.Record{}
	}
	if !changed {
		return res, nil
	}

	if res.Projected, err = infrastructure.ProjectUpdate(snapshot, body); err != nil {
		return Result{}, err
	}
	if res.MergePatch, err = infrastructure.MergePatchBody(original, updated); err != nil {
		return Result{}, err
	}
	if u.Guards != nil {
		res.GuardsHit = u.Guards.Check(ctx, guard.Facts{Original: original, Updated: updated, Delta: body})
	}
	return res, nil
}

func (u *UseCase) reconciler() *payload.Reconciler {
	if u.Reconciler == nil {
		return payload.NewReconciler(nil)
	}
	return u.Reconciler
}
