package infrastructure

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/Victor-armando18/vehicle-admin/internal/domain"
)

// ProjectUpdate merges delta into original as an RFC 7386 merge patch and
// returns the record the API will hold once the PATCH is applied.
func ProjectUpdate(original, delta domain.Record) (domain.Record, error) {
	if original == nil {
		original = domain.Record{}
	}
	originalJSON, err := json.Marshal(original)
	if err != nil {
		return nil, fmt.Errorf("%w: encode original: %v", domain.ErrInvalidRecord, err)
	}
	patchJSON, err := json.Marshal(delta)
	if err != nil {
		return nil, fmt.Errorf("%w: encode delta: %v", domain.ErrInvalidRecord, err)
	}

	modifiedJSON, err := jsonpatch.MergePatch(originalJSON, patchJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to apply merge patch: %w", err)
	}

	var projected domain.Record
	if err := json.Unmarshal(modifiedJSON, &projected); err != nil {
		return nil, fmt.Errorf("failed to decode projected record: %w", err)
	}
	return projected, nil
}

// MergePatchBody is the RFC 7386 patch between the two records as computed
// by json-patch. Unlike the reconciler's delta it reports deleted keys as
// null and compares dates as plain strings.
func MergePatchBody(original, updated domain.Record) (json.RawMessage, error) {
	originalJSON, err := json.Marshal(original)
	if err != nil {
		return nil, fmt.Errorf("%w: encode original: %v", domain.ErrInvalidRecord, err)
	}
	updatedJSON, err := json.Marshal(updated)
	if err != nil {
		return nil, fmt.Errorf("%w: encode updated: %v", domain.ErrInvalidRecord, err)
	}
	patch, err := jsonpatch.CreateMergePatch(originalJSON, updatedJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to create merge patch: %w", err)
	}
	return patch, nil
}
