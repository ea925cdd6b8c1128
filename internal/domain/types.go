package domain

import (
	"errors"
)

// Record is an untyped nested vehicle record as exchanged with the API.
type Record = map[string]any

// --- Update workflow ---

type UpdateStatus string

const (
	StatusUpdated   UpdateStatus = "updated"
	StatusUnchanged UpdateStatus = "unchanged"
	StatusBlocked   UpdateStatus = "blocked"
	StatusCreated   UpdateStatus = "created"
)

// UpdateRequest carries the last known state of a vehicle and the edited
// form mapped into the same shape. Original may be nil, in which case it
// is fetched from the API first.
type UpdateRequest struct {
	ID       string `json:"id"`
	Original Record `json:"original,omitempty"`
	Updated  Record `json:"updated"`
}

type UpdateResult struct {
	ID            string           `json:"id"`
	Status        UpdateStatus     `json:"status"`
	CorrelationID string           `json:"correlationId,omitempty"`
	Body          Record           `json:"body,omitempty"`
	Vehicle       Record           `json:"vehicle,omitempty"`
	GuardsHit     []GuardViolation `json:"guardsHit,omitempty"`
}

type GuardViolation struct {
	RuleID  string `json:"ruleId"`
	Reason  string `json:"reason"`
	Context string `json:"context"`
}

// --- Guard rule packs ---

type RulePackDefinition struct {
	Version     string       `json:"version" yaml:"version"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Guards      []RuleConfig `json:"guards" yaml:"guards"`
}

type RuleConfig struct {
	ID           string         `json:"id" yaml:"id"`
	Logic        map[string]any `json:"logic" yaml:"logic"`
	ErrorMessage string         `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}

// --- Errors ---
var (
	ErrRuleExecutionFailed = errors.New("rule execution failed")
	ErrGuardViolation      = errors.New("update blocked by guard")
	ErrVehicleNotFound     = errors.New("vehicle not found")
	ErrUpstreamRejected    = errors.New("upstream api rejected request")
	ErrUpstreamUnreachable = errors.New("upstream api unreachable")
	ErrInvalidRecord       = errors.New("invalid record")
	ErrConfigInvalid       = errors.New("invalid configuration")
)
