package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type Ref struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Image struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
}

type Pricing struct {
	ListPrice float64  `json:"listPrice,omitempty"`
	SalePrice *float64 `json:"salePrice"`
	Currency  string   `json:"currency,omitempty"`
}

type Internal struct {
	StockNumber     string     `json:"stockNumber,omitempty"`
	AcquisitionCost float64    `json:"acquisitionCost,omitempty"`
	AcquiredAt      *time.Time `json:"acquiredAt"`
}

// Vehicle is the edit form of a dealership listing. Optional fields are
// pointers so that a cleared form field maps to null rather than a zero.
type Vehicle struct {
	ID           string     `json:"id,omitempty"`
	VIN          string     `json:"vin,omitempty"`
	Status       *Ref       `json:"status"`
	Make         *Ref       `json:"make"`
	Model        *Ref       `json:"model"`
	Year         int        `json:"year,omitempty"`
	VehicleType  *Ref       `json:"vehicleType"`
	FuelType     *Ref       `json:"fuelType"`
	Transmission *Ref       `json:"transmission"`
	DriveType    *Ref       `json:"driveType"`
	Mileage      *int       `json:"mileage"`
	Colour       string     `json:"colour,omitempty"`
	Features     []string   `json:"features"`
	Images       []Image    `json:"images"`
	Pricing      *Pricing   `json:"pricing"`
	Internal     *Internal  `json:"internal"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
	LegacyKey    *int       `json:"__v,omitempty"`
}

// ToRecord maps the vehicle into the nested record shape the API returns.
func (v Vehicle) ToRecord() (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal vehicle %s: %w", v.ID, err)
	}
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal vehicle %s: %w", v.ID, err)
	}
	return rec, nil
}

// FromRecord decodes an API record into a Vehicle.
func FromRecord(rec map[string]any) (Vehicle, error) {
	var v Vehicle
	data, err := json.Marshal(rec)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode vehicle record: %w", err)
	}
	return v, nil
}

// FormRecord maps submitted form data through the Vehicle type, so that the
// result has the same nested shape as a record returned by the API: unknown
// fields are dropped, cleared optional fields become null.
func FormRecord(form map[string]any) (map[string]any, error) {
	v, err := FromRecord(form)
	if err != nil {
		return nil, err
	}
	return v.ToRecord()
}
