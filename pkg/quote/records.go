package quote

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/mapstructure"

	"github.com/percursohq/percurso/pkg/domain"
)

// Identity is the contact sub-record shared by every quote type.
type Identity struct {
	Name     string `mapstructure:"name" json:"name"`
	Email    string `mapstructure:"email" json:"email,omitempty"`
	Document string `mapstructure:"document" json:"document"`
}

// Consent records the accepted disclosure.
type Consent struct {
	Accepted bool `mapstructure:"accepted" json:"accepted"`
}

// Location is where the risk lives. Coordinates are only present when
// the device location was granted.
type Location struct {
	City      string  `mapstructure:"city" json:"city"`
	Region    string  `mapstructure:"region" json:"region"`
	Country   string  `mapstructure:"country" json:"country,omitempty"`
	Latitude  float64 `mapstructure:"latitude" json:"latitude,omitempty"`
	Longitude float64 `mapstructure:"longitude" json:"longitude,omitempty"`
}

// Vehicle is the insured object of a vehicle quote.
type Vehicle struct {
	Ownership string `mapstructure:"ownership" json:"ownership"`
	Brand     string `mapstructure:"brand" json:"brand"`
	Model     string `mapstructure:"model" json:"model"`
	Year      int    `mapstructure:"year" json:"year"`
	Usage     string `mapstructure:"usage" json:"usage"`
}

// Health is the risk profile of a health quote.
type Health struct {
	Age      int    `mapstructure:"age" json:"age"`
	Smoker   bool   `mapstructure:"smoker" json:"smoker"`
	Coverage string `mapstructure:"coverage" json:"coverage"`
}

// VehicleQuote is the typed record a completed vehicle flow decodes into.
type VehicleQuote struct {
	Identity Identity `mapstructure:"identity" json:"identity"`
	Consent  Consent  `mapstructure:"consent" json:"consent"`
	Vehicle  Vehicle  `mapstructure:"vehicle" json:"vehicle"`
	Location Location `mapstructure:"location" json:"location"`
}

// HealthQuote is the typed record a completed health flow decodes into.
type HealthQuote struct {
	Identity Identity `mapstructure:"identity" json:"identity"`
	Consent  Consent  `mapstructure:"consent" json:"consent"`
	Health   Health   `mapstructure:"health" json:"health"`
	Location Location `mapstructure:"location" json:"location"`
}

// decode maps the topic-partitioned answer record onto a typed struct.
// Weak typing tolerates the numeric widening a JSON store round-trip
// introduces (ints come back as float64).
func decode(answers domain.Answers, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(map[string]map[string]any(answers)); err != nil {
		return fmt.Errorf("failed to decode answers: %w", err)
	}
	return nil
}

func (i Identity) validate(emailRequired bool) error {
	rules := []*validation.FieldRules{
		validation.Field(&i.Name, validation.Required),
		validation.Field(&i.Document, validation.Required, validation.Length(11, 11)),
	}
	if emailRequired {
		rules = append(rules, validation.Field(&i.Email, validation.Required))
	}
	return validation.ValidateStruct(&i, rules...)
}

// DecodeVehicleQuote converts a completed vehicle flow's answers into
// the typed record, validating the fields the flow must have captured.
func DecodeVehicleQuote(answers domain.Answers) (*VehicleQuote, error) {
	var q VehicleQuote
	if err := decode(answers, &q); err != nil {
		return nil, err
	}
	if !q.Consent.Accepted {
		return nil, fmt.Errorf("vehicle quote without accepted consent")
	}
	if err := q.Identity.validate(true); err != nil {
		return nil, fmt.Errorf("invalid identity record: %w", err)
	}
	if err := validation.ValidateStruct(&q.Vehicle,
		validation.Field(&q.Vehicle.Brand, validation.Required),
		validation.Field(&q.Vehicle.Model, validation.Required),
		validation.Field(&q.Vehicle.Year, validation.Required, validation.Min(1990)),
		validation.Field(&q.Vehicle.Usage, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("invalid vehicle record: %w", err)
	}
	if err := validation.ValidateStruct(&q.Location,
		validation.Field(&q.Location.City, validation.Required),
		validation.Field(&q.Location.Region, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("invalid location record: %w", err)
	}
	return &q, nil
}

// DecodeHealthQuote converts a completed health flow's answers into the
// typed record.
func DecodeHealthQuote(answers domain.Answers) (*HealthQuote, error) {
	var q HealthQuote
	if err := decode(answers, &q); err != nil {
		return nil, err
	}
	if !q.Consent.Accepted {
		return nil, fmt.Errorf("health quote without accepted consent")
	}
	if err := q.Identity.validate(false); err != nil {
		return nil, fmt.Errorf("invalid identity record: %w", err)
	}
	if err := validation.ValidateStruct(&q.Health,
		validation.Field(&q.Health.Age, validation.Required, validation.Min(18), validation.Max(80)),
		validation.Field(&q.Health.Coverage, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("invalid health record: %w", err)
	}
	return &q, nil
}
