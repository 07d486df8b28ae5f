package quote_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/percursohq/percurso/pkg/domain"
	"github.com/percursohq/percurso/pkg/quote"
)

func vehicleAnswers() domain.Answers {
	return domain.Answers{
		"consent":  {"accepted": true},
		"identity": {"name": "Maria Silva", "email": "maria@example.com", "document": "52998224725"},
		"vehicle":  {"ownership": "owned", "brand": "fiat", "model": "Argo", "year": 2021, "usage": "commute"},
		"location": {"city": "Recife", "region": "PE"},
	}
}

func TestDecodeVehicleQuote(t *testing.T) {
	q, err := quote.DecodeVehicleQuote(vehicleAnswers())
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", q.Identity.Name)
	assert.Equal(t, 2021, q.Vehicle.Year)
	assert.Equal(t, "PE", q.Location.Region)
}

func TestDecodeVehicleQuote_JSONRoundTripWidening(t *testing.T) {
	// A store round-trip turns ints into float64; decoding must cope.
	data, err := json.Marshal(vehicleAnswers())
	require.NoError(t, err)
	var answers domain.Answers
	require.NoError(t, json.Unmarshal(data, &answers))

	q, err := quote.DecodeVehicleQuote(answers)
	require.NoError(t, err)
	assert.Equal(t, 2021, q.Vehicle.Year)
}

func TestDecodeVehicleQuote_RequiresConsent(t *testing.T) {
	answers := vehicleAnswers()
	answers["consent"] = map[string]any{"accepted": false}

	_, err := quote.DecodeVehicleQuote(answers)
	assert.ErrorContains(t, err, "consent")
}

func TestDecodeVehicleQuote_MissingFields(t *testing.T) {
	answers := vehicleAnswers()
	delete(answers, "vehicle")

	_, err := quote.DecodeVehicleQuote(answers)
	assert.ErrorContains(t, err, "invalid vehicle record")

	answers = vehicleAnswers()
	answers["identity"] = map[string]any{"name": "Maria Silva"}
	_, err = quote.DecodeVehicleQuote(answers)
	assert.ErrorContains(t, err, "invalid identity record")
}

func TestDecodeHealthQuote(t *testing.T) {
	answers := domain.Answers{
		"consent":  {"accepted": true},
		"identity": {"name": "Jose Santos", "document": "11144477735"},
		"health":   {"age": 35, "smoker": false, "coverage": "family"},
		"location": {"city": "Recife", "region": "PE"},
	}

	q, err := quote.DecodeHealthQuote(answers)
	require.NoError(t, err)
	assert.Equal(t, 35, q.Health.Age)
	assert.Equal(t, "family", q.Health.Coverage)

	// Health quotes don't collect an e-mail.
	assert.Empty(t, q.Identity.Email)
}

func TestDecodeHealthQuote_AgeBounds(t *testing.T) {
	answers := domain.Answers{
		"consent":  {"accepted": true},
		"identity": {"name": "Jose Santos", "document": "11144477735"},
		"health":   {"age": 17, "coverage": "just-me"},
	}

	_, err := quote.DecodeHealthQuote(answers)
	assert.ErrorContains(t, err, "invalid health record")
}
