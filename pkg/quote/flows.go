package quote

import (
	"github.com/percursohq/percurso/pkg/domain"
	"github.com/percursohq/percurso/pkg/flow"
)

// Flow names as registered.
const (
	FlowVehicle = "vehicle-quote"
	FlowHealth  = "health-quote"
)

const dataConsent = `To prepare your quote we collect your name, e-mail, ` +
	`document number and, if you allow it, your location. The data is used ` +
	`only for pricing this quote and is kept under our privacy policy.`

// VehicleFlow builds the vehicle-quote question graph.
func VehicleFlow() *flow.Graph {
	b := flow.NewBuilder(FlowVehicle, "welcome")

	b.Step("welcome").
		Say("Hi! I'm Pri, your quoting assistant. Let's put together a vehicle quote in a few minutes.").
		Go("consent")

	b.Step("consent").
		Consent("Before we start, I need your OK to use your answers for this quote.", dataConsent).
		SaveTo("consent.accepted").
		Go("ask-name")

	b.Step("ask-name").
		Ask("What's your name?").
		Input(domain.InputFreeText).MinLen(2).
		SaveTo("identity.name").
		Go("ask-email")

	b.Step("ask-email").
		Ask("Nice to meet you, {{identity.name}}! What e-mail should I send the quote to?").
		Input(domain.InputEmail).
		SaveTo("identity.email").
		Go("ask-document")

	b.Step("ask-document").
		Ask("What's your document number (CPF)?").
		Input(domain.InputDocument).
		SaveTo("identity.document").
		Go("owns-vehicle")

	b.Step("owns-vehicle").
		Choose("Do you already have the vehicle?",
			domain.Choice{ID: "yes", Label: "Yes, it's mine", Value: "owned"},
			domain.Choice{ID: "ordering", Label: "It's on order", Value: "ordering"},
			domain.Choice{ID: "no", Label: "Still shopping around", Value: "shopping", Next: "browsing"},
		).
		SaveTo("vehicle.ownership").
		Go("ask-brand")

	b.Step("browsing").
		Say("No problem, {{identity.name}}! Come back when you've picked one and I'll price it on the spot.").
		Terminal()

	b.Step("ask-brand").
		Choose("Which brand is it?",
			domain.Choice{ID: "fiat", Label: "Fiat"},
			domain.Choice{ID: "volkswagen", Label: "Volkswagen"},
			domain.Choice{ID: "chevrolet", Label: "Chevrolet"},
			domain.Choice{ID: "other", Label: "Another brand", Next: "ask-brand-other"},
		).
		SaveTo("vehicle.brand").
		Go("ask-model")

	b.Step("ask-brand-other").
		Ask("Which brand?").
		Input(domain.InputFreeText).MinLen(2).
		SaveTo("vehicle.brand").
		Go("ask-model")

	b.Step("ask-model").
		Ask("Which {{vehicle.brand}} model?").
		Input(domain.InputFreeText).MinLen(2).
		SaveTo("vehicle.model").
		Go("ask-year")

	// Pre-2000 vehicles go through a specialist note before usage.
	b.Step("ask-year").
		Ask("What year is the {{vehicle.model}}?").
		Input(domain.InputYear).
		SaveTo("vehicle.year").
		GoBy(vintageRoute, "vintage-note", "usage")

	b.Step("vintage-note").
		Say("A classic! Vehicles from before 2000 get a specialist review, so the final price may take a bit longer.").
		Go("usage")

	b.Step("usage").
		Choose("How is the vehicle mostly used?",
			domain.Choice{ID: "commute", Label: "Daily commute"},
			domain.Choice{ID: "leisure", Label: "Weekends and leisure"},
			domain.Choice{ID: "work", Label: "Work or ride-hailing"},
		).
		SaveTo("vehicle.usage").
		Go("location")

	b.Step("location").
		Location("Where the vehicle sleeps changes the price. Can I use your device location?",
			"processing", "ask-city")

	b.Step("ask-city").
		Ask("All right! Which city and region are you in? (city, region)").
		Input(domain.InputCityRegion).
		SaveTo("location").
		Go("processing")

	b.Step("processing").
		Processing("Crunching the numbers for your {{vehicle.brand}} {{vehicle.model}}...").
		Go("summary")

	b.Step("summary").
		Say("All set, {{identity.name}}! Your vehicle quote is on its way to {{identity.email}}.").
		Terminal()

	return b.MustBuild()
}

// vintageRoute sends pre-2000 vehicles through the specialist note.
func vintageRoute(answers domain.Answers) string {
	if v, ok := answers.Get("vehicle.year"); ok {
		if year, ok := v.(int); ok && year < 2000 {
			return "vintage-note"
		}
	}
	return "usage"
}

// HealthFlow builds the health-quote question graph.
func HealthFlow() *flow.Graph {
	b := flow.NewBuilder(FlowHealth, "welcome")

	b.Step("welcome").
		Say("Hi! I'm Pri. A few questions and I'll have your health plan quote ready.").
		Go("consent")

	b.Step("consent").
		Consent("Health quotes need a bit of personal data. OK to proceed?", dataConsent).
		SaveTo("consent.accepted").
		Go("ask-name")

	b.Step("ask-name").
		Ask("What's your name?").
		Input(domain.InputFreeText).MinLen(2).
		SaveTo("identity.name").
		Go("ask-document")

	b.Step("ask-document").
		Ask("What's your document number (CPF)?").
		Input(domain.InputDocument).
		SaveTo("identity.document").
		Go("ask-age")

	// Risk-rated flow: narrower age band than the general default.
	b.Step("ask-age").
		Ask("How old are you?").
		Input(domain.InputAge).Bounds(18, 80).
		SaveTo("health.age").
		GoBy(seniorRoute, "senior-note", "smoker")

	b.Step("senior-note").
		Say("From 60 on we have dedicated plans with shorter waiting periods. I'll flag your quote for those.").
		Go("smoker")

	b.Step("smoker").
		Choose("Do you smoke?",
			domain.Choice{ID: "yes", Label: "Yes", Value: true},
			domain.Choice{ID: "no", Label: "No", Value: false},
		).
		SaveTo("health.smoker").
		Go("dependents")

	b.Step("dependents").
		Choose("Is the plan just for you or for the family?",
			domain.Choice{ID: "just-me", Label: "Just me"},
			domain.Choice{ID: "family", Label: "Me and my family"},
		).
		SaveTo("health.coverage").
		Go("location")

	b.Step("location").
		Location("Plan networks vary by area. Can I use your device location?",
			"processing", "ask-city")

	b.Step("ask-city").
		Ask("Sure! Which city and region are you in? (city, region)").
		Input(domain.InputCityRegion).
		SaveTo("location").
		Go("processing")

	b.Step("processing").
		Processing("Matching plans available around {{location.city}}...").
		Go("summary")

	b.Step("summary").
		Say("Done, {{identity.name}}! Your health plan options are ready.").
		Terminal()

	return b.MustBuild()
}

// seniorRoute flags 60+ applicants for the dedicated plans note.
func seniorRoute(answers domain.Answers) string {
	if v, ok := answers.Get("health.age"); ok {
		if age, ok := v.(int); ok && age >= 60 {
			return "senior-note"
		}
	}
	return "smoker"
}

// Register adds the shipped quote flows to a registry.
func Register(r *flow.Registry) {
	r.Register(VehicleFlow())
	r.Register(HealthFlow())
}
