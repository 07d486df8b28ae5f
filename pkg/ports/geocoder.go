package ports

import (
	"context"

	"github.com/percursohq/percurso/pkg/geo"
)

// Geocoder resolves coordinates into a locality. It is a fallible
// external call: the engine maps any error to the same fallback path
// as a failed acquisition.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, coords geo.Coordinates) (geo.Place, error)
}
