// Package dataset defines the weather dataset store interface and errors.
package dataset

import (
	"context"

	"github.com/Zato1one/weatherhist/internal/domain/model"
	"github.com/Zato1one/weatherhist/internal/domain/weather"
)

// Store provides read access to the loaded weather dataset and atomic
// replacement on reload.
type Store interface {
	// Records returns a copy of the current dataset generation.
	Records(ctx context.Context) []weather.Record

	// Values returns the extracted column for a charted metric key.
	// The returned slice is shared and must not be modified.
	Values(ctx context.Context, key string) ([]float64, error)

	// Info describes the current generation. The version changes on
	// every reload.
	Info(ctx context.Context) model.DatasetInfo

	// Reload replaces the dataset from the backing source, minting a
	// new version. Readers see either the old or the new generation,
	// never a mix.
	Reload(ctx context.Context) (model.DatasetInfo, error)

	// Count returns the number of loaded records.
	Count(ctx context.Context) int
}
