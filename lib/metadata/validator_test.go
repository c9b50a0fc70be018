package metadata

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cpm-backend/models/api/apierrors"
	dbmodels "cpm-backend/models/db"
)

func TestValidateISO(t *testing.T) {
	t.Run("valid metadata passes", func(t *testing.T) {
		md := dbmodels.Metadata{
			"discipline":    "structural",
			"document_type": "drawing",
			"zone":          "A",
			"sheet_number":  float64(12),
			"superseded":    false,
		}
		require.NoError(t, ValidateISO(md))
	})

	t.Run("missing required fields are all reported", func(t *testing.T) {
		err := ValidateISO(dbmodels.Metadata{})
		require.Error(t, err)
		require.Equal(t, apierrors.KindValidation, apierrors.KindOf(err))
		require.Contains(t, err.Error(), "discipline is required")
		require.Contains(t, err.Error(), "document_type is required")
	})

	t.Run("wrong types and unknown fields collected in one error", func(t *testing.T) {
		md := dbmodels.Metadata{
			"discipline":    "structural",
			"document_type": 7,
			"sheet_number":  "twelve",
			"floor_color":   "blue",
		}
		err := ValidateISO(md)
		require.Error(t, err)
		require.Contains(t, err.Error(), "document_type has wrong type")
		require.Contains(t, err.Error(), "sheet_number has wrong type")
		require.Contains(t, err.Error(), "floor_color is not a known field")
	})

	t.Run("empty string fails the string type check", func(t *testing.T) {
		md := dbmodels.Metadata{
			"discipline":    "",
			"document_type": "drawing",
		}
		err := ValidateISO(md)
		require.Error(t, err)
		require.Contains(t, err.Error(), "discipline has wrong type")
	})
}
