package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promopulse/promopulse/pkg/models"
)

func TestNewID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := models.NewID()
		require.Len(t, id, 9)
		for _, c := range id {
			require.True(t, (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z'),
				"unexpected character %q in id %q", c, id)
		}
		seen[id] = struct{}{}
	}
	// Collisions across a thousand draws would mean the generator is broken.
	assert.Len(t, seen, 1000)
}

func TestUniqueCode(t *testing.T) {
	code := models.UniqueCode("Jane Doe", "5551234")
	assert.NotEmpty(t, code)
	assert.Equal(t, code, models.UniqueCode("Jane Doe", "5551234"))

	// Case and surrounding whitespace do not change the identity.
	assert.Equal(t, code, models.UniqueCode("  jane doe ", " 5551234"))

	assert.NotEqual(t, code, models.UniqueCode("Jane Doe", "5559999"))
	assert.NotEqual(t, code, models.UniqueCode("John Doe", "5551234"))
}

func TestSaleStatus(t *testing.T) {
	assert.False(t, models.SalePending.Terminal())
	assert.True(t, models.SaleVerified.Terminal())
	assert.True(t, models.SaleRejected.Terminal())

	assert.True(t, models.SalePending.Valid())
	assert.False(t, models.SaleStatus("Unknown").Valid())
	assert.False(t, models.SaleStatus("Unknown").Terminal())
}
