// internal/domain/cart/blob_test.go
package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-gateway/internal/domain/identity"
)

func TestBlobRoundTrip(t *testing.T) {
	partitions := map[string][]LineItem{
		"guest": {
			{Product: product("1", "10.00"), Quantity: 2},
		},
		"42": {
			{Product: product("2", "5.00"), Quantity: 1},
			{Product: product("3", "999.99"), Quantity: 4},
		},
	}

	encoded, err := encodeBlob(partitions, identity.User("42"))
	require.NoError(t, err)

	decoded, active := decodeBlob(encoded)
	assert.Equal(t, identity.User("42"), active)
	assert.Equal(t, partitions, decoded)

	// Encoding what was decoded yields the same state again
	reencoded, err := encodeBlob(decoded, active)
	require.NoError(t, err)
	redecoded, reactive := decodeBlob(reencoded)
	assert.Equal(t, decoded, redecoded)
	assert.Equal(t, active, reactive)
}

func TestDecodeBlobDefaultsOnBadInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty string", data: ""},
		{name: "not json", data: "{broken"},
		{name: "wrong type", data: `"just a string"`},
		{name: "wrong shape", data: `{"userCarts": 12}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			partitions, active := decodeBlob(tt.data)
			assert.Empty(t, partitions)
			assert.Equal(t, identity.Guest(), active)
		})
	}
}

func TestDecodeBlobMigratesLegacyNumericIDs(t *testing.T) {
	// Browser-era blob: no version field, numeric product ids
	legacy := `{
		"userCarts": {
			"guest": [
				{"product": {"id": 3, "name": "Screen Protector", "price": "9.99"}, "quantity": 2}
			]
		},
		"currentUserId": null
	}`

	partitions, active := decodeBlob(legacy)
	assert.Equal(t, identity.Guest(), active)
	require.Len(t, partitions["guest"], 1)
	assert.Equal(t, "3", partitions["guest"][0].Product.ID)
	assert.Equal(t, 2, partitions["guest"][0].Quantity)
}

func TestDecodeBlobReadsCurrentUser(t *testing.T) {
	data := `{"version": 2, "userCarts": {"7": []}, "currentUserId": "7"}`

	partitions, active := decodeBlob(data)
	assert.Equal(t, identity.User("7"), active)
	assert.Contains(t, partitions, "7")
}

func TestDecodeBlobDropsInvalidRows(t *testing.T) {
	data := `{
		"version": 2,
		"userCarts": {
			"guest": [
				{"product": {"id": "1", "price": "1.00"}, "quantity": 0},
				{"product": {"id": "", "price": "1.00"}, "quantity": 2},
				{"product": {"id": "2", "price": "2.00"}, "quantity": 3}
			]
		}
	}`

	partitions, _ := decodeBlob(data)
	require.Len(t, partitions["guest"], 1)
	assert.Equal(t, "2", partitions["guest"][0].Product.ID)
}

func TestEncodeBlobOmitsGuestCurrentUser(t *testing.T) {
	encoded, err := encodeBlob(map[string][]LineItem{}, identity.Guest())
	require.NoError(t, err)
	assert.Contains(t, encoded, `"currentUserId":null`)
	assert.Contains(t, encoded, `"version":2`)
}

func TestLineItemSubtotal(t *testing.T) {
	tests := []struct {
		name string
		item LineItem
		want float64
	}{
		{name: "plain decimal", item: LineItem{Product: product("1", "10.50"), Quantity: 2}, want: 21.0},
		{name: "unparsable price", item: LineItem{Product: product("1", "N/A"), Quantity: 3}, want: 0},
		{name: "empty price", item: LineItem{Product: product("1", ""), Quantity: 1}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.item.Subtotal(), 0.001)
		})
	}
}
