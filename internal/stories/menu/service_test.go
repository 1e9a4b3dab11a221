package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeedEmbedded(t *testing.T) {
	items, err := parseSeed(seedYAML)
	require.NoError(t, err)
	require.NotEmpty(t, items)

	ids := make(map[string]bool)
	for i, item := range items {
		assert.False(t, ids[item.ID], "duplicate id %s", item.ID)
		ids[item.ID] = true
		assert.Equal(t, i, item.SortOrder)
		assert.True(t, item.Available)
		assert.True(t, item.Price.IsPositive(), item.ID)
	}

	assert.True(t, ids["shawarma_classic"])
	assert.True(t, ids["tea"])
}

func TestParseSeed(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
		want    string
	}{
		{
			name: "decimal price",
			data: "items:\n  - id: tea\n    name: Чай\n    category: drinks\n    price: \"70.50\"\n",
			want: "70.5",
		},
		{
			name: "unquoted price",
			data: "items:\n  - id: ayran\n    name: Айран\n    category: drinks\n    price: 90\n",
			want: "90",
		},
		{
			name:    "bad price",
			data:    "items:\n  - id: tea\n    category: drinks\n    price: free\n",
			wantErr: true,
		},
		{
			name:    "unknown category",
			data:    "items:\n  - id: pizza\n    category: pizza\n    price: \"500\"\n",
			wantErr: true,
		},
		{
			name:    "broken yaml",
			data:    "items: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := parseSeed([]byte(tt.data))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, tt.want, items[0].Price.String())
		})
	}
}
