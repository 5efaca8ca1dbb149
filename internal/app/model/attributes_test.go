package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributes_JSONKeepsOrder(t *testing.T) {
	var attrs Attributes
	require.NoError(t, json.Unmarshal([]byte(`{"Size":"Medium","Color":"Blue"}`), &attrs))
	assert.Equal(t, []string{"Medium", "Blue"}, attrs.Values())

	require.NoError(t, json.Unmarshal([]byte(`{"Color":"Blue","Size":"Medium"}`), &attrs))
	assert.Equal(t, []string{"Blue", "Medium"}, attrs.Values())

	data, err := json.Marshal(attrs)
	require.NoError(t, err)
	assert.Equal(t, `{"Color":"Blue","Size":"Medium"}`, string(data))
}

func TestAttributes_UnmarshalEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Attributes
		wantErr bool
	}{
		{name: "Null", input: `null`, want: nil},
		{name: "Empty object", input: `{}`, want: nil},
		{name: "Duplicate key keeps first position", input: `{"Size":"S","Color":"Red","Size":"L"}`, want: NewAttributes("Size", "L", "Color", "Red")},
		{name: "Array", input: `["Size"]`, wantErr: true},
		{name: "Non string value", input: `{"Size":12}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attrs Attributes
			err := json.Unmarshal([]byte(tt.input), &attrs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, attrs)
		})
	}
}

func TestAttributes_MarshalEmpty(t *testing.T) {
	data, err := json.Marshal(Attributes(nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestAttributes_EqualIgnoresOrder(t *testing.T) {
	a := NewAttributes("Size", "Medium", "Color", "Natural")
	b := NewAttributes("Color", "Natural", "Size", "Medium")

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.False(t, a.Equal(NewAttributes("Size", "Medium")))
	assert.False(t, a.Equal(NewAttributes("Size", "Medium", "Color", "Blue")))
	assert.False(t, a.Equal(NewAttributes("Size", "Medium", "Colour", "Natural")))
	assert.True(t, Attributes(nil).Equal(Attributes{}))
}

func TestAttributes_WithDoesNotMutate(t *testing.T) {
	base := NewAttributes("Size", "Small")
	changed := base.With("Size", "Large")

	v, _ := base.Get("Size")
	assert.Equal(t, "Small", v)
	v, _ = changed.Get("Size")
	assert.Equal(t, "Large", v)

	_, ok := base.Get("Color")
	assert.False(t, ok)
}
