package service

import (
	"encoding/json"
	"testing"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexNumber(t *testing.T) {
	var v struct {
		A FlexNumber `json:"a"`
		B FlexNumber `json:"b"`
		C FlexNumber `json:"c"`
		D FlexNumber `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 4, "b": " 2.5 ", "c": null, "d": ""}`), &v))

	n, err := v.A.Int()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	f, err := v.B.Float()
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	for _, raw := range []string{"NaN", "nan", "Inf", "-Inf", "Infinity", "+Infinity"} {
		_, err := NewFlexNumber(raw).Float()
		assert.Error(t, err, raw)
	}

	assert.False(t, v.C.IsSet())
	assert.False(t, v.D.IsSet())

	assert.Error(t, json.Unmarshal([]byte(`{"a": true}`), &v))
}

func TestStringList(t *testing.T) {
	cases := map[string][]string{
		`"rust, loose pad ,, "`:   {"rust", "loose pad"},
		`["rust", " ", "crack "]`: {"rust", "crack"},
		`""`:                      {},
		`null`:                    nil,
	}
	for input, want := range cases {
		var l StringList
		require.NoError(t, json.Unmarshal([]byte(input), &l), input)
		if want == nil {
			assert.Nil(t, l, input)
			continue
		}
		assert.Equal(t, want, []string(l), input)
	}

	var l StringList
	assert.Error(t, json.Unmarshal([]byte(`42`), &l))
}

func TestPartsList(t *testing.T) {
	var l PartsList
	require.NoError(t, json.Unmarshal([]byte(`"ERC clip, GFN liner"`), &l))
	assert.Equal(t, []entity.PartUsed{{Name: "ERC clip", Quantity: 1}, {Name: "GFN liner", Quantity: 1}}, []entity.PartUsed(l))

	require.NoError(t, json.Unmarshal([]byte(`[{"name": "pad", "quantity": 4}, "bolt", {"name": "washer"}, {"name": " "}]`), &l))
	assert.Equal(t, []entity.PartUsed{
		{Name: "pad", Quantity: 4},
		{Name: "bolt", Quantity: 1},
		{Name: "washer", Quantity: 1},
	}, []entity.PartUsed(l))

	assert.Error(t, json.Unmarshal([]byte(`{"name": "pad"}`), &l))
}
