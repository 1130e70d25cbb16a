package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func mustParse(t *testing.T, s string) Amount {
	t.Helper()
	a, err := Parse(s)
	require.NoError(t, err)
	return a
}

func TestFromFloat(t *testing.T) {
	assert.Equal(t, "517.50", FromFloat(517.5).Decimal())
	assert.Equal(t, "45.00", FromFloat(45).Decimal())
	assert.Equal(t, "0.00", FromFloat(0).Decimal())
	assert.Equal(t, "0.01", FromFloat(0.005).Decimal())
	assert.True(t, FromFloat(0).IsZero())
}

func TestParse(t *testing.T) {
	a, err := Parse("517.5")
	require.NoError(t, err)
	assert.Equal(t, "AED 517.50", a.String())

	a, err = Parse("AED 45.00")
	require.NoError(t, err)
	assert.True(t, a.Equal(FromFloat(45)))

	_, err = Parse("")
	assert.Error(t, err)

	_, err = Parse("abc")
	assert.Error(t, err)
}

func TestAmount_Percent(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{"exact", "285.00", "14.25"},
		{"half rounds up", "0.10", "0.01"},
		{"below half rounds down", "0.09", "0.00"},
		{"zero", "0", "0.00"},
		{"large", "517.50", "25.88"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mustParse(t, tt.amount).Percent(5).Decimal())
		})
	}
}

func TestAmount_Arithmetic(t *testing.T) {
	oil := FromFloat(120)
	assert.Equal(t, "240.00", oil.Mul(2).Decimal())
	assert.True(t, oil.Mul(0).IsZero())
	assert.Equal(t, "285.00", FromFloat(45).Add(oil.Mul(2)).Decimal())
	assert.True(t, Zero.Add(oil).Equal(oil))
	assert.True(t, mustParse(t, "-1").IsNegative())
	assert.False(t, Zero.IsNegative())
}

func TestAmount_MulLargeQuantity(t *testing.T) {
	sub := FromFloat(517.5).Mul(math.MaxInt32).Mul(math.MaxInt32)
	assert.False(t, sub.IsNegative())
	tax := sub.Percent(5)
	assert.False(t, tax.IsNegative())
	assert.True(t, sub.Add(tax).Equal(sub.Mul(105).Percent(1)))
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "AED 517.50", FromFloat(517.5).String())
	assert.Equal(t, "AED 0.00", Zero.String())
	assert.Equal(t, "299.25", mustParse(t, "299.25").Decimal())
	assert.Equal(t, "-0.05", mustParse(t, "-0.05").Decimal())
}

func TestAmount_JSON(t *testing.T) {
	data, err := json.Marshal(FromFloat(517.5))
	require.NoError(t, err)
	assert.Equal(t, "517.50", string(data))

	var a Amount
	require.NoError(t, json.Unmarshal([]byte("120"), &a))
	assert.Equal(t, "120.00", a.Decimal())
	require.NoError(t, json.Unmarshal([]byte(`"45.5"`), &a))
	assert.Equal(t, "45.50", a.Decimal())
	assert.Error(t, a.UnmarshalJSON([]byte("null")))
}

func TestAmount_BSON(t *testing.T) {
	type doc struct {
		Price Amount `bson:"price"`
	}

	data, err := bson.Marshal(doc{Price: FromFloat(517.5)})
	require.NoError(t, err)
	var decoded doc
	require.NoError(t, bson.Unmarshal(data, &decoded))
	assert.Equal(t, "517.50", decoded.Price.Decimal())

	t.Run("legacy numeric types", func(t *testing.T) {
		for _, v := range []interface{}{45.5, int32(45), int64(45), "45"} {
			data, err := bson.Marshal(bson.M{"price": v})
			require.NoError(t, err)
			var d doc
			require.NoError(t, bson.Unmarshal(data, &d), "%T", v)
			assert.True(t, d.Price.Equal(FromFloat(45)) || d.Price.Equal(FromFloat(45.5)), "%T", v)
		}
	})

	t.Run("rejects other types", func(t *testing.T) {
		data, err := bson.Marshal(bson.M{"price": true})
		require.NoError(t, err)
		var d doc
		assert.Error(t, bson.Unmarshal(data, &d))
	})
}
