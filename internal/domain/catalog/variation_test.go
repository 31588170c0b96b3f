package catalog

import (
	"testing"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func colorSizeTypes() []VariationType {
	return []VariationType{
		{ID: 1, Name: "Color", Kind: VariationKindImage, Options: []VariationOption{
			{ID: 1, Name: "Red"}, {ID: 2, Name: "Blue"},
		}},
		{ID: 2, Name: "Size", Kind: VariationKindRadio, Options: []VariationOption{
			{ID: 3, Name: "S"}, {ID: 4, Name: "M"},
		}},
	}
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(n int) *int {
	return &n
}

func TestBuildMatrix(t *testing.T) {
	t.Run("defaults fill every combination in cartesian order", func(t *testing.T) {
		rows := BuildMatrix(colorSizeTypes(), nil, decPtr("10"), intPtr(5))

		require.Len(t, rows, 4)
		labels := make([][]string, 0, len(rows))
		for _, r := range rows {
			labels = append(labels, r.Labels)
			require.NotNil(t, r.Price)
			require.NotNil(t, r.Quantity)
			assert.True(t, r.Price.Equal(decimal.NewFromInt(10)))
			assert.Equal(t, 5, *r.Quantity)
		}
		assert.Equal(t, [][]string{{"Red", "S"}, {"Red", "M"}, {"Blue", "S"}, {"Blue", "M"}}, labels)
		assert.Equal(t, []OptionID{1, 3}, rows[0].OptionIDs)
		assert.Equal(t, []OptionID{2, 4}, rows[3].OptionIDs)
	})

	t.Run("count is product of option counts with distinct sets", func(t *testing.T) {
		types := []VariationType{
			{ID: 1, Options: []VariationOption{{ID: 1}, {ID: 2}, {ID: 3}}},
			{ID: 2, Options: []VariationOption{{ID: 4}, {ID: 5}}},
			{ID: 3, Options: []VariationOption{{ID: 6}, {ID: 7}, {ID: 8}, {ID: 9}}},
		}
		rows := BuildMatrix(types, nil, nil, nil)

		require.Len(t, rows, 24)
		seen := map[OptionKey]bool{}
		for _, r := range rows {
			key := r.Options().Key()
			assert.False(t, seen[key], "duplicate %s", key)
			seen[key] = true
			assert.Len(t, r.OptionIDs, 3)
		}
	})

	t.Run("existing overrides match regardless of id order", func(t *testing.T) {
		existing := []Variation{
			{OptionIDs: []OptionID{4, 2}, Price: decPtr("25.50"), Quantity: intPtr(1)},
			{OptionIDs: []OptionID{1, 3}, Price: nil, Quantity: nil},
		}
		rows := BuildMatrix(colorSizeTypes(), existing, decPtr("10"), intPtr(5))

		require.Len(t, rows, 4)
		// {Red,S} was saved without overrides and keeps the nulls
		assert.Nil(t, rows[0].Price)
		assert.Nil(t, rows[0].Quantity)
		// {Red,M} and {Blue,S} take defaults
		assert.True(t, rows[1].Price.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, 5, *rows[2].Quantity)
		// {Blue,M} matches the saved {4,2}
		assert.True(t, rows[3].Price.Equal(decimal.RequireFromString("25.50")))
		assert.Equal(t, 1, *rows[3].Quantity)
	})

	t.Run("returned values do not alias inputs", func(t *testing.T) {
		def := decPtr("10")
		qty := intPtr(5)
		rows := BuildMatrix(colorSizeTypes(), nil, def, qty)

		*rows[0].Quantity = 99
		assert.Equal(t, 5, *qty)
		assert.Equal(t, 5, *rows[1].Quantity)
		assert.NotSame(t, def, rows[0].Price)
	})

	t.Run("no variation types yields single bare combination", func(t *testing.T) {
		rows := BuildMatrix(nil, nil, decPtr("7"), nil)

		require.Len(t, rows, 1)
		assert.Empty(t, rows[0].OptionIDs)
		assert.True(t, rows[0].Price.Equal(decimal.NewFromInt(7)))
		assert.Nil(t, rows[0].Quantity)
	})

	t.Run("type without options yields empty matrix", func(t *testing.T) {
		types := append(colorSizeTypes(), VariationType{ID: 3, Name: "Material"})
		rows := BuildMatrix(types, nil, decPtr("10"), intPtr(5))
		assert.Empty(t, rows)
	})

	t.Run("is deterministic", func(t *testing.T) {
		a := BuildMatrix(colorSizeTypes(), nil, decPtr("1"), nil)
		b := BuildMatrix(colorSizeTypes(), nil, decPtr("1"), nil)
		assert.Equal(t, a, b)
	})
}

func TestValidateVariations(t *testing.T) {
	types := colorSizeTypes()

	t.Run("accepts a full matrix", func(t *testing.T) {
		rows := BuildMatrix(types, nil, decPtr("10"), nil)
		assert.NoError(t, ValidateVariations(types, rows))
	})

	t.Run("rejects wrong arity", func(t *testing.T) {
		err := ValidateVariations(types, []Variation{{OptionIDs: []OptionID{1}}})
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_VARIATION", de.Code)
	})

	t.Run("rejects option from another type", func(t *testing.T) {
		err := ValidateVariations(types, []Variation{{OptionIDs: []OptionID{3, 1}}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not belong")
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		err := ValidateVariations(types, []Variation{
			{OptionIDs: []OptionID{1, 3}},
			{OptionIDs: []OptionID{1, 3}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate option set [1,3]")
	})

	t.Run("rejects negative overrides", func(t *testing.T) {
		assert.Error(t, ValidateVariations(types, []Variation{{OptionIDs: []OptionID{1, 3}, Price: decPtr("-1")}}))
		assert.Error(t, ValidateVariations(types, []Variation{{OptionIDs: []OptionID{1, 3}, Quantity: intPtr(-2)}}))
	})
}

func TestOptionSet(t *testing.T) {
	t.Run("normalizes order", func(t *testing.T) {
		a := NewOptionSet(7, 3)
		b := NewOptionSet(3, 7)
		assert.True(t, a.Equal(b))
		assert.Equal(t, OptionKey("[3,7]"), a.Key())
		assert.Equal(t, []OptionID{3, 7}, a.IDs())
	})

	t.Run("does not mutate caller slice", func(t *testing.T) {
		ids := []OptionID{9, 1}
		_ = NewOptionSet(ids...)
		assert.Equal(t, []OptionID{9, 1}, ids)
	})

	t.Run("empty set", func(t *testing.T) {
		s := NewOptionSet()
		assert.Zero(t, s.Len())
		assert.Equal(t, OptionKey("[]"), s.Key())
		data, err := s.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	})

	t.Run("different lengths differ", func(t *testing.T) {
		assert.False(t, NewOptionSet(3).Equal(NewOptionSet(3, 3)))
	})

	t.Run("json decoding normalizes", func(t *testing.T) {
		var s OptionSet
		require.NoError(t, s.UnmarshalJSON([]byte("[12,4,8]")))
		assert.Equal(t, OptionKey("[4,8,12]"), s.Key())
	})
}
