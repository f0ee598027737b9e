package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIRValueSealed(t *testing.T) {
	var _ IRValue = IRNull{}
	var _ IRValue = IRString("test")
	var _ IRValue = IRInt(42)
	var _ IRValue = IRBool(true)
	var _ IRValue = IRNumber("1.5")
	var _ IRValue = IRArray{IRString("a"), IRInt(1)}
	var _ IRValue = IRObject{"key": IRString("value")}
}

func TestIRObjectSortedKeys(t *testing.T) {
	obj := IRObject{
		"zebra":  IRString("z"),
		"apple":  IRString("a"),
		"banana": IRString("b"),
		"A":      IRString("A"),
	}
	assert.Equal(t, []string{"A", "apple", "banana", "zebra"}, obj.SortedKeys())
}

// U+E000 sorts after U+10000 in UTF-16 (surrogates 0xD800..) but before it in UTF-8.
func TestSortedKeysUTF16Order(t *testing.T) {
	obj := IRObject{
		"\uE000":     IRInt(1),
		"\U00010000": IRInt(2),
	}
	assert.Equal(t, []string{"\U00010000", "\uE000"}, obj.SortedKeys())
}

func TestCompareUTF16(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"a", "b", -1},
		{"b", "a", 1},
		{"a", "a", 0},
		{"aa", "a", 1},
		{"", "a", -1},
		{"", "", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, compareUTF16(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestMarshalIRValue(t *testing.T) {
	obj := IRObject{
		"b":   IRInt(2),
		"a":   IRString("x"),
		"n":   IRNumber("1.11"),
		"nan": NumberNaN,
		"arr": IRArray{IRBool(true), IRNull{}},
	}
	data, err := MarshalIRValue(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","arr":[true,null],"b":2,"n":1.11,"nan":"NaN"}`, string(data))
}

func TestFromGoRejectsNull(t *testing.T) {
	for name, input := range map[string]any{
		"bare":   nil,
		"object": map[string]any{"k": nil},
		"array":  []any{1, nil},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := FromGo(input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "null")
		})
	}
}

func TestFromGoYAMLShapes(t *testing.T) {
	v, err := FromGo(map[string]any{
		"radix":  16,
		"expect": 1.11,
		"whole":  float64(8),
		"flag":   false,
	})
	require.NoError(t, err)

	obj := v.(IRObject)
	assert.Equal(t, IRInt(16), obj["radix"])
	assert.Equal(t, IRNumber("1.11"), obj["expect"])
	assert.Equal(t, IRInt(8), obj["whole"])
	assert.Equal(t, IRBool(false), obj["flag"])

	_, err = FromGo(struct{}{})
	require.Error(t, err)
}

func TestIRObjectMarshalJSONViaEncoding(t *testing.T) {
	data, err := json.Marshal(IRObject{"z": IRInt(1), "a": IRInt(2)})
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"z":1}`, string(data))
}
