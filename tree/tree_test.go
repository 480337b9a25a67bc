package tree

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := New()
	m.Set("z", "1")
	m.Set("a", "2")
	m.Set("m", "3")

	assert.DeepEqual(t, m.Keys(), []string{"z", "a", "m"})
}

func TestMapSetOverwriteKeepsPosition(t *testing.T) {
	m := New()
	m.Set("a", "1")
	m.Set("b", "2")
	m.Set("a", "3")

	assert.DeepEqual(t, m.Keys(), []string{"a", "b"})
	v, ok := m.GetString("a")
	assert.Assert(t, ok)
	assert.Equal(t, v, "3")
}

func TestMapDelete(t *testing.T) {
	m := New()
	m.Set("a", "1")
	m.Set("b", "2")
	m.Delete("a")

	assert.Assert(t, !m.Has("a"))
	assert.DeepEqual(t, m.Keys(), []string{"b"})
}

func TestToNativeAndFromNativeRoundTrip(t *testing.T) {
	inner := New()
	inner.Set("x", "1")

	m := New()
	m.Set("top", "scalar")
	m.Set("list", []interface{}{"a", "b"})
	m.Set("nested", inner)

	native := m.ToNative()
	rebuilt := FromNative(native)

	assert.Assert(t, Equal(m, rebuilt))
}

func TestFromNativeHandlesYAMLStyleMaps(t *testing.T) {
	data := map[string]interface{}{
		"outer": map[interface{}]interface{}{
			"inner": "value",
		},
	}
	m := FromNative(data)
	sub, ok := m.GetMap("outer")
	assert.Assert(t, ok)
	v, ok := sub.GetString("inner")
	assert.Assert(t, ok)
	assert.Equal(t, v, "value")
}

func TestEqualDetectsDifference(t *testing.T) {
	a := New()
	a.Set("x", "1")
	b := New()
	b.Set("x", "2")
	assert.Assert(t, !Equal(a, b))
}
