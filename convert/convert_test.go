package convert

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/lefeck/apacheconf/tree"
)

func TestToYAMLFromYAMLRoundTrip(t *testing.T) {
	inner := tree.New()
	inner.Set("color", "red")
	m := tree.New()
	m.Set("name", "stein")
	m.Set("tags", []interface{}{"a", "b"})
	m.Set("colors", inner)

	data, err := ToYAML(m)
	assert.NilError(t, err)

	rebuilt, err := FromYAML(data)
	assert.NilError(t, err)

	want := m.ToNative()
	got := rebuilt.ToNative()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("YAML round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromYAMLParsesNestedMappings(t *testing.T) {
	data := []byte("server:\n  port: \"80\"\n  name: example\n")

	m, err := FromYAML(data)
	assert.NilError(t, err)

	server, ok := m.GetMap("server")
	assert.Assert(t, ok)
	port, ok := server.GetString("port")
	assert.Assert(t, ok)
	assert.Equal(t, port, "80")
}
