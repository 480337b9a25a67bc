package dumper

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/lefeck/apacheconf/loader"
	"github.com/lefeck/apacheconf/tree"
)

func TestRenderScalarOption(t *testing.T) {
	m := tree.New()
	m.Set("name", "stein")
	out := Render(m, nil, DefaultStyle())
	assert.Equal(t, out, "name stein\n")
}

func TestRenderQuotesValuesWithWhitespace(t *testing.T) {
	m := tree.New()
	m.Set("greeting", "hello world")
	out := Render(m, nil, DefaultStyle())
	assert.Equal(t, out, "greeting \"hello world\"\n")
}

func TestRenderNestedBlock(t *testing.T) {
	inner := tree.New()
	inner.Set("color", "red")
	outer := tree.New()
	outer.Set("colors", inner)

	out := Render(outer, nil, DefaultStyle())
	assert.Equal(t, out, "<colors>\n  color red\n</colors>\n")
}

func TestRenderEmptyBlockSelfCloses(t *testing.T) {
	m := tree.New()
	m.Set("empty", tree.New())
	out := Render(m, nil, DefaultStyle())
	assert.Equal(t, out, "<empty />\n")
}

func TestRenderNamedBlockCollapsesTagAndName(t *testing.T) {
	inner := tree.New()
	inner.Set("port", "80")
	named := tree.New()
	named.Set("example.com", inner)
	m := tree.New()
	m.Set("VirtualHost", named)

	opts := loader.DefaultOptions()
	out := Render(m, &opts, DefaultStyle())
	assert.Equal(t, out, "<VirtualHost example.com>\n  port 80\n</VirtualHost>\n")
}

func TestRenderListAsRepeatedLines(t *testing.T) {
	m := tree.New()
	m.Set("x", []interface{}{"1", "2"})
	out := Render(m, nil, DefaultStyle())
	assert.Equal(t, out, "x 1\nx 2\n")
}

func TestRenderForceArray(t *testing.T) {
	m := tree.New()
	m.Set("x", []interface{}{"1", "2"})
	opts := loader.DefaultOptions()
	opts.ForceArray = true
	out := Render(m, &opts, DefaultStyle())
	assert.Equal(t, out, "x [ 1 2 ]\n")
}
