package loader

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/lefeck/apacheconf/tree"
)

func loadString(t *testing.T, text string, opts ...Option) *tree.Map {
	t.Helper()
	o := NewOptions(opts...)
	result, err := Loads(text, o)
	assert.NilError(t, err)
	return result
}

func TestScenarioNestedBlock(t *testing.T) {
	result := loadString(t, "<cops>\n  name stein\n  age 25\n  <colors>\n    color \\#000000\n  </colors>\n</cops>\n")
	cops, ok := result.GetMap("cops")
	assert.Assert(t, ok)
	name, _ := cops.GetString("name")
	age, _ := cops.GetString("age")
	assert.Equal(t, name, "stein")
	assert.Equal(t, age, "25")
	colors, ok := cops.GetMap("colors")
	assert.Assert(t, ok)
	color, _ := colors.GetString("color")
	assert.Equal(t, color, "#000000")
}

func TestScenarioDuplicateOptionsCollectIntoList(t *testing.T) {
	result := loadString(t, "x 1\nx 2\n")
	list, ok := result.GetSlice("x")
	assert.Assert(t, ok)
	assert.DeepEqual(t, list, []interface{}{"1", "2"})
}

func TestScenarioMergeDuplicateOptionsOverwrites(t *testing.T) {
	result := loadString(t, "x 1\nx 2\n", WithMergeDuplicateOptions(true))
	v, ok := result.GetString("x")
	assert.Assert(t, ok)
	assert.Equal(t, v, "2")
}

func TestScenarioVariableInterpolation(t *testing.T) {
	result := loadString(t, "a foo\nb ${a}/bar\n", WithInterpolateVars(true))
	b, ok := result.GetString("b")
	assert.Assert(t, ok)
	assert.Equal(t, b, "foo/bar")
}

func TestScenarioFlagBits(t *testing.T) {
	spec := FlagBitsSpec{"mode": {"CLEAR": "1", "STRONG": "1", "UNSECURE": "32bit"}}
	result := loadString(t, "mode CLEAR | UNSECURE\n", WithFlagBits(spec))
	mode, ok := result.GetMap("mode")
	assert.Assert(t, ok)
	assert.DeepEqual(t, mode.Keys(), []string{"CLEAR", "UNSECURE", "STRONG"})
	clear, _ := mode.Get("CLEAR")
	assert.Equal(t, clear, "1")
	unsecure, _ := mode.Get("UNSECURE")
	assert.Equal(t, unsecure, "32bit")
	strong, _ := mode.Get("STRONG")
	assert.Assert(t, strong == nil)
}

func TestScenarioHeredoc(t *testing.T) {
	result := loadString(t, "body <<END\n  line1\n  line2\n  END\n")
	body, ok := result.GetString("body")
	assert.Assert(t, ok)
	assert.Equal(t, body, "  line1\n  line2\n")
}

func TestScenarioSelfClosingBlock(t *testing.T) {
	result := loadString(t, "<empty />\n")
	empty, ok := result.GetMap("empty")
	assert.Assert(t, ok)
	assert.Equal(t, empty.Len(), 0)
}

func TestScenarioIncludeOptionalMissingIsSilent(t *testing.T) {
	result := loadString(t, "IncludeOptional /nonexistent/path/apacheconf-test.conf\n")
	assert.Equal(t, result.Len(), 0)
}

func TestLowercaseNamesFoldsKeys(t *testing.T) {
	result := loadString(t, "NAME stein\n", WithLowercaseNames(true))
	v, ok := result.GetString("name")
	assert.Assert(t, ok)
	assert.Equal(t, v, "stein")
}

func TestStrictVarsFailsOnUndefinedReference(t *testing.T) {
	_, err := Loads("b ${missing}\n", NewOptions(WithInterpolateVars(true), WithStrictVars(true)))
	assert.ErrorContains(t, err, "undefined variable")
}

func TestNonStrictVarsLeavesUndefinedLiteral(t *testing.T) {
	result := loadString(t, "b ${missing}\n", WithInterpolateVars(true), WithStrictVars(false))
	v, _ := result.GetString("b")
	assert.Equal(t, v, "${missing}")
}

func TestAutoTrueCoercion(t *testing.T) {
	result := loadString(t, "enabled yes\ndisabled off\n", WithAutoTrue(true))
	e, _ := result.GetString("enabled")
	d, _ := result.GetString("disabled")
	assert.Equal(t, e, "1")
	assert.Equal(t, d, "0")
}

func TestIncludeResolvesViaConfigPath(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "included.conf"), []byte("port 8080\n"), 0o644)
	assert.NilError(t, err)

	result := loadString(t, "include included.conf\n", WithConfigPath(dir))
	port, ok := result.GetString("port")
	assert.Assert(t, ok)
	assert.Equal(t, port, "8080")
}

func TestIncludeRequiredMissingFileFails(t *testing.T) {
	_, err := Loads("include /nonexistent/path/apacheconf-test.conf\n", NewOptions())
	assert.ErrorContains(t, err, "include")
}

func TestDefaultConfigMergesUnderneathResult(t *testing.T) {
	def := tree.New()
	def.Set("a", "default")
	def.Set("b", "keep")

	result := loadString(t, "a overridden\n", WithDefaultConfig(def))
	a, _ := result.GetString("a")
	b, _ := result.GetString("b")
	assert.Equal(t, a, "overridden")
	assert.Equal(t, b, "keep")
}

func TestIncludeRelativeGatesBaseDirFallback(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "main.conf"), []byte("include included.conf\n"), 0o644)
	assert.NilError(t, err)
	err = os.WriteFile(filepath.Join(dir, "included.conf"), []byte("port 8080\n"), 0o644)
	assert.NilError(t, err)

	_, err = Load(NewFileReader(Hooks{}), filepath.Join(dir, "main.conf"), NewOptions())
	assert.ErrorContains(t, err, "include")

	result, err := Load(NewFileReader(Hooks{}), filepath.Join(dir, "main.conf"), NewOptions(WithIncludeRelative(true)))
	assert.NilError(t, err)
	port, ok := result.GetString("port")
	assert.Assert(t, ok)
	assert.Equal(t, port, "8080")
}

func TestLoggerReceivesIncludeAndInterpolationDebugRecords(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "included.conf"), []byte("port 8080\n"), 0o644)
	assert.NilError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	result := loadString(t,
		"include included.conf\nb ${missing}\n",
		WithConfigPath(dir),
		WithInterpolateVars(true),
		WithStrictVars(false),
		WithLogger(logger),
	)
	port, ok := result.GetString("port")
	assert.Assert(t, ok)
	assert.Equal(t, port, "8080")

	out := buf.String()
	assert.Assert(t, strings.Contains(out, "configpath"))
	assert.Assert(t, strings.Contains(out, "interpolation fallback"))
}

func TestMergeDuplicateBlocksDeepMerges(t *testing.T) {
	result := loadString(t,
		"<server>\n  a 1\n</server>\n<server>\n  b 2\n</server>\n",
		WithMergeDuplicateBlocks(true),
	)
	server, ok := result.GetMap("server")
	assert.Assert(t, ok)
	a, _ := server.GetString("a")
	b, _ := server.GetString("b")
	assert.Equal(t, a, "1")
	assert.Equal(t, b, "2")
}
