package funcli

import (
	"bytes"
	"net/url"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/funcli/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

type commonFlags struct {
	Verbose bool `funcli:"verbose" default:"false"`
}

type serveFlags struct {
	commonFlags
	Root     Path              `funcli:"root" help:"directory to serve"`
	Port     uint16            `funcli:"port" default:"8080"`
	Ratio    float32           `funcli:"ratio" default:"0.5"`
	Tags     []string          `funcli:"tags" default:"[]"`
	Headers  map[string]string `funcli:"headers" default:"{}"`
	Proxy    *url.URL          `funcli:"proxy" type:"optional(url)" default:"null"`
	Limit    *int              `funcli:"limit"`
	Mode     string            `funcli:"mode" type:"enum(fast, safe)" default:"safe"`
	Greeting string            `funcli:"greeting"`

	ignored string
	Skipped int `funcli:"-"`
}

func quietStructOptions(stdout, stderr *bytes.Buffer) Options {
	return Options{
		Prog:   "serve",
		Stdout: stdout,
		Stderr: stderr,
		Logger: testutil.NewLogger(&testutil.SafeBuffer{}),
	}
}

func TestParseStruct(t *testing.T) {
	// --- Arrange ---
	var stdout, stderr bytes.Buffer
	flags := serveFlags{Greeting: "hello"}

	// --- Act ---
	err := ParseStruct(&flags, []string{
		"--root", "/srv",
		"--port", "9000",
		"--tags", "a", "b",
		"--headers", "X-A=1",
		"--proxy", "http://proxy:3128",
		"--limit", "5",
		"--verbose", "yes",
	}, quietStructOptions(&stdout, &stderr))

	// --- Assert ---
	require.NoError(t, err)
	limit := 5
	proxy, err := url.Parse("http://proxy:3128")
	require.NoError(t, err)

	expected := serveFlags{
		commonFlags: commonFlags{Verbose: true},
		Root:        "/srv",
		Port:        9000,
		Ratio:       0.5,
		Tags:        []string{"a", "b"},
		Headers:     map[string]string{"X-A": "1"},
		Proxy:       proxy,
		Limit:       &limit,
		Mode:        "safe",
		Greeting:    "hello",
	}
	if diff := cmp.Diff(expected, flags, cmp.AllowUnexported(serveFlags{})); diff != "" {
		t.Errorf("bound struct mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStruct_Defaults(t *testing.T) {
	var stdout, stderr bytes.Buffer
	var flags serveFlags

	err := ParseStruct(&flags, []string{"--root", ".", "--greeting", "hi"}, quietStructOptions(&stdout, &stderr))
	require.NoError(t, err)

	assert.Equal(t, uint16(8080), flags.Port)
	assert.Equal(t, []string{}, flags.Tags)
	assert.Equal(t, map[string]string{}, flags.Headers)
	assert.Nil(t, flags.Proxy)
	assert.Nil(t, flags.Limit)
	assert.False(t, flags.Verbose)
}

func TestParseStruct_Required(t *testing.T) {
	// --- Arrange ---
	var stdout, stderr bytes.Buffer
	var flags serveFlags

	// --- Act ---
	err := ParseStruct(&flags, nil, quietStructOptions(&stdout, &stderr))

	// --- Assert ---
	var usageErr *UsageError
	require.ErrorAs(t, err, &usageErr)
	assert.Contains(t, stderr.String(), "the following arguments are required: --root, --greeting")
}

func TestParseStruct_Overflow(t *testing.T) {
	var stdout, stderr bytes.Buffer
	var flags serveFlags

	err := ParseStruct(&flags, []string{"--root", ".", "--greeting", "hi", "--port", "70000"}, quietStructOptions(&stdout, &stderr))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `parameter "port": value 70000 overflows uint16`)
}

func TestParseStruct_InvalidTarget(t *testing.T) {
	testCases := []struct {
		name string
		dst  any
	}{
		{name: "nil", dst: nil},
		{name: "struct value", dst: serveFlags{}},
		{name: "pointer to non-struct", dst: new(int)},
		{name: "nil pointer", dst: (*serveFlags)(nil)},
		{name: "unsupported field", dst: &struct {
			C chan int `funcli:"c"`
		}{}},
		{name: "bad type tag", dst: &struct {
			S string `funcli:"s" type:"list("`
		}{}},
		{name: "tagged unexported field", dst: &struct {
			s string `funcli:"s"`
		}{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ParseStruct(tc.dst, nil, Options{})
			require.ErrorIs(t, err, ErrInvalidTarget)
		})
	}
}

func TestInferType(t *testing.T) {
	testCases := []struct {
		value    any
		expected string
	}{
		{value: "", expected: "string"},
		{value: 0, expected: "int"},
		{value: uint8(0), expected: "int"},
		{value: 0.0, expected: "float"},
		{value: false, expected: "bool"},
		{value: Path(""), expected: "path"},
		{value: &url.URL{}, expected: "url"},
		{value: Set(nil), expected: "set(any)"},
		{value: []int{}, expected: "list(int)"},
		{value: map[string]bool{}, expected: "map(bool)"},
		{value: new(string), expected: "optional(string)"},
		{value: []*url.URL{}, expected: "list(url)"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			typ, err := inferType(reflect.TypeOf(tc.value))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, typ.String())
		})
	}

	_, err := inferType(reflect.TypeOf(map[int]string{}))
	require.Error(t, err)
}

func TestParseDefault(t *testing.T) {
	testCases := []struct {
		src      string
		expected cty.Value
	}{
		{src: "9000", expected: cty.NumberIntVal(9000)},
		{src: `"quoted"`, expected: cty.StringVal("quoted")},
		{src: "bare", expected: cty.StringVal("bare")},
		{src: "http://example.com", expected: cty.StringVal("http://example.com")},
		{src: "null", expected: cty.NullVal(cty.DynamicPseudoType)},
		{src: "true", expected: cty.True},
	}

	for _, tc := range testCases {
		t.Run(tc.src, func(t *testing.T) {
			val, err := parseDefault(tc.src)
			require.NoError(t, err)
			if tc.expected.IsNull() {
				assert.True(t, val.IsNull())
				return
			}
			require.Equal(t, tc.expected.Type(), val.Type())
			assert.True(t, val.Equals(tc.expected).True(), "got %#v", val)
		})
	}

	_, err := parseDefault("upper(1)")
	require.Error(t, err)
}
