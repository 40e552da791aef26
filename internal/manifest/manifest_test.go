package manifest_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/funcli/internal/introspect"
	"github.com/vk/funcli/internal/manifest"
	"github.com/vk/funcli/internal/testutil"
	"github.com/vk/funcli/internal/typeexpr"
	"github.com/zclconf/go-cty/cty"
)

const greetHCL = `
	command "greet" {
	  description = "Greets people."
	  epilog      = "Have a nice day."

	  parameter "names" {
	    type        = list(string)
	    description = "who to greet"
	  }

	  parameter "times" {
	    type    = int
	    default = 1
	  }

	  parameter "loc" {
	    type    = optional(union(url, path))
	    default = null
	  }

	  parameter "color" {
	    type    = enum(red, "dark-green")
	    default = "red"
	  }
	}
`

func TestParse(t *testing.T) {
	cmd, err := manifest.Parse(context.Background(), []byte(testutil.Unindent(greetHCL)), "greet.hcl")
	require.NoError(t, err)

	assert.Equal(t, "greet", cmd.Name)
	assert.Equal(t, "Greets people.", cmd.Description)
	assert.Equal(t, "Have a nice day.", cmd.Epilog)
	assert.Equal(t, "greet.hcl", cmd.FilePath)
	require.Len(t, cmd.Parameters, 4)

	names := cmd.Parameters[0]
	assert.Equal(t, "names", names.Name)
	assert.True(t, names.Type.Equal(typeexpr.MustParse("list(string)")), "got %s", names.Type)
	assert.Equal(t, "who to greet", names.Description)
	assert.False(t, names.HasDefault)
	assert.Nil(t, names.Default)

	times := cmd.Parameters[1]
	assert.True(t, times.HasDefault)
	require.IsType(t, cty.Value{}, times.Default)
	assert.True(t, times.Default.(cty.Value).Equals(cty.NumberIntVal(1)).True())

	loc := cmd.Parameters[2]
	assert.True(t, loc.HasDefault, "an explicit null is a default")
	assert.Nil(t, loc.Default)

	color := cmd.Parameters[3]
	assert.Equal(t, `enum(red, "dark-green")`, color.Type.String())
	assert.Equal(t, cty.StringVal("red"), color.Default)
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		hcl         string
		errContains string
	}{
		{
			name:        "syntax error",
			hcl:         `command "x" {`,
			errContains: "failed to parse HCL file",
		},
		{
			name:        "no command",
			hcl:         ``,
			errContains: "no command block found",
		},
		{
			name: "two commands",
			hcl: `
				command "a" {}
				command "b" {}
			`,
			errContains: `Duplicate "command" block`,
		},
		{
			name: "unexpected block",
			hcl: `
				runner "a" {}
			`,
			errContains: "Unsupported block type",
		},
		{
			name: "duplicate parameter",
			hcl: `
				command "a" {
				  parameter "x" { type = string }
				  parameter "x" { type = int }
				}
			`,
			errContains: "Duplicate parameter definition",
		},
		{
			name: "missing type",
			hcl: `
				command "a" {
				  parameter "x" { description = "untyped" }
				}
			`,
			errContains: `"type" is required`,
		},
		{
			name: "invalid type",
			hcl: `
				command "a" {
				  parameter "x" { type = list() }
				}
			`,
			errContains: "Invalid type specification",
		},
		{
			name: "default of the wrong type",
			hcl: `
				command "a" {
				  parameter "x" {
				    type    = int
				    default = "many"
				  }
				}
			`,
			errContains: "Invalid default value type",
		},
		{
			name: "null default for a required type",
			hcl: `
				command "a" {
				  parameter "x" {
				    type    = string
				    default = null
				  }
				}
			`,
			errContains: "Invalid default value type",
		},
		{
			name: "default referencing a variable",
			hcl: `
				command "a" {
				  parameter "x" {
				    type    = string
				    default = var.x
				  }
				}
			`,
			errContains: "Variables not allowed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := manifest.Parse(context.Background(), []byte(testutil.Unindent(tc.hcl)), "test.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)
			assert.Nil(t, cmd)
		})
	}
}

func TestLoad_Directory(t *testing.T) {
	// --- Arrange ---
	root := testutil.WriteFiles(t, map[string]string{
		"cmd/greet.hcl": greetHCL,
		"README.md":     "not a manifest",
	})

	// --- Act ---
	cmd, err := manifest.Load(context.Background(), root)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "greet", cmd.Name)
	assert.Equal(t, filepath.Join(root, "cmd", "greet.hcl"), cmd.FilePath)
}

func TestLoad_File(t *testing.T) {
	root := testutil.WriteFiles(t, map[string]string{"greet.hcl": greetHCL})

	cmd, err := manifest.Load(context.Background(), filepath.Join(root, "greet.hcl"))
	require.NoError(t, err)
	assert.Len(t, cmd.Parameters, 4)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("commands in two files", func(t *testing.T) {
		root := testutil.WriteFiles(t, map[string]string{
			"a.hcl": `command "a" {}`,
			"b.hcl": `command "b" {}`,
		})
		_, err := manifest.Load(context.Background(), root)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `Duplicate "command" block`)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := manifest.Load(context.Background(), t.TempDir())
		require.ErrorIs(t, err, manifest.ErrNoCommand)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := manifest.Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to search for manifest files")
	})
}

func TestManifest_BindsDefaults(t *testing.T) {
	cmd, err := manifest.Parse(context.Background(), []byte(testutil.Unindent(greetHCL)), "greet.hcl")
	require.NoError(t, err)

	result := testutil.RunBind(t, cmd.Parameters, []string{"--names", "Thor", "Odin", "--loc", "file.txt"})
	require.NoError(t, result.Err)

	assert.Equal(t, []any{"Thor", "Odin"}, result.Bound["names"])
	assert.Equal(t, 1, result.Bound["times"])
	assert.Equal(t, "red", result.Bound["color"])
	assert.NotNil(t, result.Bound["loc"])

	specs, err := introspect.DeriveSpecs(context.Background(), cmd.Parameters)
	require.NoError(t, err)
	assert.Equal(t, introspect.ShapeRepeated, specs[0].Shape)
	assert.Equal(t, introspect.ShapeSingle, specs[2].Shape)
}
