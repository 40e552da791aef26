package manifest

import (
	"github.com/hashicorp/hcl/v2"
)

// fileSchema is the top-level structure of a manifest file. Command blocks
// are read with their definition ranges so duplicates can be reported
// across files.
var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "command", LabelNames: []string{"name"}},
	},
}

// commandBody is the body of a `command` block.
type commandBody struct {
	Description string            `hcl:"description,optional"`
	Epilog      string            `hcl:"epilog,optional"`
	Parameters  []*parameterBlock `hcl:"parameter,block"`
}

// parameterBlock represents a `parameter` block inside a command.
type parameterBlock struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Default     hcl.Expression `hcl:"default,optional"`
}
