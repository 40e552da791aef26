package manifest

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/funcli/internal/ctxlog"
	"github.com/vk/funcli/internal/fsutil"
	"github.com/vk/funcli/internal/introspect"
	"github.com/vk/funcli/internal/typeexpr"
	"github.com/vk/funcli/internal/validate"
)

// ErrNoCommand is returned when no `command` block was found.
var ErrNoCommand = errors.New("no command block found")

// Command is the format-agnostic representation of a command manifest.
type Command struct {
	Name        string
	Description string
	Epilog      string
	// Parameters are in declaration order. Non-null defaults are cty values.
	Parameters []introspect.Parameter
	FilePath   string
}

// Load reads the command manifest at path, which is either a single .hcl
// file or a directory searched recursively for .hcl files. Exactly one
// `command` block must exist across all files.
func Load(ctx context.Context, path string) (*Command, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading command manifest.", "path", path)

	filePaths, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to search for manifest files in %s: %w", path, err)
	}
	if len(filePaths) == 0 {
		return nil, fmt.Errorf("%w: no .hcl files in %s", ErrNoCommand, path)
	}
	logger.Debug("Found HCL files to load.", "files", filePaths)

	parser := hclparse.NewParser()
	var blocks hcl.Blocks
	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}
		fileBlocks, diags := commandBlocks(hclFile)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid manifest file %s: %w", filePath, diags)
		}
		blocks = append(blocks, fileBlocks...)
	}

	return decode(ctx, blocks, path)
}

// Parse reads a command manifest from HCL source. The filename is only used
// in diagnostics.
func Parse(ctx context.Context, src []byte, filename string) (*Command, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	blocks, diags := commandBlocks(hclFile)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid manifest file %s: %w", filename, diags)
	}
	return decode(ctx, blocks, filename)
}

func commandBlocks(hclFile *hcl.File) (hcl.Blocks, hcl.Diagnostics) {
	content, diags := hclFile.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, diags
	}
	return content.Blocks, diags
}

func decode(ctx context.Context, blocks hcl.Blocks, source string) (*Command, error) {
	block, diags := findUniqueBlock(blocks, "command")
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid manifest %s: %w", source, diags)
	}
	if block == nil {
		return nil, fmt.Errorf("%w in %s", ErrNoCommand, source)
	}

	cmd, diags := decodeCommand(ctx, block)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid command %q in %s: %w", block.Labels[0], block.DefRange.Filename, diags)
	}

	ctxlog.FromContext(ctx).Debug("Command manifest loaded.", "command", cmd.Name, "parameters", len(cmd.Parameters), "file", cmd.FilePath)
	return cmd, nil
}

func decodeCommand(ctx context.Context, block *hcl.Block) (*Command, hcl.Diagnostics) {
	var body commandBody
	diags := gohcl.DecodeBody(block.Body, nil, &body)
	if diags.HasErrors() {
		return nil, diags
	}

	cmd := &Command{
		Name:        block.Labels[0],
		Description: body.Description,
		Epilog:      body.Epilog,
		Parameters:  make([]introspect.Parameter, 0, len(body.Parameters)),
		FilePath:    block.DefRange.Filename,
	}

	defined := make(map[string]hcl.Range, len(body.Parameters))
	for _, p := range body.Parameters {
		if prev, exists := defined[p.Name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate parameter definition",
				Detail:   fmt.Sprintf("A parameter named '%s' has already been defined at %s.", p.Name, prev),
				Subject:  p.Type.Range().Ptr(),
			})
			continue
		}
		defined[p.Name] = p.Type.Range()

		param, paramDiags := decodeParameter(ctx, p)
		diags = append(diags, paramDiags...)
		if paramDiags.HasErrors() {
			continue
		}
		cmd.Parameters = append(cmd.Parameters, param)
	}

	return cmd, diags
}

func decodeParameter(ctx context.Context, p *parameterBlock) (introspect.Parameter, hcl.Diagnostics) {
	typ, diags := typeexpr.FromHCL(p.Type)
	if diags.HasErrors() {
		return introspect.Parameter{}, diags
	}

	param := introspect.Parameter{
		Name:        p.Name,
		Type:        typ,
		Description: p.Description,
	}

	if !isExprDefined(ctx, p.Default, "default") {
		return param, diags
	}

	// Defaults must be literal values, so no evaluation context is given.
	val, valDiags := p.Default.Value(nil)
	diags = append(diags, valDiags...)
	if valDiags.HasErrors() {
		return param, diags
	}

	if _, err := validate.New().Validate(val, typ); err != nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid default value type",
			Detail:   fmt.Sprintf("The default value for '%s' is not compatible with its type, '%s': %s.", p.Name, typ, err),
			Subject:  p.Default.Range().Ptr(),
		})
		return param, diags
	}

	param.HasDefault = true
	if !val.IsNull() {
		param.Default = val
	}
	return param, diags
}

// isExprDefined checks if an HCL expression was actually present in the source
// code. The decoder populates omitted optional expressions with zero-width
// placeholders, so a nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}

	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}
