package loader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/rios0rios0/depsolve/domain"
)

// depsSchema matches the dep blocks of a deps.hcl file:
//
//	dep "plug" {
//	  requirement = "~> 1.14"
//	  only        = ["dev", "test"]
//	  override    = true
//	}
var depsSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "dep", LabelNames: []string{"app"}},
	},
}

// parseHCL decodes a deps.hcl declaration file.
func parseHCL(data []byte, path string) ([]domain.RawDepSpec, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, &domain.ConfigLoadError{Path: path, Err: diags}
	}

	content, _, diags := file.Body.PartialContent(depsSchema)
	if diags.HasErrors() {
		return nil, &domain.ConfigLoadError{Path: path, Err: diags}
	}

	var specs []domain.RawDepSpec
	for _, block := range content.Blocks {
		spec, err := blockToSpec(block, path)
		if err != nil {
			return nil, &domain.ConfigLoadError{Path: path, Err: err}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func blockToSpec(block *hcl.Block, path string) (domain.RawDepSpec, error) {
	if len(block.Labels) == 0 || block.Labels[0] == "" {
		return domain.RawDepSpec{}, fmt.Errorf("dep block without an app label")
	}
	app := block.Labels[0]

	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return domain.RawDepSpec{}, fmt.Errorf("dep %q: %w", app, error(diags))
	}

	entry := depEntry{App: app}
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(&hcl.EvalContext{})
		if diags.HasErrors() {
			return domain.RawDepSpec{}, fmt.Errorf("dep %q: attribute %q: %w", app, name, error(diags))
		}
		if err := applyAttr(&entry, name, val); err != nil {
			return domain.RawDepSpec{}, fmt.Errorf("dep %q: %w", app, err)
		}
	}
	return entry.toSpec(path)
}

// applyAttr maps one HCL attribute onto the shared declaration entry.
// Unrecognized string attributes pass through as extras.
func applyAttr(entry *depEntry, name string, val cty.Value) error {
	switch name {
	case "requirement":
		return stringAttr(&entry.Requirement, name, val)
	case "git":
		return stringAttr(&entry.Git, name, val)
	case "ref":
		return stringAttr(&entry.Ref, name, val)
	case "branch":
		return stringAttr(&entry.Branch, name, val)
	case "tag":
		return stringAttr(&entry.Tag, name, val)
	case "path":
		return stringAttr(&entry.Path, name, val)
	case "manager":
		return stringAttr(&entry.Manager, name, val)
	case "override":
		return boolAttr(&entry.Override, name, val)
	case "optional":
		return boolAttr(&entry.Optional, name, val)
	case "only":
		return stringListAttr(&entry.Only, name, val)
	case "targets":
		return stringListAttr(&entry.Targets, name, val)
	case "system_env":
		return stringMapAttr(&entry.SystemEnv, name, val)
	default:
		if val.Type() != cty.String {
			return fmt.Errorf("unsupported attribute %q", name)
		}
		if entry.Extra == nil {
			entry.Extra = make(map[string]string)
		}
		entry.Extra[name] = val.AsString()
		return nil
	}
}

func stringAttr(dst *string, name string, val cty.Value) error {
	if val.Type() != cty.String {
		return fmt.Errorf("attribute %q must be a string", name)
	}
	*dst = val.AsString()
	return nil
}

func boolAttr(dst *bool, name string, val cty.Value) error {
	if val.Type() != cty.Bool {
		return fmt.Errorf("attribute %q must be a bool", name)
	}
	*dst = val.True()
	return nil
}

func stringListAttr(dst *[]string, name string, val cty.Value) error {
	if !val.CanIterateElements() {
		return fmt.Errorf("attribute %q must be a list of strings", name)
	}
	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.Type() != cty.String {
			return fmt.Errorf("attribute %q must be a list of strings", name)
		}
		out = append(out, elem.AsString())
	}
	*dst = out
	return nil
}

func stringMapAttr(dst *map[string]string, name string, val cty.Value) error {
	if !val.CanIterateElements() {
		return fmt.Errorf("attribute %q must be a map of strings", name)
	}
	out := make(map[string]string)
	for it := val.ElementIterator(); it.Next(); {
		key, elem := it.Element()
		if key.Type() != cty.String || elem.Type() != cty.String {
			return fmt.Errorf("attribute %q must be a map of strings", name)
		}
		out[key.AsString()] = elem.AsString()
	}
	*dst = out
	return nil
}
