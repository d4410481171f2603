// This file contains the logic for parsing HCL type expressions (e.g.
// `number`, `list(string)`) into their corresponding cty.Type objects.

package catalog

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// typeExprToCtyType converts an HCL type expression into its cty.Type
// equivalent. An absent expression yields cty.NilType, letting the
// descriptor apply its own default.
func typeExprToCtyType(expr hcl.Expression) (cty.Type, error) {
	if expr == nil {
		return cty.NilType, nil
	}
	// gohcl fills an omitted optional attribute with a static null
	// expression rather than leaving the field nil. Real type expressions
	// like `list(string)` fail this evaluation and fall through.
	if val, diags := expr.Value(nil); !diags.HasErrors() && val.IsNull() {
		return cty.NilType, nil
	}

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return cty.NilType, fmt.Errorf("invalid type expression")
		}
		return primitiveTypeFromName(v.Traversal.RootName())

	case *hclsyntax.FunctionCallExpr:
		if len(v.Args) != 1 {
			return cty.NilType, fmt.Errorf("the %s() type constructor requires exactly one argument, got %d", v.Name, len(v.Args))
		}
		elem, err := typeExprToCtyType(v.Args[0])
		if err != nil {
			return cty.NilType, err
		}
		switch v.Name {
		case "list":
			return cty.List(elem), nil
		case "set":
			return cty.Set(elem), nil
		case "map":
			return cty.Map(elem), nil
		}
		return cty.NilType, fmt.Errorf("unsupported type constructor %q", v.Name)
	}

	return cty.NilType, fmt.Errorf("unsupported type expression %T", expr)
}

func primitiveTypeFromName(name string) (cty.Type, error) {
	switch name {
	case "string":
		return cty.String, nil
	case "number":
		return cty.Number, nil
	case "bool":
		return cty.Bool, nil
	case "any":
		return cty.DynamicPseudoType, nil
	}
	return cty.NilType, fmt.Errorf("unknown type name %q", name)
}
