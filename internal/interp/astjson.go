package interp

import "github.com/dedzsinator/matrixlang/internal/ast"

// ToJSONValue converts an AST node into a plain Go value tree
// (maps/slices/primitives) suitable for json.Marshal, for the CLI's
// --parse-only AST dump (spec §6). It is intentionally shallow-typed:
// every node becomes {"kind": "...", ...fields}.
func ToJSONValue(n ast.Node) any {
	switch v := n.(type) {
	case *ast.Program:
		items := make([]any, len(v.Items))
		for i, it := range v.Items {
			items[i] = ToJSONValue(it)
		}
		return map[string]any{"kind": "Program", "items": items}

	case *ast.FunctionDef:
		return map[string]any{"kind": "FunctionDef", "name": v.Name, "body": ToJSONValue(v.Body)}
	case *ast.StructDef:
		return map[string]any{"kind": "StructDef", "name": v.Name}
	case *ast.LetBinding:
		return map[string]any{"kind": "LetBinding", "name": v.Name, "value": ToJSONValue(v.Value)}
	case *ast.ExprItem:
		return map[string]any{"kind": "ExprItem", "expr": ToJSONValue(v.X)}
	case *ast.Import:
		return map[string]any{"kind": "Import", "path": v.Path}

	case *ast.IntLiteral:
		return map[string]any{"kind": "IntLiteral", "value": v.Value}
	case *ast.FloatLiteral:
		return map[string]any{"kind": "FloatLiteral", "value": v.Value}
	case *ast.BoolLiteral:
		return map[string]any{"kind": "BoolLiteral", "value": v.Value}
	case *ast.StringLiteral:
		return map[string]any{"kind": "StringLiteral", "value": v.Value}
	case *ast.Identifier:
		return map[string]any{"kind": "Identifier", "name": v.Name}
	case *ast.BinaryOp:
		return map[string]any{"kind": "BinaryOp", "op": v.Op, "left": ToJSONValue(v.Left), "right": ToJSONValue(v.Right)}
	case *ast.UnaryOp:
		return map[string]any{"kind": "UnaryOp", "op": v.Op, "operand": ToJSONValue(v.Operand)}
	case *ast.FunctionCall:
		args := make([]any, len(v.Args))
		for i, a := range v.Args {
			args[i] = ToJSONValue(a)
		}
		return map[string]any{"kind": "FunctionCall", "callee": ToJSONValue(v.Callee), "args": args}
	case *ast.Block:
		result := any(nil)
		if v.Result != nil {
			result = ToJSONValue(v.Result)
		}
		return map[string]any{"kind": "Block", "result": result}
	case *ast.IfExpression:
		m := map[string]any{"kind": "IfExpression", "cond": ToJSONValue(v.Cond), "then": ToJSONValue(v.Then)}
		if v.Else != nil {
			m["else"] = ToJSONValue(v.Else)
		}
		return m
	case *ast.ForExpr:
		return map[string]any{"kind": "ForExpr", "var": v.Var, "iterable": ToJSONValue(v.Iterable), "body": ToJSONValue(v.Body)}

	default:
		return map[string]any{"kind": "Unknown"}
	}
}
