// Package ast defines the Groovy AST node model: a closed, tagged-union
// representation (spec.md §9 "Dynamic dispatch across node kinds") rather
// than a class hierarchy with virtual dispatch. A Node's behavior varies
// by its Kind, matched explicitly by callers — there is no subclassing.
package ast

// Kind enumerates every node variant spec.md's data model names in §3:
// declarations, statements, and expressions alike.
type Kind int

const (
	KindInvalid Kind = iota

	// Top level
	KindModule
	KindPackage
	KindImport
	KindClass
	KindInterface
	KindEnum
	KindAnnotation
	KindField
	KindProperty
	KindMethod
	KindParameter

	// Statements
	KindBlockStmt
	KindIfStmt
	KindForStmt
	KindWhileStmt
	KindTryCatchStmt
	KindReturnStmt
	KindThrowStmt
	KindSwitchStmt
	KindExpressionStmt
	KindLocalVarDecl

	// Expressions
	KindVariableExpr
	KindConstantExpr
	KindPropertyExpr
	KindMethodCallExpr
	KindConstructorCallExpr
	KindClosureExpr
	KindListExpr
	KindMapExpr
	KindBinaryExpr
	KindTernaryExpr
	KindCastExpr
	KindGStringExpr
	KindLambdaExpr
	KindMethodReferenceExpr
	KindClassExpr
	KindArgumentListExpr
)

var kindNames = map[Kind]string{
	KindInvalid:             "invalid",
	KindModule:              "module",
	KindPackage:             "package",
	KindImport:              "import",
	KindClass:               "class",
	KindInterface:           "interface",
	KindEnum:                "enum",
	KindAnnotation:          "annotation",
	KindField:               "field",
	KindProperty:            "property",
	KindMethod:              "method",
	KindParameter:           "parameter",
	KindBlockStmt:           "block_stmt",
	KindIfStmt:              "if_stmt",
	KindForStmt:             "for_stmt",
	KindWhileStmt:           "while_stmt",
	KindTryCatchStmt:        "try_catch_stmt",
	KindReturnStmt:          "return_stmt",
	KindThrowStmt:           "throw_stmt",
	KindSwitchStmt:          "switch_stmt",
	KindExpressionStmt:      "expression_stmt",
	KindLocalVarDecl:        "local_var_decl",
	KindVariableExpr:        "variable_expr",
	KindConstantExpr:        "constant_expr",
	KindPropertyExpr:        "property_expr",
	KindMethodCallExpr:      "method_call_expr",
	KindConstructorCallExpr: "constructor_call_expr",
	KindClosureExpr:         "closure_expr",
	KindListExpr:            "list_expr",
	KindMapExpr:             "map_expr",
	KindBinaryExpr:          "binary_expr",
	KindTernaryExpr:         "ternary_expr",
	KindCastExpr:            "cast_expr",
	KindGStringExpr:         "gstring_expr",
	KindLambdaExpr:          "lambda_expr",
	KindMethodReferenceExpr: "method_reference_expr",
	KindClassExpr:           "class_expr",
	KindArgumentListExpr:    "argument_list_expr",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// positionPriority implements the tie-break table from spec.md §4.1:
// "ConstantExpression > VariableExpression > PropertyExpression >
// MethodCallExpression > ClassNode > ModuleNode". Higher wins.
var positionPriority = map[Kind]int{
	KindConstantExpr:   50,
	KindVariableExpr:   40,
	KindPropertyExpr:   30,
	KindMethodCallExpr: 20,
	KindClass:          10,
	KindModule:         0,
}

// PositionPriority returns the tie-break priority for node_at ties
// (spec.md §4.1, §4.3). Kinds absent from the table share a default
// priority of 5, between ClassNode (10) and ModuleNode (0).
func (k Kind) PositionPriority() int {
	if p, ok := positionPriority[k]; ok {
		return p
	}
	return 5
}
