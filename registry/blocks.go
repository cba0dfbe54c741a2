package registry

import (
	"fmt"

	"github.com/tova-lang/tova/ast"
	"github.com/tova-lang/tova/lexer"
)

// DispatchKeyFor computes the key the Analyzer's visitor table (and this
// registry's byNodeType map) is keyed by. Most dialect nodes have a
// dedicated Go type (FormDeclaration, DeployDeclaration, ...) and key on
// their type name; the remaining dialects (security/cli/edge/concurrent/
// bench) share the generic ast.PluginBlock wrapper and so additionally
// key on its Kind field, so each still gets its own registry entry.
func DispatchKeyFor(n ast.Node) string {
	switch v := n.(type) {
	case *ast.PluginBlock:
		return "PluginBlock:" + string(v.Kind)
	case *ast.FormDeclaration:
		return "FormDeclaration"
	case *ast.FormFieldDeclaration:
		return "FormFieldDeclaration"
	case *ast.FormGroupDeclaration:
		return "FormGroupDeclaration"
	case *ast.FormArrayDeclaration:
		return "FormArrayDeclaration"
	case *ast.StepsDeclaration:
		return "StepsDeclaration"
	case *ast.DeployDeclaration:
		return "DeployDeclaration"
	default:
		return fmt.Sprintf("%T", n)
	}
}

// Plugin block kinds for the dialects that share ast.PluginBlock rather
// than owning a dedicated node type.
const (
	KindSecurity   ast.BlockKind = "security"
	KindCli        ast.BlockKind = "cli"
	KindEdge       ast.BlockKind = "edge"
	KindConcurrent ast.BlockKind = "concurrent"
	KindBench      ast.BlockKind = "bench"
)

// BlockDescriptors is the static list of built-in dialect plugins
// (§4.4): identity and Detection only. Parse/Visit/PrePass/CrossBlock
// hooks are filled in separately by WithHooks, once by the parser
// package (which supplies ParseFunc closures bound to its own *Parser)
// and once by the analyzer package (which supplies VisitFunc closures
// bound to its own *Analyzer) — keeping the two halves of a plugin
// contract next to the code that understands them, without parser and
// analyzer importing each other.
var BlockDescriptors = []Plugin{
	{
		Name:        "form",
		ASTNodeType: "FormDeclaration",
		Detection:   Detection{Strategy: StrategyKeyword, TokenKind: lexer.FORM},
	},
	{
		Name:        "form-field",
		ASTNodeType: "FormFieldDeclaration",
	},
	{
		Name:        "form-group",
		ASTNodeType: "FormGroupDeclaration",
	},
	{
		Name:        "form-array",
		ASTNodeType: "FormArrayDeclaration",
	},
	{
		Name:        "form-steps",
		ASTNodeType: "StepsDeclaration",
	},
	{
		Name:        "security",
		ASTNodeType: "PluginBlock:security",
		Detection:   Detection{Strategy: StrategyKeyword, TokenKind: lexer.SECURITY},
	},
	{
		Name:        "deploy",
		ASTNodeType: "DeployDeclaration",
		Detection:   Detection{Strategy: StrategyKeyword, TokenKind: lexer.DEPLOY},
	},
	{
		Name:        "cli",
		ASTNodeType: "PluginBlock:cli",
		Detection:   Detection{Strategy: StrategyKeyword, TokenKind: lexer.CLI},
	},
	{
		Name:        "edge",
		ASTNodeType: "PluginBlock:edge",
		Detection:   Detection{Strategy: StrategyKeyword, TokenKind: lexer.EDGE},
	},
	{
		Name:        "concurrent",
		ASTNodeType: "PluginBlock:concurrent",
		Detection:   Detection{Strategy: StrategyKeyword, TokenKind: lexer.CONCURRENT},
	},
	{
		Name:        "bench",
		ASTNodeType: "PluginBlock:bench",
		Detection:   Detection{Strategy: StrategyKeyword, TokenKind: lexer.BENCH},
	},
}

// WithHooks returns a copy of BlockDescriptors with whichever of
// Parse/Visit/PrePass/CrossBlock the caller supplies (keyed by plugin
// Name) filled in. A caller that only builds a parse-side or
// analyze-side registry passes nil for the maps it doesn't care about.
func WithHooks(
	parse map[string]ParseFunc,
	visit map[string]VisitFunc,
	prePass map[string]func(BlockAnalyzer),
	crossBlock map[string]func(BlockAnalyzer),
) []Plugin {
	out := make([]Plugin, len(BlockDescriptors))
	for i, p := range BlockDescriptors {
		if parse != nil {
			p.Parse = parse[p.Name]
		}
		if visit != nil {
			p.Visit = visit[p.Name]
		}
		if prePass != nil {
			p.PrePass = prePass[p.Name]
		}
		if crossBlock != nil {
			p.CrossBlock = crossBlock[p.Name]
		}
		out[i] = p
	}
	return out
}
