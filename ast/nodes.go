package ast

import "github.com/google/uuid"

// Node is the interface for all nodes in a Tova program.
type Node interface {
	node()
	GetRange() Range
	GetID() string
}

// Meta carries the fields every node needs: a source range and a stable
// identity independent of pointer identity, so diagnostics and external
// tools (source maps, an LSP) can refer back to "this node" across a
// recompute without aliasing on a Go pointer.
type Meta struct {
	ID  string
	Loc Range
}

// NewMeta creates node metadata for the given range.
func NewMeta(loc Range) Meta {
	return Meta{ID: uuid.New().String(), Loc: loc}
}

func (m Meta) GetRange() Range { return m.Loc }
func (m Meta) GetID() string   { return m.ID }

// Program is the root of every compiled file: an ordered list of
// top-level block nodes (ServerBlock, BrowserBlock, SharedBlock, and
// any plugin-owned block), plus whatever general module-level forms
// (imports, types, functions, let/var) appear between them.
type Program struct {
	Meta
	Filename string
	Body     []Node
}

func (*Program) node() {}

// Import is a module-level import statement.
type Import struct {
	Meta
	Alias string // optional alias, e.g. "ui" in `import ui "myapp/ui"`
	Path  string
}

func (*Import) node() {}

// Export re-exports a name (or a whole declaration) from the module.
type Export struct {
	Meta
	Name string
	Decl Node // optional: `export fn foo() {}` carries the declaration directly
}

func (*Export) node() {}

// --- Dialect blocks (§3.2 "Block nodes") -----------------------------------

// BlockKind distinguishes the canonical dialect blocks from plugin blocks.
type BlockKind string

const (
	BlockServer  BlockKind = "server"
	BlockBrowser BlockKind = "browser" // also covers the legacy `client` keyword
	BlockShared  BlockKind = "shared"
)

// ServerBlock is a `server [name] { ... }` block. Declarations legal
// inside are route/middleware/ws/db/cors/auth/schedule/upload/session/env
// and general statements.
type ServerBlock struct {
	Meta
	Name string // optional; enables inter-server RPC when set
	Body []Node
}

func (*ServerBlock) node() {}

// BrowserBlock is a `browser { ... }` block (or the legacy `client { ... }`
// spelling — LegacyKeyword records which spelling was used so the
// formatter/codegen collaborator can preserve author intent, though the
// analyzer treats both identically).
type BrowserBlock struct {
	Meta
	LegacyKeyword bool // true if written as `client { ... }`
	Body          []Node
}

func (*BrowserBlock) node() {}

// SharedBlock is a `shared { ... }` block: code visible to both sides.
type SharedBlock struct {
	Meta
	Body []Node
}

func (*SharedBlock) node() {}

// PluginBlock is the generic shape for every dialect block contributed
// by a registry plugin that has no dedicated node type (security, cli,
// edge, concurrent, bench); form and deploy use FormDeclaration and
// DeployDeclaration instead. Kind identifies which plugin owns it; the registry's
// analyzer visitor dispatches on Kind rather than on a Go type switch,
// so adding a new dialect never touches this file.
type PluginBlock struct {
	Meta
	Kind BlockKind
	Name string // optional block name, e.g. `cli tools { ... }`
	Body []Node
}

func (*PluginBlock) node() {}

// --- Declarations inside blocks ---------------------------------------------

// RouteDeclaration is `route METHOD "/path" => handler`.
type RouteDeclaration struct {
	Meta
	Method     string // GET, POST, PUT, PATCH, DELETE, ...
	Path       string
	Handler    Node // usually an Identifier or a LambdaExpression
	BodyType   TypeAnnotation
	Middleware []string
}

func (*RouteDeclaration) node() {}

// MiddlewareDeclaration is `middleware name(req) { ... }`.
type MiddlewareDeclaration struct {
	Meta
	Name   string
	Params []Parameter
	Body   *BlockStatement
}

func (*MiddlewareDeclaration) node() {}

// WebSocketDeclaration is `ws "/path" => handler`.
type WebSocketDeclaration struct {
	Meta
	Path    string
	Handler Node
}

func (*WebSocketDeclaration) node() {}

// DbDeclaration is `db name = expr` (a connection/model binding).
type DbDeclaration struct {
	Meta
	Name  string
	Value Node
}

func (*DbDeclaration) node() {}

// CorsDeclaration is `cors { ... }` policy configuration.
type CorsDeclaration struct {
	Meta
	Options Node // ObjectLiteral
}

func (*CorsDeclaration) node() {}

// AuthDeclaration is `auth { ... }` policy configuration.
type AuthDeclaration struct {
	Meta
	Options Node
}

func (*AuthDeclaration) node() {}

// ScheduleDeclaration is `schedule "cron" => handler`.
type ScheduleDeclaration struct {
	Meta
	Cron    string
	Handler Node
}

func (*ScheduleDeclaration) node() {}

// UploadDeclaration is `upload name { ... }` configuration.
type UploadDeclaration struct {
	Meta
	Name    string
	Options Node
}

func (*UploadDeclaration) node() {}

// SessionDeclaration is `session { ... }` configuration.
type SessionDeclaration struct {
	Meta
	Options Node
}

func (*SessionDeclaration) node() {}

// EnvDeclaration is `env("NAME")` used as a declaration statement (as
// opposed to the identically-shaped expression form used inline).
type EnvDeclaration struct {
	Meta
	Name string
}

func (*EnvDeclaration) node() {}

// StateDeclaration is `state name = expr` — legal only in a browser context.
type StateDeclaration struct {
	Meta
	Name         string
	DeclaredType TypeAnnotation
	Value        Node
}

func (*StateDeclaration) node() {}

// ComputedDeclaration is `computed name = expr`.
type ComputedDeclaration struct {
	Meta
	Name  string
	Value Node
}

func (*ComputedDeclaration) node() {}

// EffectDeclaration is `effect { ... }` or `effect(deps) { ... }`.
type EffectDeclaration struct {
	Meta
	Deps []Node
	Body *BlockStatement
}

func (*EffectDeclaration) node() {}

// ComponentDeclaration is `component Name(props) { ... }`.
type ComponentDeclaration struct {
	Meta
	Name   string
	Params []Parameter
	Body   *BlockStatement
}

func (*ComponentDeclaration) node() {}

// StoreDeclaration is `store Name { ... }`.
type StoreDeclaration struct {
	Meta
	Name string
	Body *BlockStatement
}

func (*StoreDeclaration) node() {}

// FormDeclaration is `form Name { field ...; group ...; array ...; steps ... }`.
type FormDeclaration struct {
	Meta
	Name  string
	Body  []Node // FormFieldDeclaration, FormGroupDeclaration, FormArrayDeclaration, StepsDeclaration
}

func (*FormDeclaration) node() {}

// FormFieldDeclaration is `field name: Type = default, validator(...), ...`.
type FormFieldDeclaration struct {
	Meta
	Name         string
	DeclaredType TypeAnnotation
	Default      Node
	Validators   []ValidatorCall
}

func (*FormFieldDeclaration) node() {}

// ValidatorCall is one `validatorName(args...)` entry on a form field.
type ValidatorCall struct {
	Name string
	Args []Node
}

// FormGroupDeclaration is `group name { ... }` nesting fields.
type FormGroupDeclaration struct {
	Meta
	Name string
	Body []Node
}

func (*FormGroupDeclaration) node() {}

// FormArrayDeclaration is `array name { ... }` — a repeatable group.
type FormArrayDeclaration struct {
	Meta
	Name string
	Body []Node
}

func (*FormArrayDeclaration) node() {}

// StepsDeclaration is `steps { step "label" when cond { member, member }, ... }`.
type StepsDeclaration struct {
	Meta
	Steps []FormStep
}

func (*StepsDeclaration) node() {}

// FormStep is one `step "label" [when cond] { members... }` entry.
type FormStep struct {
	Label   string
	Guard   Node // optional
	Members []string
	Range   Range
}

// DeployDeclaration is a `deploy [name] { server: ..., domain: ..., ... }` block body.
type DeployDeclaration struct {
	Meta
	Fields map[string]Node
}

func (*DeployDeclaration) node() {}

// CliCommandDeclaration is `command "name" { ... }` inside a `cli` block.
type CliCommandDeclaration struct {
	Meta
	Name   string
	Params []Parameter
	Body   *BlockStatement
}

func (*CliCommandDeclaration) node() {}

// EdgeProducerDeclaration is `produce "queue" => expr`.
type EdgeProducerDeclaration struct {
	Meta
	Queue string
	Value Node
}

func (*EdgeProducerDeclaration) node() {}

// EdgeConsumerDeclaration is `consume "queue" => handler`.
type EdgeConsumerDeclaration struct {
	Meta
	Queue   string
	Handler Node
}

func (*EdgeConsumerDeclaration) node() {}

// ConcurrentTaskDeclaration is `task name { ... }` inside a `concurrent` block.
type ConcurrentTaskDeclaration struct {
	Meta
	Name string
	Body *BlockStatement
}

func (*ConcurrentTaskDeclaration) node() {}

// BenchCaseDeclaration is `case "name" { ... }` inside a `bench` block.
type BenchCaseDeclaration struct {
	Meta
	Name string
	Body *BlockStatement
}

func (*BenchCaseDeclaration) node() {}

// --- General statements ------------------------------------------------------

// Assignment is a bare `name = expr` at statement level. Whether this
// introduces an immutable binding or reassigns an existing mutable one
// is decided by the analyzer (§4.3), never the parser.
type Assignment struct {
	Meta
	Target Node // Identifier or a destructuring target
	Value  Node
}

func (*Assignment) node() {}

// CompoundAssignment is `name += expr` and friends; the target must
// already resolve to a mutable symbol.
type CompoundAssignment struct {
	Meta
	Operator string // "+=", "-=", "*=", "/=", ...
	Target   Node
	Value    Node
}

func (*CompoundAssignment) node() {}

// VarDeclaration is `var name = expr` — explicitly mutable.
type VarDeclaration struct {
	Meta
	Name         string
	DeclaredType TypeAnnotation
	Value        Node
}

func (*VarDeclaration) node() {}

// LetDestructure is `let {a, b} = obj` or `let [x, y] = arr`. Every
// bound target is immutable.
type LetDestructure struct {
	Meta
	Pattern Node // RecordPattern, ArrayPattern, or a plain BindingPattern
	Value   Node
}

func (*LetDestructure) node() {}

// Parameter is a function/lambda/component parameter.
type Parameter struct {
	Name         string
	DeclaredType TypeAnnotation
	Default      Node // optional
	Range        Range
}

// FunctionDeclaration is `fn name(params) { ... }` or with an expression body.
type FunctionDeclaration struct {
	Meta
	Name       string
	Params     []Parameter
	ReturnType TypeAnnotation
	Body       *BlockStatement
}

func (*FunctionDeclaration) node() {}

// TypeDeclaration is `type Name { ... }`, either a record or a tagged union.
type TypeDeclaration struct {
	Meta
	Name       string
	TypeParams []string
	Variants   []TypeVariant // len==1 and Variant.Name=="" marks a plain record
}

func (*TypeDeclaration) node() {}

// TypeVariant is one record shape, or one tagged-union constructor.
type TypeVariant struct {
	Name   string // "" for a plain record
	Fields []FieldDef
	Range  Range
}

// FieldDef is one `name: Type` field of a record or variant.
type FieldDef struct {
	Name string
	Type TypeAnnotation
}

// If is `if cond { ... } elif cond { ... } else { ... }` as a statement.
type If struct {
	Meta
	Condition Node
	Then      *BlockStatement
	ElseIfs   []ElseIf
	Else      *BlockStatement // optional
}

func (*If) node() {}

// ElseIf is one `elif cond { ... }` arm.
type ElseIf struct {
	Condition Node
	Body      *BlockStatement
}

// For is `for pattern in iterable { ... }`.
type For struct {
	Meta
	Pattern  Node
	Iterable Node
	Body     *BlockStatement
}

func (*For) node() {}

// While is `while cond { ... }`.
type While struct {
	Meta
	Condition Node
	Body      *BlockStatement
}

func (*While) node() {}

// TryCatch is `try { ... } catch (name) { ... } finally { ... }`.
type TryCatch struct {
	Meta
	Try       *BlockStatement
	CatchName string // may be empty if no binding was given
	Catch     *BlockStatement
	Finally   *BlockStatement // optional
}

func (*TryCatch) node() {}

// Return is `return [expr]`.
type Return struct {
	Meta
	Value Node // nil for a bare `return`
}

func (*Return) node() {}

// BlockStatement is a `{ ... }` body. Its trailing expression statement,
// when present, is the block's value in expression position.
type BlockStatement struct {
	Meta
	Body []Node
}

func (*BlockStatement) node() {}

// ExpressionStatement wraps an expression used in statement position.
type ExpressionStatement struct {
	Meta
	Expression Node
}

func (*ExpressionStatement) node() {}

// StyleBlock is a raw CSS `style { ... }` block lexed as a single token
// and carried through as an opaque string for the codegen collaborator.
type StyleBlock struct {
	Meta
	Raw string
}

func (*StyleBlock) node() {}
