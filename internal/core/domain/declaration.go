package domain

// DeclarationKind identifies what sort of exported symbol a Declaration is.
type DeclarationKind string

// Declaration kinds, in the order the reference parser prefers them.
const (
	KindInterface DeclarationKind = "interface"
	KindTypeAlias DeclarationKind = "type"
	KindEnum      DeclarationKind = "enum"
	KindFunction  DeclarationKind = "function"
	KindClass     DeclarationKind = "class"
)

// Declaration is one exported symbol extracted from a reference-doc file.
// Extraction is heuristic: any field other than Name may legitimately be
// empty when the source markdown gave no usable signal.
type Declaration struct {
	// ID is the unique identifier for the declaration. Declarations are
	// identified by ID, not name; two packages may export the same name.
	ID string

	// Name is the symbol name. Always non-empty.
	Name string

	// Package is the logical grouping derived from the source path.
	Package string

	// Kind is the symbol kind. Defaults to class when no stronger
	// signal is found in the section text.
	Kind DeclarationKind

	// Description is the prose between the symbol name and the first
	// sub-heading or code block, with markdown markup stripped.
	Description string

	// Extends is the single parent name, if an "Extends:" label was found.
	Extends string

	// Implements lists implemented interface names in source order.
	Implements []string

	// Decorators lists @annotation names in first-seen order.
	Decorators []string

	// Members are the methods, properties, constructors and accessors
	// owned by this declaration. A member cannot outlive its declaration.
	Members []Member

	// FilePath is the path of the source file within the docs tree.
	FilePath string

	// SourceURL is the browsable location of the source file.
	SourceURL string
}

// MemberKind identifies what sort of member a Member is.
type MemberKind string

// Member kinds.
const (
	MemberMethod      MemberKind = "method"
	MemberProperty    MemberKind = "property"
	MemberConstructor MemberKind = "constructor"
	MemberAccessor    MemberKind = "accessor"
)

// Visibility is a member's access level.
type Visibility string

// Visibility levels. Members default to public.
const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
)

// Member is a method, property, constructor or accessor owned by exactly
// one Declaration.
type Member struct {
	// ID is the unique identifier for the member.
	ID string

	// DeclarationID links to the owning Declaration.
	DeclarationID string

	// Name is the member name.
	Name string

	// Kind is the member kind. Defaults to method.
	Kind MemberKind

	// Signature is the raw textual declaration, typically the first line
	// of the member's first fenced code block.
	Signature string

	// Visibility defaults to public.
	Visibility Visibility

	// Static is true when the member is marked static.
	Static bool

	// Async is true when the member is marked async or returns a Promise.
	Async bool

	// Description is the member's prose description.
	Description string

	// Params are the member's parameters in declaration order.
	Params []Param

	// Returns describes the return value, if documented.
	Returns *Returns

	// Decorators lists @annotation names in first-seen order.
	Decorators []string

	// Example is the first code block following an "Example" label.
	Example string
}

// Param is a single parameter of a member.
type Param struct {
	// Name is the parameter name.
	Name string `json:"name"`

	// Type is the parameter type, if known.
	Type string `json:"type,omitempty"`

	// Description is the parameter's prose description, if documented.
	Description string `json:"description,omitempty"`

	// Optional is true for `name?: Type` style parameters.
	Optional bool `json:"optional,omitempty"`
}

// Returns describes a member's return value.
type Returns struct {
	// Type is the return type.
	Type string `json:"type,omitempty"`

	// Description is the return value's prose description.
	Description string `json:"description,omitempty"`
}

// MemberMatch pairs a member with its owning declaration for lookups
// that cross declaration boundaries.
type MemberMatch struct {
	// Member is the matched member.
	Member Member

	// DeclarationName is the owning declaration's name.
	DeclarationName string

	// Package is the owning declaration's package.
	Package string

	// SourceURL is the owning declaration's source location.
	SourceURL string
}
