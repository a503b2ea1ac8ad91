package internal

// Delimiters recognised by the lexer
const (
	DelimTagOpen       = "{%"
	DelimTagClose      = "%}"
	DelimVarOpen       = "{{"
	DelimVarClose      = "}}"
	DelimCommentOpen   = "{#"
	DelimCommentClose  = "#}"
	EndTagPrefix       = "end"
	FilterSeparator    = "|"
	FilterArgSeparator = ":"
	PathSeparator      = "."
	ArgSeparator       = ":"
)

// Built-in tag names
const (
	TagNameIf          = "if"
	TagNameElseIf      = "elseif"
	TagNameElse        = "else"
	TagNameEndIf       = "endif"
	TagNameForeach     = "foreach"
	TagNameComment     = "comment"
	TagNameLowercase   = "lowercase"
	TagNameUppercase   = "uppercase"
	TagNameTransform   = "transform"
	TagNameCount       = "count"
	TagNameDebug       = "debug"
	TagNameDummyTag    = "dummytag"
	TagNameDummyBlock  = "dummyblock"
	TagNameBlock       = "block"
	TagNameEndBlock    = "endblock"
	TagNameExtends     = "extends"
	TagNameVerbatim    = "verbatim"
	TagNameEndVerbatim = "endverbatim"
)

// Comparison keywords understood by the if tag
const (
	CmpIsTrue    = "istrue"
	CmpIsFalse   = "isfalse"
	CmpEquals    = "equals"
	CmpNotEquals = "notequals"
	CmpIsGreater = "isgreater"
	CmpIsLess    = "isless"
	CmpExists    = "exists"
	CmpEmpty     = "empty"
	CmpNotEmpty  = "notempty"
	CmpOrEquals  = "orequals"
	CmpArgTo     = "to"
	CmpArgThan   = "than"
)

// Transform names understood by the transform tag
const (
	TransformSpacesUnderscores = "spacesunderscores"
)

// Reserved context roots supplied by the host
const (
	ReservedGet     = "GET"
	ReservedPost    = "POST"
	ReservedSession = "SESSION"
	ReservedEnv     = "ENV"
	SiteRootToken   = "/"
)

// Output produced by the placeholder tags
const (
	OutputDummyTag   = "{dummytag}"
	OutputDummyBlock = "{dummyblock}"
	OutputCountFail  = "?"
)

// Escape placeholders
const (
	PlaceholderPrefix = "[["
	PlaceholderSuffix = "]]"
	QuotePlaceholder  = "tomq"
)

// Defaults
const (
	DefaultMaxDepth            = 100
	DefaultMaxInheritanceDepth = 10
	DefaultMaxSuggestions      = 3
)

// Log message constants
const (
	LogMsgLexerCreated       = "lexer created"
	LogMsgTokenizerStart     = "starting tokenization"
	LogMsgTokenizerEnd       = "tokenization complete"
	LogMsgRenderStart        = "starting render"
	LogMsgRenderEnd          = "render complete"
	LogMsgTagDispatched      = "tag dispatched"
	LogMsgTagComplete        = "tag complete"
	LogMsgRegistryCreated    = "registry created"
	LogMsgTagRegistered      = "tag registered"
	LogMsgTagCollision       = "tag registration collision - first-come-wins"
	LogMsgFilterRegistered   = "filter registered"
	LogMsgFilterCollision    = "filter registration collision - first-come-wins"
	LogMsgExtendsResolved    = "extends resolved"
	LogMsgParentLoaded       = "parent template loaded"
	LogMsgBlockOverridden    = "block overridden by child"
	LogMsgBlockDefault       = "block kept parent default"
	LogMsgForeachStart       = "starting foreach"
	LogMsgForeachEnd         = "foreach complete"
	LogMsgForeachNotIterable = "foreach source is not iterable, rendering nothing"
	LogMsgCountFailed        = "count failed"
	LogMsgPathMiss           = "variable path did not resolve"
	LogMsgDebugTag           = "template debug"
)

// Log field names
const (
	LogFieldSource     = "source_length"
	LogFieldNodes      = "node_count"
	LogFieldTag        = "tag"
	LogFieldTagName    = "tag_name"
	LogFieldFilter     = "filter"
	LogFieldTemplate   = "template"
	LogFieldParent     = "parent"
	LogFieldBlock      = "block"
	LogFieldDepth      = "depth"
	LogFieldAlias      = "alias"
	LogFieldCollection = "collection"
	LogFieldIterations = "iterations"
	LogFieldExpression = "expression"
	LogFieldLine       = "line"
	LogFieldColumn     = "column"
	LogFieldArg        = "arg"
)

// Error message constants
const (
	ErrMsgUnterminatedTag      = "unterminated tag"
	ErrMsgUnterminatedVariable = "unterminated variable"
	ErrMsgUnterminatedComment  = "unterminated comment"
	ErrMsgEmptyTag             = "empty tag"
	ErrMsgEmptyVariable        = "empty variable expression"
	ErrMsgUnknownTag           = "unknown tag"
	ErrMsgUnmatchedEndTag      = "end tag without matching opening tag"
	ErrMsgUnknownFilter        = "unknown filter"
	ErrMsgTagFailed            = "tag failed"
	ErrMsgFilterFailed         = "filter failed"
	ErrMsgInvalidComparison    = "invalid comparison method"
	ErrMsgMissingComparison    = "if tag requires a comparison"
	ErrMsgMissingOperand       = "comparison requires a second operand"
	ErrMsgExpectsNodes         = "tag expects a block with a matching end tag"
	ErrMsgExpectsTag           = "tag expects a single tag without a body"
	ErrMsgForeachSyntax        = "foreach expects exactly one collection:alias argument"
	ErrMsgForeachAliasExists   = "foreach alias already exists in context, can't overwrite"
	ErrMsgUnknownTransform     = "unknown transform argument"
	ErrMsgCountMissingExpr     = "count expects an expression"
	ErrMsgExtendsNotFirst      = "extends must be the first node of a template"
	ErrMsgExtendsMissingPath   = "extends expects a quoted template path"
	ErrMsgUnevenBlocks         = "an uneven count of blocks/endblocks"
	ErrMsgUnterminatedVerbatim = "unterminated verbatim region"
	ErrMsgCircularExtends      = "circular template inheritance detected"
	ErrMsgInheritanceDepth     = "maximum inheritance depth exceeded"
	ErrMsgMaxDepthExceeded     = "maximum nesting depth exceeded"
	ErrMsgNoLoader             = "no template loader configured"
	ErrMsgTemplateNotFound     = "template not found"
	ErrMsgNilFactory           = "tag factory cannot be nil"
	ErrMsgNilFilter            = "filter function cannot be nil"
	ErrMsgInvalidName          = "name cannot be empty or contain whitespace"
	ErrMsgTagAlreadyExists     = "tag already registered"
	ErrMsgFilterAlreadyExists  = "filter already registered"
	ErrMsgDebugTagPresent      = "debug tag left in template"
)

// Error format string constants
const (
	ErrFmtWithPosition       = "%s at %s"
	ErrFmtWithTagAndPosition = "%s [%s] at %s"
	ErrFmtWithTemplate       = "%s in %q"
	ErrFmtWithCause          = "%s: %v"
	ErrFmtTagMessage         = "%s: %s"
	ErrFmtSuggestions        = "%s (did you mean %s?)"
)
