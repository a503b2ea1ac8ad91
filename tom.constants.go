package tom

import (
	"time"

	"github.com/lightframe/go-tom/internal"
)

// Defaults
const (
	DefaultMaxDepth            = internal.DefaultMaxDepth
	DefaultMaxInheritanceDepth = internal.DefaultMaxInheritanceDepth
	DefaultAutoEscape          = true
	DefaultSiteRoot            = "/"
	DefaultCacheTTL            = 5 * time.Minute
	DefaultCacheMaxEntries     = 1000
)

// Compile treats a string as a template name when it is shorter than
// TemplateNameMaxLength bytes and ends in TemplateFileExtension.
const (
	TemplateNameMaxLength = 100
	TemplateFileExtension = ".html"
)

// Reserved context roots the host supplies through Request.
const (
	ReservedGet      = internal.ReservedGet
	ReservedPost     = internal.ReservedPost
	ReservedSession  = internal.ReservedSession
	ReservedEnv      = internal.ReservedEnv
	ReservedSiteRoot = internal.SiteRootToken
)

// Loader driver names for OpenLoader
const (
	LoaderDriverMemory     = "memory"
	LoaderDriverFilesystem = "filesystem"
)

// LoaderConnSeparator separates roots in a filesystem driver connection string.
const LoaderConnSeparator = ","

// Error code constants for categorization
const (
	ErrCodeTemplateNotFound  = "TOM_TEMPLATE_NOT_FOUND"
	ErrCodeMalformedTag      = "TOM_MALFORMED_TAG"
	ErrCodeUnknownFilter     = "TOM_UNKNOWN_FILTER"
	ErrCodeInvalidComparison = "TOM_INVALID_COMPARISON"
	ErrCodeParse             = "TOM_PARSE"
	ErrCodeCircularExtends   = "TOM_CIRCULAR_EXTENDS"
	ErrCodeFilterFailed      = "TOM_FILTER_FAILED"
	ErrCodeInternal          = "TOM_INTERNAL"
	ErrCodeCanceled          = "TOM_CANCELED"
	ErrCodeRegistry          = "TOM_REGISTRY"
	ErrCodeConfig            = "TOM_CONFIG"
)

// Error message constants
const (
	ErrMsgRenderFailed         = "template render failed"
	ErrMsgTemplateFailed       = "template processing failed"
	ErrMsgRenderCanceled       = "template render canceled"
	ErrMsgTemplateNotFound     = "template not found"
	ErrMsgInvalidTemplateName  = "invalid template name"
	ErrMsgNoLoader             = "no template loader configured"
	ErrMsgLoaderReadFailed     = "failed to read template"
	ErrMsgNoLoaderRoots        = "at least one template root is required"
	ErrMsgNilFS                = "filesystem cannot be nil"
	ErrMsgLoaderDriverNotFound = "loader driver not found"
	ErrMsgLoaderDriverExists   = "loader driver already registered"
	ErrMsgNilLoaderDriver      = "loader driver is nil"
	ErrMsgConfigRead           = "failed to read config file"
	ErrMsgConfigParse          = "failed to parse config"
	ErrMsgConfigInvalid        = "invalid config value"
	ErrMsgInvalidLogLevel      = "invalid log level"
	ErrMsgRegisterFilter       = "failed to register filter"
	ErrMsgRegisterTag          = "failed to register tag"
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyKind     = "kind"
	MetaKeyTemplate = "template"
	MetaKeyTag      = "tag"
	MetaKeyLine     = "line"
	MetaKeyColumn   = "column"
	MetaKeyName     = "name"
	MetaKeyDriver   = "driver"
	MetaKeyField    = "field"
)

// Log message constants
const (
	LogMsgEngineCreated   = "engine created"
	LogMsgCompileStart    = "compiling template"
	LogMsgCompileEnd      = "template compiled"
	LogMsgTemplateLoaded  = "template loaded"
	LogMsgCacheHit        = "template cache hit"
	LogMsgCacheMiss       = "template cache miss"
	LogMsgCacheEvicted    = "template cache entry evicted"
	LogMsgConfigLoaded    = "config loaded"
	LogMsgValidateFailed  = "template validation failed"
	LogMsgInlineSource    = "compiling inline template source"
	LogMsgNamedTemplate   = "compiling named template"
	LogMsgRenderCancelled = "render cancelled"
)

// Log field constants
const (
	LogFieldTemplate     = "template"
	LogFieldRoot         = "root"
	LogFieldFilters      = "filters"
	LogFieldTags         = "tags"
	LogFieldBytes        = "bytes"
	LogFieldOutputSize   = "output_bytes"
	LogFieldEntries      = "entries"
	LogFieldCacheEnabled = "cache_enabled"
)
