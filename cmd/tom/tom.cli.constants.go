package main

// Command names
const (
	CmdNameRender   = "render"
	CmdNameValidate = "validate"
	CmdNameTokens   = "tokens"
	CmdNameVersion  = "version"
	CmdNameHelp     = "help"
)

// Flag names - long form
const (
	FlagTemplate    = "template"
	FlagName        = "name"
	FlagData        = "data"
	FlagDataFile    = "data-file"
	FlagOutput      = "output"
	FlagFormat      = "format"
	FlagStrictMode  = "strict"
	FlagRoot        = "root"
	FlagBuiltinRoot = "builtin-root"
	FlagConfig      = "config"
	FlagSiteRoot    = "site-root"
	FlagEnv         = "env"
	FlagNoEscape    = "no-escape"
	FlagVerbose     = "verbose"
)

// Flag names - short form
const (
	FlagTemplateShort    = "t"
	FlagNameShort        = "n"
	FlagDataShort        = "d"
	FlagDataFileShort    = "f"
	FlagOutputShort      = "o"
	FlagFormatShort      = "F"
	FlagRootShort        = "r"
	FlagBuiltinRootShort = "b"
	FlagConfigShort      = "c"
	FlagVerboseShort     = "v"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Data file extensions decoded as YAML; everything else is JSON
const (
	DataExtYAML = ".yaml"
	DataExtYML  = ".yml"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand      = "unknown command"
	ErrMsgMissingTemplate     = "template file or name required"
	ErrMsgTemplateAndName     = "template file and name are mutually exclusive"
	ErrMsgInvalidData         = "invalid data"
	ErrMsgReadFileFailed      = "failed to read file"
	ErrMsgWriteOutputFailed   = "failed to write output"
	ErrMsgParseTemplateFailed = "template parsing failed"
	ErrMsgExecuteFailed       = "template execution failed"
	ErrMsgInvalidFormat       = "invalid output format"
	ErrMsgInvalidFlags        = "invalid flags"
	ErrMsgEngineFailed        = "failed to create engine"
	ErrMsgLoggerFailed        = "failed to create logger"
)

// Help text templates
const (
	HelpMainUsage = `go-tom - LightFrame HTML template compiler CLI

Usage:
    tom <command> [options]

Commands:
    render      Render a template with data
    validate    Validate a template without rendering
    tokens      Print the token stream of a template
    version     Show version information
    help        Show help for a command

Use "tom help <command>" for more information about a command.`

	HelpRenderUsage = `Render a template with data

Usage:
    tom render [options]

Options:
    -t, --template <file>       Template file rendered as inline source (use "-" for stdin)
    -n, --name <name>           Template name loaded from the template roots
    -d, --data <json>           JSON data string
    -f, --data-file <file>      JSON or YAML (.yaml, .yml) data file
    -o, --output <file>         Output file (default: stdout)
    -r, --root <dir>            Project template root
    -b, --builtin-root <dir>    Built-in template root, searched after --root
    -c, --config <file>         YAML engine configuration
    --site-root <path>          Value of the {{ / }} token
    --env                       Expose the process environment as ENV
    --no-escape                 Disable HTML escaping of variable output
    -v, --verbose               Log debug output to stderr

Examples:
    tom render -t page.html -d '{"name": "Alice"}'
    tom render -n pages/home.html -r ./views -f data.yaml
    cat page.html | tom render -t - -d '{"name": "Bob"}'
    tom render -n pages/home.html -c tom.yaml -o home.out.html`

	HelpValidateUsage = `Validate a template without rendering

Usage:
    tom validate [options]

Options:
    -t, --template <file>       Template file (use "-" for stdin)
    -n, --name <name>           Template name loaded from the template roots
    -r, --root <dir>            Project template root
    -b, --builtin-root <dir>    Built-in template root
    -c, --config <file>         YAML engine configuration
    -F, --format <format>       Output format: text, json (default: text)
    --strict                    Treat warnings as errors

Examples:
    tom validate -t page.html
    tom validate -n pages/home.html -r ./views --strict
    cat page.html | tom validate -t -`

	HelpTokensUsage = `Print the token stream of a template

Usage:
    tom tokens [options]

Options:
    -t, --template <file>       Template file (use "-" for stdin)
    -F, --format <format>       Output format: text, json (default: text)`

	HelpVersionUsage = `Show version information

Usage:
    tom version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    tom help [command]

Commands:
    render      Show help for render command
    validate    Show help for validate command
    tokens      Show help for tokens command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "go-tom version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
)

// Validation output format templates
const (
	ValidationTextSuccess      = "Template is valid"
	ValidationTextIssueHeader  = "Validation issues:"
	ValidationTextIssueFormat  = "  [%s] %s at line %d, column %d"
	ValidationTextSuggestions  = "      did you mean: %s"
	ValidationTextErrorSummary = "%d error(s), %d warning(s)"
)

// Token output format
const (
	TokenTextFormat = "%d:%d\t%s\t%q"
)

// Severity names for output
const (
	SeverityNameError   = "ERROR"
	SeverityNameWarning = "WARNING"
)

// CLI metadata
const (
	CLIName        = "tom"
	CLIDescription = "LightFrame HTML template compiler CLI"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
	SuggestionSep      = ", "
	EnvSeparator       = "="
)

// Log message constants
const (
	LogMsgRenderDone    = "render finished"
	LogMsgValidateDone  = "validation finished"
	LogMsgDataLoaded    = "data loaded"
	LogMsgEnvInjected   = "process environment injected"
	LogFieldTemplate    = "template"
	LogFieldOutputBytes = "output_bytes"
	LogFieldKeys        = "keys"
	LogFieldIssues      = "issues"
)
