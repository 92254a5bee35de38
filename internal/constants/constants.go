package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "kuma"

	// ConfigFileName is the default config file name
	ConfigFileName = ".kuma.yml"

	// TodoFileName is the file written by --auto-gen-config
	TodoFileName = ".kuma_todo.yml"

	// LegacyTodoFileName is the todo file name used by older releases
	LegacyTodoFileName = "kuma-todo.yml"
)

// Built-in tool names, in invocation order
const (
	ToolFlay    = "flay"
	ToolFlog    = "flog"
	ToolRubocop = "rubocop"
)

// BuiltinTools lists the built-in tools in the order they run
var BuiltinTools = []string{ToolFlay, ToolFlog, ToolRubocop}

// Exit codes
const (
	ExitSuccess = 0
	ExitFailure = 1
)
