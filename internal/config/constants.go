package config

const SourceFileExt = ".clarke"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".clarke", ".clk"}

// DefaultConfigFile is looked up in the working directory when no -config
// flag is given.
const DefaultConfigFile = "clarke.yaml"

// Built-in type names
const (
	BoolTypeName   = "bool"
	IntTypeName    = "int"
	StringTypeName = "string"
	VoidTypeName   = "void"
	AnyTypeName    = "any"
	AutoTypeName   = "auto"
)

// BuiltinTypeNames lists the primitive types in the order they are defined
// in the global scope.
var BuiltinTypeNames = []string{
	BoolTypeName,
	IntTypeName,
	StringTypeName,
	VoidTypeName,
	AnyTypeName,
	AutoTypeName,
}

// MaxIntegerBits bounds the size of an integer produced by ^.
const MaxIntegerBits = 1 << 20

// Built-in function and class names
const (
	PrintFuncName   = "print"
	ArrayClassName  = "Array"
	InitMethodName  = "init"
	AddMethodName   = "add"
	EachMethodName  = "each"
	ThisName        = "this"
	AnonymousFnName = "(anon)"
)

// Display strings for values that do not reveal their contents.
const (
	NullDisplay     = "null"
	FunctionDisplay = "<function>"
)

type Associativity int

const (
	LeftAssoc Associativity = iota
	RightAssoc
)

// Precedences of the binary operators; higher binds tighter.
var Precedences = map[string]int{
	"^":  3,
	"*":  2,
	"/":  2,
	"+":  1,
	"-":  1,
	"==": 0,
	">":  0,
	"<":  0,
	">=": 0,
	"<=": 0,
	"&&": 0,
	"||": 0,
}

var Associativities = map[string]Associativity{
	"^":  RightAssoc,
	"*":  LeftAssoc,
	"/":  LeftAssoc,
	"+":  LeftAssoc,
	"-":  LeftAssoc,
	"==": LeftAssoc,
	">":  LeftAssoc,
	"<":  LeftAssoc,
	">=": LeftAssoc,
	"<=": LeftAssoc,
	"&&": LeftAssoc,
	"||": LeftAssoc,
}
