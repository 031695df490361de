package parser

import "github.com/alecthomas/participle/v2/lexer"

// Lexer defines the token rules for LSL source.
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Comment", Pattern: `//[^\n]*|/\*(?:[^*]|\*+[^*/])*\*+/`, Action: nil},
		{Name: "Whitespace", Pattern: `\s+`, Action: nil},
		{Name: "Type", Pattern: `(?:integer|float|string|key|vector|rotation|quaternion|list)\b`, Action: nil},
		{Name: "Float", Pattern: `(?:\d+\.\d*|\.\d+)(?:[eE][+-]?\d+)?[fF]?|\d+[eE][+-]?\d+[fF]?`, Action: nil},
		{Name: "Hex", Pattern: `0[xX][0-9a-fA-F]+`, Action: nil},
		{Name: "Int", Pattern: `\d+`, Action: nil},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`, Action: nil},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`, Action: nil},
		{Name: "Operator", Pattern: `\+\+|--|\+=|-=|\*=|/=|%=|==|!=|<=|>=|<<|>>|&&|\|\||[-+*/%<>=!~&|^]`, Action: nil},
		{Name: "Punct", Pattern: `[(){}\[\];,.@]`, Action: nil},
	},
})
