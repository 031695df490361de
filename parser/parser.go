// Package parser is a reference LSL front-end. It parses source text into the raw
// syntax tree consumed by the validator.
package parser

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/lslkit/lslkit-go/syntax"
)

// Parser turns LSL source into syntax trees. It is safe for concurrent use.
type Parser struct {
	grammar *participle.Parser[scriptFile]
}

// New creates a parser
func New() *Parser {
	grammar, err := participle.Build[scriptFile](
		participle.Lexer(Lexer),
		participle.UseLookahead(4),
		participle.Elide("Whitespace", "Comment"),
	)
	if err != nil {
		// The grammar is static; failing to build it is a programming error
		panic(fmt.Errorf("failed to create parser: %w", err))
	}
	return &Parser{grammar: grammar}
}

// ParseFile reads and parses a script file
func (p *Parser) ParseFile(filename string) (*syntax.File, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.ParseBytes(filename, data)
}

// ParseString parses source held in memory
func (p *Parser) ParseString(filename, source string) (*syntax.File, error) {
	return p.ParseBytes(filename, []byte(source))
}

// ParseBytes parses source held in memory
func (p *Parser) ParseBytes(filename string, data []byte) (*syntax.File, error) {
	raw, err := p.grammar.ParseBytes(filename, data)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	conv := &converter{filename: filename}
	file, err := conv.file(raw)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return file, nil
}

// EBNF returns the grammar in EBNF form
func (p *Parser) EBNF() string {
	return p.grammar.String()
}
