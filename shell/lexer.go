// Package shell implements the ClaudeOS command interpreter: a lexer and a
// parser for command lines, an executor running builtin commands with pipes
// and redirections, and the interactive read-eval loop.
package shell

// MaxTokens is the maximum number of tokens produced for a line, including
// the trailing EOF token.
const MaxTokens = 64

// TokenKind identifies the type of a token.
type TokenKind uint8

// The supported token kinds.
const (
	TokenWord TokenKind = iota
	TokenPipe
	TokenRedirectOut
	TokenRedirectAppend
	TokenRedirectIn
	TokenBackground
	TokenSemicolon
	TokenEOF
)

var tokenKindNames = [...]string{"WORD", "PIPE", "REDIRECT_OUT", "REDIRECT_APP", "REDIRECT_IN", "BACKGROUND", "SEMICOLON", "EOF"}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "UNKNOWN"
}

// Token is a lexical element of a command line.
type Token struct {
	Kind  TokenKind
	Value string
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t'
}

func isOperator(ch byte) bool {
	return ch == '|' || ch == '>' || ch == '<' || ch == '&' || ch == ';'
}

// Tokenize splits input into tokens. Quoted text (single or double quotes)
// forms a single word without escape processing; an unterminated quote runs
// to the end of the input. The result always ends with an EOF token.
func Tokenize(input string) []Token {
	var (
		tokens = make([]Token, 0, 8)
		i      int
	)

	for i < len(input) && len(tokens) < MaxTokens-1 {
		for i < len(input) && isSpace(input[i]) {
			i++
		}
		if i == len(input) {
			break
		}

		switch ch := input[i]; {
		case ch == '|':
			tokens = append(tokens, Token{TokenPipe, "|"})
			i++
		case ch == '>' && i+1 < len(input) && input[i+1] == '>':
			tokens = append(tokens, Token{TokenRedirectAppend, ">>"})
			i += 2
		case ch == '>':
			tokens = append(tokens, Token{TokenRedirectOut, ">"})
			i++
		case ch == '<':
			tokens = append(tokens, Token{TokenRedirectIn, "<"})
			i++
		case ch == '&':
			tokens = append(tokens, Token{TokenBackground, "&"})
			i++
		case ch == ';':
			tokens = append(tokens, Token{TokenSemicolon, ";"})
			i++
		case ch == '"' || ch == '\'':
			i++
			start := i
			for i < len(input) && input[i] != ch {
				i++
			}
			tokens = append(tokens, Token{TokenWord, input[start:i]})
			if i < len(input) {
				i++
			}
		default:
			start := i
			for i < len(input) && !isSpace(input[i]) && !isOperator(input[i]) {
				i++
			}
			tokens = append(tokens, Token{TokenWord, input[start:i]})
		}
	}

	return append(tokens, Token{Kind: TokenEOF})
}
