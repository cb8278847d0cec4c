package shell

const (
	// MaxArgs is the maximum number of words kept for a command.
	MaxArgs = 16

	// MaxCommands is the maximum number of commands kept for a pipeline.
	MaxCommands = 8
)

// Command is a single stage of a pipeline.
type Command struct {
	Args []string

	// RedirectIn and RedirectOut are empty when the stream is not
	// redirected.
	RedirectIn  string
	RedirectOut string

	// Append is set when the output redirection was given with >>.
	Append bool

	// Piped is set when the command was terminated by | and its output
	// feeds the next command.
	Piped bool
}

// Pipeline is the parsed form of a command line.
type Pipeline struct {
	Commands   []Command
	Background bool
}

// Parse folds tokens into a pipeline. Both | and ; terminate a command;
// commands without words are dropped. Parse returns nil if the tokens
// contain no command.
func Parse(tokens []Token) *Pipeline {
	var (
		p   = &Pipeline{}
		cur Command
	)

	finish := func(piped bool) {
		if len(cur.Args) == 0 {
			return
		}
		cur.Piped = piped
		if len(p.Commands) < MaxCommands {
			p.Commands = append(p.Commands, cur)
		}
		cur = Command{}
	}

	// target returns the word following a redirection operator and
	// advances past it.
	target := func(i *int) (string, bool) {
		if *i+1 < len(tokens) && tokens[*i+1].Kind == TokenWord {
			*i++
			return tokens[*i].Value, true
		}
		return "", false
	}

	for i := 0; i < len(tokens) && tokens[i].Kind != TokenEOF; i++ {
		switch tok := tokens[i]; tok.Kind {
		case TokenWord:
			if len(cur.Args) < MaxArgs {
				cur.Args = append(cur.Args, tok.Value)
			}
		case TokenRedirectIn:
			if path, ok := target(&i); ok {
				cur.RedirectIn = path
			}
		case TokenRedirectOut, TokenRedirectAppend:
			if path, ok := target(&i); ok {
				cur.RedirectOut = path
				cur.Append = tok.Kind == TokenRedirectAppend
			}
		case TokenPipe:
			finish(true)
		case TokenSemicolon:
			finish(false)
		case TokenBackground:
			p.Background = true
		}
	}
	finish(false)

	if len(p.Commands) == 0 {
		return nil
	}
	return p
}
