package forth

import (
	"fmt"
	"strconv"
	"strings"
)

// Eval interprets a whitespace-separated source fragment against the
// engine. Number literals are pushed (base prefix rules: 0x hex, leading
// 0 octal, decimal otherwise); defined words execute; ": name ... ;"
// compiles a colon definition; "( ... )" is a comment. Control flow is
// "if ... else ... then" branching on the popped top of stack and
// "begin ... until" looping until the popped flag is nonzero.
//
// Problems in the source are recoverable and come back as error values.
// Stack misuse detected while executing the fragment is a consistency
// violation and aborts.
func (f *Forth) Eval(src string) error {
	f.check(!f.released)
	tokens := strings.Fields(src)
	return f.run(tokens)
}

func (f *Forth) run(tokens []string) error {
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok {
		case "(":
			end := indexToken(tokens[i+1:], ")")
			if end < 0 {
				return ErrUnterminatedComment
			}
			i += end + 1
		case ":":
			consumed, err := f.compile(tokens[i+1:])
			if err != nil {
				return err
			}
			i += consumed
		case "if":
			elseIdx, thenIdx, err := matchConditional(tokens[i+1:])
			if err != nil {
				return err
			}
			var branch []string
			switch {
			case f.Pop() != 0:
				if elseIdx >= 0 {
					branch = tokens[i+1 : i+1+elseIdx]
				} else {
					branch = tokens[i+1 : i+1+thenIdx]
				}
			case elseIdx >= 0:
				branch = tokens[i+2+elseIdx : i+1+thenIdx]
			}
			if err := f.run(branch); err != nil {
				return err
			}
			i += thenIdx + 1
		case "begin":
			untilIdx, err := matchLoop(tokens[i+1:])
			if err != nil {
				return err
			}
			body := tokens[i+1 : i+1+untilIdx]
			for {
				if err := f.run(body); err != nil {
					return err
				}
				if f.Pop() != 0 {
					break
				}
			}
			i += untilIdx + 1
		case "else", "then", "until":
			return fmt.Errorf("%w: %q", ErrUnbalancedControl, tok)
		default:
			if err := f.exec(tok); err != nil {
				return err
			}
		}
	}
	return nil
}

// compile reads "name body... ;" and installs a colon definition.
// Returns the number of tokens consumed, including the terminator.
func (f *Forth) compile(tokens []string) (int, error) {
	if len(tokens) == 0 {
		return 0, ErrUnterminatedDef
	}
	name := tokens[0]
	end := indexToken(tokens[1:], ";")
	if end < 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnterminatedDef, name)
	}
	body := make([]string, end)
	copy(body, tokens[1:1+end])
	// Redefinition replaces the old body, standard Forth shadowing.
	f.dict[normalize(name)] = &word{body: body}
	return end + 2, nil
}

// exec runs a single token: literal, constant, builtin, or colon word.
func (f *Forth) exec(tok string) error {
	if w, found := f.dict[normalize(tok)]; found {
		switch {
		case w.constant:
			f.Push(w.value)
			return nil
		case w.builtin != nil:
			return w.builtin(f)
		default:
			return f.run(w.body)
		}
	}
	if v, err := strconv.ParseInt(tok, 0, 64); err == nil {
		f.Push(Cell(v))
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownWord, tok)
}

// matchConditional locates the "then" closing an "if", and the "else"
// splitting its branches if one exists at the same nesting depth.
// Indices are relative to the token after the "if"; elseIdx is -1 when
// the conditional has no else branch. Comments are skipped so their
// contents cannot unbalance the scan.
func matchConditional(tokens []string) (elseIdx, thenIdx int, err error) {
	depth := 0
	elseIdx = -1
	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case "(":
			end := indexToken(tokens[i+1:], ")")
			if end < 0 {
				return 0, 0, ErrUnterminatedComment
			}
			i += end + 1
		case "if":
			depth++
		case "else":
			if depth == 0 && elseIdx < 0 {
				elseIdx = i
			}
		case "then":
			if depth == 0 {
				return elseIdx, i, nil
			}
			depth--
		}
	}
	return 0, 0, fmt.Errorf("%w: %q", ErrUnbalancedControl, "if")
}

// matchLoop locates the "until" closing a "begin", relative to the token
// after the "begin".
func matchLoop(tokens []string) (int, error) {
	depth := 0
	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case "(":
			end := indexToken(tokens[i+1:], ")")
			if end < 0 {
				return 0, ErrUnterminatedComment
			}
			i += end + 1
		case "begin":
			depth++
		case "until":
			if depth == 0 {
				return i, nil
			}
			depth--
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnbalancedControl, "begin")
}

func indexToken(tokens []string, want string) int {
	for i, tok := range tokens {
		if tok == want {
			return i
		}
	}
	return -1
}
