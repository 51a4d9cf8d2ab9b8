// Package forth implements the small Forth-like engine the unit harness
// exercises.
//
// The engine keeps an integer data stack and a word dictionary. Recoverable
// problems (unknown word, bad definition, division by zero) are returned as
// error values from Eval. Internal consistency violations — popping an
// empty stack, pushing past the configured core size, or using a released
// handle — are a different tier: they raise an abort-class fault via
// sigtrap, exactly the failure mode the harness's guarded windows exist to
// absorb.
package forth

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/forthkit/unit/internal/sigtrap"
)

// Cell is the engine's machine word.
type Cell int64

// MinimumCoreSize is the smallest stack the engine will initialize with.
const MinimumCoreSize = 32

// DefaultCoreSize is used when the configuration leaves core_size unset.
const DefaultCoreSize = 2048

// Config holds engine initialization parameters.
type Config struct {
	// CoreSize bounds the data stack depth, in cells.
	CoreSize int
}

// Sentinel errors returned by Eval.
var (
	ErrUnknownWord         = errors.New("unknown word")
	ErrUnterminatedDef     = errors.New("unterminated definition")
	ErrUnterminatedComment = errors.New("unterminated comment")
	ErrUnbalancedControl   = errors.New("unbalanced control flow")
	ErrDivideByZero        = errors.New("division by zero")
	ErrRedefined           = errors.New("word already defined")
)

// word is a dictionary entry: exactly one of builtin, body, or constant
// semantics applies.
type word struct {
	builtin  func(f *Forth) error
	body     []string
	constant bool
	value    Cell
}

// Forth is an engine instance. It is not safe for concurrent use; the
// harness drives it from a single goroutine.
type Forth struct {
	cfg      Config
	stack    []Cell
	dict     map[string]*word
	released bool
}

// New initializes an engine. A core size below MinimumCoreSize is a
// configuration failure, reported as an error rather than an abort.
func New(cfg Config) (*Forth, error) {
	if cfg.CoreSize == 0 {
		cfg.CoreSize = DefaultCoreSize
	}
	if cfg.CoreSize < MinimumCoreSize {
		return nil, fmt.Errorf("core size %d below minimum %d", cfg.CoreSize, MinimumCoreSize)
	}
	f := &Forth{
		cfg:   cfg,
		stack: make([]Cell, 0, cfg.CoreSize),
		dict:  make(map[string]*word),
	}
	installBuiltins(f)
	return f, nil
}

// normalize canonicalizes a word name for dictionary lookup. NFC keeps
// visually identical names from landing in distinct dictionary slots.
func normalize(name string) string {
	return norm.NFC.String(name)
}

// check aborts on an internal consistency violation.
func (f *Forth) check(ok bool) {
	if !ok {
		sigtrap.Abort()
	}
}

// Push places v on the data stack. Overflow past the configured core
// size is a consistency violation.
func (f *Forth) Push(v Cell) {
	f.check(!f.released)
	f.check(len(f.stack) < f.cfg.CoreSize)
	f.stack = append(f.stack, v)
}

// Pop removes and returns the top of the data stack. Underflow is a
// consistency violation.
func (f *Forth) Pop() Cell {
	f.check(!f.released)
	f.check(len(f.stack) > 0)
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v
}

// Depth returns the current data stack position.
func (f *Forth) Depth() int {
	f.check(!f.released)
	return len(f.stack)
}

// Find reports whether name is defined in the dictionary. The name is
// matched exactly after normalization; trailing whitespace misses.
func (f *Forth) Find(name string) bool {
	f.check(!f.released)
	_, found := f.dict[normalize(name)]
	return found
}

// DefineConstant binds name to a fixed value.
func (f *Forth) DefineConstant(name string, v Cell) error {
	f.check(!f.released)
	key := normalize(name)
	if _, exists := f.dict[key]; exists {
		return fmt.Errorf("%w: %s", ErrRedefined, name)
	}
	f.dict[key] = &word{constant: true, value: v}
	return nil
}

// Release tears the engine down. Any operation on a released handle is a
// consistency violation.
func (f *Forth) Release() {
	f.released = true
	f.stack = nil
	f.dict = nil
}

func installBuiltins(f *Forth) {
	binary := func(op func(a, b Cell) (Cell, error)) func(*Forth) error {
		return func(f *Forth) error {
			b := f.Pop()
			a := f.Pop()
			v, err := op(a, b)
			if err != nil {
				return err
			}
			f.Push(v)
			return nil
		}
	}

	f.dict[normalize("+")] = &word{builtin: binary(func(a, b Cell) (Cell, error) { return a + b, nil })}
	f.dict[normalize("-")] = &word{builtin: binary(func(a, b Cell) (Cell, error) { return a - b, nil })}
	f.dict[normalize("*")] = &word{builtin: binary(func(a, b Cell) (Cell, error) { return a * b, nil })}
	f.dict[normalize("/")] = &word{builtin: binary(func(a, b Cell) (Cell, error) {
		if b == 0 {
			return 0, ErrDivideByZero
		}
		return a / b, nil
	})}
	f.dict[normalize("or")] = &word{builtin: binary(func(a, b Cell) (Cell, error) { return a | b, nil })}
	f.dict[normalize("and")] = &word{builtin: binary(func(a, b Cell) (Cell, error) { return a & b, nil })}
	f.dict[normalize("xor")] = &word{builtin: binary(func(a, b Cell) (Cell, error) { return a ^ b, nil })}
	f.dict[normalize("u>")] = &word{builtin: binary(func(a, b Cell) (Cell, error) {
		if uint64(a) > uint64(b) {
			return -1, nil
		}
		return 0, nil
	})}

	f.dict[normalize("dup")] = &word{builtin: func(f *Forth) error {
		v := f.Pop()
		f.Push(v)
		f.Push(v)
		return nil
	}}
	f.dict[normalize("drop")] = &word{builtin: func(f *Forth) error {
		f.Pop()
		return nil
	}}
	f.dict[normalize("swap")] = &word{builtin: func(f *Forth) error {
		b, a := f.Pop(), f.Pop()
		f.Push(b)
		f.Push(a)
		return nil
	}}
	f.dict[normalize("over")] = &word{builtin: func(f *Forth) error {
		b, a := f.Pop(), f.Pop()
		f.Push(a)
		f.Push(b)
		f.Push(a)
		return nil
	}}
	f.dict[normalize("rot")] = &word{builtin: func(f *Forth) error {
		c, b, a := f.Pop(), f.Pop(), f.Pop()
		f.Push(b)
		f.Push(c)
		f.Push(a)
		return nil
	}}
	f.dict[normalize("-rot")] = &word{builtin: func(f *Forth) error {
		c, b, a := f.Pop(), f.Pop(), f.Pop()
		f.Push(c)
		f.Push(a)
		f.Push(b)
		return nil
	}}
	f.dict[normalize("nip")] = &word{builtin: func(f *Forth) error {
		b := f.Pop()
		f.Pop()
		f.Push(b)
		return nil
	}}
	f.dict[normalize("tuck")] = &word{builtin: func(f *Forth) error {
		b, a := f.Pop(), f.Pop()
		f.Push(b)
		f.Push(a)
		f.Push(b)
		return nil
	}}
	f.dict[normalize("depth")] = &word{builtin: func(f *Forth) error {
		f.Push(Cell(f.Depth()))
		return nil
	}}
}
