// Package suite defines the fixed, hand-written assertion sequence the
// unit binary runs against the Forth engine's public interface.
//
// There is no test discovery: phases execute unconditionally in declared
// order, sharing the engine handle and the core image catalog through the
// Suite value.
package suite

import (
	"bytes"
	"context"

	"github.com/forthkit/unit/internal/config"
	"github.com/forthkit/unit/internal/forth"
	"github.com/forthkit/unit/internal/harness"
	"github.com/forthkit/unit/internal/imagestore"
)

// coreImageName is the catalog entry the persistence phase round-trips.
const coreImageName = "unit.core"

// Suite carries the state shared between phases: the engine under test
// and the image catalog.
type Suite struct {
	ctx    context.Context
	cfg    config.Config
	images *imagestore.Store

	engine *forth.Forth
}

// New creates a suite over an open image catalog.
func New(ctx context.Context, cfg config.Config, images *imagestore.Store) *Suite {
	return &Suite{ctx: ctx, cfg: cfg, images: images}
}

// Phases returns the suite body in execution order.
func (s *Suite) Phases() []harness.Phase {
	return []harness.Phase{
		{Name: "engine initialization and stack basics", Run: s.stackBasics},
		{Name: "word definitions and lookup", Run: s.definitions},
		{Name: "core image persistence", Run: s.persistence},
		{Name: "control flow words", Run: s.controlFlow},
		{Name: "stack shuffling words", Run: s.shuffling},
	}
}

func (s *Suite) stackBasics(h *harness.Harness) {
	var err error
	h.Statement("f = forth.New(cfg)", func() {
		s.engine, err = forth.New(forth.Config{CoreSize: s.cfg.CoreSize})
	})
	h.Must("f != nil", func() bool { return err == nil && s.engine != nil })
	f := s.engine

	h.Test("f.Depth() == 0", func() bool { return f.Depth() == 0 })
	h.Test(`f.Eval("2 2 + ") == nil`, func() bool { return f.Eval("2 2 + ") == nil })
	h.Test("f.Pop() == 4", func() bool { return f.Pop() == 4 })

	h.Statement("f.Push(99); f.Push(98)", func() {
		f.Push(99)
		f.Push(98)
	})
	h.Test(`f.Eval("+") == nil`, func() bool { return f.Eval("+") == nil })
	h.Test("f.Pop() == 197", func() bool { return f.Pop() == 197 })

	h.Test(`f.Eval("0xAA0A 0x5055 or") == nil`, func() bool { return f.Eval("0xAA0A 0x5055 or") == nil })
	h.Test("f.Pop() == 0xFA5F", func() bool { return f.Pop() == 0xFA5F })
	h.Test(`f.Eval(" 18 2 /") == nil`, func() bool { return f.Eval(" 18 2 /") == nil })
	h.Test("f.Pop() == 9", func() bool { return f.Pop() == 9 })
	h.Test("f.Depth() == 0", func() bool { return f.Depth() == 0 })
}

func (s *Suite) definitions(h *harness.Harness) {
	f := s.engine

	h.Test(`!f.Find("unit-01")`, func() bool { return !f.Find("unit-01") })
	h.Test(`f.Eval(": unit-01 69 ; unit-01 ") == nil`, func() bool {
		return f.Eval(": unit-01 69 ; unit-01 ") == nil
	})
	h.Test(`f.Find("unit-01")`, func() bool { return f.Find("unit-01") })
	h.Test(`!f.Find("unit-01 ")`, func() bool { return !f.Find("unit-01 ") }) // trailing space
	h.Test("f.Pop() == 69", func() bool { return f.Pop() == 69 })

	h.Test(`f.DefineConstant("constant-1", 0xAA0A) == nil`, func() bool {
		return f.DefineConstant("constant-1", 0xAA0A) == nil
	})
	h.Test(`f.DefineConstant("constant-2", 0x5055) == nil`, func() bool {
		return f.DefineConstant("constant-2", 0x5055) == nil
	})
	h.Test(`f.Eval("constant-1 constant-2 or") == nil`, func() bool {
		return f.Eval("constant-1 constant-2 or") == nil
	})
	h.Test("f.Pop() == 0xFA5F", func() bool { return f.Pop() == 0xFA5F })
}

func (s *Suite) persistence(h *harness.Harness) {
	f := s.engine

	var core bytes.Buffer
	h.Test("f.SaveImage(&core) == nil", func() bool { return f.SaveImage(&core) == nil })
	h.Test("images.Put(core) == nil", func() bool {
		return s.images.Put(s.ctx, h.RunID(), coreImageName, core.Bytes()) == nil
	})
	h.Statement("f.Release()", func() {
		f.Release()
		s.engine = nil
	})

	var (
		data []byte
		err  error
	)
	h.Statement("data = images.Get(unit.core)", func() {
		data, err = s.images.Get(s.ctx, coreImageName)
	})
	h.Must("core image retrieved", func() bool { return err == nil })

	var loaded *forth.Forth
	h.Statement("f = forth.LoadImage(data)", func() {
		loaded, err = forth.LoadImage(bytes.NewReader(data))
	})
	h.Must("f != nil", func() bool { return err == nil && loaded != nil })

	// Stack position does not persist across loads.
	h.Test("f.Depth() == 0", func() bool { return loaded.Depth() == 0 })
	h.Test(`f.Find("unit-01")`, func() bool { return loaded.Find("unit-01") })
	h.Test(`f.Eval("unit-01 constant-1 *") == nil`, func() bool {
		return loaded.Eval("unit-01 constant-1 *") == nil
	})
	h.Test("f.Pop() == 69 * 0xAA0A", func() bool { return loaded.Pop() == 69*0xAA0A })
	h.Test("f.Depth() == 0", func() bool { return loaded.Depth() == 0 })

	h.Statement("f.Release()", func() { loaded.Release() })
}

func (s *Suite) controlFlow(h *harness.Harness) {
	var (
		f   *forth.Forth
		err error
	)
	h.Statement("f = forth.New(cfg)", func() {
		f, err = forth.New(forth.Config{CoreSize: s.cfg.CoreSize})
	})
	h.Must("f != nil", func() bool { return err == nil && f != nil })

	h.Test(`f.Eval(": if-test if 0x55 else 0xAA then ;") == nil`, func() bool {
		return f.Eval(": if-test if 0x55 else 0xAA then ;") == nil
	})
	h.Test(`f.Eval("0 if-test") == nil`, func() bool { return f.Eval("0 if-test") == nil })
	h.Test("f.Pop() == 0xAA", func() bool { return f.Pop() == 0xAA })
	h.Statement("f.Push(1)", func() { f.Push(1) })
	h.Test(`f.Eval("if-test") == nil`, func() bool { return f.Eval("if-test") == nil })
	h.Test("f.Pop() == 0x55", func() bool { return f.Pop() == 0x55 })

	h.Test(`f.Eval(" : loop-test begin 1 + dup 10 u> until ;") == nil`, func() bool {
		return f.Eval(" : loop-test begin 1 + dup 10 u> until ;") == nil
	})
	h.Test(`f.Eval(" 1 loop-test") == nil`, func() bool { return f.Eval(" 1 loop-test") == nil })
	h.Test("f.Pop() == 11", func() bool { return f.Pop() == 11 })
	h.Test(`f.Eval(" 39 loop-test") == nil`, func() bool { return f.Eval(" 39 loop-test") == nil })
	h.Test("f.Pop() == 40", func() bool { return f.Pop() == 40 })

	h.Statement("f.Release()", func() { f.Release() })
}

func (s *Suite) shuffling(h *harness.Harness) {
	var (
		f   *forth.Forth
		err error
	)
	h.Statement("f = forth.New(cfg)", func() {
		f, err = forth.New(forth.Config{CoreSize: s.cfg.CoreSize})
	})
	h.Must("f != nil", func() bool { return err == nil && f != nil })

	h.Test(`f.Eval(" 1 2 3 rot ( 1 2 3 -- 2 3 1 )") == nil`, func() bool {
		return f.Eval(" 1 2 3 rot ( 1 2 3 -- 2 3 1 )") == nil
	})
	h.Test("f.Pop() == 1", func() bool { return f.Pop() == 1 })
	h.Test("f.Pop() == 3", func() bool { return f.Pop() == 3 })
	h.Test("f.Pop() == 2", func() bool { return f.Pop() == 2 })

	h.Test(`f.Eval(" 1 2 3 -rot ") == nil`, func() bool { return f.Eval(" 1 2 3 -rot ") == nil })
	h.Test("f.Pop() == 2", func() bool { return f.Pop() == 2 })
	h.Test("f.Pop() == 1", func() bool { return f.Pop() == 1 })
	h.Test("f.Pop() == 3", func() bool { return f.Pop() == 3 })

	h.Test(`f.Eval(" 3 4 5 nip ") == nil`, func() bool { return f.Eval(" 3 4 5 nip ") == nil })
	h.Test("f.Pop() == 5", func() bool { return f.Pop() == 5 })
	h.Test("f.Pop() == 3", func() bool { return f.Pop() == 3 })

	h.Test(`f.Eval(" 67 23 tuck ") == nil`, func() bool { return f.Eval(" 67 23 tuck ") == nil })
	h.Test("f.Pop() == 23", func() bool { return f.Pop() == 23 })
	h.Test("f.Pop() == 67", func() bool { return f.Pop() == 67 })
	h.Test("f.Pop() == 23", func() bool { return f.Pop() == 23 })

	h.Statement("f.Release()", func() { f.Release() })
}
