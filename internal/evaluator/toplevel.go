package evaluator

import (
	"github.com/cwbudde/tinyjs/internal/ast"
	"github.com/cwbudde/tinyjs/internal/env"
	"github.com/cwbudde/tinyjs/internal/value"
)

// PinEnv marks e as a permanent GC root, for callers outside this
// package that construct a long-lived top-level environment (a script's
// Global, or a module's own environment — spec.md §4.K module
// environments live for the whole program, so they are pinned once and
// never unpinned).
func (it *Interpreter) PinEnv(e *env.Environment) { it.pinEnv(e) }

// EvaluateProgram runs prog's top-level statements against e as a Task
// (spec.md §6 "evaluate(Program) → Task"), supporting top-level await:
// a module body may suspend, in which case the caller observes a
// Suspended Task exactly as it would for an async function call.
func (it *Interpreter) EvaluateProgram(e *env.Environment, prog *ast.Program) *Task {
	return NewTask(func(suspend Suspend) (value.Value, *ThrowSignal) {
		ctx := &execCtx{env: e, suspend: suspend}
		it.hoistFunctions(ctx, prog.Statements)
		fl, err := it.evalStatements(ctx, prog.Statements)
		if err != nil {
			if ts, ok := asThrow(err); ok {
				return nil, ts
			}
			return nil, &ThrowSignal{Value: hostErrAsValue(it, err)}
		}
		if fl.kind == flowReturn {
			return fl.value, nil
		}
		return value.Undefined{}, nil
	})
}
