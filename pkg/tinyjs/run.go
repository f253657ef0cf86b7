package tinyjs

import (
	"fmt"

	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/parser"
	"github.com/cwbudde/tinyjs/internal/value"
)

// Run parses and evaluates src as a top-level program (spec.md §6
// "evaluate(Program) -> Task"), draining every microtask the script
// schedules before returning. Top-level await is supported the same
// way an async function body is: the program runs as a Task driven
// through the async Driver's promise machinery, so a `Run` that never
// awaits anything settles synchronously within this call.
//
// Grounded on cmd/dwscript/cmd/run.go's lex-parse-eval pipeline shape;
// the promise-driven drive loop is new, since the teacher has no
// async/await concept to bridge a top-level Task to a host-visible
// error return.
func (it *Interpreter) Run(src string) (value.Value, error) {
	prog, errs := parser.ParseProgram(src)
	if len(errs) > 0 {
		return nil, fmt.Errorf("parse error: %s", errs[0])
	}

	scriptEnv := it.Global.NewChild()
	it.Eval.PinEnv(scriptEnv)

	task := it.Eval.EvaluateProgram(scriptEnv, prog)
	p := it.async.RunAsyncTask(task, it.Eval.Proto.Promise)
	it.async.Drain()

	switch p.State {
	case heap.Fulfilled:
		return p.Result, nil
	case heap.Rejected:
		return nil, it.scriptError(p.Result)
	default:
		return nil, fmt.Errorf("tinyjs: program left unresolved promises pending")
	}
}

// scriptError wraps a rejection reason Value as a Go error for hosts
// that don't want to juggle script Values on their error path.
func (it *Interpreter) scriptError(reason value.Value) error {
	if eo, ok := reason.(*heap.ErrorObject); ok {
		return fmt.Errorf("%s", eo.String())
	}
	return fmt.Errorf("%s", it.displayString(reason))
}
