package evaluator

import (
	"github.com/cwbudde/tinyjs/internal/ast"
	"github.com/cwbudde/tinyjs/internal/env"
	"github.com/cwbudde/tinyjs/internal/errstack"
	"github.com/cwbudde/tinyjs/internal/heap"
	"github.com/cwbudde/tinyjs/internal/value"
)

// evalBlock runs a BlockStatement in a fresh child Environment (spec.md
// §4.E: "a block introduces its own lexical frame"), hoisting its
// function declarations first so later-defined functions can be called
// from earlier statements, matching ECMAScript's function-hoisting rule.
func (it *Interpreter) evalBlock(ctx *execCtx, b *ast.BlockStatement) (flowSignal, error) {
	bctx := ctx.withEnv(ctx.env.NewChild())
	return it.evalStatements(bctx, b.Statements)
}

// evalStatements runs stmts against ctx.env directly (no new child frame
// — used both by evalBlock, which already created one, and by the
// top-level program/function body where the frame was created by the
// caller).
func (it *Interpreter) evalStatements(ctx *execCtx, stmts []ast.Statement) (flowSignal, error) {
	it.hoistFunctions(ctx, stmts)
	for _, s := range stmts {
		fl, err := it.evalStmt(ctx, s)
		if err != nil {
			return noFlow, err
		}
		if fl.kind != flowNone {
			return fl, nil
		}
	}
	return noFlow, nil
}

// hoistFunctions predeclares every top-level FunctionDeclaration in
// stmts against ctx.env before running any of them (spec.md §4.E
// function hoisting). var declarations hoist too, but as undefined
// TDZ-free bindings on the nearest function scope; handled lazily by
// VarStatement/DefineVar instead of a separate pre-pass, since `var`
// (unlike function declarations) is never observably callable before
// its declaring statement runs.
func (it *Interpreter) hoistFunctions(ctx *execCtx, stmts []ast.Statement) {
	for _, s := range stmts {
		if exp, ok := s.(*ast.ExportNamedDeclaration); ok && exp.Declaration != nil {
			s = exp.Declaration
		}
		fd, ok := s.(*ast.FunctionDeclaration)
		if !ok || fd.Function.Name == nil {
			continue
		}
		fn, err := it.makeFunction(ctx, fd.Function, fd.Function.Name.Name)
		if err != nil {
			continue
		}
		ctx.env.Define(fd.Function.Name.Name, fn, false)
	}
}

func (it *Interpreter) evalStmt(ctx *execCtx, s ast.Statement) (flowSignal, error) {
	switch n := s.(type) {
	case *ast.VarStatement:
		return noFlow, it.evalVarStatement(ctx, n)
	case *ast.ExpressionStatement:
		_, err := it.evalExpr(ctx, n.Expression)
		return noFlow, err
	case *ast.BlockStatement:
		return it.evalBlock(ctx, n)
	case *ast.EmptyStatement:
		return noFlow, nil
	case *ast.IfStatement:
		t, err := it.evalExpr(ctx, n.Test)
		if err != nil {
			return noFlow, err
		}
		if value.ToBoolean(t) {
			return it.evalStmt(ctx, n.Consequent)
		}
		if n.Alternate != nil {
			return it.evalStmt(ctx, n.Alternate)
		}
		return noFlow, nil
	case *ast.WhileStatement:
		return it.evalWhile(ctx, n)
	case *ast.DoWhileStatement:
		return it.evalDoWhile(ctx, n)
	case *ast.ForStatement:
		return it.evalFor(ctx, n)
	case *ast.ForInStatement:
		return it.evalForIn(ctx, n)
	case *ast.ForOfStatement:
		return it.evalForOf(ctx, n)
	case *ast.BreakStatement:
		return flowSignal{kind: flowBreak, label: n.Label}, nil
	case *ast.ContinueStatement:
		return flowSignal{kind: flowContinue, label: n.Label}, nil
	case *ast.ReturnStatement:
		var v value.Value = value.Undefined{}
		if n.Argument != nil {
			rv, err := it.evalExpr(ctx, n.Argument)
			if err != nil {
				return noFlow, err
			}
			v = rv
		}
		return flowSignal{kind: flowReturn, value: v}, nil
	case *ast.ThrowStatement:
		v, err := it.evalExpr(ctx, n.Argument)
		if err != nil {
			return noFlow, err
		}
		return noFlow, throwValue(v)
	case *ast.TryStatement:
		return it.evalTry(ctx, n)
	case *ast.LabeledStatement:
		return it.evalLabeled(ctx, n)
	case *ast.FunctionDeclaration:
		return noFlow, nil // already bound by hoistFunctions
	case *ast.ClassDeclaration:
		fn, err := it.evalClass(ctx, &n.ClassBody)
		if err != nil {
			return noFlow, err
		}
		if n.Name != nil {
			ctx.env.Define(n.Name.Name, fn, false)
		}
		return noFlow, nil
	case *ast.ImportDeclaration:
		// Bindings were already installed into ctx.env by the module
		// registry's instantiate phase (spec.md §4.K); nothing runs here.
		return noFlow, nil
	case *ast.ExportNamedDeclaration:
		if n.Declaration != nil {
			return it.evalStmt(ctx, n.Declaration)
		}
		// Bare `export { a, b as c }` (or its re-export form) declares no
		// new bindings; the module registry reads the already-bound local
		// names directly when building the module's export table.
		return noFlow, nil
	case *ast.ExportDefaultDeclaration:
		return noFlow, it.evalExportDefault(ctx, n)
	}
	return noFlow, it.throwf(errstack.SyntaxError, "unsupported statement %T", s)
}

func (it *Interpreter) evalVarStatement(ctx *execCtx, n *ast.VarStatement) error {
	for _, d := range n.Declarations {
		var v value.Value = value.Undefined{}
		if d.Init != nil {
			iv, err := it.evalExpr(ctx, d.Init)
			if err != nil {
				return err
			}
			v = iv
		}
		switch n.Kind {
		case ast.VarVar:
			if err := it.bindVarPattern(ctx.env, d.Target, v, d.Init != nil); err != nil {
				return err
			}
		default: // let, const
			if err := it.bindPattern(ctx.env, d.Target, v); err != nil {
				return err
			}
			if n.Kind == ast.VarConst {
				if id, ok := d.Target.(*ast.Identifier); ok {
					// bindPattern already defined it non-const via Define;
					// re-define to flip the const flag now that the real
					// value (not a TDZ placeholder) is in hand.
					ctx.env.Define(id.Name, v, true)
				}
			}
		}
	}
	return nil
}

// bindVarPattern mirrors bindPattern but hoists to the nearest function
// scope via DefineVar instead of the current block (spec.md §4.E `var`
// hoisting), and only overwrites an already-hoisted slot when the
// declarator actually had an initializer.
func (it *Interpreter) bindVarPattern(e *env.Environment, p ast.Pattern, v value.Value, hasInit bool) error {
	if id, ok := p.(*ast.Identifier); ok {
		e.DefineVar(id.Name, v, hasInit)
		return nil
	}
	// Destructuring var declarations always have an initializer
	// (required by grammar), so defining directly on the function scope
	// is correct.
	return it.bindPattern(e.FunctionScope(), p, v)
}

func (it *Interpreter) evalWhile(ctx *execCtx, n *ast.WhileStatement) (flowSignal, error) {
	for {
		t, err := it.evalExpr(ctx, n.Test)
		if err != nil {
			return noFlow, err
		}
		if !value.ToBoolean(t) {
			return noFlow, nil
		}
		fl, err := it.evalStmt(ctx, n.Body)
		if err != nil {
			return noFlow, err
		}
		if stop, out, err := handleLoopFlow(fl, n.Label); stop {
			return out, err
		}
	}
}

func (it *Interpreter) evalDoWhile(ctx *execCtx, n *ast.DoWhileStatement) (flowSignal, error) {
	for {
		fl, err := it.evalStmt(ctx, n.Body)
		if err != nil {
			return noFlow, err
		}
		if stop, out, err := handleLoopFlow(fl, n.Label); stop {
			return out, err
		}
		t, err := it.evalExpr(ctx, n.Test)
		if err != nil {
			return noFlow, err
		}
		if !value.ToBoolean(t) {
			return noFlow, nil
		}
	}
}

func (it *Interpreter) evalFor(ctx *execCtx, n *ast.ForStatement) (flowSignal, error) {
	fctx := ctx.withEnv(ctx.env.NewChild())
	if n.Init != nil {
		switch init := n.Init.(type) {
		case *ast.VarStatement:
			if err := it.evalVarStatement(fctx, init); err != nil {
				return noFlow, err
			}
		case ast.Expression:
			if _, err := it.evalExpr(fctx, init); err != nil {
				return noFlow, err
			}
		}
	}
	for {
		if n.Test != nil {
			t, err := it.evalExpr(fctx, n.Test)
			if err != nil {
				return noFlow, err
			}
			if !value.ToBoolean(t) {
				return noFlow, nil
			}
		}
		fl, err := it.evalStmt(fctx, n.Body)
		if err != nil {
			return noFlow, err
		}
		if stop, out, err := handleLoopFlow(fl, n.Label); stop {
			return out, err
		}
		if n.Update != nil {
			if _, err := it.evalExpr(fctx, n.Update); err != nil {
				return noFlow, err
			}
		}
	}
}

func (it *Interpreter) evalForIn(ctx *execCtx, n *ast.ForInStatement) (flowSignal, error) {
	rv, err := it.evalExpr(ctx, n.Right)
	if err != nil {
		return noFlow, err
	}
	for _, key := range enumerateKeys(rv) {
		lctx := ctx.withEnv(ctx.env.NewChild())
		if err := it.bindForTarget(lctx, n.Kind, n.Decl, n.Target, value.NewString(key)); err != nil {
			return noFlow, err
		}
		fl, err := it.evalStmt(lctx, n.Body)
		if err != nil {
			return noFlow, err
		}
		if stop, out, err := handleLoopFlow(fl, n.Label); stop {
			return out, err
		}
	}
	return noFlow, nil
}

func (it *Interpreter) evalForOf(ctx *execCtx, n *ast.ForOfStatement) (flowSignal, error) {
	rv, err := it.evalExpr(ctx, n.Right)
	if err != nil {
		return noFlow, err
	}
	iter, err := it.getIterator(rv)
	if err != nil {
		return noFlow, err
	}
	for {
		v, done, err := iter.Next()
		if err != nil {
			return noFlow, err
		}
		if done {
			return noFlow, nil
		}
		if n.Await {
			if ctx.suspend == nil {
				return noFlow, it.throwf(errstack.SyntaxError, "for-await-of is only valid inside an async function")
			}
			resumed, isThrow, isForcedReturn := ctx.suspend(SuspendAwait, v)
			v, err = it.settleResumption(resumed, isThrow, isForcedReturn)
			if err != nil {
				return noFlow, err
			}
		}
		lctx := ctx.withEnv(ctx.env.NewChild())
		if err := it.bindForTarget(lctx, n.Kind, n.Decl, n.Target, v); err != nil {
			return noFlow, err
		}
		fl, err := it.evalStmt(lctx, n.Body)
		if err != nil {
			return noFlow, err
		}
		if stop, out, err := handleLoopFlow(fl, n.Label); stop {
			return out, err
		}
	}
}

// bindForTarget binds one for-in/for-of iteration's value to Target: a
// declaring loop (`for (let x of ...)`) binds a fresh let/const/var
// slot each iteration; a non-declaring loop (`for (x of ...)`) assigns
// an existing binding, which for anything but a plain Identifier target
// is rare destructuring-assignment syntax handled by reusing bindPattern
// against the current frame (a documented simplification — true
// destructuring-assignment semantics for for-in/for-of targets are not
// common in practice).
func (it *Interpreter) bindForTarget(ctx *execCtx, kind ast.VarKind, decl bool, target ast.Pattern, v value.Value) error {
	if !decl {
		if id, ok := target.(*ast.Identifier); ok {
			return ctx.env.Set(id.Name, v)
		}
		return it.bindPattern(ctx.env, target, v)
	}
	if kind == ast.VarVar {
		return it.bindVarPattern(ctx.env, target, v, true)
	}
	return it.bindPattern(ctx.env, target, v)
}

// handleLoopFlow interprets a loop body's flowSignal: break/continue
// targeting this loop (by label match or no label at all) are consumed
// here; anything else (return, or break/continue for an outer label)
// propagates to the caller.
func handleLoopFlow(fl flowSignal, loopLabel string) (stop bool, out flowSignal, err error) {
	switch fl.kind {
	case flowNone:
		return false, noFlow, nil
	case flowBreak:
		if fl.label == "" || fl.label == loopLabel {
			return true, noFlow, nil
		}
		return true, fl, nil
	case flowContinue:
		if fl.label == "" || fl.label == loopLabel {
			return false, noFlow, nil
		}
		return true, fl, nil
	default: // flowReturn
		return true, fl, nil
	}
}

// enumerateKeys collects for-in's own+inherited enumerable string keys
// (spec.md §4.G), walking an Object's Proto chain and synthesizing
// index keys for Array/String receivers.
func enumerateKeys(v value.Value) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	switch o := v.(type) {
	case *heap.Array:
		for i := int64(0); i < o.Length(); i++ {
			add(value.Number(i).String())
		}
		return out
	case value.String:
		for i := range []rune(o.Go()) {
			add(value.Number(i).String())
		}
		return out
	case *heap.Object:
		for cur := value.Value(o); cur != nil; {
			obj, ok := cur.(*heap.Object)
			if !ok {
				break
			}
			for _, k := range obj.OwnKeys() {
				if d, ok := obj.Descriptor(k); ok && !d.Enumerable {
					continue
				}
				add(k)
			}
			cur = obj.Proto
		}
		return out
	}
	return out
}

func (it *Interpreter) evalTry(ctx *execCtx, n *ast.TryStatement) (flowSignal, error) {
	fl, err := it.evalBlock(ctx, n.Block)
	if err != nil {
		if ts, ok := asThrow(err); ok && n.Handler != nil {
			hctx := ctx.withEnv(ctx.env.NewChild())
			if n.Handler.Param != nil {
				if berr := it.bindPattern(hctx.env, n.Handler.Param, ts.Value); berr != nil {
					err = berr
					fl = noFlow
					return it.runFinally(ctx, n.Finalizer, fl, err)
				}
			}
			fl, err = it.evalStatements(hctx, n.Handler.Body.Statements)
		}
	}
	return it.runFinally(ctx, n.Finalizer, fl, err)
}

// runFinally executes an optional finally block after the try/catch
// outcome (fl, err) has been computed. A finally that itself completes
// with a non-local exit (return/break/continue/throw) overrides the
// try/catch outcome entirely, per spec.md §4.G / ECMAScript's finally-
// wins semantics.
func (it *Interpreter) runFinally(ctx *execCtx, finalizer *ast.BlockStatement, fl flowSignal, outerErr error) (flowSignal, error) {
	if finalizer == nil {
		return fl, outerErr
	}
	ffl, ferr := it.evalBlock(ctx, finalizer)
	if ferr != nil {
		return noFlow, ferr
	}
	if ffl.kind != flowNone {
		return ffl, nil
	}
	return fl, outerErr
}

func (it *Interpreter) evalLabeled(ctx *execCtx, n *ast.LabeledStatement) (flowSignal, error) {
	lctx := *ctx
	lctx.label = n.Label
	fl, err := it.evalStmt(&lctx, n.Body)
	if err != nil {
		return noFlow, err
	}
	if (fl.kind == flowBreak || fl.kind == flowContinue) && fl.label == n.Label {
		return noFlow, nil
	}
	return fl, nil
}

// exportDefaultBinding is the name module.Registry looks up to find a
// module's `export default` value — never a valid identifier, so it can
// never collide with a script-declared binding.
const exportDefaultBinding = "*default*"

// evalExportDefault runs `export default ...`, binding the result under
// exportDefaultBinding so the module registry can find it, and also
// under its own name when the declaration is named (spec.md §4.K).
func (it *Interpreter) evalExportDefault(ctx *execCtx, n *ast.ExportDefaultDeclaration) error {
	switch decl := n.Declaration.(type) {
	case *ast.FunctionDeclaration:
		name := ""
		if decl.Function.Name != nil {
			name = decl.Function.Name.Name
		}
		fn, err := it.makeFunction(ctx, decl.Function, name)
		if err != nil {
			return err
		}
		if name != "" {
			ctx.env.Define(name, fn, false)
		}
		ctx.env.Define(exportDefaultBinding, fn, true)
		return nil
	case *ast.ClassDeclaration:
		fn, err := it.evalClass(ctx, &decl.ClassBody)
		if err != nil {
			return err
		}
		if decl.Name != nil {
			ctx.env.Define(decl.Name.Name, fn, false)
		}
		ctx.env.Define(exportDefaultBinding, fn, true)
		return nil
	default:
		v, err := it.evalExpr(ctx, decl.(ast.Expression))
		if err != nil {
			return err
		}
		ctx.env.Define(exportDefaultBinding, v, true)
		return nil
	}
}
