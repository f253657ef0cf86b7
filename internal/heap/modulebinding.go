package heap

import (
	"github.com/cwbudde/tinyjs/internal/env"
	"github.com/cwbudde/tinyjs/internal/value"
)

// ModuleBinding is the KindModule Value spec.md §3/§4.K describes: "a
// name bound via `export {x}` is always a live view of `x`". Rather than
// copying the exported value at import time, an importer's environment
// slot holds a ModuleBinding pointing at the exporting module's own
// environment and the local name there; every read re-resolves through
// Env.Get, so a later assignment in the exporting module is observed by
// every importer.
//
// Grounded on internal/interp's deferred-resolution pattern for forward
// references (there is no teacher analog for cross-unit live bindings —
// DWScript units export copies, not live views); the indirection here is
// the minimal mechanism spec.md §4.K's liveness invariant requires.
type ModuleBinding struct {
	meta value.RefMeta

	Env   *env.Environment
	Name  string
}

// NewModuleBinding wraps a name in the exporting module's environment as
// a live, re-readable reference.
func NewModuleBinding(e *env.Environment, name string) *ModuleBinding {
	return &ModuleBinding{Env: e, Name: name}
}

func (b *ModuleBinding) Kind() value.Kind        { return value.KindModule }
func (b *ModuleBinding) TypeTag() string         { return "ModuleBinding" }
func (b *ModuleBinding) RefMeta() *value.RefMeta { return &b.meta }
func (b *ModuleBinding) String() string          { return "[module binding " + b.Name + "]" }

// Resolve reads the live current value of the bound export.
func (b *ModuleBinding) Resolve() (value.Value, error) {
	return b.Env.Get(b.Name)
}

// Trace yields nothing: the exporting module's Env is kept alive for the
// program's whole lifetime by the module registry pinning it as a GC
// root directly, not transitively through bindings into it (a binding
// may itself go uncollected-but-unreachable between modules without that
// implying the exporter's globals should be swept).
func (b *ModuleBinding) Trace(func(value.Value)) {}
