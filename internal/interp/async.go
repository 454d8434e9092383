package interp

import (
	"time"

	"github.com/dedzsinator/matrixlang/internal/ast"
	"github.com/dedzsinator/matrixlang/internal/diag"
	"github.com/google/uuid"
)

// DefaultWaitTimeout bounds how long `wait` blocks on a handle before
// reporting a timeout error, per spec §5's async contract.
const DefaultWaitTimeout = 30 * time.Second

// evalSpawn starts n.Expr on its own goroutine against env itself (shared
// with the caller, not copied), returning an AsyncHandle immediately. The goroutine's result or error is
// delivered over a single-assignment channel that `wait` reads from.
func (it *Interpreter) evalSpawn(env *Environment, n *ast.Spawn) (Value, error) {
	cell := &asyncCell{done: make(chan struct{})}
	handle := AsyncHandle{ID: uuid.New(), cell: cell}
	go func() {
		v, err := it.Eval(env, n.Expr)
		cell.result, cell.err = v, err
		close(cell.done)
	}()
	return handle, nil
}

func (it *Interpreter) evalWait(env *Environment, n *ast.Wait) (Value, error) {
	h, err := it.Eval(env, n.Handle)
	if err != nil {
		return nil, err
	}
	handle, ok := h.(AsyncHandle)
	if !ok {
		return nil, diag.New(diag.KindType, n.Span(), "wait requires a Future value")
	}
	timeout := it.WaitTimeout
	if timeout == 0 {
		timeout = DefaultWaitTimeout
	}
	select {
	case <-handle.cell.done:
		return handle.cell.result, handle.cell.err
	case <-time.After(timeout):
		return nil, diag.New(diag.KindAsyncTimeout, n.Span(), "wait timed out after %s", timeout)
	}
}

// evalParallel runs every sub-expression on its own goroutine and blocks
// until all complete, returning their results as an array in source order
// (spec §5's `parallel { }` block, a structured-concurrency sibling of
// spawn/wait that never leaks an unawaited handle).
func (it *Interpreter) evalParallel(env *Environment, n *ast.Parallel) (Value, error) {
	type outcome struct {
		v   Value
		err error
	}
	results := make([]outcome, len(n.Exprs))
	done := make(chan int, len(n.Exprs))
	for i, expr := range n.Exprs {
		i, expr := i, expr
		go func() {
			v, err := it.Eval(env, expr)
			results[i] = outcome{v, err}
			done <- i
		}()
	}
	for range n.Exprs {
		<-done
	}
	elems := make([]Value, len(results))
	for i, o := range results {
		if o.err != nil {
			return nil, o.err
		}
		elems[i] = o.v
	}
	return ArrayValue{Elements: elems}, nil
}
