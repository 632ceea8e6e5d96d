package primitives

import "sort"

// Next invokes the remainder of a Pipeline's handler chain.
type Next func(ctx any)

// PipelineHandler is middleware: it may do work, then call next to continue
// the chain, or return without calling next to short-circuit.
type PipelineHandler func(ctx any, next Next)

type stage struct {
	priority int
	order    int
	handler  PipelineHandler
}

// Pipeline is a priority-ordered list of handlers, stable within equal
// priority, invoked as nested middleware (spec.md §4.15).
type Pipeline struct {
	stages []stage
}

func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Use appends handler at priority, preserving insertion order within a tie.
func (p *Pipeline) Use(priority int, handler PipelineHandler) {
	p.stages = append(p.stages, stage{priority: priority, order: len(p.stages), handler: handler})
}

// Execute runs the chain starting from the lowest-priority handler. A
// handler panic propagates to the caller after every handler that already
// ran has returned.
func (p *Pipeline) Execute(ctx any) {
	ordered := append([]stage(nil), p.stages...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].priority != ordered[j].priority {
			return ordered[i].priority < ordered[j].priority
		}
		return ordered[i].order < ordered[j].order
	})

	var run func(i int) Next
	run = func(i int) Next {
		return func(ctx any) {
			if i >= len(ordered) {
				return
			}
			ordered[i].handler(ctx, run(i+1))
		}
	}
	run(0)(ctx)
}
