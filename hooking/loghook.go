package hooking

import (
	"fmt"
	"log"
)

// LogHookBase provides the common logic for all hooks that write into a
// logger.
type LogHookBase struct {
	*log.Logger
}

// A LogHook prints every hook invocation that happens at one of the selected
// positions. If no position is selected, all positions are printed.
type LogHook struct {
	LogHookBase

	positions []*HookPos
}

// NewLogHook returns a new LogHook which will write into the logger.
func NewLogHook(logger *log.Logger, positions ...*HookPos) *LogHook {
	h := new(LogHook)
	h.Logger = logger
	h.positions = positions

	return h
}

// Func writes the hook information into the logger.
func (h *LogHook) Func(ctx HookCtx) {
	if !h.selected(ctx.Pos) {
		return
	}

	if ctx.Detail != nil {
		h.Printf("[%s] %s (%v)", ctx.Pos.Name, describe(ctx.Item), ctx.Detail)
		return
	}

	h.Printf("[%s] %s", ctx.Pos.Name, describe(ctx.Item))
}

func (h *LogHook) selected(pos *HookPos) bool {
	if len(h.positions) == 0 {
		return true
	}

	for _, p := range h.positions {
		if p == pos {
			return true
		}
	}

	return false
}

func describe(item any) string {
	if s, ok := item.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("%T", item)
}
