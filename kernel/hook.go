package kernel

// HookPos defines the enum of possible hooking positions.
type HookPos struct {
	Name string
}

// Hook positions raised by the scheduler.
var (
	// HookPosBeforeProcess triggers before a runnable process executes.
	HookPosBeforeProcess = &HookPos{Name: "BeforeProcess"}

	// HookPosAfterProcess triggers after a process returned control.
	HookPosAfterProcess = &HookPos{Name: "AfterProcess"}

	// HookPosBeforeUpdate triggers before the update phase commits.
	HookPosBeforeUpdate = &HookPos{Name: "BeforeUpdate"}

	// HookPosAfterUpdate triggers after the update phase committed.
	HookPosAfterUpdate = &HookPos{Name: "AfterUpdate"}

	// HookPosDeltaCycleEnd triggers once at the end of each delta cycle.
	HookPosDeltaCycleEnd = &HookPos{Name: "DeltaCycleEnd"}

	// HookPosTimeAdvance triggers when simulated time moves forward. The
	// Detail field carries the previous time.
	HookPosTimeAdvance = &HookPos{Name: "TimeAdvance"}

	// HookPosProcessFailure triggers when a process panics during
	// evaluation. The Detail field carries the recovered value.
	HookPosProcessFailure = &HookPos{Name: "ProcessFailure"}
)

// HookCtx is the context that holds all the information about the site that a
// hook is triggered.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hookable defines an object that accepts Hooks.
type Hookable interface {
	// AcceptHook registers a hook.
	AcceptHook(hook Hook)
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// A HookableBase provides some utility function for other types that
// implement the Hookable interface.
type HookableBase struct {
	Hooks []Hook
}

// NewHookableBase creates a HookableBase object.
func NewHookableBase() *HookableBase {
	h := new(HookableBase)
	h.Hooks = make([]Hook, 0)
	return h
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// InvokeHook triggers the registered Hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}
