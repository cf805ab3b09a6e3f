package vm

import "github.com/calcvm/calc/op"

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every instruction.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	// Use for: observers that only need slot events.
	StepNone

	// StepSampled calls OnStep every N instructions.
	StepSampled
)

// ObserverConfig specifies what events an observer wants to receive.
// Use NewObserverConfig() to create configs with safe defaults.
type ObserverConfig struct {
	// StepMode controls OnStep callback frequency.
	StepMode StepMode

	// SampleInterval is the number of instructions between OnStep calls
	// when StepMode is StepSampled. Values <= 0 are treated as 1.
	SampleInterval int

	// ObserveSlots enables OnSlot callbacks.
	ObserveSlots bool
}

// NewObserverConfig creates a config with ObserveSlots enabled.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{
		StepMode:       mode,
		SampleInterval: 1000,
		ObserveSlots:   true,
	}
}

// NormalizeConfig validates and clamps config values.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer is an interface for observing checked VM execution. The unchecked
// (trusted) paths never call observers.
//
// Observer methods are called synchronously during execution, so
// implementations should be fast. Embed NoOpObserver to implement only the
// methods you need.
type Observer interface {
	// Config returns the observer's configuration.
	// Called once when the observer is attached to the VM.
	Config() ObserverConfig

	// OnStep is called before an instruction executes, based on the
	// StepMode in the observer's config. Returns false to halt execution.
	OnStep(event StepEvent) bool

	// OnSlot is called for every read and write of a stack slot or register
	// (if ObserveSlots is true).
	OnSlot(event SlotEvent)
}

// StepEvent contains information about a single instruction step.
type StepEvent struct {
	// IP is the instruction pointer (index into the instruction array).
	IP int

	// Opcode is the operation being executed.
	Opcode op.Code

	// OpcodeName is the human-readable name of the opcode.
	OpcodeName string

	// StackDepth is the operand stack depth before the instruction. It is
	// always zero for register programs.
	StackDepth int
}

// SlotEvent describes one access to the storage buffer.
type SlotEvent struct {
	// IP is the instruction performing the access.
	IP int

	// Slot is the stack slot or register index.
	Slot int

	// Write is true for stores and false for loads.
	Write bool

	// Value is the value read or written.
	Value int64
}

// NoOpObserver is an Observer implementation that does nothing.
// Embed this in your observer to provide default implementations
// for methods you don't need.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return NewObserverConfig(StepAll)
}

func (NoOpObserver) OnStep(StepEvent) bool { return true }
func (NoOpObserver) OnSlot(SlotEvent)      {}

// Ensure NoOpObserver implements Observer.
var _ Observer = NoOpObserver{}

// SlotUsage is an Observer that records the highest storage slot touched.
// After a checked run, Peak() is the number of slots the program actually
// used.
//
// A SlotUsage records a single run and is not safe for concurrent use. Attach
// a fresh one to each VirtualMachine that is run from its own goroutine.
type SlotUsage struct {
	NoOpObserver
	peak     int
	accesses int
}

func (u *SlotUsage) Config() ObserverConfig {
	return NewObserverConfig(StepNone)
}

func (u *SlotUsage) OnSlot(event SlotEvent) {
	u.accesses++
	if event.Slot+1 > u.peak {
		u.peak = event.Slot + 1
	}
}

// Peak returns one more than the highest slot index accessed.
func (u *SlotUsage) Peak() int {
	return u.peak
}

// Accesses returns the number of slot reads and writes observed.
func (u *SlotUsage) Accesses() int {
	return u.accesses
}
