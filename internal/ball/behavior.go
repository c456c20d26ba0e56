package ball

// Kind tags the behavior variant of a ball.
type Kind uint8

const (
	Normal     Kind = iota // fully simulated
	Constraint             // bounding circle, never moves
	Trigger                // observational, fires callbacks on overlap
	Selective              // pushes only the balls its filter admits
)

func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Constraint:
		return "constraint"
	case Trigger:
		return "trigger"
	case Selective:
		return "selective"
	}
	return "unknown"
}

// ParseKind maps a lowercase name back to its Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "", "normal":
		return Normal, true
	case "constraint":
		return Constraint, true
	case "trigger":
		return Trigger, true
	case "selective":
		return Selective, true
	}
	return Normal, false
}

// TriggerFunc receives the trigger's own slot and the slot it touched.
// Both indices are only valid until the current collision pass ends.
type TriggerFunc func(self, other int)

// FilterFunc decides whether a Selective ball pushes the ball in slot other.
type FilterFunc func(other int) bool

// Behavior is a closed sum over the ball roles. The zero value is Normal.
// Payload fields are only meaningful for the matching Kind.
type Behavior struct {
	kind    Kind
	onEnter TriggerFunc
	onExit  TriggerFunc
	filter  FilterFunc
}

func NormalBehavior() Behavior     { return Behavior{kind: Normal} }
func ConstraintBehavior() Behavior { return Behavior{kind: Constraint} }

// TriggerBehavior builds a Trigger. Either callback may be nil.
func TriggerBehavior(onEnter, onExit TriggerFunc) Behavior {
	return Behavior{kind: Trigger, onEnter: onEnter, onExit: onExit}
}

// SelectiveBehavior builds a Selective. A nil filter admits nothing.
func SelectiveBehavior(filter FilterFunc) Behavior {
	return Behavior{kind: Selective, filter: filter}
}

func (b Behavior) Kind() Kind { return b.kind }

// Enter invokes the on_enter callback of a Trigger.
func (b Behavior) Enter(self, other int) {
	if b.kind == Trigger && b.onEnter != nil {
		b.onEnter(self, other)
	}
}

// Exit invokes the on_exit callback of a Trigger.
func (b Behavior) Exit(self, other int) {
	if b.kind == Trigger && b.onExit != nil {
		b.onExit(self, other)
	}
}

// Admits evaluates the filter of a Selective.
func (b Behavior) Admits(other int) bool {
	if b.kind != Selective || b.filter == nil {
		return false
	}
	return b.filter(other)
}
