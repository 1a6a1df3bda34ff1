package nav

// Knob is one rotary encoder event.
type Knob int

const (
	KnobLeft Knob = iota
	KnobRight
	KnobPress
)

type TouchPhase int

const (
	TouchDown TouchPhase = iota
	TouchMove
	TouchUp
)

// Target is an on-screen button.
type Target int

const (
	TapBack Target = iota
	TapOutside
	TapContinue
	TapReset
	TapMenuItem
	TapTheme
	TapTask
	TapStart
	TapLogTime
	TapOpenTask
	TapOpenInBrowser
	TapLogMeeting
)

type InputKind int

const (
	InputKnob InputKind = iota
	InputTouch
	InputTap
)

// Input is one event from the knob or touch panel. Raw touch samples feed
// the edge gestures; taps are already resolved to a button.
type Input struct {
	Kind   InputKind
	Knob   Knob
	Phase  TouchPhase
	X, Y   int
	Target Target
	// Index selects the item for TapMenuItem, TapTheme and TapTask.
	Index int
}

func KnobInput(k Knob) Input { return Input{Kind: InputKnob, Knob: k} }

func TouchInput(p TouchPhase, x, y int) Input {
	return Input{Kind: InputTouch, Phase: p, X: x, Y: y}
}

func TapInput(t Target) Input { return Input{Kind: InputTap, Target: t} }

func TapItem(t Target, i int) Input { return Input{Kind: InputTap, Target: t, Index: i} }
