package playback

// State is the playback controller state.
type State int

const (
	// StateIdle indicates no document is loaded.
	StateIdle State = iota
	// StateStopped indicates a document is loaded and narration is not
	// running. The index is either -1 (not started) or a fixed position.
	StateStopped
	// StatePlaying indicates narration is advancing through the document.
	StatePlaying
	// StateSeeking is transient while a seek resolves to Stopped or Playing.
	StateSeeking
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StateSeeking:
		return "seeking"
	default:
		return "unknown"
	}
}

// EndPolicy decides what happens after the last sentence is narrated.
type EndPolicy int

const (
	// EndLoop stops and rewinds to the first sentence.
	EndLoop EndPolicy = iota
	// EndStop stops on the last sentence.
	EndStop
)

// String returns the string representation of the policy.
func (p EndPolicy) String() string {
	switch p {
	case EndLoop:
		return "loop"
	case EndStop:
		return "stop"
	default:
		return "unknown"
	}
}

// ParseEndPolicy parses "loop" or "stop".
func ParseEndPolicy(s string) (EndPolicy, error) {
	switch s {
	case "", "loop":
		return EndLoop, nil
	case "stop":
		return EndStop, nil
	default:
		return EndLoop, &InvalidPolicyError{Value: s}
	}
}
