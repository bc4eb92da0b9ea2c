package playback

// Handle identifies one narration request.
type Handle uint64

// Request asks a driver to narrate one sentence.
type Request struct {
	Handle Handle
	// Index is the flat sentence index the request was issued for.
	Index int
	Text  string
	Voice string
	Rate  float64
}

// Event reports the outcome of a request. A nil Err means the sentence was
// narrated to the end.
type Event struct {
	Handle Handle
	Err    error
}

// Driver turns sentences into speech.
//
// Speak starts narrating and returns immediately. For every accepted request
// the driver delivers at most one Event on the Events channel, at an
// unspecified later time. Cancel is best effort; events for cancelled
// requests may still arrive and are discarded by the controller.
type Driver interface {
	Speak(req Request) error
	Cancel(h Handle)
	Events() <-chan Event
}
