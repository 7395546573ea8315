package transport

// State is the transport's position in its lifecycle.
type State int

const (
	// StateIdle means no metadata has loaded yet.
	StateIdle State = iota
	// StateReady means metadata is known and playback has not started, or
	// a loop has just wrapped.
	StateReady
	StatePlaying
	StatePaused
	// StateEnded means the media reached its natural end.
	StateEnded
)

var stateNames = [...]string{"idle", "ready", "playing", "paused", "ended"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// mark is an optional range bound.
type mark struct {
	frame int
	set   bool
}

// Handle identifies a draggable range handle.
type Handle int

const (
	HandleNone Handle = iota
	HandleIn
	HandleOut
)

// Snapshot is the committed transport state for rendering the bar.
type Snapshot struct {
	AssetID    string
	Variant    Variant
	State      State
	FPS        float64
	Frame      int
	FrameCount int
	// FrameCountKnown is false until duration or metadata supplies a count.
	FrameCountKnown bool
	In              int
	Out             int
	// Restricted is true when the range is narrower than the whole clip.
	Restricted bool
	Loop       bool
	Once       bool
	Rate       float64
	Step       int
	Seeking    bool
	Timecode   string

	InPercent       float64
	OutPercent      float64
	PlayheadPercent float64
}
