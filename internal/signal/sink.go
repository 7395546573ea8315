package signal

// Sink receives the fire-and-forget signals the engine exposes to its host.
type Sink interface {
	// FrameRateDetected reports a measured or probed rate so an external
	// cache can remember it.
	FrameRateDetected(assetID string, fps float64)
	// PlayStateChanged reports play/pause transitions for "now playing"
	// indicators.
	PlayStateChanged(assetID string, playing bool)
}

// NopSink discards all signals.
type NopSink struct{}

// FrameRateDetected implements Sink.
func (NopSink) FrameRateDetected(string, float64) {}

// PlayStateChanged implements Sink.
func (NopSink) PlayStateChanged(string, bool) {}

// Fanout delivers each signal to every non-nil sink in order.
type Fanout []Sink

// FrameRateDetected implements Sink.
func (f Fanout) FrameRateDetected(assetID string, fps float64) {
	for _, s := range f {
		if s != nil {
			s.FrameRateDetected(assetID, fps)
		}
	}
}

// PlayStateChanged implements Sink.
func (f Fanout) PlayStateChanged(assetID string, playing bool) {
	for _, s := range f {
		if s != nil {
			s.PlayStateChanged(assetID, playing)
		}
	}
}

// Recorder is a Sink that keeps every signal. Useful for hosts that poll and
// for tests.
type Recorder struct {
	Rates  []RateSignal
	States []PlayStateSignal
}

// RateSignal is one recorded FrameRateDetected call.
type RateSignal struct {
	AssetID string
	FPS     float64
}

// PlayStateSignal is one recorded PlayStateChanged call.
type PlayStateSignal struct {
	AssetID string
	Playing bool
}

// FrameRateDetected implements Sink.
func (r *Recorder) FrameRateDetected(assetID string, fps float64) {
	r.Rates = append(r.Rates, RateSignal{AssetID: assetID, FPS: fps})
}

// PlayStateChanged implements Sink.
func (r *Recorder) PlayStateChanged(assetID string, playing bool) {
	r.States = append(r.States, PlayStateSignal{AssetID: assetID, Playing: playing})
}
