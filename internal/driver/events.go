package driver

// Stage describes a pipeline phase for progress reporting.
type Stage string

const (
	// StageRead is the input loading stage.
	StageRead Stage = "read"
	// StageParse covers classification and section assembly.
	StageParse Stage = "parse"
	// StageNormalize covers tag normalization and header stamping.
	StageNormalize Stage = "normalize"
	// StageRender is the serialization stage.
	StageRender Stage = "render"
	// StageWrite is the sink stage.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the file finished.
	StatusDone Status = "done"
	// StatusError indicates the file failed.
	StatusError Status = "error"
)

// Event reports progress for one file.
type Event struct {
	File   string
	Stage  Stage
	Status Status
	Err    error
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch != nil {
		s.Ch <- evt
	}
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
