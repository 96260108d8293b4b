package ir

// StageSpec describes one stage of a compiled pipeline definition.
type StageSpec struct {
	Kind   string  `json:"kind"`
	Factor float64 `json:"factor,omitempty"` // scale stages only
}

// PipelineSpec is a compiled pipeline definition: a display name plus
// stages in execution order.
type PipelineSpec struct {
	Name   string      `json:"name"`
	Stages []StageSpec `json:"stages"`
}

// Stage kinds the compiler accepts.
const (
	StageIdentity = "identity"
	StageScale    = "scale"
)

// ValidStageKinds defines allowed stage kinds.
var ValidStageKinds = map[string]bool{
	StageIdentity: true,
	StageScale:    true,
}

// TraceEvent records one stage application within a pipeline run.
// Exactly one of Output or ErrorKind/ErrorMessage is set.
type TraceEvent struct {
	Index        int       `json:"index"`
	Layer        string    `json:"layer"`
	Input        FlameType `json:"input"`
	Output       FlameType `json:"output,omitempty"`
	ErrorKind    string    `json:"error_kind,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// Run statuses recorded on RunRecord.
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// RunRecord is the persisted summary of one pipeline execution.
type RunRecord struct {
	Token         string    `json:"token"` // Run token (UUIDv7 in production)
	Pipeline      string    `json:"pipeline"`
	SpecHash      string    `json:"spec_hash"` // Hash of the pipeline spec
	Seed          FlameType `json:"seed"`
	Result        FlameType `json:"result,omitempty"`
	Status        string    `json:"status"`
	ErrorKind     string    `json:"error_kind,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	LayerCount    int       `json:"layer_count"`
	Seq           int64     `json:"seq"` // Logical clock, never wall-clock
	EngineVersion string    `json:"engine_version"`
	IRVersion     string    `json:"ir_version"`
}
