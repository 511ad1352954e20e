package scorer

// Noop is a scorer that never emits. It keeps the secondary scorer slot
// in the fusion chain wired while a model-backed scorer is absent
type Noop struct{}

// NewNoop constructs a Noop
func NewNoop() *Noop { return &Noop{} }

// Name identifies the scorer in fused output and logs
func (*Noop) Name() string { return "noop" }

// Score emits nothing
func (*Noop) Score(Input) []Candidate { return nil }
