package harness

// TraceEvent records one construction or step and the store it left behind.
type TraceEvent struct {
	Seq   int64  `json:"seq"`
	Op    string `json:"op"`              // "construct" or a step op
	Input string `json:"input,omitempty"` // construct only: the input kind
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"` // coerced text of the step value
	Query string `json:"query"`           // store.String() after the event
	Size  int    `json:"size"`
	Error string `json:"error,omitempty"` // construct only: error kind
}

// OpConstruct names the trace event recorded for store construction.
const OpConstruct = "construct"

// hasKey reports whether the event's op takes a key.
func (e TraceEvent) hasKey() bool {
	switch e.Op {
	case OpAppend, OpSet, OpDelete:
		return true
	}
	return false
}

// hasValue reports whether the event's op takes a value.
func (e TraceEvent) hasValue() bool {
	return e.Op == OpAppend || e.Op == OpSet
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Trace contains the construction and every step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the serialized final store. Empty when construction failed.
	Final string `json:"final"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// nextSeq returns the sequence number of the next trace event.
func (r *Result) nextSeq() int64 {
	return int64(len(r.Trace)) + 1
}

// AddTrace appends an event to the trace.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}
