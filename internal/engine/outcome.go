package engine

// Status is the terminal result of a preview or print request.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Outcome is what callers get back. Back-end errors never escape as raw
// panics or exceptions; they arrive here as a structured Error.
type Outcome struct {
	Status       Status
	ArtifactPath string
	Err          *Error
}

// Message returns the user-facing Arabic message for a failed outcome, empty
// otherwise.
func (o Outcome) Message() string {
	if o.Status == StatusFailed && o.Err != nil {
		return o.Err.UserMessage()
	}
	return ""
}

func success(artifact string) Outcome {
	return Outcome{Status: StatusSuccess, ArtifactPath: artifact}
}

func cancelled(artifact string) Outcome {
	return Outcome{Status: StatusCancelled, ArtifactPath: artifact}
}

func failed(err *Error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}

// requestState tracks a request through its lifecycle. Transitions are
// logged, not enforced: the dispatcher's control flow is already linear.
type requestState string

const (
	stateInitial    requestState = "initial"
	stateResolved   requestState = "resolved"
	stateRendered   requestState = "rendered"
	stateDispatched requestState = "dispatched"
	stateDone       requestState = "done"
	stateCleaned    requestState = "cleaned"
)
