package service

// Auth event names and outcomes reported to an AuthEventRecorder.
const (
	EventRegister = "register"
	EventLogin    = "login"
	EventRefresh  = "refresh"
	EventLogout   = "logout"
	EventResolve  = "resolve"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AuthEventRecorder receives one call per completed authentication operation.
type AuthEventRecorder interface {
	RecordAuthEvent(event, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordAuthEvent(string, string) {}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
