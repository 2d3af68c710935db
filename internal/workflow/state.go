package workflow

// State enumerates the counter surface's lifecycle. It replaces the ad-hoc
// string section flags the surfaces would otherwise carry.
//
// Transitions:
//
//	Idle -> Searching -> Found | NotFound
//	Found -> OperationSelected -> Processing -> Found (success, form reset)
//	                                         -> OperationSelected (failure)
//	any -> Idle via Reset (new search)
//
// A success lands back on Found rather than Idle: the account snapshot stays
// loaded so its optimistically updated balance remains observable until the
// teller starts a new search.
type State int

const (
	StateIdle State = iota
	StateSearching
	StateFound
	StateNotFound
	StateOperationSelected
	StateProcessing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateFound:
		return "found"
	case StateNotFound:
		return "not-found"
	case StateOperationSelected:
		return "operation-selected"
	case StateProcessing:
		return "processing"
	default:
		return "unknown"
	}
}
