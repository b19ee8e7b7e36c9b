package stream

// Subject message types.
const (
	MessageJoin  = "join"
	MessageLeave = "leave"
)

// SubjectMessage announces a subject joining or leaving.
type SubjectMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}
