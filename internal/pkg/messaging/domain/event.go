package messaging

// Change event vocabulary published over the realtime channel.
const (
	EntityMessage      = "message"
	EntityConversation = "conversation"

	OperationInsert = "insert"
	OperationUpdate = "update"
)

// ChangeEvent describes one committed storage change, shaped for realtime
// fan-out: the affected entity kind, what happened to it, and the row itself.
// Events are observational only; subscribers reconcile via explicit reads
// after a reconnect.
type ChangeEvent struct {
	Entity    string `json:"entity"`
	Operation string `json:"operation"`
	Row       any    `json:"row"`
}

// MessageInserted builds the event published to both participants when a
// message commits.
func MessageInserted(m Message) ChangeEvent {
	return ChangeEvent{Entity: EntityMessage, Operation: OperationInsert, Row: m}
}

// ConversationUpdated builds the event published when conversation metadata
// or read state changes.
func ConversationUpdated(c Conversation) ChangeEvent {
	return ChangeEvent{Entity: EntityConversation, Operation: OperationUpdate, Row: c}
}
