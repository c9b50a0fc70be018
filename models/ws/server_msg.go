package wsmodels

// ServerMessage is a realtime event pushed to every subscriber of a
// project channel after a successful commit.
type ServerMessage struct {
	Channel string `json:"channel"` // e.g. project:{id}
	Event   string `json:"event"`   // e.g. document:updated
	Time    string `json:"time"`
	Payload any    `json:"payload,omitempty"`
}

// Event names emitted by the engines.
const (
	EventDocumentUpdated        = "document:updated"
	EventApprovalUpdated        = "approval:updated"
	EventApprovalCommentCreated = "approval:comment:created"
)

func ProjectChannel(projectID string) string {
	return "project:" + projectID
}
