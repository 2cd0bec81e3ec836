package router

import (
	"encoding/json"

	"github.com/overtimestaff/marketboard/internal/model"
)

// Change types carried by postgres_changes.
const (
	ChangeInsert = "INSERT"
	ChangeUpdate = "UPDATE"
	ChangeDelete = "DELETE"
)

// changesPayload is the payload of a postgres_changes frame.
// Newer servers nest the change under "data"; older ones send it flat.
type changesPayload struct {
	Data *changeData `json:"data"`
	changeData
}

// changeData describes a single row change.
type changeData struct {
	Type            string          `json:"type"`
	Schema          string          `json:"schema"`
	Table           string          `json:"table"`
	CommitTimestamp string          `json:"commit_timestamp"`
	Record          json.RawMessage `json:"record"`
	OldRecord       json.RawMessage `json:"old_record"`
}

// systemPayload is the payload of a system frame.
type systemPayload struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Extension string `json:"extension"`
}

// closedPayload is the payload of phx_error / phx_close frames.
type closedPayload struct {
	Reason string `json:"reason"`
}

func decodeRow(raw json.RawMessage) (model.Row, error) {
	var row model.Row
	if err := json.Unmarshal(raw, &row); err != nil {
		return model.Row{}, err
	}
	return row, nil
}
