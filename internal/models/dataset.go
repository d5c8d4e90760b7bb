package models

import "encoding/json"

// DatasetStatus is the server-side processing state of an uploaded dataset.
type DatasetStatus string

const (
	DatasetPending    DatasetStatus = "pending"
	DatasetProcessing DatasetStatus = "processing"
	DatasetComplete   DatasetStatus = "complete"
	DatasetFailed     DatasetStatus = "failed"
)

// ParseDatasetStatus maps a wire value onto the enumeration. The backend
// reports freshly accepted uploads as "uploaded"; that and any unknown
// value are treated as pending.
func ParseDatasetStatus(s string) DatasetStatus {
	switch normalizeWord(s) {
	case string(DatasetProcessing):
		return DatasetProcessing
	case string(DatasetComplete), "completed":
		return DatasetComplete
	case string(DatasetFailed), "error":
		return DatasetFailed
	default:
		return DatasetPending
	}
}

func (s *DatasetStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = DatasetPending
		return nil
	}
	*s = ParseDatasetStatus(raw)
	return nil
}

// Label returns the capitalised status for display.
func (s DatasetStatus) Label() string {
	switch s {
	case DatasetProcessing:
		return "Processing"
	case DatasetComplete:
		return "Complete"
	case DatasetFailed:
		return "Failed"
	default:
		return "Pending"
	}
}

// Dataset is a server-side dataset record. The client only reads the list.
type Dataset struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	UploadDate  Time          `json:"upload_date"`
	Status      DatasetStatus `json:"status"`
}
