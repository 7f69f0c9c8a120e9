// internal/domain/lead/dto.go
package lead

// UploadRow is one raw spreadsheet record handed in by the ingestion UI.
// Keys are case-insensitive; extra columns are ignored.
type UploadRow map[string]string

// InvalidRow reports why a single upload row was rejected.
type InvalidRow struct {
	RowIndex int               `json:"rowIndex"`
	Errors   []string          `json:"errors"`
	Rec      map[string]string `json:"rec"`
}

// ExistingRow marks an upload row that matched a lead already in the store.
type ExistingRow struct {
	RowIndex int               `json:"rowIndex"`
	Rec      map[string]string `json:"rec"`
}

// UploadResult is the batch manifest returned to the caller.
type UploadResult struct {
	InsertedCount   int           `json:"insertedCount"`
	ModifiedCount   int           `json:"modifiedCount"`
	InvalidCount    int           `json:"invalidCount"`
	InvalidRows     []InvalidRow  `json:"invalidRows"`
	AlreadyExisting []ExistingRow `json:"alreadyExisting"`
}

// UpdateLeadRequest carries the editable identity/attribute fields.
type UpdateLeadRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Course *string `json:"course"`
	Place  *string `json:"place"`
}

// Overview is the dashboard lead-pool summary.
type Overview struct {
	TotalLeads      int64 `json:"totalStudents"`
	UnassignedLeads int64 `json:"unassignedLeads"`
	AssignedLeads   int64 `json:"assignedLeads"`
}
