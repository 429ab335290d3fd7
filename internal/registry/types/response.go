package types

type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MutationResponse acknowledges a write.  ModificationID is set only by
// recordModification.
type MutationResponse struct {
	OK             bool   `json:"ok"`
	ModificationID uint64 `json:"modification_id,omitempty"`
}

// LookupResponse carries a single-record lookup.  An absent record is a
// normal result: Found is false and Record is omitted.
type LookupResponse struct {
	OK     bool `json:"ok"`
	Found  bool `json:"found"`
	Record any  `json:"record,omitempty"`
}

type ListResponse struct {
	OK    bool `json:"ok"`
	Count int  `json:"count"`
	Items any  `json:"items"`
}

type DocumentResponse struct {
	OK                bool   `json:"ok"`
	DocumentationHash string `json:"documentation_hash"`
	Size              int64  `json:"size"`
	ContentType       string `json:"content_type,omitempty"`
}

func Found(record any) LookupResponse {
	return LookupResponse{OK: true, Found: true, Record: record}
}

func NotFound() LookupResponse {
	return LookupResponse{OK: true, Found: false}
}
