package models

// ErrorResponse is the JSON body returned by the HTTP API for any failed
// request. Error carries a short machine-matchable code, Message a
// human-readable cause suitable for direct display.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// IDResponse is returned by create endpoints and carries the
// store-assigned identifier of the new record.
type IDResponse struct {
	ID string `json:"id"`
}

// AssetResponse is returned by the asset upload endpoint and carries the
// retrieval URL of the stored blob.
type AssetResponse struct {
	URL string `json:"url"`
}
