package models

// Asset is a binary file (an image) attached to an item or a profile.
// The bytes are stored in the external object store; records reference the
// asset only by its retrieval URL.
type Asset struct {
	// FileName is the original client-side file name. Together with the
	// owner it forms the storage path, so re-uploading a file with the same
	// name overwrites the previous blob.
	FileName string

	// ContentType is the MIME type reported by the client (e.g. "image/png").
	ContentType string

	// Data is the raw file content.
	Data []byte
}
