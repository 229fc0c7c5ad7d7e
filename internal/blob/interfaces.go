package blob

import "context"

// Store uploads binary assets (item images, avatars) and resolves their
// retrieval URLs. Uploads are synchronous: a caller only proceeds with a
// record write once Upload has returned the final URL.
type Store interface {
	Upload(ctx context.Context, key string, contentType string, data []byte) (string, error)
	URL(key string) string
}
