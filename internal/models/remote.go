package models

// RemoteKind selects the backup target implementation.
type RemoteKind string

const (
	RemoteWebDAV RemoteKind = "webdav"
	RemoteS3     RemoteKind = "s3"
)

// RemoteProfile is the saved backup target. SealedPassword and Nonce hold
// the AES-GCM sealed password; the plain password never reaches storage.
type RemoteProfile struct {
	Kind           RemoteKind `json:"kind"`
	URL            string     `json:"url"`
	Username       string     `json:"username"`
	SealedPassword []byte     `json:"sealed_password"`
	Nonce          []byte     `json:"nonce"`
}
