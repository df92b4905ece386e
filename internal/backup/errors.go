package backup

import "errors"

var (
	ErrNothingToBackup = errors.New("nothing to back up")
	ErrNoBackupFound   = errors.New("no backup found or download failed")
	ErrManifestUpload  = errors.New("manifest upload failed")
	ErrManifestInvalid = errors.New("backup manifest is invalid")
)
