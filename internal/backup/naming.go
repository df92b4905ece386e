package backup

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	RootFolder     = "MindStitch"
	ImagesFolder   = RootFolder + "/images"
	ManifestName   = "MindStitchBackup.json"
	ManifestPath   = RootFolder + "/" + ManifestName
	SentinelScheme = "backup://"
	CacheDirName   = "restored_images"
)

// lastPathSegment returns the final non-empty path segment of a locator,
// or "" when there is none.
func lastPathSegment(uri string) string {
	p := uri
	if u, err := url.Parse(uri); err == nil {
		p = u.Path
		if p == "" {
			p = u.Opaque
		}
	}
	segs := strings.Split(p, "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i] != "" {
			return segs[i]
		}
	}
	return ""
}

// ImageName is the remote file name used for an image of an idea.
func ImageName(ideaID int64, uri string) string {
	seg := lastPathSegment(uri)
	if seg == "" {
		seg = "unknown"
	}
	return fmt.Sprintf("img_%d_%s", ideaID, seg)
}

// sentinelName extracts the name from a backup:// locator.
func sentinelName(uri string) (string, bool) {
	if !strings.HasPrefix(uri, SentinelScheme) {
		return "", false
	}
	return strings.TrimPrefix(uri, SentinelScheme), true
}

// validName accepts only a single, non-special path element so restored
// files cannot escape the cache directory.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}
