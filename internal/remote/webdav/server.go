package webdav

import (
	"crypto/subtle"
	"net/http"

	"github.com/dmitrijs2005/mindstitch/internal/logging"
	xwebdav "golang.org/x/net/webdav"
)

// NewHandler serves the directory root over WebDAV. When user is not empty
// every request must carry matching Basic Auth credentials.
func NewHandler(root, user, password string, logger logging.Logger) http.Handler {
	dav := &xwebdav.Handler{
		FileSystem: xwebdav.Dir(root),
		LockSystem: xwebdav.NewMemLS(),
		Logger: func(r *http.Request, err error) {
			if err != nil {
				logger.Debug(r.Context(), "webdav request failed", "method", r.Method, "path", r.URL.Path, "error", err)
			}
		},
	}

	if user == "" {
		return dav
	}
	return basicAuth(dav, user, password)
}

func basicAuth(next http.Handler, user, password string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 ||
			subtle.ConstantTimeCompare([]byte(p), []byte(password)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="MindStitch"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
