package remote

import "context"

// Registry dispatches each call by endpoint scheme: s3:// URLs go to S3,
// everything else to WebDAV. A nil store behaves as unreachable.
type Registry struct {
	WebDAV Store
	S3     Store
}

func (r *Registry) pick(ep Endpoint) Store {
	if ep.IsS3() {
		return r.S3
	}
	return r.WebDAV
}

func (r *Registry) CheckConnection(ctx context.Context, ep Endpoint) bool {
	s := r.pick(ep)
	if s == nil {
		return false
	}
	return s.CheckConnection(ctx, ep)
}

func (r *Registry) CreateFolder(ctx context.Context, ep Endpoint, name string) bool {
	s := r.pick(ep)
	if s == nil {
		return false
	}
	return s.CreateFolder(ctx, ep, name)
}

func (r *Registry) Upload(ctx context.Context, ep Endpoint, path string, data []byte, contentType string) error {
	s := r.pick(ep)
	if s == nil {
		return ErrUnsupportedScheme
	}
	return s.Upload(ctx, ep, path, data, contentType)
}

func (r *Registry) Download(ctx context.Context, ep Endpoint, path string) ([]byte, bool) {
	s := r.pick(ep)
	if s == nil {
		return nil, false
	}
	return s.Download(ctx, ep, path)
}
