package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/mindstitch/internal/cryptox"
	"github.com/dmitrijs2005/mindstitch/internal/models"
	"github.com/dmitrijs2005/mindstitch/internal/remote"
	"github.com/dmitrijs2005/mindstitch/internal/repositories/metadata"
)

const (
	remoteProfileKey = "remote_profile"
	sealSaltKey      = "seal_salt"
	secretFileName   = "install.secret"
)

var ErrNoRemoteProfile = errors.New("no remote profile saved")

// RemoteProfileService remembers one backup target. The password is sealed
// with a key derived from a secret file in the data directory, so a copied
// database alone does not reveal it.
type RemoteProfileService interface {
	Save(ctx context.Context, ep remote.Endpoint) error
	Load(ctx context.Context) (remote.Endpoint, error)
	Clear(ctx context.Context) error
}

type remoteProfileService struct {
	meta    metadata.Repository
	dataDir string
}

func NewRemoteProfileService(meta metadata.Repository, dataDir string) RemoteProfileService {
	return &remoteProfileService{meta: meta, dataDir: dataDir}
}

func (s *remoteProfileService) key(ctx context.Context) ([]byte, error) {
	secret, err := cryptox.LoadOrCreateSecret(filepath.Join(s.dataDir, secretFileName))
	if err != nil {
		return nil, err
	}

	salt, err := s.meta.Get(ctx, sealSaltKey)
	if err != nil {
		return nil, err
	}
	if salt == nil {
		if salt, err = cryptox.RandomBytes(16); err != nil {
			return nil, err
		}
		if err := s.meta.Set(ctx, sealSaltKey, salt); err != nil {
			return nil, err
		}
	}
	return cryptox.DeriveKey(secret, salt), nil
}

func kindOf(ep remote.Endpoint) models.RemoteKind {
	if ep.IsS3() {
		return models.RemoteS3
	}
	return models.RemoteWebDAV
}

func (s *remoteProfileService) Save(ctx context.Context, ep remote.Endpoint) error {
	url := strings.TrimSpace(ep.URL)
	if url == "" {
		return fmt.Errorf("remote url is required")
	}

	key, err := s.key(ctx)
	if err != nil {
		return fmt.Errorf("sealing key: %w", err)
	}
	sealed, nonce, err := cryptox.Seal([]byte(ep.Password), key)
	if err != nil {
		return fmt.Errorf("seal password: %w", err)
	}

	p := models.RemoteProfile{
		Kind:           kindOf(ep),
		URL:            url,
		Username:       ep.Username,
		SealedPassword: sealed,
		Nonce:          nonce,
	}
	return metadata.SetJSON(ctx, s.meta, remoteProfileKey, p)
}

func (s *remoteProfileService) Load(ctx context.Context) (remote.Endpoint, error) {
	var p models.RemoteProfile
	ok, err := metadata.GetJSON(ctx, s.meta, remoteProfileKey, &p)
	if err != nil {
		return remote.Endpoint{}, err
	}
	if !ok {
		return remote.Endpoint{}, ErrNoRemoteProfile
	}

	key, err := s.key(ctx)
	if err != nil {
		return remote.Endpoint{}, fmt.Errorf("sealing key: %w", err)
	}
	pw, err := cryptox.Open(p.SealedPassword, p.Nonce, key)
	if err != nil {
		return remote.Endpoint{}, fmt.Errorf("unseal password: %w", err)
	}
	return remote.Endpoint{URL: p.URL, Username: p.Username, Password: string(pw)}, nil
}

func (s *remoteProfileService) Clear(ctx context.Context) error {
	return s.meta.Delete(ctx, remoteProfileKey)
}
