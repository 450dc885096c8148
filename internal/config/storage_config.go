package config

import "path/filepath"

type StorageConfig interface {
	GetTokenDBPath() string
	GetTokenKey() string
}

type Storage struct {
	src source
}

var _ StorageConfig = Storage{}

func (s Storage) GetTokenDBPath() string {
	folder := s.src.get(folderEnvVar, "./data")
	return s.src.get("TOKEN_DB", filepath.Join(folder, "session.db"))
}

// GetTokenKey returns the hex encoded 32 byte key used to seal stored tokens.
// Empty means tokens are stored in clear, as the browser storage did.
func (s Storage) GetTokenKey() string {
	return s.src.get("TOKEN_KEY", "")
}
