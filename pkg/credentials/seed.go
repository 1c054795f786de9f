// pkg/credentials/seed.go
package credentials

import (
	"context"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type seedEntry struct {
	Shop        string `yaml:"shop"`
	AccessToken string `yaml:"access_token"`
}

// SeedFromFile loads shop credentials from a YAML file into the store.
// Intended for local development; missing path is a no-op.
func SeedFromFile(ctx context.Context, store Store, path string) error {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var entries []seedEntry
	if err := yaml.Unmarshal(b, &entries); err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, e := range entries {
		if e.Shop == "" || e.AccessToken == "" {
			continue
		}
		if err := store.Put(ctx, Credential{Shop: e.Shop, AccessToken: e.AccessToken, InstalledAt: now}); err != nil {
			return err
		}
	}
	return nil
}
