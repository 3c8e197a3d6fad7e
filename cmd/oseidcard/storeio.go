package main

import (
	"fmt"
	"os"

	"github.com/oseidemu/myeid/keystore"
)

// openStore loads a persisted keystore from path, or returns a fresh empty
// one if the file does not yet exist.
func openStore(path string) (*keystore.Store, error) {
	store := keystore.New()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening keystore %s: %w", path, err)
	}
	defer f.Close()
	if err := store.LoadFrom(f); err != nil {
		return nil, fmt.Errorf("loading keystore %s: %w", path, err)
	}
	return store, nil
}

// saveStore persists store to path, overwriting any existing file.
func saveStore(store *keystore.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating keystore %s: %w", path, err)
	}
	defer f.Close()
	if err := store.SaveTo(f); err != nil {
		return fmt.Errorf("saving keystore %s: %w", path, err)
	}
	return nil
}
