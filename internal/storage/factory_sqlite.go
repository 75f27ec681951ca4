//go:build sqlite

package storage

func newSQLiteStore(path string) (Store, error) {
	return NewSQLiteStore(path), nil
}

// DefaultStoreKind is the backend command line tools use unless told otherwise.
func DefaultStoreKind() string {
	return "sqlite"
}
