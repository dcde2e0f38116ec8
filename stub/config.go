package stub

// Config is the stub server configuration.
type Config struct {
	// Address to listen on (e.g. ":8000")
	ListenAddr string

	// DBPath is the path to the SQLite database file for session persistence.
	// Empty means sessions live in memory only.
	DBPath string

	// CatalogDir is a directory of image files to serve as the retrieval
	// catalog. Empty means the built-in sample catalog.
	CatalogDir string
}
