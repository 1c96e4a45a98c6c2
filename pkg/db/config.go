package db

// Config describes the embedded store. Path may be a filesystem path or a
// sqlite URI such as "file::memory:?cache=shared" for tests.
type Config struct {
	Path string
}
