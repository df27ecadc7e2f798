package store

// Run is one recorded scan.
type Run struct {
	ID           string
	Archive      string
	Query        string
	StartedAt    int64 // unix millis
	ElapsedMS    int64
	FilesScanned int
	FileErrors   int
	ResultCount  int
}

// Hit is one recorded match of a run.
type Hit struct {
	RunID       string
	Seq         int
	DisplayName string
	Snippet     string
	Path        string
	Variant     string
}

// FileError is one file a run could not read.
type FileError struct {
	RunID   string
	Path    string
	Message string
}
