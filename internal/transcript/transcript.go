package transcript

import (
	"time"

	"github.com/matheus3301/crawlspace/internal/archive"
	"github.com/matheus3301/crawlspace/internal/identity"
)

// Entry is one rendered message bubble.
type Entry struct {
	AuthorID    string
	DisplayName string
	Body        string
	Timestamp   string
	Time        time.Time
	Color       identity.Color
	Variant     archive.Variant
}

// Options controls reconstruction.
type Options struct {
	// Location renders timestamps. Defaults to time.Local.
	Location *time.Location
	// Palette caches author colors. A fresh one is created when nil.
	Palette *identity.Palette
}

// Reconstruct renders records in file order, one entry per record.
func Reconstruct(records []*archive.Record, roster *identity.Roster, opts Options) []Entry {
	palette := opts.Palette
	if palette == nil {
		palette = identity.NewPalette()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	n := archive.NewNormalizer(roster, archive.UnknownUser)
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		msg := n.NormalizeTranscript(r)
		entries = append(entries, Entry{
			AuthorID:    msg.AuthorID,
			DisplayName: msg.DisplayName,
			Body:        msg.Text,
			Timestamp:   archive.FormatTimestamp(msg.TS, loc),
			Time:        msg.Time,
			Color:       palette.Color(msg.AuthorID),
			Variant:     msg.Variant,
		})
	}
	return entries
}

// LoadRecords reads the records of one export file, an array of objects or
// a single object.
func LoadRecords(path string) ([]*archive.Record, error) {
	return archive.ReadFile(path)
}

// ReconstructFile reads an export file and renders its conversation.
func ReconstructFile(path string, roster *identity.Roster, opts Options) ([]Entry, error) {
	records, err := LoadRecords(path)
	if err != nil {
		return nil, err
	}
	return Reconstruct(records, roster, opts), nil
}
