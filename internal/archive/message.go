package archive

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Variant is the tagged kind of a normalized message.
type Variant string

const (
	Regular    Variant = "regular"
	Edited     Variant = "edited"
	Deleted    Variant = "deleted"
	System     Variant = "system"
	FileUpload Variant = "file_upload"
)

// Record subtypes that drive classification.
const (
	SubtypeChanged = "message_changed"
	SubtypeDeleted = "message_deleted"
)

// SystemSubtypes are the channel-metadata subtypes rendered as system messages.
var SystemSubtypes = []string{"channel_name", "channel_topic", "channel_purpose"}

// Fallback author identifiers and names.
const (
	UnknownUserID = "unknown_user"
	SystemUserID  = "system"
	UnknownUser   = "Unknown User"
	NotAvailable  = "N/A"
	UnknownTime   = "Unknown Time"
)

// TimeLayout is the display format for message timestamps.
const TimeLayout = "2006-01-02 15:04:05"

// Message is the canonical form of a record.
type Message struct {
	TS             string
	Time           time.Time
	AuthorID       string
	DisplayName    string
	Text           string // display text with placeholders applied
	Content        string // searchable text, empty when only a placeholder exists
	Variant        Variant
	HasAttachments bool
	Raw            *Record // retained for edited and deleted messages
}

// NameLookup resolves a user id to a real name from a roster.
type NameLookup interface {
	RealName(id string) (string, bool)
}

// ClassifySearch returns the variant of a record on the search path:
// file upload, then edit, then channel metadata, then regular.
func ClassifySearch(r *Record) Variant {
	switch {
	case r.Files > 0:
		return FileUpload
	case r.Subtype == SubtypeChanged:
		return Edited
	case slices.Contains(SystemSubtypes, r.Subtype):
		return System
	default:
		return Regular
	}
}

// ClassifyTranscript returns the variant of a record when rebuilding a
// conversation. Deletions take precedence over everything else.
func ClassifyTranscript(r *Record) Variant {
	if IsDeleted(r) {
		return Deleted
	}
	return ClassifySearch(r)
}

// IsDeleted reports whether the record is a deletion notice.
func IsDeleted(r *Record) bool {
	return r.Subtype == SubtypeDeleted
}

// ParseTimestamp converts an epoch-seconds string with optional fraction.
func ParseTimestamp(ts string) (time.Time, bool) {
	secs, err := strconv.ParseFloat(strings.TrimSpace(ts), 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return time.Time{}, false
	}
	whole := int64(secs)
	nanos := int64((secs - float64(whole)) * 1e9)
	return time.Unix(whole, nanos), true
}

// FormatTimestamp renders ts in loc, or UnknownTime when it cannot be parsed.
func FormatTimestamp(ts string, loc *time.Location) string {
	t, ok := ParseTimestamp(ts)
	if !ok {
		return UnknownTime
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(TimeLayout)
}

// Normalizer turns records into messages. Unknown is the name used when
// neither the record nor the roster knows the author.
type Normalizer struct {
	Names   NameLookup
	Unknown string
}

// NewNormalizer creates a normalizer. names may be nil.
func NewNormalizer(names NameLookup, unknown string) *Normalizer {
	return &Normalizer{Names: names, Unknown: unknown}
}

// Normalize applies the search-path rules to a record.
func (n *Normalizer) Normalize(r *Record) Message {
	msg := n.base(r)
	msg.Variant = ClassifySearch(r)

	switch msg.Variant {
	case FileUpload:
		msg.AuthorID = authorID(r.User)
		msg.DisplayName = n.rosterName(r.User)
		msg.Text = FilePosted
		_, msg.Content = displayText(r)
	case Edited:
		orig := r.Original
		if orig == nil {
			orig = &Record{}
		}
		msg.Raw = r
		msg.AuthorID = authorID(orig.User)
		msg.DisplayName = n.profileName(orig) + " (Edited Message)"
		msg.Text, msg.Content = displayText(orig)
		msg.HasAttachments = orig.Attachments > 0
	case System:
		msg.AuthorID = SystemUserID
		msg.DisplayName = "System (" + r.Subtype + ")"
	default:
		msg.DisplayName = n.profileName(r)
	}
	return msg
}

// DeletedEcho returns the second, deletion-derived message of a
// message_deleted record carrying its original payload.
func (n *Normalizer) DeletedEcho(r *Record) (Message, bool) {
	if !IsDeleted(r) || r.Original == nil {
		return Message{}, false
	}
	orig := r.Original

	name := ""
	switch {
	case r.HasProfile:
		name = r.Profile.RealName
	case orig.HasProfile:
		name = orig.Profile.RealName
	}
	if name == "" {
		name = n.rosterName(firstNonEmpty(orig.User, r.User))
	}

	msg := n.base(orig)
	if msg.TS == "" {
		msg.TS, msg.Time = r.TS, n.base(r).Time
	}
	msg.Variant = Deleted
	msg.Raw = r
	msg.AuthorID = authorID(firstNonEmpty(orig.User, r.User))
	msg.DisplayName = name + " (Deleted Message)"
	return msg, true
}

// NormalizeTranscript applies the conversation-view rules to a record.
func (n *Normalizer) NormalizeTranscript(r *Record) Message {
	if !IsDeleted(r) {
		return n.Normalize(r)
	}

	orig := r.Original
	if orig == nil {
		orig = &Record{}
	}
	name := firstNonEmpty(orig.Profile.DisplayName, orig.Profile.RealName)
	if name == "" {
		name = n.rosterName(orig.User)
	}

	msg := n.base(orig)
	if msg.TS == "" {
		msg.TS, msg.Time = r.TS, n.base(r).Time
	}
	msg.Variant = Deleted
	msg.Raw = r
	msg.AuthorID = authorID(orig.User)
	msg.DisplayName = name + " (Deleted)"
	return msg
}

func (n *Normalizer) base(r *Record) Message {
	msg := Message{
		TS:             r.TS,
		AuthorID:       authorID(r.User),
		HasAttachments: r.Attachments > 0,
	}
	if t, ok := ParseTimestamp(r.TS); ok {
		msg.Time = t
	}
	msg.Text, msg.Content = displayText(r)
	return msg
}

// profileName prefers the embedded profile, then the roster.
func (n *Normalizer) profileName(r *Record) string {
	if r.HasProfile && r.Profile.RealName != "" {
		return r.Profile.RealName
	}
	return n.rosterName(r.User)
}

func (n *Normalizer) rosterName(id string) string {
	if id != "" && n.Names != nil {
		if name, ok := n.Names.RealName(id); ok && name != "" {
			return name
		}
	}
	return n.Unknown
}

func authorID(id string) string {
	if id == "" {
		return UnknownUserID
	}
	return id
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
