package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Placeholder texts used when a record has no usable body.
const (
	NoText          = "[No Text]"
	FilePosted      = "posted a file or image."
	ExtractError    = "[Error Extracting Text]"
	AttachmentsNote = "This message has attachments."
)

type node struct {
	Type     string          `json:"type"`
	Elements json.RawMessage `json:"elements"`
}

type leaf struct {
	Type string `json:"type"`
	Text string `json:"text"`
	URL  string `json:"url"`
}

// richText walks rich_text blocks and concatenates the leaves of every
// rich_text_section. Text leaves contribute their text, every other leaf its url.
func richText(raw json.RawMessage) (string, error) {
	var blocks []node
	if err := decodeList(raw, &blocks); err != nil {
		return "", fmt.Errorf("decode blocks: %w", err)
	}

	var b strings.Builder
	for _, blk := range blocks {
		if blk.Type != "rich_text" {
			continue
		}
		var sections []node
		if err := decodeList(blk.Elements, &sections); err != nil {
			return "", fmt.Errorf("decode rich_text elements: %w", err)
		}
		for _, sec := range sections {
			if sec.Type != "rich_text_section" {
				continue
			}
			var leaves []leaf
			if err := decodeList(sec.Elements, &leaves); err != nil {
				return "", fmt.Errorf("decode section elements: %w", err)
			}
			for _, l := range leaves {
				if l.Type == "text" {
					b.WriteString(l.Text)
				} else {
					b.WriteString(l.URL)
				}
			}
		}
	}
	return b.String(), nil
}

// decodeList decodes a JSON array, treating an absent or null value as empty.
func decodeList(raw json.RawMessage, v any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return json.Unmarshal(trimmed, v)
}

// ExtractText returns the body of a record: rich-text blocks first, then the
// flat text field. The error reports a malformed blocks structure.
func ExtractText(r *Record) (string, error) {
	if r == nil {
		return "", nil
	}
	text, err := richText(r.Blocks)
	if err != nil {
		return "", err
	}
	if text == "" {
		text = r.Text
	}
	return text, nil
}

// displayText applies the placeholder and attachment rules to a record body.
func displayText(r *Record) (display, content string) {
	text, err := ExtractText(r)
	if err != nil {
		return ExtractError, ""
	}
	content = text
	if text == "" {
		text = NoText
	}
	if r != nil && r.Attachments > 0 {
		text += "\n" + AttachmentsNote
	}
	return text, content
}
