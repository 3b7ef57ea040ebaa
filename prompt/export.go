package prompt

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"promptvault/model"
)

// Encode renders an export document in the requested format. JSON is the
// canonical interchange form; CSV and TXT are one-way conveniences and are
// not importable.
func Encode(doc model.ExportDocument, format model.ExportFormat) ([]byte, error) {
	switch format {
	case model.ExportJSON:
		return json.MarshalIndent(doc, "", "  ")
	case model.ExportCSV:
		return encodeCSV(doc)
	case model.ExportTXT:
		return encodeTXT(doc), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %q", format)
	}
}

func encodeCSV(doc model.ExportDocument) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "title", "description", "category", "content", "tags", "favorite", "created", "lastUsed"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, p := range doc.Prompts {
		lastUsed := ""
		if p.LastUsed != nil {
			lastUsed = p.LastUsed.Format(time.RFC3339)
		}
		record := []string{
			p.ID,
			p.Title,
			p.Description,
			p.Category,
			p.Content,
			strings.Join(p.Tags, ";"),
			fmt.Sprintf("%t", p.Favorite),
			p.Created.Format(time.RFC3339),
			lastUsed,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeTXT(doc model.ExportDocument) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Prompt Library Export (%s)\n", doc.Exported.Format("2006-01-02"))
	fmt.Fprintf(&b, "%d prompts\n\n", len(doc.Prompts))

	for _, p := range doc.Prompts {
		b.WriteString("---\n")
		fmt.Fprintf(&b, "Title: %s\n", p.Title)
		if p.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", p.Description)
		}
		fmt.Fprintf(&b, "Folder: %s\n", p.Category)
		if len(p.Tags) > 0 {
			fmt.Fprintf(&b, "Tags: %s\n", strings.Join(p.Tags, ", "))
		}
		b.WriteString("\n")
		b.WriteString(p.Content)
		b.WriteString("\n\n")
	}
	return []byte(b.String())
}
