package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// reBlock matches one bracket-delimited record collection. Non-greedy so
// adjacent blocks in the stream are never merged into one span.
var reBlock = regexp.MustCompile(`(?s)\[.*?\]`)

// blockSchema is the structural gate for a parsed block: a non-empty
// list of objects. Field-level tolerance is handled by the normalizers,
// so the schema stays deliberately loose.
var blockSchema = jsonschema.MustCompileString("block.json", `{
	"type": "array",
	"minItems": 1,
	"items": {"type": "object"}
}`)

// Record is one key-value record inside a block. Element 0 of a block is
// the header record; the rest are item records.
type Record map[string]any

// ScanBlocks returns every bracket-delimited span in the raw stream, in
// order of appearance. Surrounding text (log lines, error markers,
// blanks) is ignored.
func ScanBlocks(text string) []string {
	return reBlock.FindAllString(text, -1)
}

// ParseBlock decodes one block span into its records and validates the
// structure. Malformed spans return an error; the caller skips them and
// keeps going.
func ParseBlock(span string) ([]Record, error) {
	var v any
	if err := json.Unmarshal([]byte(span), &v); err != nil {
		return nil, fmt.Errorf("decode block: %w", err)
	}
	if err := blockSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("block shape: %w", err)
	}

	list := v.([]any)
	records := make([]Record, 0, len(list))
	for _, el := range list {
		records = append(records, Record(el.(map[string]any)))
	}
	return records, nil
}

// Str reads a record field as a trimmed string; missing or non-string
// values come back empty.
func (r Record) Str(key string) string {
	if v, ok := r[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
