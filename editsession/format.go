package editsession

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"flipclerk/facet"
)

// ExportText renders entries in the tab-separated edit form handed to the
// external editor. The output is deterministic: identical input always
// produces byte-identical text.
func ExportText(entries []facet.EntryEdit) []byte {
	var b bytes.Buffer
	if len(entries) == 0 {
		b.WriteString("# flipclerk entries (none)\n")
	} else {
		fmt.Fprintf(&b, "# flipclerk entries %d..%d\n", entries[0].ID, entries[len(entries)-1].ID)
	}
	b.WriteString("# id\tfacet\tstart\tend\tdescription\n")

	for _, entry := range entries {
		fmt.Fprintf(&b, "%d\t%s\t%s\t%s\t%s\n",
			entry.ID,
			entry.Facet,
			entry.Start.UTC().Format(time.RFC3339),
			entry.End.UTC().Format(time.RFC3339),
			entry.Description,
		)
	}
	return b.Bytes()
}

// ParseText reads the edited form back. Blank lines and #-comments are
// ignored; every other line must carry at least id, facet, start and end
// separated by tabs. The description is everything after the fourth tab and
// may itself contain tabs.
func ParseText(data []byte) ([]facet.EntryEdit, error) {
	entries := make([]facet.EntryEdit, 0, 64)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}

		fields := strings.SplitN(line, "\t", 5)
		if len(fields) < 4 {
			return nil, fmt.Errorf("line %d: expected id, facet, start and end separated by tabs", lineno)
		}

		id, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid id %q: %w", lineno, fields[0], err)
		}
		start, err := time.Parse(time.RFC3339, strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid start time %q: %w", lineno, fields[2], err)
		}
		end, err := time.Parse(time.RFC3339, strings.TrimSpace(fields[3]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid end time %q: %w", lineno, fields[3], err)
		}

		entry := facet.EntryEdit{
			ID:    uint32(id),
			Facet: strings.TrimSpace(fields[1]),
			Start: start,
			End:   end,
		}
		if len(fields) == 5 {
			entry.Description = fields[4]
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read edited entries: %w", err)
	}

	return entries, nil
}
