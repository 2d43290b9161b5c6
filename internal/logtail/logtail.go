package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Record is one parsed slog JSON line.
type Record struct {
	Time    time.Time
	Level   string // DEBUG, INFO, WARN, ERROR; empty for unparsed lines
	Message string
	Attrs   []Attr // sorted by key
	Raw     string
}

// Attr is a key/value pair rendered as text.
type Attr struct {
	Key   string
	Value string
}

// Parse decodes a slog JSON line. Lines that are not JSON objects come back
// with only Message and Raw set.
func Parse(line string) Record {
	rec := Record{Message: line, Raw: line}
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return rec
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return rec
	}

	if v, ok := fields["time"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			rec.Time = t
		}
	}
	if v, ok := fields["level"].(string); ok {
		rec.Level = strings.ToUpper(v)
	}
	if v, ok := fields["msg"].(string); ok {
		rec.Message = v
	}
	for key, value := range fields {
		switch key {
		case "time", "level", "msg":
			continue
		}
		rec.Attrs = append(rec.Attrs, Attr{Key: key, Value: formatValue(value)})
	}
	sort.Slice(rec.Attrs, func(i, j int) bool { return rec.Attrs[i].Key < rec.Attrs[j].Key })
	return rec
}

// ReadRecords tails path and parses each line.
func ReadRecords(path string, maxLines int) ([]Record, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, Parse(line))
	}
	return records, nil
}

// AtLeast reports whether the record's level is at or above min. Unparsed
// lines always pass.
func (r Record) AtLeast(min string) bool {
	if r.Level == "" {
		return true
	}
	return levelRank(r.Level) >= levelRank(strings.ToUpper(min))
}

func levelRank(level string) int {
	switch {
	case strings.HasPrefix(level, "DEBUG"):
		return 0
	case strings.HasPrefix(level, "WARN"):
		return 2
	case strings.HasPrefix(level, "ERROR"):
		return 3
	default:
		return 1
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case nil:
		return "null"
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}
