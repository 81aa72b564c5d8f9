package source

import (
	"crypto/sha1" //nolint:gosec // Stable row keys, not a security boundary.
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/meetingcontext-mcp/pkg/types"
)

// transcriptColumns are the CSV columns that can carry a transcript.
// content_clean is preferred when both are present and non-empty.
var transcriptColumns = []string{"content_clean", "content"}

// dateColumns are checked in priority order when deriving a meeting date.
var dateColumns = []string{
	"date_ymd",
	"date",
	"createdTime",
	"created_time",
	"created_at",
	"start_time",
	"startTime",
	"meeting_date",
}

var (
	numericDatePattern = regexp.MustCompile(`(\d{4})[./-](\d{1,2})[./-](\d{1,2})`)
	koreanDatePattern  = regexp.MustCompile(`(\d{4})\s*년\s*(\d{1,2})\s*월\s*(\d{1,2})\s*일`)
)

// Discover finds candidate recordings CSV files. With an explicit input
// path it returns that file, or the sorted *.csv files of that directory.
// Without one it scans the working directory and its data/ subdirectory.
// Results are deduplicated by resolved path.
func Discover(inputPath string) ([]string, error) {
	var candidates []string

	if inputPath != "" {
		info, err := os.Stat(inputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to stat input path: %w", err)
		}
		if info.IsDir() {
			matches, err := filepath.Glob(filepath.Join(inputPath, "*.csv"))
			if err != nil {
				return nil, err
			}
			sort.Strings(matches)
			candidates = matches
		} else {
			candidates = []string{inputPath}
		}
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		for _, base := range []string{cwd, filepath.Join(cwd, "data")} {
			info, err := os.Stat(base)
			if err != nil || !info.IsDir() {
				continue
			}
			matches, err := filepath.Glob(filepath.Join(base, "*.csv"))
			if err != nil {
				return nil, err
			}
			sort.Strings(matches)
			candidates = append(candidates, matches...)
		}
	}

	seen := make(map[string]bool)
	unique := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		resolved, err := filepath.Abs(candidate)
		if err != nil {
			resolved = candidate
		}
		if seen[resolved] {
			continue
		}
		seen[resolved] = true
		unique = append(unique, candidate)
	}
	return unique, nil
}

// HasTranscriptColumns reports whether a CSV header carries a column the
// source can read a transcript from.
func HasTranscriptColumns(header []string) bool {
	for _, field := range header {
		name := strings.TrimSpace(field)
		for _, want := range transcriptColumns {
			if name == want {
				return true
			}
		}
	}
	return false
}

// ReadFile parses one recordings CSV into meeting records. Files without a
// transcript column yield no records and no error; rows without a
// transcript are skipped. Row indexes are 0-based data-row positions.
func ReadFile(path string) ([]types.MeetingRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // Tolerate ragged rows from spreadsheet exports

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if !HasTranscriptColumns(header) {
		return nil, nil
	}

	columns := make(map[string]int, len(header))
	for i, field := range header {
		columns[strings.TrimSpace(field)] = i
	}

	var records []types.MeetingRecord
	for rowIndex := 0; ; rowIndex++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", rowIndex, err)
		}

		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return row[idx]
		}

		transcript := SelectTranscript(field)
		if transcript == "" {
			continue
		}

		meetingName := strings.TrimSpace(field("name"))
		dateYMD := ExtractDateYMD(field, meetingName)

		records = append(records, types.MeetingRecord{
			MeetingKey:  MeetingKey(field("meeting_key"), meetingName, dateYMD, rowIndex),
			DateYMD:     dateYMD,
			MeetingName: meetingName,
			RowIndex:    rowIndex,
			Transcript:  transcript,
			SourceFile:  path,
		})
	}
	return records, nil
}

// ReadAll parses every discovered file in order, concatenating their
// records. Missing files are skipped silently, matching the discovery
// contract (a file may disappear between discovery and read).
func ReadAll(paths []string) ([]types.MeetingRecord, error) {
	var records []types.MeetingRecord
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		fileRecords, err := ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, fileRecords...)
	}
	return records, nil
}

// SelectTranscript picks the transcript value from a row accessor,
// preferring the cleaned column.
func SelectTranscript(field func(string) string) string {
	for _, column := range transcriptColumns {
		if value := field(column); value != "" {
			return value
		}
	}
	return ""
}

// ExtractDateYMD derives a YYYY-MM-DD date from the row's date columns,
// falling back to a date embedded in the meeting name. Returns "" when no
// recognizable date exists.
func ExtractDateYMD(field func(string) string, meetingName string) string {
	for _, column := range dateColumns {
		if value := field(column); value != "" {
			if date := NormalizeDateString(value); date != "" {
				return date
			}
		}
	}
	return NormalizeDateString(meetingName)
}

// NormalizeDateString extracts a YYYY-MM-DD date from a free-form value.
// Recognizes numeric forms (2026-02-03, 2026.2.3, 2026/02/03), the Korean
// form (2026년 2월 3일), and ISO timestamps. Returns "" when nothing
// matches.
func NormalizeDateString(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if len(value) > 50 {
		value = value[:50]
	}

	if m := numericDatePattern.FindStringSubmatch(value); m != nil {
		return formatYMD(m[1], m[2], m[3])
	}
	if m := koreanDatePattern.FindStringSubmatch(value); m != nil {
		return formatYMD(m[1], m[2], m[3])
	}
	if len(value) >= 10 && value[4] == '-' && value[7] == '-' {
		return value[:10]
	}
	return ""
}

func formatYMD(year, month, day string) string {
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	return fmt.Sprintf("%s-%02d-%02d", year, m, d)
}

// MeetingKey returns the explicit key from the row when present, otherwise
// a short stable digest of the meeting name, date, and row position.
func MeetingKey(explicit, meetingName, dateYMD string, rowIndex int) string {
	if explicit != "" {
		return explicit
	}
	payload := fmt.Sprintf("%s|%s|%d", meetingName, dateYMD, rowIndex)
	sum := sha1.Sum([]byte(payload)) //nolint:gosec // Stable key, not a security boundary.
	return hex.EncodeToString(sum[:])[:12]
}
