package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/septivank/babybeat/internal/domain"
	"github.com/septivank/babybeat/tools/timeparser"
)

// LevelManual marks a session the parents logged by hand
const LevelManual = "manual"

var snooColumns = []string{"sessionId", "UTCTime", "level", "sinceSessionStart"}

var (
	hoursPattern   = regexp.MustCompile(`(\d+)h`)
	minutesPattern = regexp.MustCompile(`(\d+)m`)
)

// SnooSession is every row of a smart bassinet export sharing one sessionId.
// Level and SinceSessionStart come from the first row of the session.
type SnooSession struct {
	ID                string
	Line              int
	Level             string
	SinceSessionStart string
	Timestamps        []time.Time

	err error
}

// ParseSnoo groups the rows of a smart bassinet export by session, in order
// of first appearance. Rows without a sessionId are skipped.
func ParseSnoo(r io.Reader) ([]SnooSession, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	index, err := readHeader(reader, snooColumns)
	if err != nil || index == nil {
		return nil, err
	}

	var sessions []SnooSession
	byID := make(map[string]int)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		id := index.field(row, "sessionId")
		if id == "" {
			continue
		}

		i, ok := byID[id]
		if !ok {
			i = len(sessions)
			byID[id] = i
			sessions = append(sessions, SnooSession{
				ID:                id,
				Line:              line,
				Level:             index.field(row, "level"),
				SinceSessionStart: index.field(row, "sinceSessionStart"),
			})
		}

		s := &sessions[i]
		ts, err := timeparser.ParseInstant(index.field(row, "UTCTime"))
		if err != nil {
			if s.err == nil {
				s.err = fmt.Errorf("line %d: UTCTime: %w", line, err)
			}
			continue
		}
		s.Timestamps = append(s.Timestamps, ts)
	}

	return sessions, nil
}

// Event turns the session into a sleep candidate. Manual sessions were in
// the crib and last for their logged duration; the others were in the
// bassinet and end at the last recorded timestamp.
func (s SnooSession) Event() (domain.Event, error) {
	if s.err != nil {
		return domain.Event{}, fmt.Errorf("session %s: %w", s.ID, s.err)
	}
	if len(s.Timestamps) == 0 {
		return domain.Event{}, fmt.Errorf("session %s: no timestamps", s.ID)
	}

	timestamps := slices.Clone(s.Timestamps)
	slices.SortFunc(timestamps, func(a, b time.Time) int { return a.Compare(b) })
	start := timestamps[0]

	location := domain.SleepLocationBassinet
	end := timestamps[len(timestamps)-1]
	if strings.EqualFold(s.Level, LevelManual) {
		location = domain.SleepLocationCrib
		end = start.Add(time.Duration(ParseDuration(s.SinceSessionStart)) * time.Minute)
	}

	return domain.Event{
		Type:          domain.EventTypeSleep,
		Timestamp:     start,
		EndTime:       &end,
		SleepLocation: &location,
	}, nil
}

// ParseDuration reads durations like "1h25m", "40m" or "2h" as minutes.
// Anything it cannot read counts as zero.
func ParseDuration(s string) int {
	total := 0
	if m := hoursPattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		total += h * 60
	}
	if m := minutesPattern.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.Atoi(m[1])
		total += mins
	}
	return total
}
