// Package csvimport maps rows of a baby tracker CSV export onto event
// candidates. Pure functions: a reader in, domain events out.
package csvimport

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/septivank/babybeat/internal/domain"
	"github.com/septivank/babybeat/tools/timeparser"
)

// Row types found in the export
const (
	RowBottle        = "bottlefeeding"
	RowBreastfeeding = "breastfeeding"
	RowDiaper        = "diaper"
	RowSleep         = "sleep"
)

var requiredColumns = []string{"type", "data", "startTime"}

// Record is one data row of the export. Line is the 1-based line number in
// the file, header included.
type Record struct {
	Line      int
	Type      string
	Data      string
	Note      string
	StartTime string
	EndTime   string
}

// Parse reads every record of an export with a header row. Columns are
// matched by name so their order does not matter.
func Parse(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable column count

	index, err := readHeader(reader, requiredColumns)
	if err != nil || index == nil {
		return nil, err
	}
	field := index.field

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}

		records = append(records, Record{
			Line:      line,
			Type:      field(row, "type"),
			Data:      field(row, "data"),
			Note:      field(row, "note"),
			StartTime: field(row, "startTime"),
			EndTime:   field(row, "endTime"),
		})
	}

	return records, nil
}

type bottleData struct {
	AmountMetric *float64 `json:"amountMetric"`
}

type sideData struct {
	Duration float64 `json:"duration"`
}

type breastfeedingData struct {
	Left  *sideData `json:"left"`
	Right *sideData `json:"right"`
}

type diaperData struct {
	Types []string `json:"types"`
}

type sleepData struct {
	Location string `json:"location"`
}

// Map converts a record into an event candidate. The candidate is not
// validated; the event service does that when it is created.
func Map(rec Record) (domain.Event, error) {
	ts, err := timeparser.ParseInstant(rec.StartTime)
	if err != nil {
		return domain.Event{}, fmt.Errorf("line %d: startTime: %w", rec.Line, err)
	}
	end, err := timeparser.ParseOptionalInstant(rec.EndTime)
	if err != nil {
		return domain.Event{}, fmt.Errorf("line %d: endTime: %w", rec.Line, err)
	}

	ev := domain.Event{Timestamp: ts, EndTime: end}

	switch rec.Type {
	case RowBottle:
		var data bottleData
		if err := decode(rec, &data); err != nil {
			return domain.Event{}, err
		}
		if data.AmountMetric == nil {
			return domain.Event{}, fmt.Errorf("line %d: bottle row without amountMetric", rec.Line)
		}
		amount := math.Round(*data.AmountMetric)
		feedType := domain.FeedTypeBottle
		ev.Type = domain.EventTypeFeed
		ev.FeedType = &feedType
		ev.Amount = &amount

	case RowBreastfeeding:
		var data breastfeedingData
		if err := decode(rec, &data); err != nil {
			return domain.Event{}, err
		}
		left, right := minutes(data.Left), minutes(data.Right)
		feedType := domain.FeedTypeBreastfeeding
		ev.Type = domain.EventTypeFeed
		ev.FeedType = &feedType
		ev.LeftDuration = &left
		ev.RightDuration = &right

	case RowDiaper:
		var data diaperData
		if err := decode(rec, &data); err != nil {
			return domain.Event{}, err
		}
		// the export has no combined type, so anything with poo is dirty
		diaperType := domain.DiaperTypeDirty
		if slices.Contains(data.Types, "pee") && !slices.Contains(data.Types, "poo") {
			diaperType = domain.DiaperTypeWet
		}
		ev.Type = domain.EventTypeDiaper
		ev.DiaperType = &diaperType

	case RowSleep:
		var data sleepData
		if rec.Data != "" {
			if err := decode(rec, &data); err != nil {
				return domain.Event{}, err
			}
		}
		location := domain.SleepLocationBassinet
		if data.Location != "" {
			location = domain.SleepLocation(strings.ToLower(data.Location))
		}
		ev.Type = domain.EventTypeSleep
		ev.SleepLocation = &location

	default:
		return domain.Event{}, fmt.Errorf("line %d: unknown event type: %s", rec.Line, rec.Type)
	}

	return ev, nil
}

// columns maps header names to their position
type columns map[string]int

func (c columns) field(row []string, col string) string {
	i, ok := c[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// readHeader consumes the header row. A nil index with a nil error means
// the input was empty.
func readHeader(reader *csv.Reader, required []string) (columns, error) {
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(columns, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}
	return index, nil
}

func decode(rec Record, dst interface{}) error {
	if err := json.Unmarshal([]byte(rec.Data), dst); err != nil {
		return fmt.Errorf("line %d: invalid %s data: %w", rec.Line, rec.Type, err)
	}
	return nil
}

// minutes converts a side's duration in seconds to whole minutes; an absent
// side counts as zero
func minutes(side *sideData) int {
	if side == nil {
		return 0
	}
	return int(math.Round(side.Duration / 60))
}
