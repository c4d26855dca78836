package parser

import (
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"git.lost.host/meutraa/frets/internal/game"
	"git.lost.host/meutraa/frets/internal/logger"
	"git.lost.host/meutraa/frets/internal/timing"
	"github.com/sirupsen/logrus"
)

var (
	headerPattern    = regexp.MustCompile(`^\[([^\]]+)\]$`)
	metaPattern      = regexp.MustCompile(`^(\w+)\s*=\s*"?([^"]*?)"?$`)
	tempoPattern     = regexp.MustCompile(`^(\d+)\s*=\s*B\s+(\d+)$`)
	signaturePattern = regexp.MustCompile(`^(\d+)\s*=\s*TS\s+(\d+)(?:\s+(\d+))?$`)
	sectionPattern   = regexp.MustCompile(`^(\d+)\s*=\s*E\s+"section\s+([^"]+)"$`)
	notePattern      = regexp.MustCompile(`^(\d+)\s*=\s*N\s+(\d+)\s+(\d+)$`)
)

// Metadata for charts that do not name themselves
const (
	UnknownSong   = "Unknown Song"
	UnknownArtist = "Unknown Artist"
)

type DefaultParser struct{}

// Everything in the chart that is still measured in ticks
type rawNote struct {
	tick   int64
	index  int
	length int64
}

type rawSignature struct {
	tick        int64
	numerator   int
	denominator int
}

type rawSection struct {
	tick int64
	name string
}

type document struct {
	metadata   game.Metadata
	tempos     []timing.TempoEvent
	signatures []rawSignature
	sections   []rawSection
	tracks     map[game.Difficulty][]rawNote
}

func (p *DefaultParser) Parse(file string, difficulty game.Difficulty) (*game.Chart, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, &ParseError{Path: file, Err: err}
	}
	return p.DecodeString(string(data), difficulty), nil
}

func (p *DefaultParser) Decode(r io.Reader, difficulty game.Difficulty) (*game.Chart, error) {
	data, err := io.ReadAll(r)
	if nil != err {
		return nil, &ParseError{Err: err}
	}
	return p.DecodeString(string(data), difficulty), nil
}

// DecodeString never fails, lines it does not understand are skipped
func (p *DefaultParser) DecodeString(text string, difficulty game.Difficulty) *game.Chart {
	log := logger.GetProjectLogger()

	text = strings.TrimPrefix(text, "\ufeff")
	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")

	// First pass, which difficulties exist at all
	available := availableDifficulties(lines)
	target := difficulty
	if !contains(available, difficulty) && len(available) > 0 {
		target = available[0]
		log.WithFields(logrus.Fields{"requested": difficulty, "using": target}).
			Info("requested difficulty not in chart")
	}

	// Second pass collects ticks only, times need the complete tempo table
	doc := readDocument(lines)
	resolution := timing.Resolution(doc.metadata.Resolution)
	doc.metadata.Resolution = resolution
	tempos := timing.BuildTempoTable(doc.tempos, resolution)

	notes := doc.notes(target, tempos, resolution)
	if len(notes) == 0 {
		log.WithField("difficulty", target).Warn("no notes parsed, trying other difficulties")
		for _, d := range game.Difficulties {
			if notes = doc.notes(d, tempos, resolution); len(notes) > 0 {
				target = d
				break
			}
		}
	}

	chart := &game.Chart{
		Metadata:       doc.metadata,
		Tempos:         tempos,
		TimeSignatures: doc.timeSignatures(tempos, resolution),
		Sections:       doc.sectionMarkers(tempos, resolution),
		Notes:          notes,
		Difficulty:     target,
		Available:      available,
		NoteCount:      len(notes),
	}
	for _, n := range notes {
		if n.Sustainable() {
			chart.HoldCount++
		}
	}

	log.WithFields(logrus.Fields{
		"name":       chart.Metadata.Name,
		"difficulty": chart.Difficulty,
		"notes":      chart.NoteCount,
		"holds":      chart.HoldCount,
		"tempos":     len(chart.Tempos),
		"sections":   len(chart.Sections),
	}).Debug("parsed chart")

	return chart
}

func availableDifficulties(lines []string) []game.Difficulty {
	found := map[game.Difficulty]bool{}
	for _, line := range lines {
		m := headerPattern.FindStringSubmatch(strings.TrimSpace(line))
		if nil == m {
			continue
		}
		if d, ok := game.DifficultyFromSection(m[1]); ok {
			found[d] = true
		}
	}

	// Rank order, not file order
	available := []game.Difficulty{}
	for _, d := range game.Difficulties {
		if found[d] {
			available = append(available, d)
		}
	}
	return available
}

func readDocument(lines []string) *document {
	doc := &document{
		metadata: game.Metadata{
			Name:       UnknownSong,
			Artist:     UnknownArtist,
			Resolution: timing.DefaultResolution,
		},
		tracks: map[game.Difficulty][]rawNote{},
	}

	section := ""
	inBraces := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := headerPattern.FindStringSubmatch(line); nil != m {
			section = m[1]
			continue
		}
		if line == "{" {
			inBraces = true
			continue
		}
		if line == "}" {
			inBraces = false
			continue
		}
		if !inBraces {
			continue
		}

		switch section {
		case "Song":
			doc.readMetadata(line)
		case "SyncTrack":
			doc.readSync(line)
		case "Events":
			if m := sectionPattern.FindStringSubmatch(line); nil != m {
				doc.sections = append(doc.sections, rawSection{tick: atoi64(m[1]), name: m[2]})
			}
		default:
			d, ok := game.DifficultyFromSection(section)
			if !ok {
				continue
			}
			if m := notePattern.FindStringSubmatch(line); nil != m {
				doc.tracks[d] = append(doc.tracks[d], rawNote{
					tick:   atoi64(m[1]),
					index:  int(atoi64(m[2])),
					length: atoi64(m[3]),
				})
			}
		}
	}
	return doc
}

func (doc *document) readMetadata(line string) {
	m := metaPattern.FindStringSubmatch(line)
	if nil == m {
		return
	}
	key, value := m[1], strings.TrimSpace(m[2])
	switch key {
	case "Name":
		doc.metadata.Name = value
	case "Artist":
		doc.metadata.Artist = value
	case "Charter":
		doc.metadata.Charter = value
	case "Album":
		doc.metadata.Album = value
	case "Year":
		doc.metadata.Year = strings.TrimPrefix(value, ", ")
	case "Offset":
		if offset, err := strconv.ParseFloat(value, 64); nil == err {
			doc.metadata.Offset = offset
		}
	case "Resolution":
		if resolution, err := strconv.Atoi(value); nil == err {
			doc.metadata.Resolution = resolution
		}
	}
}

func (doc *document) readSync(line string) {
	if m := tempoPattern.FindStringSubmatch(line); nil != m {
		doc.tempos = append(doc.tempos, timing.TempoEvent{Tick: atoi64(m[1]), MilliBPM: atoi64(m[2])})
		return
	}
	if m := signaturePattern.FindStringSubmatch(line); nil != m {
		// The denominator is written as a power of two, quarter notes when absent
		exponent := int64(2)
		if m[3] != "" {
			exponent = atoi64(m[3])
		}
		if exponent > 6 {
			return
		}
		doc.signatures = append(doc.signatures, rawSignature{
			tick:        atoi64(m[1]),
			numerator:   int(atoi64(m[2])),
			denominator: 1 << exponent,
		})
	}
}

func (doc *document) notes(d game.Difficulty, tempos []game.TempoChange, resolution int) []*game.Note {
	raw := doc.tracks[d]
	notes := make([]*game.Note, 0, len(raw))
	for _, r := range raw {
		notes = append(notes, &game.Note{
			Lane:    game.LaneFromIndex(r.index),
			Tick:    r.tick,
			Time:    timing.TicksToMs(r.tick, tempos, resolution),
			Sustain: timing.SustainMs(r.tick, r.length, tempos, resolution),
		})
	}

	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Time != notes[j].Time {
			return notes[i].Time < notes[j].Time
		}
		return notes[i].Tick < notes[j].Tick
	})
	for i, n := range notes {
		n.ID = uint64(i + 1)
	}
	return notes
}

func (doc *document) sectionMarkers(tempos []game.TempoChange, resolution int) []game.Section {
	sections := make([]game.Section, 0, len(doc.sections))
	for _, s := range doc.sections {
		sections = append(sections, game.Section{
			Name: s.name,
			Time: timing.TicksToMs(s.tick, tempos, resolution),
		})
	}
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Time < sections[j].Time
	})
	return sections
}

func (doc *document) timeSignatures(tempos []game.TempoChange, resolution int) []game.TimeSignature {
	signatures := make([]game.TimeSignature, 0, len(doc.signatures))
	for _, s := range doc.signatures {
		signatures = append(signatures, game.TimeSignature{
			Tick:        s.tick,
			Numerator:   s.numerator,
			Denominator: s.denominator,
			Time:        timing.TicksToMs(s.tick, tempos, resolution),
		})
	}
	sort.SliceStable(signatures, func(i, j int) bool {
		return signatures[i].Tick < signatures[j].Tick
	})
	return signatures
}

func contains(ds []game.Difficulty, d game.Difficulty) bool {
	for _, a := range ds {
		if a == d {
			return true
		}
	}
	return false
}

// Only called on regexp digit groups, overflow is the only failure
func atoi64(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if nil != err {
		return 0
	}
	return v
}
