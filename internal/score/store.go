package score

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"git.lost.host/meutraa/frets/internal/game"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store keeps the results of finished sessions
type Store interface {
	Init() error
	Deinit()

	// Save the result of a session played on the chart
	Save(chart *game.Chart, result *Result) error

	// Load every previous result for the chart, oldest first
	Load(chart *game.Chart) ([]Result, error)

	// Best is the highest scoring result for the chart, nil if there is none
	Best(chart *game.Chart) (*Result, error)
}

type Result struct {
	ID       uuid.UUID
	Sum      string
	Song     string
	Score    float64
	MaxCombo int
	Currency int
	Stats    game.AccuracyStats
	Failed   bool
	Inputs   []game.Input
	PlayedAt time.Time
}

type DefaultStore struct {
	Path string
	db   *sql.DB
}

type InputsCompact struct {
	Lane     game.Lane
	Times    []float64
	Releases []float64
}

func compactInputs(inputs []game.Input) []InputsCompact {
	laneCount := 0
	for _, i := range inputs {
		if int(i.Lane) >= laneCount {
			laneCount = int(i.Lane) + 1
		}
	}
	ins := make([]InputsCompact, laneCount)
	for idx := range ins {
		ins[idx] = InputsCompact{Lane: game.Lane(idx), Times: []float64{}, Releases: []float64{}}
	}
	for _, i := range inputs {
		if i.Release {
			ins[i.Lane].Releases = append(ins[i.Lane].Releases, i.Time)
		} else {
			ins[i.Lane].Times = append(ins[i.Lane].Times, i.Time)
		}
	}
	return ins
}

func uncompactInputs(inputs []InputsCompact) []game.Input {
	ins := []game.Input{}
	for _, i := range inputs {
		for _, t := range i.Times {
			ins = append(ins, game.Input{Lane: i.Lane, Time: t})
		}
		for _, t := range i.Releases {
			ins = append(ins, game.Input{Lane: i.Lane, Time: t, Release: true})
		}
	}
	sort.SliceStable(ins, func(a, b int) bool { return ins[a].Time < ins[b].Time })
	return ins
}

func (s *DefaultStore) Init() error {
	path := s.Path
	if path == "" {
		path = "./scores.db"
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("unable to open score database: %w", err)
	}

	initStatement := `
	create table if not exists scores 
	  (
		  id text not null primary key, 
		  sum text,
		  song text,
		  score real,
		  max_combo integer,
		  currency integer,
		  stats text,
		  failed integer,
		  inputs bytearray,
		  played_at integer
	  );
	create index if not exists scores_sum on scores(sum);
	`
	_, err = db.Exec(initStatement)
	if nil != err {
		db.Close()
		return fmt.Errorf("unable to create score table: %w", err)
	}

	s.db = db
	return nil
}

func (s *DefaultStore) Deinit() {
	if nil != s.db {
		s.db.Close()
		s.db = nil
	}
}

// HashChart identifies a chart by its difficulty and note layout, so a renamed file keeps its scores
func HashChart(c *game.Chart) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\n", c.Difficulty.Section())
	for _, n := range c.Notes {
		fmt.Fprintf(h, "%d %.3f %.3f\n", n.Lane, n.Time, n.Sustain)
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func (s *DefaultStore) Save(c *game.Chart, result *Result) error {
	if nil == s.db {
		return fmt.Errorf("score database is not open")
	}
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	if result.PlayedAt.IsZero() {
		result.PlayedAt = time.Now()
	}
	result.Sum = HashChart(c)

	inputs, err := json.Marshal(compactInputs(result.Inputs))
	if nil != err {
		return fmt.Errorf("unable to marshal inputs: %w", err)
	}
	stats, err := json.Marshal(result.Stats)
	if nil != err {
		return fmt.Errorf("unable to marshal stats: %w", err)
	}

	_, err = s.db.Exec(
		"insert into scores(id, sum, song, score, max_combo, currency, stats, failed, inputs, played_at) values(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		result.ID.String(), result.Sum, result.Song, result.Score, result.MaxCombo, result.Currency,
		string(stats), result.Failed, inputs, result.PlayedAt.UnixMilli(),
	)
	if nil != err {
		return fmt.Errorf("unable to save score: %w", err)
	}
	return nil
}

func (s *DefaultStore) query(q string, args ...any) ([]Result, error) {
	if nil == s.db {
		return nil, fmt.Errorf("score database is not open")
	}
	rows, err := s.db.Query(q, args...)
	if nil != err {
		return nil, fmt.Errorf("unable to load scores: %w", err)
	}
	defer rows.Close()

	results := []Result{}
	for rows.Next() {
		var r Result
		var id, stats string
		var inputs []byte
		var playedAt int64
		err := rows.Scan(&id, &r.Sum, &r.Song, &r.Score, &r.MaxCombo, &r.Currency, &stats, &r.Failed, &inputs, &playedAt)
		if nil != err {
			return nil, fmt.Errorf("unable to read score: %w", err)
		}
		if r.ID, err = uuid.Parse(id); nil != err {
			return nil, fmt.Errorf("bad score id %q: %w", id, err)
		}
		if err := json.Unmarshal([]byte(stats), &r.Stats); nil != err {
			return nil, fmt.Errorf("unable to unmarshal stats: %w", err)
		}
		var compact []InputsCompact
		if err := json.Unmarshal(inputs, &compact); nil != err {
			return nil, fmt.Errorf("unable to unmarshal input history: %w", err)
		}
		r.Inputs = uncompactInputs(compact)
		r.PlayedAt = time.UnixMilli(playedAt)
		results = append(results, r)
	}
	return results, rows.Err()
}

const columns = "id, sum, song, score, max_combo, currency, stats, failed, inputs, played_at"

func (s *DefaultStore) Load(c *game.Chart) ([]Result, error) {
	return s.query("select "+columns+" from scores where sum = ? order by played_at, rowid", HashChart(c))
}

func (s *DefaultStore) Best(c *game.Chart) (*Result, error) {
	results, err := s.query("select "+columns+" from scores where sum = ? and failed = 0 order by score desc limit 1", HashChart(c))
	if nil != err || len(results) == 0 {
		return nil, err
	}
	return &results[0], nil
}
