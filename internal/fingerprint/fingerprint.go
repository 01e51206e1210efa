// Package fingerprint carries the ordered table of browser configurations
// a Randstorm scan walks, and the lazy (config, timestamp) permutation
// stream the dispatcher consumes.
package fingerprint

import "time"

// ScanMode selects the millisecond interval between successive timestamps
// in the permutation stream. The four values are a closed set fixed by the
// historical scanning tool this module continues; IntervalMs below carries
// their literal values.
type ScanMode int

const (
	Quick ScanMode = iota
	Standard
	Deep
	Exhaustive
)

// IntervalMs returns the millisecond spacing between timestamps for mode.
func (m ScanMode) IntervalMs() int64 {
	switch m {
	case Quick:
		return 126_000_000 // ~35 hours
	case Standard:
		return 3_600_000 // 1 hour
	case Deep:
		return 60_000 // 1 minute
	case Exhaustive:
		return 1_000 // 1 second
	default:
		return Standard.IntervalMs()
	}
}

func (m ScanMode) String() string {
	switch m {
	case Quick:
		return "quick"
	case Standard:
		return "standard"
	case Deep:
		return "deep"
	case Exhaustive:
		return "exhaustive"
	default:
		return "standard"
	}
}

// ParseScanMode parses the --scan-mode flag value; unrecognized values fall
// back to Standard, matching this module's CLI default.
func ParseScanMode(s string) ScanMode {
	switch s {
	case "quick":
		return Quick
	case "deep":
		return Deep
	case "exhaustive":
		return Exhaustive
	default:
		return Standard
	}
}

// DefaultWindowStartMs / DefaultWindowEndMs bound the historical Randstorm
// vulnerability window: 2011-06-01 through 2015-06-30.
var (
	DefaultWindowStartMs = time.Date(2011, 6, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	DefaultWindowEndMs   = time.Date(2015, 6, 30, 0, 0, 0, 0, time.UTC).UnixMilli()
)

// TimestampGenerator is a finite, single-pass, forward-only iterator over
// millisecond timestamps spaced by intervalMs. It is exclusively owned by
// the dispatcher loop that drives it and is restartable only by calling
// Reset or constructing a fresh one.
type TimestampGenerator struct {
	startMs, endMs, intervalMs, currentMs int64
}

// NewTimestampGenerator builds a linear-range generator over [startMs, endMs).
func NewTimestampGenerator(startMs, endMs, intervalMs int64) *TimestampGenerator {
	return &TimestampGenerator{startMs: startMs, endMs: endMs, intervalMs: intervalMs, currentMs: startMs}
}

// NewSpiralTimestampGenerator centres the window on targetMs and fans
// outwards to cover targetMs ± windowMs/2 — used when intelligence suggests
// a probable wallet-creation moment rather than a blind sweep.
func NewSpiralTimestampGenerator(targetMs, windowMs, intervalMs int64) *TimestampGenerator {
	half := windowMs / 2
	return NewTimestampGenerator(targetMs-half, targetMs+half, intervalMs)
}

// Reset rewinds the generator to its start; the only supported restart path.
func (g *TimestampGenerator) Reset() {
	g.currentMs = g.startMs
}

// Next returns the next timestamp and true, or (0, false) once exhausted.
func (g *TimestampGenerator) Next() (int64, bool) {
	if g.currentMs >= g.endMs {
		return 0, false
	}
	ts := g.currentMs
	g.currentMs += g.intervalMs
	return ts, true
}

// Len reports the total number of timestamps this generator will produce,
// without consuming it — used up-front so the progress layer can estimate
// an ETA.
func (g *TimestampGenerator) Len() int64 {
	if g.endMs <= g.startMs || g.intervalMs <= 0 {
		return 0
	}
	return (g.endMs-g.startMs+g.intervalMs-1) / g.intervalMs
}

// BrowserConfig is a row of the fingerprint database. Beyond the fields
// spec.md names for SeedComponents, it carries a priority rank, an
// estimated market share, and a validity year range — enrichments present
// in the scanner this module continues, used to prioritize high-share
// fingerprints first and to skip fingerprints outside their browser's
// shipping years for a given scan timestamp.
type BrowserConfig struct {
	Priority             uint32
	UserAgent            string
	ScreenWidth          uint32
	ScreenHeight         uint32
	ColorDepth           uint8
	TimezoneOffsetMin    int16
	Language             string
	Platform             string
	MarketShareEstimate  float64
	YearMin, YearMax     uint16
}

// CoversYear reports whether year falls within this config's shipping
// range — used to skip implausible fingerprint/timestamp combinations.
func (c BrowserConfig) CoversYear(year int) bool {
	return year >= int(c.YearMin) && year <= int(c.YearMax)
}

// Fingerprint pairs a BrowserConfig with the timestamp the dispatcher is
// currently scanning it against — the SeedComponents consumed by C1.
type Fingerprint struct {
	Config      BrowserConfig
	TimestampMs int64
}

// Phase selects how much of the fingerprint database a scan walks.
type Phase int

const (
	PhaseOne   Phase = iota // top 100 by market share
	PhaseTwo                // top 500
	PhaseThree              // all configs
)

// Database is the ordered, market-share-sorted table of browser
// configurations.
type Database struct {
	configs []BrowserConfig
}

// NewDatabase loads the embedded comprehensive fingerprint table.
func NewDatabase() *Database {
	return &Database{configs: comprehensiveConfigs()}
}

// NewPhaseOneDatabase loads only the curated top-100 table (a faster,
// narrower default for a first scanning pass).
func NewPhaseOneDatabase() *Database {
	all := comprehensiveConfigs()
	if len(all) > 100 {
		all = all[:100]
	}
	return &Database{configs: all}
}

// Len reports the total number of configs.
func (d *Database) Len() int { return len(d.configs) }

// IsEmpty reports whether the database has no rows.
func (d *Database) IsEmpty() bool { return len(d.configs) == 0 }

// ConfigsForPhase slices the table for phase.
func (d *Database) ConfigsForPhase(phase Phase) []BrowserConfig {
	n := len(d.configs)
	switch phase {
	case PhaseOne:
		if n > 100 {
			n = 100
		}
	case PhaseTwo:
		if n > 500 {
			n = 500
		}
	case PhaseThree:
		// all
	}
	return d.configs[:n]
}

// CumulativeMarketShare sums the market-share estimate of the top n
// configs (by current ordering, which is market-share descending).
func (d *Database) CumulativeMarketShare(n int) float64 {
	if n > len(d.configs) {
		n = len(d.configs)
	}
	var total float64
	for _, c := range d.configs[:n] {
		total += c.MarketShareEstimate
	}
	return total
}

// Stream builds the permutation stream for phase over [startMs, endMs)
// spaced by intervalMs: configs outermost, timestamps innermost — every
// timestamp for config k is emitted before any timestamp for config k+1.
type Stream struct {
	configs             []BrowserConfig
	startMs, endMs, step int64
	configIdx            int
	gen                  *TimestampGenerator
}

// NewStream constructs a fresh single-pass stream. Restartable only by
// constructing a new Stream.
func NewStream(configs []BrowserConfig, startMs, endMs, intervalMs int64) *Stream {
	s := &Stream{configs: configs, startMs: startMs, endMs: endMs, step: intervalMs}
	if len(configs) > 0 {
		s.gen = NewTimestampGenerator(startMs, endMs, intervalMs)
	}
	return s
}

// Next returns the next fingerprint in the stream, or (Fingerprint{}, false)
// once exhausted.
func (s *Stream) Next() (Fingerprint, bool) {
	for s.configIdx < len(s.configs) {
		ts, ok := s.gen.Next()
		if ok {
			return Fingerprint{Config: s.configs[s.configIdx], TimestampMs: ts}, true
		}
		s.configIdx++
		if s.configIdx < len(s.configs) {
			s.gen = NewTimestampGenerator(s.startMs, s.endMs, s.step)
		}
	}
	return Fingerprint{}, false
}

// Len reports the total length of the stream up front: timestamps-per-config
// times config count.
func (s *Stream) Len() int64 {
	if len(s.configs) == 0 {
		return 0
	}
	perConfig := NewTimestampGenerator(s.startMs, s.endMs, s.step).Len()
	return perConfig * int64(len(s.configs))
}

// NextBatch fills up to n fingerprints from the stream, returning fewer at
// the end of the stream.
func (s *Stream) NextBatch(n int) []Fingerprint {
	out := make([]Fingerprint, 0, n)
	for i := 0; i < n; i++ {
		fp, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, fp)
	}
	return out
}
