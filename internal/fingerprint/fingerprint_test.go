package fingerprint

import "testing"

// 24 hours at 1-hour spacing is 24 timestamps, ported from the original
// scanner's own timestamp-generator test.
func TestTimestampGeneratorIteration(t *testing.T) {
	startMs := int64(1306886400000) // 2011-06-01 00:00:00 UTC
	endMs := startMs + 24*3600*1000
	intervalMs := int64(3600000)

	gen := NewTimestampGenerator(startMs, endMs, intervalMs)
	var timestamps []int64
	for {
		ts, ok := gen.Next()
		if !ok {
			break
		}
		timestamps = append(timestamps, ts)
	}

	if len(timestamps) != 24 {
		t.Fatalf("got %d timestamps, want 24", len(timestamps))
	}
	if timestamps[0] != startMs {
		t.Errorf("first timestamp = %d, want %d", timestamps[0], startMs)
	}
	if timestamps[23] != startMs+23*intervalMs {
		t.Errorf("last timestamp = %d, want %d", timestamps[23], startMs+23*intervalMs)
	}
}

func TestVulnerableWindowCoverage(t *testing.T) {
	gen := NewTimestampGenerator(DefaultWindowStartMs, DefaultWindowEndMs, Standard.IntervalMs())
	count := int64(0)
	for {
		_, ok := gen.Next()
		if !ok {
			break
		}
		count++
	}
	if count < 35000 || count > 36000 {
		t.Errorf("count = %d, want ~35K hourly timestamps over the ~4-year window", count)
	}
}

func TestScanModeIntervals(t *testing.T) {
	cases := []struct {
		mode ScanMode
		want int64
	}{
		{Quick, 126_000_000},
		{Standard, 3_600_000},
		{Deep, 60_000},
		{Exhaustive, 1_000},
	}
	for _, c := range cases {
		if got := c.mode.IntervalMs(); got != c.want {
			t.Errorf("%s.IntervalMs() = %d, want %d", c.mode, got, c.want)
		}
	}
}

func TestDatabaseLoadsComprehensive(t *testing.T) {
	db := NewDatabase()
	if db.IsEmpty() {
		t.Fatal("comprehensive database is empty")
	}
	if db.Len() != 246 {
		t.Errorf("db.Len() = %d, want 246", db.Len())
	}
}

func TestPhaseOneDatabaseIsTop100(t *testing.T) {
	db := NewPhaseOneDatabase()
	if db.Len() != 100 {
		t.Errorf("phase-one database length = %d, want 100", db.Len())
	}
}

func TestPhaseLimits(t *testing.T) {
	base := BrowserConfig{Priority: 1, UserAgent: "Test", ScreenWidth: 1366, ScreenHeight: 768,
		ColorDepth: 24, TimezoneOffsetMin: -300, Language: "en-US", Platform: "Win32",
		MarketShareEstimate: 0.1, YearMin: 2011, YearMax: 2015}

	configs := make([]BrowserConfig, 150)
	for i := range configs {
		configs[i] = base
	}
	db := &Database{configs: configs}

	if got := len(db.ConfigsForPhase(PhaseOne)); got != 100 {
		t.Errorf("PhaseOne len = %d, want 100", got)
	}
	if got := len(db.ConfigsForPhase(PhaseTwo)); got != 150 {
		t.Errorf("PhaseTwo len = %d, want 150", got)
	}
	if got := len(db.ConfigsForPhase(PhaseThree)); got != 150 {
		t.Errorf("PhaseThree len = %d, want 150", got)
	}
}

func TestLanguageCoverage(t *testing.T) {
	db := NewDatabase()
	var hasZh, hasJa, hasDe, hasEs bool
	for _, c := range db.configs {
		switch c.Language {
		case "zh-CN":
			hasZh = true
		case "ja-JP":
			hasJa = true
		case "de-DE":
			hasDe = true
		case "es-ES":
			hasEs = true
		}
	}
	if !hasZh || !hasJa || !hasDe || !hasEs {
		t.Errorf("missing language coverage: zh=%v ja=%v de=%v es=%v", hasZh, hasJa, hasDe, hasEs)
	}
}

func TestStreamOrderingConfigsOutermost(t *testing.T) {
	configs := []BrowserConfig{{UserAgent: "A"}, {UserAgent: "B"}}
	s := NewStream(configs, 0, 3000, 1000)

	var seen []string
	for {
		fp, ok := s.Next()
		if !ok {
			break
		}
		seen = append(seen, fp.Config.UserAgent)
	}

	want := []string{"A", "A", "A", "B", "B", "B"}
	if len(seen) != len(want) {
		t.Fatalf("got %d fingerprints, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("position %d = %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestStreamLenMatchesActualCount(t *testing.T) {
	configs := []BrowserConfig{{UserAgent: "A"}, {UserAgent: "B"}, {UserAgent: "C"}}
	s := NewStream(configs, 0, 5000, 1000)
	reportedLen := s.Len()

	var actual int64
	for {
		_, ok := s.Next()
		if !ok {
			break
		}
		actual++
	}
	if actual != reportedLen {
		t.Errorf("Len() reported %d, actual stream produced %d", reportedLen, actual)
	}
}
