package compiler

import (
	"strings"
	"testing"

	"github.com/louisbranch/obstacle-studio/internal/location"
	"github.com/louisbranch/obstacle-studio/internal/obstacle"
	apperrors "github.com/louisbranch/obstacle-studio/internal/platform/errors"
	"github.com/louisbranch/obstacle-studio/internal/refdata"
)

// Kinds from the embedded table.
const (
	scourge       = 47  // unit, sound on the explosion frame
	spiderMine    = 13  // unit, sound one frame early
	marine        = 0   // unit, no sound
	pylon         = 156 // wall unit
	medic         = 34  // teleport unit
	smallBoom     = 1332
	mediumBoom    = 1333
	recallField   = 1391
	smallBoomImg  = "332"
	mediumBoomImg = "333"
)

func testLocations(n int) []location.Location {
	rects := make([]location.Rect, n)
	for i := range rects {
		rects[i] = location.Rect{X: float64(64 * i), Width: 2, Height: 2}
	}
	return location.NamingPolicy{Prefix: "ob"}.Locations(rects)
}

func newCompiler(t *testing.T, mutate func(*Options)) *Compiler {
	t.Helper()
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	c, err := New(refdata.Default(), opts)
	if err != nil {
		t.Fatalf("new compiler: %v", err)
	}
	return c
}

func newStore(t *testing.T, timing obstacle.Timing, delays ...int) *obstacle.Store {
	t.Helper()
	s := obstacle.New(timing)
	for i, d := range delays {
		if i > 0 {
			if err := s.InsertCount(i + 1); err != nil {
				t.Fatalf("insert count: %v", err)
			}
		}
		if err := s.SetDelay(i+1, d); err != nil {
			t.Fatalf("set delay: %v", err)
		}
	}
	return s
}

// actions returns the action lines of a block.
func actions(block string) []string {
	start := strings.Index(block, "\nActions:\n") + len("\nActions:\n")
	end := strings.LastIndex(block, "}\n\n")
	lines := strings.SplitAfter(block[start:end], "\n")
	return lines[:len(lines)-1]
}

func countPrefix(lines []string, prefix string) int {
	n := 0
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

func TestCompileSingleWaitCount(t *testing.T) {
	t.Parallel()

	c := newCompiler(t, nil)
	s := newStore(t, obstacle.Waits, 84)
	s.AddExplosion(1, 1, scourge, 1, location.Point{X: 64, Y: 32})

	got, err := c.Compile(testLocations(1), s, 3)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	want := "Trigger(\"Player 8\"){\n" +
		"Conditions:\n" +
		"\tDeaths(\"Player 8\", \"Cantina\", Exactly, 3);\n" +
		"\tDeaths(\"Player 8\", \"Cave\", Exactly, 1);\n" +
		"\n" +
		"Actions:\n" +
		"\tMemoryAddr(0x58dc60, Add, 32);\n" +
		"\tMemoryAddr(0x58dc68, Add, 32);\n" +
		"\tCreate Unit(\"Player 1\", \"Zerg Scourge\", 1, \"ob1\");\n" +
		"\tKill Unit At Location(\"All players\", \"Men\", All, \"ob1\");\n" +
		"\tMemoryAddr(0x58dc60, Subtract, 32);\n" +
		"\tMemoryAddr(0x58dc68, Subtract, 32);\n" +
		"\tWait(84);\n" +
		"\tPreserve Trigger();\n" +
		"\tComment(\"Ob 3 | Count 1\");\n" +
		"}\n" +
		"\n" +
		"//-----------------------------------------------------------------//"
	if got != want {
		t.Fatalf("compile =\n%s\nwant\n%s", got, want)
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	t.Parallel()

	c := newCompiler(t, nil)
	s := newStore(t, obstacle.Frames, 2, 1)
	for i := 0; i < 6; i++ {
		s.AddExplosion(1, 1, scourge, 1+i%2, location.Point{X: float64(16 * i), Y: float64(8 * (i % 3))})
	}
	first, err := c.Compile(testLocations(2), s, 1)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, _ := c.Compile(testLocations(2), s, 1)
		if again != first {
			t.Fatal("output changed between runs")
		}
	}
}

func TestPartitionCapacity(t *testing.T) {
	t.Parallel()

	center := location.Point{X: 32, Y: 32}
	tests := []struct {
		name       string
		comments   bool
		explosions int
		parts      []int // actions per block, excluding preserve and comment
	}{
		// n creates, one kill and the wait.
		{"fits without comments", false, 61, []int{63}},
		{"splits without comments", false, 62, []int{63, 1}},
		{"fits with comments", true, 60, []int{62}},
		{"splits with comments", true, 61, []int{62, 1}},
	}
	for _, tt := range tests {
		c := newCompiler(t, func(o *Options) { o.AddComments = tt.comments })
		s := newStore(t, obstacle.Waits, 0)
		for i := 0; i < tt.explosions; i++ {
			s.AddExplosion(1, 1, scourge, 1, center)
		}
		blocks, err := c.Blocks(testLocations(1), s, 1)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if len(blocks) != len(tt.parts) {
			t.Fatalf("%s: blocks = %d, want %d", tt.name, len(blocks), len(tt.parts))
		}
		for i, block := range blocks {
			lines := actions(block)
			extra := 1
			if tt.comments {
				extra = 2
			}
			if got := len(lines) - extra; got != tt.parts[i] {
				t.Fatalf("%s: block %d has %d actions, want %d", tt.name, i+1, got, tt.parts[i])
			}
			if countPrefix(lines, "\tPreserve Trigger();") != 1 {
				t.Fatalf("%s: block %d lacks Preserve Trigger", tt.name, i+1)
			}
		}
		if tt.comments && len(blocks) == 2 {
			if !strings.Contains(blocks[0], `Comment("Ob 1 | Count 1 | Part 1")`) ||
				!strings.Contains(blocks[1], `Comment("Ob 1 | Count 1 | Part 2")`) {
				t.Fatalf("%s: part comments missing:\n%s", tt.name, strings.Join(blocks, "\n"))
			}
		}
	}
}

func TestPartitionKeepsFramePairTogether(t *testing.T) {
	t.Parallel()

	c := newCompiler(t, func(o *Options) { o.AddComments = false })
	s := newStore(t, obstacle.Frames, 4)
	// 61 creates, one kill, two Set Deaths: 64 actions.
	for i := 0; i < 61; i++ {
		s.AddExplosion(1, 1, scourge, 1, location.Point{X: 32, Y: 32})
	}
	blocks, err := c.Blocks(testLocations(1), s, 1)
	if err != nil {
		t.Fatalf("blocks: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(blocks))
	}
	first, second := actions(blocks[0]), actions(blocks[1])
	if got := len(first) - 1; got != 62 {
		t.Fatalf("first block actions = %d, want 62", got)
	}
	if countPrefix(first, "\tSet Deaths(") != 0 || countPrefix(second, "\tSet Deaths(") != 2 {
		t.Fatalf("Set Deaths pair split:\n%s", blocks[1])
	}
	if !strings.Contains(blocks[1], `Set Deaths("Player 8", "Cave", Set to, 1);`) ||
		!strings.Contains(blocks[1], `Set Deaths("Player 8", "Cave-in", Set to, 4);`) {
		t.Fatalf("epilogue = %q", second)
	}
	for _, block := range blocks {
		if !strings.Contains(block, `Deaths("Player 8", "Cave-in", Exactly, 0);`) {
			t.Fatal("frame block without the delay condition")
		}
	}
}

func TestFrameEpilogueAdvancesCount(t *testing.T) {
	t.Parallel()

	c := newCompiler(t, nil)
	s := newStore(t, obstacle.Frames, 2, 5)
	blocks, err := c.Blocks(testLocations(1), s, 1)
	if err != nil {
		t.Fatalf("blocks: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want one per count", len(blocks))
	}
	if !strings.Contains(blocks[0], `Set Deaths("Player 8", "Cave", Set to, 2);`) ||
		!strings.Contains(blocks[0], `Set Deaths("Player 8", "Cave-in", Set to, 2);`) {
		t.Fatalf("count 1 = %s", blocks[0])
	}
	if !strings.Contains(blocks[1], `Set Deaths("Player 8", "Cave", Set to, 1);`) ||
		!strings.Contains(blocks[1], `Set Deaths("Player 8", "Cave-in", Set to, 5);`) {
		t.Fatalf("count 2 = %s", blocks[1])
	}
}

func TestAudioBlocks(t *testing.T) {
	t.Parallel()

	table := refdata.Default()
	marineUnit, _ := table.UnitIndex("Terran Marine")
	ghostUnit, _ := table.UnitIndex("Terran Ghost")

	tests := []struct {
		name      string
		delays    []int
		earlyWant string
	}{
		{
			name:      "previous count lasts one frame",
			delays:    []int{1, 3},
			earlyWant: "\tDeaths(\"Player 8\", \"Cave\", Exactly, 1);\n\tDeaths(\"Player 8\", \"Cave-in\", Exactly, 1);\n",
		},
		{
			name:      "previous count lasts longer",
			delays:    []int{2, 3},
			earlyWant: "\tDeaths(\"Player 8\", \"Cave\", Exactly, 2);\n\tDeaths(\"Player 8\", \"Cave-in\", Exactly, 2);\n",
		},
	}
	for _, tt := range tests {
		c := newCompiler(t, nil)
		s := newStore(t, obstacle.Frames, tt.delays...)
		s.AddExplosion(2, 1, spiderMine, 1, location.Point{X: 32, Y: 32})
		s.AddExplosion(2, 1, scourge, 1, location.Point{X: 32, Y: 32})
		s.AddAudio(2, spiderMine, ghostUnit)
		s.AddAudio(2, scourge, marineUnit)

		blocks, err := c.CompileCount(testLocations(1), s, 4, 2)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if len(blocks) != 3 {
			t.Fatalf("%s: blocks = %d, want audio, early audio, main", tt.name, len(blocks))
		}
		same, early := blocks[0], blocks[1]
		if !strings.Contains(same, "\tDeaths(\"Player 8\", \"Cave\", Exactly, 2);\n\tDeaths(\"Player 8\", \"Cave-in\", Exactly, 1);\n") {
			t.Fatalf("%s: same-frame conditions:\n%s", tt.name, same)
		}
		if !strings.Contains(same, `Set Deaths("Force 1", "Terran Marine", Set to, 1);`) {
			t.Fatalf("%s: same-frame actions:\n%s", tt.name, same)
		}
		if !strings.Contains(same, `Comment("Ob 4 | Count 2 Audio");`) {
			t.Fatalf("%s: audio comment:\n%s", tt.name, same)
		}
		if !strings.Contains(early, tt.earlyWant) {
			t.Fatalf("%s: early conditions:\n%s", tt.name, early)
		}
		if !strings.Contains(early, `Set Deaths("Force 1", "Terran Ghost", Set to, 1);`) {
			t.Fatalf("%s: early actions:\n%s", tt.name, early)
		}
		if !strings.Contains(blocks[2], "Exactly, 0);") {
			t.Fatalf("%s: main block should come last:\n%s", tt.name, blocks[2])
		}
	}
}

func TestAudioIgnoredInWaitTiming(t *testing.T) {
	t.Parallel()

	c := newCompiler(t, nil)
	s := newStore(t, obstacle.Waits, 42)
	s.AddExplosion(1, 1, scourge, 1, location.Point{X: 32, Y: 32})
	s.AddAudio(1, scourge, 0)
	blocks, err := c.Blocks(testLocations(1), s, 1)
	if err != nil {
		t.Fatalf("blocks: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(blocks))
	}
}

func TestSpriteExplosions(t *testing.T) {
	t.Parallel()

	c := newCompiler(t, func(o *Options) { o.AddComments = false })
	s := newStore(t, obstacle.Waits, 0)
	s.AddExplosion(1, 1, smallBoom, 1, location.Point{X: 0, Y: 0})
	s.AddExplosion(1, 1, smallBoom, 1, location.Point{X: 32, Y: 0})
	s.AddExplosion(1, 1, mediumBoom, 1, location.Point{X: 32, Y: 32})
	s.AddExplosion(1, 1, smallBoom, 2, location.Point{X: 32, Y: 32})

	blocks, err := c.Blocks(testLocations(2), s, 1)
	if err != nil {
		t.Fatalf("blocks: %v", err)
	}
	lines := actions(blocks[0])
	var writes []string
	for _, l := range lines {
		if strings.HasPrefix(l, "\tMasked MemoryAddr(") {
			writes = append(writes, l)
		}
	}
	want := []string{smallBoomImg, mediumBoomImg, smallBoomImg}
	if len(writes) != len(want) {
		t.Fatalf("image writes = %q, want %d", writes, len(want))
	}
	for i, w := range writes {
		if !strings.Contains(w, "Set To, "+want[i]+", 0xffff") {
			t.Fatalf("write %d = %q, want image %s", i, w, want[i])
		}
	}
	if got := countPrefix(lines, "\tCreate Unit(\"Player 1\", \"Scanner Sweep\", 1,"); got != 4 {
		t.Fatalf("scanner creates = %d, want 4", got)
	}
	if got := countPrefix(lines, "\tRemove Unit(\"All players\", \"Scanner Sweep\");"); got != 1 {
		t.Fatalf("scanner cleanup = %d, want 1", got)
	}
	if last := lines[len(lines)-3]; last != "\tRemove Unit(\"All players\", \"Scanner Sweep\");\n" {
		t.Fatalf("cleanup is not before the wait: %q", last)
	}
}

func TestRemoveUnitDeathType(t *testing.T) {
	t.Parallel()

	c := newCompiler(t, func(o *Options) {
		o.DeathType = RemoveUnit
		o.AddComments = false
	})
	s := newStore(t, obstacle.Waits, 0)
	s.AddExplosion(1, 2, scourge, 1, location.Point{X: 32, Y: 32})
	s.AddExplosion(1, 2, smallBoom, 1, location.Point{X: 32, Y: 32})

	blocks, err := c.Blocks(testLocations(1), s, 1)
	if err != nil {
		t.Fatalf("blocks: %v", err)
	}
	want := []string{
		"\tCreate Unit(\"Player 2\", \"Zerg Scourge\", 1, \"ob1\");\n",
		"\tKill Unit At Location(\"Player 2\", \"Zerg Scourge\", All, \"ob1\");\n",
		"\tMasked MemoryAddr(0x666458, Set To, 332, 0xffff);\n",
		"\tCreate Unit(\"Player 2\", \"Scanner Sweep\", 1, \"ob1\");\n",
		"\tRemove Unit At Location(\"Force 1\", \"Zerg Zergling\", All, \"ob1\");\n",
		"\tRemove Unit(\"All players\", \"Scanner Sweep\");\n",
		"\tWait(0);\n",
		"\tPreserve Trigger();\n",
	}
	got := actions(blocks[0])
	if strings.Join(got, "") != strings.Join(want, "") {
		t.Fatalf("actions =\n%s\nwant\n%s", strings.Join(got, ""), strings.Join(want, ""))
	}
}

func TestWallActions(t *testing.T) {
	t.Parallel()

	c := newCompiler(t, func(o *Options) { o.AddComments = false })
	s := newStore(t, obstacle.Waits, 0, 0)
	s.PlaceWall(1, 3, pylon, 1, location.Point{X: 48, Y: 32})
	s.PlaceWall(1, 3, pylon, 1, location.Point{X: 16, Y: 32})
	s.RemoveWall(2, pylon, obstacle.WallKill, 1, location.Point{X: 16, Y: 32})
	s.RemoveWall(2, pylon, obstacle.WallRemove, 1, location.Point{X: 48, Y: 32})

	blocks, err := c.Blocks(testLocations(1), s, 1)
	if err != nil {
		t.Fatalf("blocks: %v", err)
	}
	placed := strings.Join(actions(blocks[0]), "")
	wantPlaced := "\tMemoryAddr(0x58dc60, Subtract, 16);\n" +
		"\tMemoryAddr(0x58dc68, Subtract, 16);\n" +
		"\tCreate Unit with Properties(\"Player 3\", \"Protoss Pylon\", 1, \"ob1\", 3);\n" +
		"\tMemoryAddr(0x58dc60, Add, 32);\n" +
		"\tMemoryAddr(0x58dc68, Add, 32);\n" +
		"\tCreate Unit with Properties(\"Player 3\", \"Protoss Pylon\", 1, \"ob1\", 3);\n" +
		"\tMemoryAddr(0x58dc60, Subtract, 16);\n" +
		"\tMemoryAddr(0x58dc68, Subtract, 16);\n" +
		"\tWait(0);\n" +
		"\tPreserve Trigger();\n"
	if placed != wantPlaced {
		t.Fatalf("count 1 =\n%s\nwant\n%s", placed, wantPlaced)
	}
	removed := strings.Join(actions(blocks[1]), "")
	if !strings.Contains(removed, "\tKill Unit At Location(\"All players\", \"Protoss Pylon\", All, \"ob1\");\n") ||
		!strings.Contains(removed, "\tRemove Unit At Location(\"All players\", \"Protoss Pylon\", All, \"ob1\");\n") {
		t.Fatalf("count 2 =\n%s", removed)
	}
	if strings.Index(removed, "Kill Unit") > strings.Index(removed, "Remove Unit At") {
		t.Fatal("walls not ordered by x")
	}
}

func TestTeleportActions(t *testing.T) {
	t.Parallel()

	c := newCompiler(t, func(o *Options) { o.AddComments = false })
	s := newStore(t, obstacle.Waits, 0)
	s.AddTeleport(1, 1, 1, recallField, recallField, 3, 1)
	s.AddTeleport(1, 1, 2, medic, recallField, 2, 3)

	blocks, err := c.Blocks(testLocations(3), s, 1)
	if err != nil {
		t.Fatalf("blocks: %v", err)
	}
	got := strings.Join(actions(blocks[0]), "")
	want := "\tCreate Unit with Properties(\"Player 1\", \"Terran Medic\", 1, \"ob2\", 1);\n" +
		"\tKill Unit At Location(\"Player 1\", \"Terran Medic\", All, \"ob2\");\n" +
		"\tCreate Unit(\"Player 2\", \"Scanner Sweep\", 1, \"ob3\");\n" +
		"\tMove Unit(\"Force 1\", \"Zerg Zergling\", All, \"ob2\", \"ob3\");\n" +
		"\tCreate Unit(\"Player 1\", \"Scanner Sweep\", 1, \"ob3\");\n" +
		"\tCreate Unit(\"Player 1\", \"Scanner Sweep\", 1, \"ob1\");\n" +
		"\tMove Unit(\"Force 1\", \"Zerg Zergling\", All, \"ob3\", \"ob1\");\n" +
		"\tRemove Unit(\"All players\", \"Scanner Sweep\");\n" +
		"\tWait(0);\n" +
		"\tPreserve Trigger();\n"
	if got != want {
		t.Fatalf("actions =\n%s\nwant\n%s", got, want)
	}
}

func TestCompileRejectsBadReferences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(s *obstacle.Store)
		code  apperrors.Code
	}{
		{"unknown kind", func(s *obstacle.Store) { s.AddExplosion(1, 1, 9999, 1, location.Point{}) }, apperrors.CodeUnknownKind},
		{"unknown wall", func(s *obstacle.Store) { s.PlaceWall(1, 1, 9999, 1, location.Point{}) }, apperrors.CodeUnknownKind},
		{"missing location", func(s *obstacle.Store) { s.AddExplosion(1, 1, scourge, 3, location.Point{}) }, apperrors.CodeLocationOutOfRange},
		{"teleport target", func(s *obstacle.Store) { s.AddTeleport(1, 1, 1, medic, medic, 1, 5) }, apperrors.CodeLocationOutOfRange},
		{"silent audio", func(s *obstacle.Store) {
			s.AddExplosion(1, 1, marine, 1, location.Point{})
			s.AddAudio(1, marine, 0)
		}, apperrors.CodeMissingAudioTime},
		{"audio unit", func(s *obstacle.Store) {
			s.AddExplosion(1, 1, scourge, 1, location.Point{})
			s.AddAudio(1, scourge, 500)
		}, apperrors.CodeUnknownUnit},
	}
	c := newCompiler(t, nil)
	for _, tt := range tests {
		s := newStore(t, obstacle.Frames, 1)
		tt.build(s)
		_, err := c.Compile(testLocations(2), s, 1)
		if !apperrors.IsCode(err, tt.code) {
			t.Fatalf("%s: err = %v, want %s", tt.name, err, tt.code)
		}
	}
}

func TestCompileCountOutOfRange(t *testing.T) {
	t.Parallel()

	c := newCompiler(t, nil)
	s := newStore(t, obstacle.Waits, 0)
	if _, err := c.CompileCount(testLocations(1), s, 1, 2); !apperrors.IsCode(err, apperrors.CodeCountOutOfRange) {
		t.Fatalf("err = %v, want %s", err, apperrors.CodeCountOutOfRange)
	}
}

func TestOptionsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Options)
		code   apperrors.Code
	}{
		{"death type", func(o *Options) { o.DeathType = "Explode" }, apperrors.CodeInvalidDeathType},
		{"unknown unit", func(o *Options) { o.CountUnit = "Battlecruiser Prime" }, apperrors.CodeUnknownUnit},
		{"shared unit", func(o *Options) { o.DelayUnit = o.CountUnit }, apperrors.CodeInvalidOptions},
		{"empty owner", func(o *Options) { o.TriggerPlayer = " " }, apperrors.CodeInvalidOptions},
	}
	for _, tt := range tests {
		opts := DefaultOptions()
		tt.mutate(&opts)
		if _, err := New(refdata.Default(), opts); !apperrors.IsCode(err, tt.code) {
			t.Fatalf("%s: err = %v, want %s", tt.name, err, tt.code)
		}
	}
	if err := DefaultOptions().Validate(refdata.Default()); err != nil {
		t.Fatalf("default options: %v", err)
	}
}
