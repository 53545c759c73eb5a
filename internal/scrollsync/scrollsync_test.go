package scrollsync

import "testing"

func TestLeftScrollUpdatesScrollLineDirectly(t *testing.T) {
	g := NewGroup("left", "right", nil)
	g.OnScroll("left", 5)
	if g.ScrollLine != 5 || g.LastScrolled != Left {
		t.Fatalf("got %+v", g)
	}
}

func TestRightScrollConvertsThroughAnchor(t *testing.T) {
	anchors := []Anchor{{LeftLine: 0, RightLine: 0}, {LeftLine: 10, RightLine: 12}}
	g := NewGroup("left", "right", anchors)

	// Right pane at right-line 12 (== anchor), scroll by 3 more lines.
	g.ScrollLine = g.leftLineOf(12)
	g.OnScroll("right", 3)

	if g.LastScrolled != Right {
		t.Fatalf("expected LastScrolled = Right, got %+v", g.LastScrolled)
	}
	if got := g.RightTopLine(); got != 15 {
		t.Fatalf("got right top line %d, want 15", got)
	}
}

func TestNoPaneChasingSingleSourceOfTruth(t *testing.T) {
	anchors := []Anchor{{LeftLine: 0, RightLine: 2}}
	g := NewGroup("left", "right", anchors)

	g.OnScroll("left", 10)
	leftDerivedRight := g.RightTopLine()

	g2 := NewGroup("left", "right", anchors)
	g2.ScrollLine = g.ScrollLine
	if got := g2.RightTopLine(); got != leftDerivedRight {
		t.Fatalf("derived right position should be a pure function of ScrollLine, got %d vs %d", got, leftDerivedRight)
	}
}

type fakeViewport struct {
	topLine int
}

func (f *fakeViewport) SetTopLine(line int) { f.topLine = line }

func TestManagerSyncScrollGroupsAppliesBothPanes(t *testing.T) {
	m := NewManager()
	g := NewGroup("left", "right", []Anchor{{LeftLine: 0, RightLine: 0}})
	m.AddGroup(g)
	m.OnScroll("left", 7)

	leftVP := &fakeViewport{}
	rightVP := &fakeViewport{}
	m.SyncScrollGroups(map[PaneID]Viewport{"left": leftVP, "right": rightVP})

	if leftVP.topLine != 7 || rightVP.topLine != 7 {
		t.Fatalf("got left=%d right=%d", leftVP.topLine, rightVP.topLine)
	}
}

func TestManagerRemoveGroupStopsSync(t *testing.T) {
	m := NewManager()
	g := NewGroup("left", "right", nil)
	m.AddGroup(g)
	m.RemoveGroup("left")

	m.OnScroll("left", 5)
	if g.ScrollLine != 0 {
		t.Fatal("expected OnScroll to no-op after group removal")
	}
}
