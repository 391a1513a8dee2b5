package planner

// Item is one pending conversion. Items are created during planning and
// consumed exactly once by the executor.
type Item struct {
	SourcePath string // absolute source file path
	SourceExt  string // source filename extension without the dot, may be empty
	TargetPath string // absolute target file path
}

// Plan is the ordered work set for one batch run.
type Plan struct {
	Items   []Item
	Skipped int // targets skipped because already present
	// Collisions counts source files whose derived target path was already
	// claimed by an earlier source file; only the first claimant is planned.
	Collisions int
}

// TargetSet holds every absolute target path that is a legitimate output for
// the current source tree, whether newly planned or skipped as pre-existing.
// The pruner treats any other target-tree file as an orphan.
type TargetSet map[string]struct{}

func NewTargetSet() TargetSet {
	return make(TargetSet)
}

func (s TargetSet) Add(path string) {
	s[path] = struct{}{}
}

func (s TargetSet) Contains(path string) bool {
	_, ok := s[path]
	return ok
}

func (s TargetSet) Len() int {
	return len(s)
}
