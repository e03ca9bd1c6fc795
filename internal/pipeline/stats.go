package pipeline

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	Targets        int
	Files          int
	Invocations    int
	Appended       int   // Invocations that wrote rows.
	NoData         int   // Probed extensions without usable data.
	Failed         int   // Genuine tool failures.
	Published      int   // Artifacts copied to the results dir.
	PublishedBytes int64
}

// Clean reports whether every invocation either appended rows or probed an
// extension that simply was not there.
func (s *RunStats) Clean() bool {
	return s.Failed == 0
}
