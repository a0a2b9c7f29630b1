package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// RunOutcome is the final status of a split run.
type RunOutcome string

const (
	RunSuccess  RunOutcome = "success"
	RunWarning  RunOutcome = "warning"
	RunFailed   RunOutcome = "failed"
	RunSkipped  RunOutcome = "skipped" // no source document
	RunCanceled RunOutcome = "canceled"
)

// PageResult is what happened to a single emitted page.
type PageResult string

const (
	PageWritten   PageResult = "written"
	PageUnchanged PageResult = "unchanged"
	PageFailed    PageResult = "failed"
	PagePruned    PageResult = "pruned"
)

// Recorder defines observability hooks for split runs and their stages.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncRunOutcome(outcome RunOutcome)
	IncPageResult(result PageResult)
	IncRewrite(rule string)
	IncLinkIssue(rule string)
	SetBlocks(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncRunOutcome(RunOutcome)                   {}
func (NoopRecorder) IncPageResult(PageResult)                   {}
func (NoopRecorder) IncRewrite(string)                          {}
func (NoopRecorder) IncLinkIssue(string)                        {}
func (NoopRecorder) SetBlocks(int)                              {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
