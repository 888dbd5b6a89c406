package domain

// ArticleRef describes one discovered article before its full text is fetched.
// Identity is the URL; duplicates returned by a provider are kept as is.
type ArticleRef struct {
	Title       string
	SourceName  string
	URL         string
	Description string
}

// ItemState enumerates the per-article milestones of a pipeline run. An item
// appended to Report.Results is collected; its State records how it got there.
type ItemState string

const (
	StateFetched          ItemState = "fetched"
	StateExtractAttempted ItemState = "extract_attempted"
	StateSummarized       ItemState = "summarized"
	StateSkippedNoText    ItemState = "skipped_no_text"
)

// SkipMarker is attached to items whose content could not be retrieved.
const SkipMarker = "Could not retrieve article content."

// FailureReason tags an unsuccessful summarization. Empty means success.
type FailureReason string

const (
	FailureNoText      FailureReason = "no text provided"
	FailureUnavailable FailureReason = "summarizer not initialized"
	FailureModel       FailureReason = "could not generate summary"
)

// Summary is the outcome of one summarization attempt.
type Summary struct {
	Text    string
	Failure FailureReason
}

// Summarized wraps model output into a successful outcome.
func Summarized(text string) Summary {
	return Summary{Text: text}
}

// Failed builds an unsuccessful outcome.
func Failed(reason FailureReason) Summary {
	return Summary{Failure: reason}
}

// OK reports whether the model produced a summary.
func (s Summary) OK() bool {
	return s.Failure == ""
}

// Message is the text shown to newsletter readers.
func (s Summary) Message() string {
	switch s.Failure {
	case "":
		return s.Text
	case FailureNoText:
		return "Error: No text provided to summarize."
	case FailureUnavailable:
		return "Error: Summarization client not initialized."
	default:
		return "Error: Could not generate summary."
	}
}

// SummaryResult is the collected outcome for one ArticleRef.
type SummaryResult struct {
	Article ArticleRef
	State   ItemState
	Summary Summary
}

// Skipped reports whether extraction failed for the item.
func (r SummaryResult) Skipped() bool {
	return r.State == StateSkippedNoText
}

// Text returns the summary or the skip marker.
func (r SummaryResult) Text() string {
	if r.Skipped() {
		return SkipMarker
	}
	return r.Summary.Message()
}

// Report is what a single pipeline invocation produced.
type Report struct {
	RunID     string
	Topic     string
	Results   []SummaryResult
	Delivered bool
}
