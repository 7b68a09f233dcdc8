package internal

// RawEvent is one listing block scraped from the source page, before any
// filtering. DateText is the lowercased, locale-formatted date and time string
// exactly as the site renders it (e.g. "22 martie 2025, 19:00"); Link is the
// site-relative path of the event page. Either field may be empty when the
// block is missing the corresponding element; such records fail every window
// test downstream and drop out naturally.
type RawEvent struct {
	ID       string `json:"id"`
	DateText string `json:"date_text"`
	Link     string `json:"link"`
}

// WindowKind selects which date/time window a pipeline run filters events into.
type WindowKind uint8

const (
	WindowToday WindowKind = iota
	WindowTomorrow
	WindowWeekend
	WindowAllWeekEvenings
)

func (k WindowKind) String() string {
	switch k {
	case WindowToday:
		return "today"
	case WindowTomorrow:
		return "tomorrow"
	case WindowWeekend:
		return "weekend"
	case WindowAllWeekEvenings:
		return "all-week-evenings"
	}
	return "unknown"
}

// FormattedEntry is the user-facing form of an event: the date text and the
// absolute event URL separated by a newline. The whole string is the
// deduplication key.
type FormattedEntry string

// ResultKind discriminates the three shapes a pipeline run can produce.
type ResultKind uint8

const (
	ResultEntries ResultKind = iota
	ResultEmpty
	ResultError
)

// User-facing sentinel messages, in the service's operating locale.
const (
	MsgNoEvents   = "Nu sunt evenimente disponibile"
	MsgFetchError = "Eroare la preluarea datelor"
)

// Result is the outcome of one pipeline run: an ordered entry list, or one of
// the two sentinel messages. Exactly one of Entries/Message is meaningful.
type Result struct {
	Kind    ResultKind       `json:"kind"`
	Entries []FormattedEntry `json:"entries,omitempty"`
	Message string           `json:"message,omitempty"`
}

func EntriesResult(entries []FormattedEntry) Result {
	return Result{Kind: ResultEntries, Entries: entries}
}

func EmptyResult() Result {
	return Result{Kind: ResultEmpty, Message: MsgNoEvents}
}

func ErrorResult() Result {
	return Result{Kind: ResultError, Message: MsgFetchError}
}
