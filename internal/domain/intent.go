package domain

// Intent is the classified purpose of a user message.
type Intent string

const (
	IntentRecommendation Intent = "recommendation"
	IntentLookup         Intent = "imdb_lookup"
	IntentChitChat       Intent = "chit_chat"
	IntentUnknown        Intent = "unknown"
)

// Source records which classifier stage produced an IntentResult.
type Source string

const (
	SourceLLM    Source = "llm"
	SourceLLMRaw Source = "llm-raw"
	SourceRule   Source = "rule"
)

// IntentResult is produced fresh for every user message.
type IntentResult struct {
	Intent     Intent
	Confidence float64
	Source     Source
	// Raw holds the unparsed backend reply when Source is SourceLLMRaw.
	Raw string
}
