package domain

// PatternSet configures the record segmenter.
// Sets are data so that format drift is a config change.
type PatternSet struct {
	// Name identifies the set, e.g. "ficha".
	Name string `yaml:"name"`

	// Version is bumped whenever the patterns change.
	Version int `yaml:"version"`

	// Description is shown in diagnostics.
	Description string `yaml:"description"`

	// Code is the delimiter regex. Its first capture group, or the whole
	// match when there is none, is the record code.
	Code string `yaml:"code"`

	// QueryCode spots a code inside a user query. Code is written for
	// document text and may be anchored or carry trailing punctuation, so
	// queries get their own pattern. Same capture-group rule as Code.
	QueryCode string `yaml:"query_code"`

	// MinRecordLength discards records whose span is shorter, in runes.
	MinRecordLength int `yaml:"min_record_length"`

	// TitleMaxLength caps derived titles, in runes.
	TitleMaxLength int `yaml:"title_max_length"`

	// Expected lists lowercase hints; a document whose origin or title
	// contains one of them should yield at least one record.
	Expected []string `yaml:"expected"`

	// Fields lists labelled secondary fields.
	Fields []FieldPattern `yaml:"fields"`
}

// FieldPattern describes one labelled field inside a record body.
type FieldPattern struct {
	// Name is the key stored in Record.Fields.
	Name string `yaml:"name"`

	// Label is a case-insensitive regex locating the field.
	Label string `yaml:"label"`

	// IncludeLabel keeps the matched label in the value ("Art. 183").
	IncludeLabel bool `yaml:"include_label"`
}
