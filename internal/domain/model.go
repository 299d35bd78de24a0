package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"sort"
)

// Result record field names written by the matrix runner.
const (
	FieldTestID     = "test_id"
	FieldTimestamp  = "timestamp"
	FieldClientType = "client_type"
	FieldConfigFile = "config_file"
	FieldAudioFile  = "audio_file"
	FieldStatus     = "status"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// UnknownCoverageValue stands in for a missing client, config or audio field.
const UnknownCoverageValue = "unknown"

var errNotObject = errors.New("expected a JSON object")

// ResultRecord is the parsed content of one result.json. Every field is kept
// as raw JSON so fields the validator does not interpret survive untouched.
type ResultRecord struct {
	Fields map[string]json.RawMessage
}

// ParseResultRecord decodes data as a JSON object.
func ParseResultRecord(data []byte) (*ResultRecord, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errNotObject
	}
	return &ResultRecord{Fields: fields}, nil
}

// Has reports whether the record carries the named field, whatever its value.
func (r *ResultRecord) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.Fields[name]
	return ok
}

// String returns the field value when it is a JSON string.
func (r *ResultRecord) String(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	raw, ok := r.Fields[name]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Text renders a field for display: strings as-is, other values as their
// JSON text, and fallback when the field is absent.
func (r *ResultRecord) Text(name, fallback string) string {
	if !r.Has(name) {
		return fallback
	}
	if s, ok := r.String(name); ok {
		return s
	}
	return string(bytes.TrimSpace(r.Fields[name]))
}

func (r *ResultRecord) IsEmpty() bool { return r == nil || len(r.Fields) == 0 }

func (r *ResultRecord) TestID() string     { return r.Text(FieldTestID, "") }
func (r *ResultRecord) ClientType() string { return r.Text(FieldClientType, UnknownCoverageValue) }
func (r *ResultRecord) ConfigFile() string { return r.Text(FieldConfigFile, UnknownCoverageValue) }
func (r *ResultRecord) AudioFile() string  { return r.Text(FieldAudioFile, UnknownCoverageValue) }

func (r *ResultRecord) MarshalJSON() ([]byte, error) {
	if r == nil || r.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Fields)
}

func (r *ResultRecord) UnmarshalJSON(data []byte) error {
	rec, err := ParseResultRecord(data)
	if err != nil {
		return err
	}
	r.Fields = rec.Fields
	return nil
}

// Validation is the outcome of checking one result file and its sibling logs.
type Validation struct {
	File    string        `json:"file"`
	Valid   bool          `json:"valid"`
	Issues  []string      `json:"issues"`
	Score   int           `json:"score"`
	Details *ResultRecord `json:"details,omitempty"`
}

// TestID is the name of the directory holding the result file.
func (v Validation) TestID() string {
	return filepath.Base(filepath.Dir(v.File))
}

// ConfigCoverage lists the audio files exercised for one config, in first-seen order.
type ConfigCoverage struct {
	Config     string   `json:"config"`
	AudioFiles []string `json:"audio_files"`
}

// ClientCoverage groups config coverage for one client, in first-seen order.
type ClientCoverage struct {
	Client  string           `json:"client"`
	Configs []ConfigCoverage `json:"configs"`
}

// MatrixCoverage records which client × config × audio combinations ran.
type MatrixCoverage struct {
	Clients []ClientCoverage `json:"clients"`
}

// Add records one combination. Audio files already seen for the
// client/config pair are ignored.
func (m *MatrixCoverage) Add(client, config, audio string) {
	ci := -1
	for i := range m.Clients {
		if m.Clients[i].Client == client {
			ci = i
			break
		}
	}
	if ci < 0 {
		m.Clients = append(m.Clients, ClientCoverage{Client: client})
		ci = len(m.Clients) - 1
	}

	cc := &m.Clients[ci]
	ki := -1
	for i := range cc.Configs {
		if cc.Configs[i].Config == config {
			ki = i
			break
		}
	}
	if ki < 0 {
		cc.Configs = append(cc.Configs, ConfigCoverage{Config: config})
		ki = len(cc.Configs) - 1
	}

	kc := &cc.Configs[ki]
	for _, a := range kc.AudioFiles {
		if a == audio {
			return
		}
	}
	kc.AudioFiles = append(kc.AudioFiles, audio)
}

// AudioFiles returns the audio files recorded for a client/config pair.
func (m MatrixCoverage) AudioFiles(client, config string) []string {
	for _, c := range m.Clients {
		if c.Client != client {
			continue
		}
		for _, k := range c.Configs {
			if k.Config == config {
				return k.AudioFiles
			}
		}
	}
	return nil
}

func (m MatrixCoverage) IsEmpty() bool { return len(m.Clients) == 0 }

// IssueCount pairs an issue text with the number of validations raising it.
type IssueCount struct {
	Issue string `json:"issue"`
	Count int    `json:"count"`
}

// IssueHistogram counts issue texts, remembering first-seen order.
type IssueHistogram struct {
	counts []IssueCount
	index  map[string]int
}

func (h *IssueHistogram) Add(issue string) {
	if h.index == nil {
		h.index = make(map[string]int)
	}
	if i, ok := h.index[issue]; ok {
		h.counts[i].Count++
		return
	}
	h.index[issue] = len(h.counts)
	h.counts = append(h.counts, IssueCount{Issue: issue, Count: 1})
}

func (h IssueHistogram) Count(issue string) int {
	if i, ok := h.index[issue]; ok {
		return h.counts[i].Count
	}
	return 0
}

func (h IssueHistogram) Len() int { return len(h.counts) }

// Entries returns the counts in first-seen order.
func (h IssueHistogram) Entries() []IssueCount {
	return append([]IssueCount(nil), h.counts...)
}

// Sorted returns the counts ordered by issue text.
func (h IssueHistogram) Sorted() []IssueCount {
	out := h.Entries()
	sort.Slice(out, func(i, j int) bool { return out[i].Issue < out[j].Issue })
	return out
}

// Top returns at most n counts, most frequent first. Ties keep first-seen order.
func (h IssueHistogram) Top(n int) []IssueCount {
	out := h.Entries()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func (h IssueHistogram) MarshalJSON() ([]byte, error) {
	if h.counts == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h.counts)
}

func (h *IssueHistogram) UnmarshalJSON(data []byte) error {
	var counts []IssueCount
	if err := json.Unmarshal(data, &counts); err != nil {
		return err
	}
	*h = IssueHistogram{index: make(map[string]int, len(counts))}
	for _, c := range counts {
		h.index[c.Issue] = len(h.counts)
		h.counts = append(h.counts, c)
	}
	return nil
}

// Summary aggregates every validation of a single run.
type Summary struct {
	ResultsDir     string         `json:"results_dir"`
	TotalTests     int            `json:"total_tests"`
	ValidTests     int            `json:"valid_tests"`
	FailedTests    int            `json:"failed_tests"`
	AverageScore   float64        `json:"average_score"`
	Results        []Validation   `json:"results"`
	MatrixCoverage MatrixCoverage `json:"matrix_coverage"`
	IssuesSummary  IssueHistogram `json:"issues_summary"`

	totalScore int
}

// Add folds one validation into the summary and refreshes the average.
func (s *Summary) Add(v Validation) {
	s.Results = append(s.Results, v)
	s.TotalTests++
	if v.Valid {
		s.ValidTests++
	} else {
		s.FailedTests++
	}
	s.totalScore += v.Score
	s.AverageScore = float64(s.totalScore) / float64(s.TotalTests)

	if !v.Details.IsEmpty() {
		s.MatrixCoverage.Add(v.Details.ClientType(), v.Details.ConfigFile(), v.Details.AudioFile())
	}
	for _, issue := range v.Issues {
		s.IssuesSummary.Add(issue)
	}
}

// Passed reports whether tests were found and none failed validation.
func (s Summary) Passed() bool {
	return s.TotalTests > 0 && s.FailedTests == 0
}
