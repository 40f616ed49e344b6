package table

import (
	"errors"
	"sync"

	"github.com/goccy/go-json"
)

// tally is the aggregate used throughout the table tests.
type tally struct {
	Sum float64 `json:"sum"`
	N   int     `json:"n"`
}

func encodeTally(v tally) ([]byte, error) { return json.Marshal(v) }

func decodeTally(b []byte) (tally, error) {
	var v tally
	err := json.Unmarshal(b, &v)

	return v, err
}

var errCodec = errors.New("codec down")

func failingEncode(tally) ([]byte, error) { return nil, errCodec }

func failingDecode([]byte) (tally, error) { return tally{}, errCodec }

// snapshot captures the observable state of a Table for before/after comparisons.
type snapshot struct {
	Alpha       float64
	Assignments []int64
	GroupIDs    []uint64
	Empty       []uint64
	Sizes       map[uint64]int
	Data        map[uint64]tally
	NextID      uint64
	Assigned    int
}

func takeSnapshot(tbl *Table[tally]) snapshot {
	s := snapshot{
		Alpha:       tbl.Alpha(),
		Assignments: tbl.Assignments(),
		GroupIDs:    tbl.GroupIDs(),
		Empty:       tbl.EmptyGroups(),
		Sizes:       map[uint64]int{},
		Data:        map[uint64]tally{},
		NextID:      tbl.NextGroupID(),
		Assigned:    tbl.NumAssigned(),
	}
	for gid, g := range tbl.Groups() {
		s.Sizes[gid] = g.Count
		s.Data[gid] = g.Data
	}

	return s
}

// recordingMetrics counts the calls a table makes on its collector.
type recordingMetrics struct {
	mu           sync.Mutex
	created      int
	deleted      int
	active       int
	serialized   map[string]int
	deserialized map[string]int
	failures     int
	compressions map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		serialized:   map[string]int{},
		deserialized: map[string]int{},
		compressions: map[string]int{},
	}
}

func (m *recordingMetrics) RecordGroupCreated(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

func (m *recordingMetrics) RecordGroupDeleted(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted++
}

func (m *recordingMetrics) RecordActiveGroups(_ string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = count
}

func (m *recordingMetrics) RecordSerialize(kind string, _ int, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serialized[kind]++
}

func (m *recordingMetrics) RecordDeserialize(kind string, _ int, _ float64, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deserialized[kind]++
	if !success {
		m.failures++
	}
}

func (m *recordingMetrics) RecordCompression(algorithm string, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compressions[algorithm]++
}

// recordingLogger keeps every message it receives.
type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *recordingLogger) Debug(msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.record(msg) }

func (l *recordingLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.msgs...)
}
