package telemetry

import (
	"strings"
	"sync"
)

// Report is a single call recorded by TestAPI.
type Report struct {
	Kind   string
	Id     string
	Params []any
}

const (
	KindBroken  = "broken"
	KindWarning = "warning"
	KindDebug   = "debug"
	KindCount   = "count"
)

// TestAPI is an API implementation that records everything it is given, so
// tests can assert on what a component reported.
type TestAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func NewTestAPI() *TestAPI {
	return &TestAPI{}
}

func (t *TestAPI) record(kind, id string, params []any) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.reports = append(t.reports, Report{Kind: kind, Id: id, Params: params})
}

func (t *TestAPI) ReportBroken(id string, params ...any) {
	t.record(KindBroken, id, params)
}

func (t *TestAPI) ReportWarning(id string, params ...any) {
	t.record(KindWarning, id, params)
}

func (t *TestAPI) ReportDebug(msg string, params ...any) {
	t.record(KindDebug, msg, params)
}

func (t *TestAPI) ReportCount(id string, count int64) {
	t.record(KindCount, id, []any{count})
}

// Reports returns a copy of the recorded reports of the given kind, all of
// them if kind is empty.
func (t *TestAPI) Reports(kind string) []Report {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	var out []Report
	for _, r := range t.reports {
		if kind == "" || r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// Has reports whether a report of `kind` was recorded with an id ending in `idSuffix`.
// Scoped ids are prefixed by their namespace so only the suffix is compared.
func (t *TestAPI) Has(kind, idSuffix string) bool {
	for _, r := range t.Reports(kind) {
		if strings.HasSuffix(r.Id, idSuffix) {
			return true
		}
	}
	return false
}
