package warehouse

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
)

// FlowMap resolves a delivery route code to its logistics flow label.
// A missing file or route degrades to FlowUnknown rather than failing.
type FlowMap struct {
	routes map[string]string
}

// LoadFlowMap reads the static ROUTE,FLOW lookup. The boolean reports whether
// the file was actually found; callers log the degraded mode.
func LoadFlowMap(path string) (*FlowMap, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &FlowMap{routes: map[string]string{}}, false, nil
		}
		return nil, false, err
	}
	defer f.Close()
	fm, err := ParseFlowMap(f)
	if err != nil {
		return nil, true, err
	}
	return fm, true, nil
}

// ParseFlowMap reads ROUTE,FLOW pairs from CSV. A header row is recognised by
// its first cell and skipped.
func ParseFlowMap(r io.Reader) (*FlowMap, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	routes := map[string]string{}
	first := true
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < 2 {
			continue
		}
		route := strings.TrimSpace(rec[0])
		flow := strings.TrimSpace(rec[1])
		if first {
			first = false
			if strings.EqualFold(route, "ROUTE") {
				continue
			}
		}
		if route == "" {
			continue
		}
		routes[route] = flow
	}
	return &FlowMap{routes: routes}, nil
}

// FlowOf resolves a route code. Unmapped routes are FlowUnknown and the Y2
// flow is always folded into the A flow.
func (m *FlowMap) FlowOf(route string) string {
	flow, ok := m.routes[strings.TrimSpace(route)]
	if !ok {
		return FlowUnknown
	}
	if flow == FlowY2 {
		return FlowA
	}
	return flow
}

// Len reports how many routes are mapped.
func (m *FlowMap) Len() int {
	return len(m.routes)
}
