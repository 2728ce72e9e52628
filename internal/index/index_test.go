package index

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCountyIndex = `{
	"scopes": {
		"PRCNCT": {
			"categories": {
				"PRSD": {
					"files": {
						"1234": [
							{"type": "A3SGND", "scope_code": "PRCNCT", "report_stage_code": "FINAL", "url": "files/pv_1234.pdf"},
							{"type": "OTHER", "scope_code": "PRCNCT", "report_stage_code": "FINAL", "url": "files/other_1234.pdf"}
						],
						"5678": [
							{"type": "A3SGND", "scope_code": "PRCNCT", "report_stage_code": "PRELIMINARY", "url": "files/prelim_5678.pdf"}
						],
						"9012": [
							{"type": "A3SGND", "scope_code": "PRCNCT", "report_stage_code": "FINAL", "url": "files/pv_9012.pdf"}
						]
					}
				}
			}
		}
	}
}`

func TestParseCounties(t *testing.T) {
	counties, err := ParseCounties([]byte(`[{"code":"AB","name":"ALBA"},{"code":"AR","name":"ARAD"}]`))
	require.NoError(t, err)
	assert.Equal(t, []County{{Code: "AB", Name: "ALBA"}, {Code: "AR", Name: "ARAD"}}, counties)
}

func TestParseCountiesRejectsBadShape(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not an array", `{"code":"AB"}`},
		{"missing code", `[{"name":"ALBA"}]`},
		{"empty code", `[{"code":"","name":"ALBA"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCounties([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParseCountyIndexRejectsMissingScopes(t *testing.T) {
	_, err := ParseCountyIndex([]byte(`{"categories":{}}`))
	assert.Error(t, err)
}

func TestEligible(t *testing.T) {
	idx, err := ParseCountyIndex([]byte(sampleCountyIndex))
	require.NoError(t, err)

	items := Eligible(idx)

	// 5678 has no FINAL signed report and is excluded up front.
	assert.Equal(t, []WorkItem{
		{ID: "1234", URL: "files/pv_1234.pdf"},
		{ID: "9012", URL: "files/pv_9012.pdf"},
	}, items)
}

func TestEligibleEmptyIndex(t *testing.T) {
	idx, err := ParseCountyIndex([]byte(`{"scopes":{}}`))
	require.NoError(t, err)
	assert.Empty(t, Eligible(idx))
}

func TestClientURLs(t *testing.T) {
	client := NewClient("https://example.com/prezidentiale24112024/", nil)
	client.Timestamp = 1732000000

	assert.Equal(t,
		"https://example.com/prezidentiale24112024/data/json/sicpv/lists/counties.json?_=1732000000",
		client.CountiesURL())
	assert.Equal(t,
		"https://example.com/prezidentiale24112024/data/json/sicpv/pv/pv_ab.json?_=1732000000",
		client.CountyIndexURL("AB"))
	assert.Equal(t,
		"https://example.com/prezidentiale24112024/files/pv_1234.pdf",
		client.DocumentURL(WorkItem{ID: "1234", URL: "files/pv_1234.pdf"}))
	assert.Equal(t,
		"https://mirror.example.com/reports/pv_1234.pdf",
		client.DocumentURL(WorkItem{ID: "pv_1234", URL: "https://mirror.example.com/reports/pv_1234.pdf"}),
		"absolute URLs pass through unresolved")
}

func TestClientCounties(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/json/sicpv/lists/counties.json", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("_"), "cache buster must be present")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"code":"AB","name":"ALBA"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	counties, err := client.Counties(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []County{{Code: "AB", Name: "ALBA"}}, counties)
}

func TestClientCountyIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/json/sicpv/pv/pv_ab.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleCountyIndex))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	idx, err := client.CountyIndex(context.Background(), "AB")
	require.NoError(t, err)
	assert.Len(t, Eligible(idx), 2)
}
