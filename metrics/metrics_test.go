// Copyright (c) 2025 The Electra developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopDefault(t *testing.T) {
	// the default service swallows everything and serves no handler
	Counter("noop_count").Add(1)
	CounterVec("noop_count_vec", []string{"a"}).AddWithLabel(1, map[string]string{"a": "b"})
	assert.Nil(t, HTTPHandler())
}

func TestPrometheusBackend(t *testing.T) {
	InitializePrometheusMetrics()

	counter := LazyLoadCounter("test_count")
	counter().Add(3)

	vec := LazyLoadCounterVec("test_count_vec", []string{"outcome"})
	vec().AddWithLabel(2, map[string]string{"outcome": "skipped"})

	Gauge("test_gauge").Set(7)
	Histogram("test_histogram", Bucket10s).Observe(250)

	server := httptest.NewServer(HTTPHandler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, "electra_metrics_test_count 3"))
	assert.True(t, strings.Contains(text, `electra_metrics_test_count_vec{outcome="skipped"} 2`))
	assert.True(t, strings.Contains(text, "electra_metrics_test_gauge 7"))
}
