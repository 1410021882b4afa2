package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "socialpulse/config"
	"socialpulse/pkg/dataset"
	"socialpulse/pkg/langflow"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("LOG_NAME", filepath.Join(t.TempDir(), "test.log"))

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func setFlowEnv(t *testing.T, baseURL string) {
	t.Helper()
	t.Setenv("LANGFLOW_BASE_URL", baseURL)
	t.Setenv("LANGFLOW_ID", "wf")
	t.Setenv("LANGFLOW_FLOW_ID", "flow")
	t.Setenv("LANGFLOW_APPLICATION_TOKEN", "token")
}

func TestAskPrintsAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lf/wf/api/v1/run/flow", r.URL.Path)
		_, _ = w.Write([]byte(`{"response":"Reels win."}`))
	}))
	defer server.Close()
	setFlowEnv(t, server.URL)

	out, _, err := execute(t, "ask", "--raw", "which", "type", "wins?")
	require.NoError(t, err)
	assert.Equal(t, "Reels win.\n", out)

	out, _, err = execute(t, "ask", "which type wins?")
	require.NoError(t, err)
	assert.Contains(t, out, "Reels win.")
}

func TestAskReportsGatewayFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()
	setFlowEnv(t, server.URL)

	_, stderr, err := execute(t, "ask", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_found")
	assert.Contains(t, stderr, langflow.MsgNotFound)
}

func TestAskWithoutConfiguration(t *testing.T) {
	setFlowEnv(t, "")

	_, stderr, err := execute(t, "ask", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration")
	assert.Contains(t, stderr, langflow.MsgConfiguration)
}

func TestAskRejectsBadShape(t *testing.T) {
	setFlowEnv(t, "http://127.0.0.1:1")
	t.Setenv("LANGFLOW_RESPONSE_SHAPE", "deep")

	_, _, err := execute(t, "ask", "hi")
	assert.Error(t, err)
}

func TestGenerateThenSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "posts.csv")

	out, _, err := execute(t, "generate", "--rows", "20", "--out", path, "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 20 posts")

	f, err := os.Open(path)
	require.NoError(t, err)
	posts, err := dataset.Parse(f)
	f.Close()
	require.NoError(t, err)
	assert.Len(t, posts, 20)

	out, _, err = execute(t, "summary", "--file", path, "--metric", "views", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "# Engagement summary")
	assert.Contains(t, out, "| 20 |")
	assert.Contains(t, out, "## Top 5 posts by views")
	assert.Contains(t, out, "Best performing type:")
	assert.Contains(t, out, "Best posting hour:")
}

func TestGenerateRejectsNonPositiveRows(t *testing.T) {
	_, _, err := execute(t, "generate", "--rows", "0", "--out", filepath.Join(t.TempDir(), "x.csv"))
	assert.Error(t, err)
}

func TestSummaryRejectsUnknownMetric(t *testing.T) {
	_, _, err := execute(t, "summary", "--file", "missing.csv", "--metric", "followers")
	assert.Error(t, err)
}
