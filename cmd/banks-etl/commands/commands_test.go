package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"banks-etl/lib/progresslog"
	"banks-etl/lib/query"
	"banks-etl/lib/scrapers/banks"
	"banks-etl/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const sourceDocument = `<html><body><table><tbody>
<tr><th>Rank</th><th>Bank name</th><th>Market cap<br/>(US$ billion)</th></tr>
<tr><td>1</td><td><a href="/wiki/United_States" title="United States">US</a> <a href="/wiki/JPMorgan_Chase" title="JPMorgan Chase">JPMorgan Chase</a></td><td>432.92
</td></tr>
<tr><td>2</td><td><a href="/wiki/United_States" title="United States">US</a> <a href="/wiki/Bank_of_America" title="Bank of America">Bank of America</a></td><td>231.52
</td></tr>
</tbody></table></body></html>`

func writeFile(t testing.TB, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0644)
	if err != nil {
		t.Fatal(err)
	}
}

func execute(t testing.TB, args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootAndQuery(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:cmd/banks-etl")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sourceDocument)
	}))
	defer server.Close()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "exchange_rate.csv"), "Currency,Rate\nEUR,0.93\nGBP,0.8\nINR,82.95\n")

	config := filepath.Join(dir, "banks-etl.json5")
	writeFile(t, config, fmt.Sprintf(`{
		// trailing commas and comments are fine in json5
		source_url: %q,
		rates_file: %q,
		csv_path: %q,
		database: { file: %q },
		log_file: %q,
		log_timezone: "UTC",
	}`,
		server.URL,
		filepath.Join(dir, "exchange_rate.csv"),
		filepath.Join(dir, "Largest_banks_data.csv"),
		filepath.Join(dir, "Banks.db"),
		filepath.Join(dir, "code_log.txt"),
	))

	out, err := execute(t, "--config", config)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, query.Default+"\n"))
	require.Contains(t, out, "JPMorgan Chase")
	require.Contains(t, out, "Bank of America")

	contents, err := os.ReadFile(filepath.Join(dir, "code_log.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(contents)), "\n")
	require.Len(t, lines, 8)
	_, err = progresslog.ParseTimestamp(lines[0])
	require.NoError(t, err)

	statement := "SELECT AVG(MC_GBP_Billion) FROM Largest_banks"
	out, err = execute(t, "--config", config, "query", statement)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, statement+"\n"))
	require.Contains(t, out, "265.78")
}

func TestRootFetchError(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "banks-etl.json5")
	writeFile(t, config, fmt.Sprintf(`{
		source_url: "http://127.0.0.1:1/unreachable",
		log_file: %q,
		csv_path: %q,
	}`, filepath.Join(dir, "code_log.txt"), filepath.Join(dir, "out.csv")))

	_, err := execute(t, "--config", config)
	require.ErrorIs(t, err, banks.ErrFetch)

	_, err = os.Stat(filepath.Join(dir, "out.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestQueryTooManyArgs(t *testing.T) {
	_, err := execute(t, "query", "SELECT 1", "SELECT 2")
	require.Error(t, err)
}
