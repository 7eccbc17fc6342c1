package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hamadismail/xpeed-cng/internal/domain/models"
)

const entryJSON = `{
	"shifts": {
		"A": {"sale": "100", "evc": "110", "diesel": "50", "octane": ""},
		"B": {"sale": "", "evc": "", "diesel": "", "octane": ""},
		"C": {"sale": "", "evc": "", "diesel": "", "octane": ""}
	},
	"lpg": "10",
	"date": "2024-04-29"
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag in the command tree to its default so a
// previous run's values and Changed marks do not leak into the next one.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestDeriveText(t *testing.T) {
	entry := writeFile(t, "entry.json", entryJSON)

	out, err := execute(t, "derive", "--file", entry)
	require.NoError(t, err)
	assert.Contains(t, out, "Date: April 29th, 2024")
	assert.Contains(t, out, "GRAND TOTAL: Tk 10,024.59")
}

func TestDeriveJSONWithPrices(t *testing.T) {
	entry := writeFile(t, "entry.json", entryJSON)
	prices := writeFile(t, "prices.json", `{"CNG": 50, "DIESEL": 100, "OCTANE": 120, "LPG": 60}`)

	out, err := execute(t, "derive", "--file", entry, "--prices", prices, "--output", "json")
	require.NoError(t, err)

	var inv models.DerivedInvoice
	require.NoError(t, json.Unmarshal([]byte(out), &inv))
	// 100 sale * 50 + 50 diesel * 100 + 10 lpg * 60
	assert.InDelta(t, 10600.0, inv.GrandTotal, 1e-9)
	assert.Equal(t, "April 29th, 2024", inv.ReportDateDisplay)
}

func TestDeriveWritesWorkbook(t *testing.T) {
	entry := writeFile(t, "entry.json", entryJSON)
	xlsx := filepath.Join(t.TempDir(), "invoice.xlsx")

	_, err := execute(t, "derive", "--file", entry, "--xlsx", xlsx)
	require.NoError(t, err)

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Invoice")
}

func TestDeriveErrors(t *testing.T) {
	missingShift := writeFile(t, "entry.json", `{"shifts": {"A": {}, "B": {}}}`)
	badPrices := writeFile(t, "prices.json", `{"CNG": 0, "DIESEL": 100, "OCTANE": 120, "LPG": 60}`)
	good := writeFile(t, "good.json", entryJSON)

	tests := []struct {
		name string
		args []string
	}{
		{"unreadable file", []string{"derive", "--file", filepath.Join(t.TempDir(), "nope.json")}},
		{"invalid shift set", []string{"derive", "--file", missingShift}},
		{"invalid prices", []string{"derive", "--file", good, "--prices", badPrices}},
		{"unknown output", []string{"derive", "--file", good, "--output", "pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestDeriveRequiresFileFlag(t *testing.T) {
	entry := writeFile(t, "entry.json", entryJSON)
	_, err := execute(t, "derive", "--file", entry)
	require.NoError(t, err)

	_, err = execute(t, "derive")
	assert.ErrorContains(t, err, `required flag(s) "file" not set`)
}
