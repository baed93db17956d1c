package configsqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Banks.db")

	db, err := Struct{File: path}.OpenDB()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	_, err = db.Exec("CREATE TABLE t (v TEXT)")
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestOpenDBUnspecified(t *testing.T) {
	_, err := Struct{}.OpenDB()
	require.Error(t, err)
}

func TestString(t *testing.T) {
	require.Equal(t, "Banks.db", Struct{File: "Banks.db"}.String())
	require.Equal(t, "libsql://banks.example", Struct{File: "Banks.db", Url: "libsql://banks.example"}.String())
}
