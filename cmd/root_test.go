package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leefowlercu/uesave-converter/internal/binio"
	"github.com/leefowlercu/uesave-converter/internal/converter"
	"github.com/leefowlercu/uesave-converter/internal/testutil"
)

func putString(t *testing.T, w *binio.Writer, s string) {
	t.Helper()
	require.NoError(t, w.WriteFString(binio.NewFString(s)))
}

// plainSave builds a save of a class without a custom header holding one
// IntProperty.
func plainSave(t *testing.T, value int32) []byte {
	t.Helper()
	w := binio.NewWriter()
	w.WriteUint32(0x53415647)
	w.WriteInt32(2)
	w.WriteInt32(522)
	w.WriteUint16(4)
	w.WriteUint16(27)
	w.WriteUint16(2)
	w.WriteUint32(0)
	putString(t, w, "++UE4+Release-4.27")
	w.WriteInt32(3)
	w.WriteInt32(1)
	w.WriteGUID(uuid.MustParse("22d5549c-be4f-26a8-4607-2194d082b461"))
	w.WriteInt32(43)
	putString(t, w, "/Script/Engine.SaveGame")

	putString(t, w, "Score")
	putString(t, w, "IntProperty")
	w.WriteInt32(4)
	w.WriteInt32(0)
	w.WriteUint8(0)
	w.WriteInt32(value)
	putString(t, w, "None")
	w.WriteInt32(0)
	return w.Bytes()
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	convertToJSON, convertToSav = false, false
	includeSubdirectories, overwrite = false, false
	fileFilter = ""
	for _, name := range []string{"to-json", "to-sav", "include-subdirectories", "file-filter", "overwrite"} {
		uesaveCmd.Flags().Lookup(name).Changed = false
	}

	buf := new(bytes.Buffer)
	uesaveCmd.SetOut(buf)
	uesaveCmd.SetErr(buf)
	uesaveCmd.SetArgs(append([]string{}, args...))
	_, err := uesaveCmd.ExecuteC()
	return buf.String(), err
}

func TestConvert_SingleFileRoundTrip(t *testing.T) {
	env := testutil.NewTestEnv(t)
	data := plainSave(t, 42)
	save := env.CreateFile("Plain.sav", data)

	out, err := execute(t, save)
	require.NoError(t, err)
	assert.Contains(t, out, "Conversion complete.")

	jsonPath := save + ".json"
	js, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(js), `"Score"`)
	assert.NoFileExists(t, jsonPath+".lock")

	require.NoError(t, os.Remove(save))
	_, err = execute(t, jsonPath)
	require.NoError(t, err)

	rebuilt, err := os.ReadFile(save)
	require.NoError(t, err)
	assert.Equal(t, data, rebuilt)
}

func TestConvert_ExistingOutputFails(t *testing.T) {
	env := testutil.NewTestEnv(t)
	save := env.CreateFile("Plain.sav", plainSave(t, 1))
	env.CreateFile("Plain.sav.json", []byte("{}"))

	out, err := execute(t, save)
	assert.ErrorIs(t, err, errIncomplete)
	assert.Contains(t, out, "Conversion failed.")

	out, err = execute(t, "--overwrite", save)
	require.NoError(t, err)
	assert.Contains(t, out, "Conversion complete.")
}

func TestConvert_OverwriteFromConfig(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteConfig("convert:\n  overwrite: true\n")
	save := env.CreateFile("Plain.sav", plainSave(t, 1))
	env.CreateFile("Plain.sav.json", []byte("{}"))

	_, err := execute(t, save)
	assert.NoError(t, err)
}

func TestConvert_DirectoryPartialFailure(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.CreateFile("saves/A.sav", plainSave(t, 1))
	env.CreateFile("saves/B.sav", []byte("not a save"))
	env.CreateFile("saves/nested/C.sav", plainSave(t, 3))

	outDir := env.Path("json")
	out, err := execute(t, "--to-json", env.Path("saves"), outDir)
	assert.ErrorIs(t, err, errIncomplete)
	assert.Contains(t, out, "Some files failed to be converted.")
	assert.Contains(t, out, "A.sav")

	assert.FileExists(t, filepath.Join(outDir, "A.sav.json"))
	assert.NoFileExists(t, filepath.Join(outDir, "B.sav.json"))
	assert.NoFileExists(t, filepath.Join(outDir, "nested", "C.sav.json"))
}

func TestConvert_DirectoryTree(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.CreateFile("saves/A.sav", plainSave(t, 1))
	env.CreateFile("saves/nested/C.sav", plainSave(t, 3))
	env.CreateFile("saves/.local/Saved/D.sav", plainSave(t, 4))
	env.CreateFile("saves/notes.txt", []byte("ignored"))

	outDir := env.Path("json")
	out, err := execute(t, "--to-json", "--include-subdirectories", env.Path("saves"), outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Conversion complete.")

	assert.FileExists(t, filepath.Join(outDir, "A.sav.json"))
	assert.FileExists(t, filepath.Join(outDir, "nested", "C.sav.json"))
	assert.FileExists(t, filepath.Join(outDir, ".local", "Saved", "D.sav.json"))
	assert.NoFileExists(t, filepath.Join(outDir, "notes.txt.json"))
}

func TestConvert_FileFilterUsage(t *testing.T) {
	usage := uesaveCmd.Flags().Lookup("file-filter").Usage
	assert.Contains(t, usage, converter.ModeToJSON.DefaultFileFilter()+" with --to-json")
	assert.Contains(t, usage, converter.ModeToSav.DefaultFileFilter()+" with --to-sav")
}

func TestConvert_ArgumentErrors(t *testing.T) {
	env := testutil.NewTestEnv(t)
	save := env.CreateFile("Plain.sav", plainSave(t, 1))

	_, err := execute(t)
	assert.Error(t, err, "input is required")

	_, err = execute(t, "--to-json", "--to-sav", save)
	assert.Error(t, err, "direction flags are mutually exclusive")

	_, err = execute(t, "--file-filter", "[", save)
	assert.ErrorContains(t, err, "file-filter")

	_, err = execute(t, env.Path("missing.sav"))
	assert.Error(t, err)
}

func TestConvert_WritesMetricsTextfile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	prom := env.Path("uesave.prom")
	env.WriteConfig("metrics:\n  textfile: " + prom + "\n")
	save := env.CreateFile("Plain.sav", plainSave(t, 7))

	_, err := execute(t, save)
	require.NoError(t, err)

	content, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(content), `uesave_files_total{mode="to-json",outcome="converted"} 1`)
	assert.Contains(t, string(content), `uesave_last_run_result{result="success"} 1`)
}
