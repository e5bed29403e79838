package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelsPrefix(t *testing.T) {
	buf := new(bytes.Buffer)
	l := New(buf, false)

	l.Info("started", 1)
	l.Warning("slow store")
	l.Event("armed")

	out := buf.String()
	assert.Contains(t, out, "[INFO] started 1")
	assert.Contains(t, out, "[WARNING] slow store")
	assert.Contains(t, out, "[Event] armed")
}

func TestDebugOnlyWhenEnabled(t *testing.T) {
	buf := new(bytes.Buffer)
	New(buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	New(buf, true).Debug("payload:", map[string]int{"chat": 7})
	assert.Contains(t, buf.String(), "[DEBUG] payload:")
	assert.Contains(t, buf.String(), `"chat": 7`)
}

func TestCritExits(t *testing.T) {
	buf := new(bytes.Buffer)
	l := New(buf, false)
	code := -1
	l.exit = func(c int) { code = c }

	l.Crit("boom")

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "Critical error: boom")
}

func TestConfigureMissingFile(t *testing.T) {
	l := New(new(bytes.Buffer), false)

	f, err := l.Configure(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestConfigureWritesFile(t *testing.T) {
	dir := t.TempDir()
	cnfPath := filepath.Join(dir, "logger.yml")
	logDir := filepath.Join(dir, "logs")
	cnf := "logging:\n  enabled: true\n  directory: " + logDir + "\n  filename_format: bot\n"
	require.NoError(t, os.WriteFile(cnfPath, []byte(cnf), 0644))

	l := New(new(bytes.Buffer), false)
	f, err := l.Configure(cnfPath)
	require.NoError(t, err)
	require.NotNil(t, f)
	defer f.Close()

	l.Info("to file")

	data, err := os.ReadFile(filepath.Join(logDir, "bot.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestConfigureBrokenYaml(t *testing.T) {
	cnfPath := filepath.Join(t.TempDir(), "logger.yml")
	require.NoError(t, os.WriteFile(cnfPath, []byte("logging: [\n"), 0644))

	_, err := New(new(bytes.Buffer), false).Configure(cnfPath)
	assert.Error(t, err)
}
