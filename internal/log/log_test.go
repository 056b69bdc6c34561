package log

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(Reset)
	return &buf
}

func TestFormat(t *testing.T) {
	at := time.Date(2026, 8, 17, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		level  Level
		fields []any
		want   string
	}{
		{
			name:   "pairs",
			level:  LevelInfo,
			fields: []any{"course", "CSC216-001", "seats", 10},
			want:   "2026-08-17T09:30:00 [INFO] [roll] msg course=CSC216-001 seats=10\n",
		},
		{
			name:   "orphan key",
			level:  LevelWarn,
			fields: []any{"student"},
			want:   "2026-08-17T09:30:00 [WARN] [roll] msg student=<missing>\n",
		},
		{
			name:   "quoted value",
			level:  LevelError,
			fields: []any{"error", errors.New("disk full"), "title", ""},
			want:   "2026-08-17T09:30:00 [ERROR] [roll] msg error=\"disk full\" title=\n",
		},
		{
			name:   "nil value",
			level:  LevelDebug,
			fields: []any{"err", nil},
			want:   "2026-08-17T09:30:00 [DEBUG] [roll] msg err=<nil>\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, format(at, tt.level, CatRoll, "msg", tt.fields))
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	require.NoError(t, err)
	require.Equal(t, LevelWarn, level)

	level, err = ParseLevel("ERROR")
	require.NoError(t, err)
	require.Equal(t, LevelError, level)

	_, err = ParseLevel("loud")
	require.EqualError(t, err, `unknown log level "loud"`)
	require.Equal(t, "UNKNOWN", Level(9).String())
}

func TestLevelsAndToggle(t *testing.T) {
	buf := captureLogs(t)

	Info(CatRoll, "student enrolled", "course", "CSC216-001", "student", "zking")
	require.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2} \[INFO\] \[roll\] student enrolled course=CSC216-001 student=zking\n$`, buf.String())

	buf.Reset()
	SetMinLevel(LevelWarn)
	Debug(CatRoll, "hidden")
	Info(CatRoll, "hidden")
	require.Empty(t, buf.String())

	ErrorErr(CatIO, "write failed", errors.New("disk full"), "file", "courses.txt")
	require.Contains(t, buf.String(), `[ERROR] [io] write failed file=courses.txt error="disk full"`)

	buf.Reset()
	SetEnabled(false)
	Error(CatAuth, "hidden")
	require.Empty(t, buf.String())
}

func TestListenerReceivesLines(t *testing.T) {
	captureLogs(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewListener(ctx)
	require.NotNil(t, listener)

	Info(CatCatalog, "loaded", "courses", 8)

	event, ok := listener.Next()
	require.True(t, ok)
	require.Contains(t, event.Payload, "[catalog] loaded courses=8")
}

func TestInitFileAndCleanup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := Init(path)
	require.NoError(t, err)

	Warn(CatConfig, "unknown key", "key", "colour")
	cleanup()
	Warn(CatConfig, "after cleanup")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[WARN] [config] unknown key key=colour")
	require.NotContains(t, string(data), "after cleanup")

	_, err = Init(filepath.Join(t.TempDir(), "missing", "debug.log"))
	require.ErrorContains(t, err, "opening log file")
}

func TestNoLoggerIsSilent(t *testing.T) {
	Reset()
	require.NotPanics(t, func() { Info(CatDB, "nothing") })
	require.Nil(t, NewListener(context.Background()))
}
