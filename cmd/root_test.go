package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/zjrosen/packscheduler/internal/presentation"
)

const testConfig = `data_dir: %s
store:
  enabled: true
  path: term.db
session:
  ttl: 5m
auth:
  bcrypt_cost: 4
`

// newTestEnv copies the sample records into a temp data dir and writes a
// config pointing at it. It returns the config path and the data dir.
func newTestEnv(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"course_records.txt", "student_records.txt", "faculty_records.txt"} {
		data, err := os.ReadFile(filepath.Join("testdata", "records", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o600))
	}
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(strings.Replace(testConfig, "%s", dir, 1)), 0o600))
	return configFile, dir
}

// resetCommands puts every flag back to its default so one test's flags do
// not leak into the next Execute.
func resetCommands(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetCommands(sub)
	}
}

// run executes packsched with args and returns stdout and stderr.
func run(t *testing.T, configFile string, args ...string) (string, string, error) {
	t.Helper()
	viper.Reset()
	bindFlags()
	resetCommands(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", configFile}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestCatalogList(t *testing.T) {
	configFile, _ := newTestEnv(t)

	out, _, err := run(t, configFile, "catalog:list")
	require.NoError(t, err)
	courses := decode[[]presentation.CourseDTO](t, out)
	require.Len(t, courses, 9)
	require.Equal(t, "CSC116-001", courses[0].Key)
	require.Equal(t, "jdyoung2", courses[0].Instructor)
	require.Equal(t, "Arranged", courses[5].Meeting)

	out, _, err = run(t, configFile, "catalog:list", "--format", "table")
	require.NoError(t, err)
	require.Contains(t, out, "Software Development Fundamentals")
	require.Contains(t, out, "Waitlist")
}

func TestDirectoryList(t *testing.T) {
	configFile, _ := newTestEnv(t)

	out, _, err := run(t, configFile, "directory:list")
	require.NoError(t, err)
	students := decode[[]presentation.UserDTO](t, out)
	require.Len(t, students, 11)
	require.Equal(t, "daustin", students[0].ID, "sorted by last name")

	out, _, err = run(t, configFile, "directory:list", "--kind", "faculty")
	require.NoError(t, err)
	faculty := decode[[]presentation.UserDTO](t, out)
	require.Len(t, faculty, 7)
	require.Equal(t, "sesmith5", faculty[0].ID, "insertion order")

	var awitt presentation.UserDTO
	for _, f := range faculty {
		if f.ID == "awitt" {
			awitt = f
		}
	}
	require.Equal(t, 2, awitt.Load)
	require.ElementsMatch(t, []string{"CSC116-003", "CSC230-001"}, awitt.Courses)

	_, _, err = run(t, configFile, "directory:list", "--kind", "dean")
	require.ErrorContains(t, err, `unknown --kind "dean"`)
}

func TestTermRun_PersistAndShowRoll(t *testing.T) {
	configFile, _ := newTestEnv(t)

	out, stderr, err := run(t, configFile, "term:run", "--scenario", "builtin:waitlist", "--persist")
	require.NoError(t, err)
	require.Contains(t, stderr, "saved term snapshot")
	steps := decode[[]presentation.StepResultDTO](t, out)
	require.Len(t, steps, 36)
	for _, s := range steps {
		require.True(t, s.OK, "step %d %s %s: %s", s.Index, s.Action, s.User, s.Error)
	}
	require.Equal(t, []presentation.EventDTO{
		{Type: "dropped", Student: "rbrennan", Course: "CSC230-001"},
		{Type: "promoted", Student: "kmartin", Course: "CSC230-001"},
	}, steps[34].Events, "the seat is refilled before either event goes out")
	require.Equal(t, "waitlisted", steps[31].Events[0].Type)

	out, _, err = run(t, configFile, "roll:show", "--course", "CSC230", "--section", "001")
	require.NoError(t, err)
	rolls := decode[[]presentation.RollDTO](t, out)
	require.Len(t, rolls, 1)
	require.Len(t, rolls[0].Roster, 10)
	require.Equal(t, "kmartin", rolls[0].Roster[9], "promoted from the waitlist")
	require.NotContains(t, rolls[0].Roster, "rbrennan")
	require.Empty(t, rolls[0].Waitlist)

	out, _, err = run(t, configFile, "catalog:list", "--store", "--open")
	require.NoError(t, err)
	for _, c := range decode[[]presentation.CourseDTO](t, out) {
		require.NotEqual(t, "CSC230-001", c.Key, "full section filtered out")
	}

	out, _, err = run(t, configFile, "store:snapshots")
	require.NoError(t, err)
	snapshots := decode[[]presentation.SnapshotDTO](t, out)
	require.Len(t, snapshots, 1)
	require.Equal(t, 10, snapshots[0].Enrollments)
}

func TestTermRun_Strict(t *testing.T) {
	configFile, _ := newTestEnv(t)

	out, _, err := run(t, configFile, "term:run", "-s", "builtin:register", "--strict")
	require.EqualError(t, err, "1 of 7 steps failed")

	steps := decode[[]presentation.StepResultDTO](t, out)
	require.False(t, steps[4].OK)
	require.Equal(t, "CSC216-002", steps[4].Target)
	require.NotEmpty(t, steps[4].Error)
}

func TestTermRun_ScenarioErrors(t *testing.T) {
	configFile, dir := newTestEnv(t)

	_, _, err := run(t, configFile, "term:run")
	require.ErrorContains(t, err, `required flag(s) "scenario" not set`)

	_, _, err = run(t, configFile, "term:run", "-s", "builtin:nope")
	require.ErrorContains(t, err, "unknown builtin scenario")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("steps:\n  - {action: fly}\n"), 0o600))
	_, _, err = run(t, configFile, "term:run", "-s", bad)
	require.ErrorContains(t, err, `unknown action "fly"`)
}

func TestStoreImportExport(t *testing.T) {
	configFile, dir := newTestEnv(t)

	out, _, err := run(t, configFile, "store:import")
	require.NoError(t, err)
	snapshots := decode[[]presentation.SnapshotDTO](t, out)
	require.Len(t, snapshots, 1)
	require.Equal(t, 9, snapshots[0].Courses)
	require.Equal(t, 11, snapshots[0].Students)
	require.Equal(t, 7, snapshots[0].Faculty)

	backup := filepath.Join(dir, "backup")
	_, _, err = run(t, configFile, "store:export", "--dir", backup, "--update-config")
	require.NoError(t, err)

	want, err := os.ReadFile(filepath.Join(dir, "course_records.txt"))
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(backup, "course_records.txt"))
	require.NoError(t, err)
	require.Equal(t, string(want), string(got))

	content, err := os.ReadFile(configFile)
	require.NoError(t, err)
	require.Contains(t, string(content), filepath.Join(backup, "faculty_records.txt"))
	require.Contains(t, string(content), "bcrypt_cost: 4", "other settings kept")

	// The config now points at the backup files.
	out, _, err = run(t, configFile, "catalog:list")
	require.NoError(t, err)
	require.Len(t, decode[[]presentation.CourseDTO](t, out), 9)
}

func TestExport(t *testing.T) {
	configFile, dir := newTestEnv(t)

	_, _, err := run(t, configFile, "term:run", "-s", "builtin:waitlist", "--persist")
	require.NoError(t, err)

	path := filepath.Join(dir, "term.xlsx")
	_, stderr, err := run(t, configFile, "export", "--out", path, "--store", "--sheet", "Fall")
	require.NoError(t, err)
	require.Contains(t, stderr, "wrote 9 courses")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	require.Equal(t, []string{"Fall", "Rolls"}, f.GetSheetList())

	rows, err := f.GetRows("Rolls")
	require.NoError(t, err)
	require.Len(t, rows, 11, "header plus ten seats")

	_, _, err = run(t, configFile, "export")
	require.ErrorContains(t, err, `required flag(s) "out" not set`)
}

func TestFlags(t *testing.T) {
	configFile, _ := newTestEnv(t)

	out, _, err := run(t, configFile, "flags:list")
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"rehash-passwords": true, "autosave-records": false}, decode[map[string]bool](t, out))

	_, _, err = run(t, configFile, "flags:set", "autosave-records=true", "rehash-passwords=false")
	require.NoError(t, err)

	out, _, err = run(t, configFile, "flags:list")
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"rehash-passwords": false, "autosave-records": true}, decode[map[string]bool](t, out))

	_, _, err = run(t, configFile, "flags:set", "turbo=true")
	require.ErrorContains(t, err, `unknown flag "turbo"`)

	_, _, err = run(t, configFile, "flags:set", "autosave-records")
	require.ErrorContains(t, err, "expected NAME=BOOL")
}

func TestTermRun_AutosaveRehashesPasswords(t *testing.T) {
	configFile, dir := newTestEnv(t)

	_, _, err := run(t, configFile, "flags:set", "autosave-records=true")
	require.NoError(t, err)
	_, _, err = run(t, configFile, "term:run", "-s", "builtin:register")
	require.NoError(t, err)

	// zking logged in with the legacy digest, so their line now holds a bcrypt hash.
	data, err := os.ReadFile(filepath.Join(dir, "student_records.txt"))
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		fields := strings.Split(line, ",")
		if fields[2] == "zking" {
			require.True(t, strings.HasPrefix(fields[4], "$2"), fields[4])
		} else {
			require.False(t, strings.HasPrefix(fields[4], "$2"), fields[2])
		}
	}
}

func TestRoot_InvalidSettings(t *testing.T) {
	configFile, dir := newTestEnv(t)

	_, _, err := run(t, configFile, "catalog:list", "--format", "yaml")
	require.ErrorContains(t, err, `unknown --format "yaml"`)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("data_dir: "+dir+"\nsession:\n  ttl: -1s\n"), 0o600))
	_, _, err = run(t, broken, "catalog:list")
	require.ErrorContains(t, err, "invalid configuration")
	require.ErrorContains(t, err, "ttl must be positive")
}

func TestRoot_DataDirFlag(t *testing.T) {
	configFile, _ := newTestEnv(t)

	empty := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(empty, "config.yaml"), nil, 0o600))
	_, _, err := run(t, configFile, "catalog:list", "--data-dir", empty)
	require.ErrorContains(t, err, "loading records")
}

func TestRoot_DebugLogLevel(t *testing.T) {
	configFile, dir := newTestEnv(t)
	logFile := filepath.Join(dir, "debug.log")
	t.Setenv("PACKSCHED_DEBUG", "1")
	t.Setenv("PACKSCHED_LOG", logFile)

	t.Setenv("PACKSCHED_LOG_LEVEL", "loud")
	_, _, err := run(t, configFile, "catalog:list")
	require.ErrorContains(t, err, `unknown log level "loud"`)

	t.Setenv("PACKSCHED_LOG_LEVEL", "info")
	_, _, err = run(t, configFile, "catalog:list")
	require.NoError(t, err)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "[INFO] [config] packsched starting")
	require.NotContains(t, string(data), "[DEBUG]")
}
