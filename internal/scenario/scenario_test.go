package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantSteps   int
		errContains string
	}{
		{
			name: "valid",
			content: `
name: smoke
steps:
  - {action: login, user: zking, password: pw}
  - {action: enroll, course: CSC216, section: "001"}
  - {action: drop, course: CSC216, section: "001"}
  - {action: reset}
  - {action: logout}
`,
			wantSteps: 5,
		},
		{
			name:        "no steps",
			content:     "name: empty\n",
			errContains: "no steps",
		},
		{
			name:        "unknown key",
			content:     "name: x\nstpes: []\n",
			errContains: "stpes",
		},
		{
			name: "unknown action",
			content: `
steps:
  - {action: teleport}
`,
			errContains: `unknown action "teleport"`,
		},
		{
			name: "enroll without section",
			content: `
steps:
  - {action: enroll, course: CSC216}
`,
			errContains: "course and section are required",
		},
		{
			name: "assign without faculty",
			content: `
steps:
  - {action: assign, course: CSC216, section: "001"}
`,
			errContains: "faculty are required",
		},
		{
			name: "login without password",
			content: `
steps:
  - {action: login, user: zking}
`,
			errContains: "user and password are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := Parse([]byte(tt.content))
			if tt.errContains != "" {
				require.ErrorIs(t, err, ErrInvalidScenario)
				require.ErrorContains(t, err, tt.errContains)
				return
			}
			require.NoError(t, err)
			require.Len(t, sc.Steps, tt.wantSteps)
		})
	}
}

func TestValidate_ReportsEveryBadStep(t *testing.T) {
	sc := &Scenario{Steps: []Step{
		{Action: ActionEnroll},
		{Action: ActionLogout},
		{Action: ActionResetFaculty},
	}}
	err := sc.Validate()
	require.ErrorContains(t, err, "step 1 (enroll)")
	require.ErrorContains(t, err, "step 3 (reset-faculty)")
	require.NotContains(t, err.Error(), "step 2")
}

func TestStep_Target(t *testing.T) {
	require.Equal(t, "CSC216-001", Step{Course: "CSC216", Section: "001", Faculty: "sesmith5"}.Target())
	require.Equal(t, "sesmith5", Step{Faculty: "sesmith5"}.Target())
	require.Empty(t, Step{Action: ActionLogout}.Target())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - {action: logout}\n"), 0o600))

	sc, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ActionLogout, sc.Steps[0].Action)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuiltins(t *testing.T) {
	require.Equal(t, []string{"faculty", "register", "waitlist"}, BuiltinNames())

	for _, name := range BuiltinNames() {
		sc, err := Builtin(name)
		require.NoError(t, err, name)
		require.Equal(t, name, sc.Name)
	}

	_, err := Builtin("nope")
	require.ErrorContains(t, err, "available: faculty, register, waitlist")
}

func TestResolve(t *testing.T) {
	sc, err := Resolve(BuiltinPrefix + "register")
	require.NoError(t, err)
	require.Equal(t, "register", sc.Name)

	_, err = Resolve(filepath.Join(t.TempDir(), "none.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
