package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/numcheck/internal/config"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "numcheck", cmd.Use)
	assert.Contains(t, cmd.Long, "parseInt")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"parse", "check", "validate", "compile", "history", "replay"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestCompileCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	compileCmd, _, err := cmd.Find([]string{"compile"})
	require.NoError(t, err)

	outputFlag := compileCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
}

func TestCheckCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	checkCmd, _, err := cmd.Find([]string{"check"})
	require.NoError(t, err)

	for _, name := range []string{"update", "filter", "db", "builtin", "metrics-file"} {
		assert.NotNil(t, checkCmd.Flags().Lookup(name), "flag --%s", name)
	}
}

func TestHistoryAndReplayFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"history", "replay"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.NotNil(t, sub.Flags().Lookup("db"), "%s --db", name)
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvDB, config.EnvFormat, config.EnvSuites, config.EnvLogLevel} {
		t.Setenv(key, "")
	}
}

func TestInvalidFormat(t *testing.T) {
	clearConfigEnv(t)

	_, _, err := execute(NewRootCommand(), "parse", "int", "7", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}

func TestConfigFileSetsFormat(t *testing.T) {
	clearConfigEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "numcheck.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("format: json\n"), 0o644))

	out, _, err := execute(NewRootCommand(), "parse", "int", "0x10", "--config", cfgPath)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestFormatFlagOverridesConfig(t *testing.T) {
	clearConfigEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "numcheck.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("format: json\n"), 0o644))

	out, _, err := execute(NewRootCommand(), "parse", "int", "0x10", "--config", cfgPath, "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, "16\n", out)
}

func TestEnvOverridesConfigFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv(config.EnvFormat, "text")
	cfgPath := filepath.Join(t.TempDir(), "numcheck.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("format: json\n"), 0o644))

	out, _, err := execute(NewRootCommand(), "parse", "float", "2.50", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "2.5\n", out)
}

func TestMissingConfigFile(t *testing.T) {
	clearConfigEnv(t)

	_, _, err := execute(NewRootCommand(), "parse", "int", "1", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRootOptionsDefaults(t *testing.T) {
	opts := &RootOptions{}
	assert.Equal(t, config.DefaultConfig(), opts.config())
	assert.NotNil(t, opts.logger())
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.False(t, isValidFormat("yaml"))
	assert.False(t, isValidFormat(""))
}
