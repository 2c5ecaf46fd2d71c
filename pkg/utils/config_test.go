package utils

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("with nil values", func(t *testing.T) {
		config := NewConfig(nil)
		require.NotNil(t, config)
		assert.Len(t, config.Keys(), 0)
	})

	t.Run("with values", func(t *testing.T) {
		values := map[string]string{
			"key1": "value1",
			"key2": "value2",
		}
		config := NewConfig(values)

		assert.Equal(t, "value1", config.Get("key1"))
		assert.Equal(t, "value2", config.Get("key2"))

		// Verify it's a copy, not a reference
		values["key1"] = "modified"
		assert.NotEqual(t, "modified", config.Get("key1"))
	})
}

func TestNewConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.env")
	second := filepath.Join(dir, "second.env")

	require.NoError(t, os.WriteFile(first, []byte("CARDBOT_TEST_A=one\nCARDBOT_TEST_B=one\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("CARDBOT_TEST_B=two\n"), 0o600))

	t.Setenv("CARDBOT_TEST_C", "env")

	config := NewConfigFromEnv(first, second, filepath.Join(dir, "missing.env"))

	assert.Equal(t, "one", config.Get("CARDBOT_TEST_A"))
	assert.Equal(t, "two", config.Get("CARDBOT_TEST_B")) // later file wins
	assert.Equal(t, "env", config.Get("CARDBOT_TEST_C"))
}

func TestConfigGetWithDefault(t *testing.T) {
	config := NewConfig(map[string]string{
		"existing": "value",
		"empty":    "",
	})

	assert.Equal(t, "value", config.GetWithDefault("existing", "default"))
	assert.Equal(t, "default", config.GetWithDefault("missing", "default"))
	assert.Equal(t, "default", config.GetWithDefault("empty", "default"))
}

func TestConfigGetBool(t *testing.T) {
	config := NewConfig(map[string]string{
		"true_bool":    "true",
		"false_bool":   "false",
		"true_1":       "1",
		"true_yes":     "yes",
		"true_enabled": "Enabled",
		"false_no":     "no",
		"invalid":      "invalid_bool",
		"empty":        "",
	})

	tests := []struct {
		key      string
		expected bool
	}{
		{"true_bool", true},
		{"false_bool", false},
		{"true_1", true},
		{"true_yes", true},
		{"true_enabled", true},
		{"false_no", false},
		{"invalid", false},
		{"empty", false},
		{"missing", false},
	}

	for _, test := range tests {
		t.Run(test.key, func(t *testing.T) {
			assert.Equal(t, test.expected, config.GetBool(test.key), "GetBool(%s)", test.key)
		})
	}

	assert.True(t, config.GetBoolWithDefault("missing", true))
	assert.False(t, config.GetBoolWithDefault("empty", true))
}

func TestConfigGetInt(t *testing.T) {
	config := NewConfig(map[string]string{
		"valid_int":   "42",
		"negative":    "-10",
		"invalid_int": "not_a_number",
	})

	assert.Equal(t, 42, config.GetInt("valid_int"))
	assert.Equal(t, -10, config.GetInt("negative"))
	assert.Equal(t, 0, config.GetInt("invalid_int"))
	assert.Equal(t, 0, config.GetInt("missing"))
	assert.Equal(t, 999, config.GetIntWithDefault("missing", 999))
	assert.Equal(t, 42, config.GetIntWithDefault("valid_int", 999))
}

func TestConfigGetDuration(t *testing.T) {
	config := NewConfig(map[string]string{
		"ttl":     "720h",
		"timeout": " 20s ",
		"broken":  "soon",
		"empty":   "",
	})

	t.Run("valid", func(t *testing.T) {
		d, err := config.GetDuration("ttl")
		require.NoError(t, err)
		assert.Equal(t, 30*24*time.Hour, d)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		d, err := config.GetDuration("timeout")
		require.NoError(t, err)
		assert.Equal(t, 20*time.Second, d)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := config.GetDuration("broken")
		assert.ErrorContains(t, err, "broken")
	})

	t.Run("defaults", func(t *testing.T) {
		assert.Equal(t, time.Minute, config.GetDurationWithDefault("missing", time.Minute))
		assert.Equal(t, time.Minute, config.GetDurationWithDefault("empty", time.Minute))
		assert.Equal(t, time.Minute, config.GetDurationWithDefault("broken", time.Minute))
		assert.Equal(t, 20*time.Second, config.GetDurationWithDefault("timeout", time.Minute))
	})
}

func TestConfigRequire(t *testing.T) {
	config := NewConfig(map[string]string{
		"API_KEY":      "secret",
		"DATABASE_URL": "",
	})

	assert.NoError(t, config.Require("API_KEY"))

	err := config.Require("API_KEY", "DATABASE_URL", "GUILD_ID")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL, GUILD_ID")
}

func TestConfigSetAndKeys(t *testing.T) {
	config := NewConfig(map[string]string{"key1": "value1"})

	config.Set("key2", "value2")
	config.Set("key1", "updated")

	assert.Equal(t, "updated", config.Get("key1"))
	assert.True(t, config.Has("key2"))
	assert.False(t, config.Has("key3"))

	keys := config.Keys()
	sort.Strings(keys)
	assert.Equal(t, []string{"key1", "key2"}, keys)
}

func TestConfigThreadSafety(t *testing.T) {
	config := NewConfig(map[string]string{"counter": "0"})

	const numGoroutines = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				config.Set("test_key_"+string(rune('a'+id%26)), "value")
				config.Get("counter")
				config.GetBoolWithDefault("counter", true)
				config.GetIntWithDefault("counter", 1)
				config.Keys()
			}
		}(i)
	}

	wg.Wait()
}
