package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func existingConfigKeys() map[string]any {
	return map[string]any{
		"env": map[string]any{
			"env":   "local",
			"debug": false,
			"log": map[string]any{
				"level": "info",
			},
		},
		"http": map[string]any{
			"port": 3333,
		},
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
				"password": "",
			},
		},
		"secretKey": map[string]any{
			"access": "",
		},
		"auth": map[string]any{
			"bcryptCost": 10,
		},
		"migrations": map[string]any{
			"autoApply": false,
		},
	}
}

func TestResolveEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := existingConfigKeys()

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "AUTH_BCRYPTCOST", want: "auth.bcryptCost"},
		{envKey: "MIGRATIONS_AUTOAPPLY", want: "migrations.autoApply"},
		{envKey: "HTTP_PORT", want: "http.port"},
		{envKey: "ENV_ENV", want: "env.env"},
		{envKey: "ENV_LOG_LEVEL", want: "env.log.level"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			got, ok := resolveEnvKey(tt.envKey, existing)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveEnvKey_RejectsSectionOverwrites(t *testing.T) {
	existing := existingConfigKeys()

	for _, envKey := range []string{
		"ENV", "HTTP", "POSTGRES", "AUTH", "MIGRATIONS", "SECRETKEY",
		"POSTGRES_MASTER", "ENV_LOG", "HTTP_PORT_EXTRA", "_",
	} {
		t.Run(envKey, func(t *testing.T) {
			got, ok := resolveEnvKey(envKey, existing)
			assert.False(t, ok)
			assert.Empty(t, got)
		})
	}
}

func TestEnvKeyTransformer_LegacyAliases(t *testing.T) {
	existing := existingConfigKeys()
	unset := func(string) (string, bool) { return "", false }
	transform := envKeyTransformer(existing, unset)

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "SECRET", want: "secretKey.access"},
		{envKey: "PORT", want: "http.port"},
		{envKey: "PG_USER", want: "postgres.master.userName"},
		{envKey: "PG_PASS", want: "postgres.master.password"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			key, value := transform(tt.envKey, "v")
			assert.Equal(t, tt.want, key)
			assert.Equal(t, "v", value)
		})
	}
}

func TestEnvKeyTransformer_CanonicalNameWinsOverAlias(t *testing.T) {
	canonicalSet := func(name string) (string, bool) {
		return "from-canonical", name == "SECRETKEY_ACCESS"
	}
	transform := envKeyTransformer(existingConfigKeys(), canonicalSet)

	key, _ := transform("SECRET", "from-alias")
	assert.Empty(t, key)

	key, value := transform("SECRETKEY_ACCESS", "from-canonical")
	assert.Equal(t, "secretKey.access", key)
	assert.Equal(t, "from-canonical", value)
}

func TestEnvKeyTransformer_SkipsSectionNames(t *testing.T) {
	transform := envKeyTransformer(existingConfigKeys(), func(string) (string, bool) { return "", false })

	key, _ := transform("ENV", "production")
	assert.Empty(t, key)
}
