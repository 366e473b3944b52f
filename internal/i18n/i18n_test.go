package i18n

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestEnglishByDefault(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "")

	tr, err := New("")
	require.NoError(t, err)
	assert.Equal(t, language.English, tr.Language())
	assert.Equal(t, "Discover", tr.T("Discover"))
}

func TestGermanFromConfig(t *testing.T) {
	tr, err := New("de")
	require.NoError(t, err)
	assert.Equal(t, language.German, tr.Language())
	assert.Equal(t, "Entdecken", tr.T("Discover"))
}

func TestGermanFromEnvironment(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "de_DE.UTF-8")

	tr, err := New("")
	require.NoError(t, err)
	assert.Equal(t, language.German, tr.Language())
}

func TestUnsupportedLanguageFallsBack(t *testing.T) {
	tr, err := New("fr")
	require.NoError(t, err)
	assert.Equal(t, "Discover", tr.T("Discover"))

	tr, err = New("not a language")
	require.NoError(t, err)
	assert.Equal(t, language.English, tr.Language())
}

func TestTemplateData(t *testing.T) {
	tr := MustNew("en")
	assert.Equal(t, "12 days left", tr.T("DaysLeft", map[string]any{"Days": 12}))
	assert.Equal(t, "Version 2.1.0 is available.", tr.T("UpgradeBody", map[string]any{"Version": "2.1.0"}))
}

func TestMissingMessageReturnsID(t *testing.T) {
	tr := MustNew("en")
	assert.Equal(t, "NoSuchMessage", tr.T("NoSuchMessage"))
}

func catalogKeys(t *testing.T, lang string) []string {
	t.Helper()
	data, err := locales.ReadFile("locales/active." + lang + ".toml")
	require.NoError(t, err)
	var messages map[string]string
	require.NoError(t, toml.Unmarshal(data, &messages))
	keys := make([]string, 0, len(messages))
	for k, v := range messages {
		require.NotEmpty(t, v, "%s: %s", lang, k)
		keys = append(keys, k)
	}
	return keys
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	en := catalogKeys(t, "en")
	require.NotEmpty(t, en)
	assert.ElementsMatch(t, en, catalogKeys(t, "de"))

	enTr, deTr := MustNew("en"), MustNew("de")
	for _, id := range []string{"Discover", "Loading", "LoadingMore", "EndOfFeed", "Empty", "UpgradeTitle", "LinkCopied"} {
		assert.NotEqual(t, enTr.T(id), deTr.T(id), id)
	}
}

func TestNormalizeLocale(t *testing.T) {
	assert.Equal(t, "de-DE", normalizeLocale("de_DE.UTF-8"))
	assert.Equal(t, "en-US", normalizeLocale("en_US@euro"))
	assert.Equal(t, "", normalizeLocale("C"))
	assert.Equal(t, "", normalizeLocale("POSIX.UTF-8"))
}
