package config

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_SessionConfigs_CookiePosture(t *testing.T) {
	// SameSite=None is only honored by browsers on secure cookies.
	cfg := SessionConfigs{SameSite: "none"}
	require.True(t, cfg.CookieSecure("dev"))
	require.Equal(t, http.SameSiteNoneMode, cfg.CookieSameSite())

	cfg = SessionConfigs{SameSite: "lax"}
	require.False(t, cfg.CookieSecure("dev"))
	require.True(t, cfg.CookieSecure("prod"))
	require.Equal(t, http.SameSiteLaxMode, cfg.CookieSameSite())

	cfg = SessionConfigs{SameSite: "strict", Secure: "false"}
	require.False(t, cfg.CookieSecure("prod"))
	require.Equal(t, http.SameSiteStrictMode, cfg.CookieSameSite())

	cfg = SessionConfigs{SameSite: "lax", Secure: "true"}
	require.True(t, cfg.CookieSecure("dev"))
}
