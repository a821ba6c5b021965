package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"louslist/internal/domain"
)

func TestValidateHostURL(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		wantErr string
	}{
		{name: "default server", host: defaultHost},
		{name: "https with trailing slash", host: "https://louslist.example.edu/"},
		{name: "surrounding whitespace", host: "  http://127.0.0.1:6000 "},
		{name: "bare host and port", host: "localhost:6000", wantErr: "must start with http:// or https://"},
		{name: "ftp scheme", host: "ftp://example.com", wantErr: "must start with http:// or https://"},
		{name: "empty", host: "   ", wantErr: "LOUSLIST_HOST"},
		{name: "no host name", host: "http://", wantErr: "has no host name"},
		{name: "credentials", host: "http://admin:pw@localhost:6000", wantErr: "credentials"},
		{name: "route as path", host: "http://localhost:6000/search", wantErr: `path such as "/search"`},
		{name: "query string", host: "http://localhost:6000?term=1258", wantErr: "query or fragment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateHostURL(tt.host)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			var ve *domain.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}
