package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShare_IsActive(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name  string
		share Share
		want  bool
	}{
		{
			name:  "never expires",
			share: Share{ExpiresAt: NeverExpires},
			want:  true,
		},
		{
			name:  "future expiry",
			share: Share{ExpiresAt: now.Unix() + 60},
			want:  true,
		},
		{
			name:  "past expiry",
			share: Share{ExpiresAt: now.Unix() - 60},
			want:  false,
		},
		{
			name:  "expiry exactly now",
			share: Share{ExpiresAt: now.Unix()},
			want:  false,
		},
		{
			name:  "flagged expired overrides exp",
			share: Share{ExpiresAt: NeverExpires, Expired: true},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.share.IsActive(now))
		})
	}
}

func TestShare_HasToken(t *testing.T) {
	assert.False(t, (&Share{}).HasToken())
	assert.True(t, (&Share{Token: "0gabcd"}).HasToken())
}
