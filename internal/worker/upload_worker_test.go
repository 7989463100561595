package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDocPath(t *testing.T) {
	cases := []struct {
		path    string
		eventID string
		ok      bool
	}{
		{"events/ev1/docs/agenda.pdf", "ev1", true},
		{"events/ev1/docs/sub/menu.png", "ev1", true},
		{"events/ev1/snaps/photo.jpg", "", false},
		{"events/ev1/docs/", "", false},
		{"uploads/agenda.pdf", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		eventID, ok := ParseDocPath(tc.path)
		assert.Equal(t, tc.ok, ok, tc.path)
		assert.Equal(t, tc.eventID, eventID, tc.path)
	}
}
