package service

import (
	"context"
	"testing"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNotificationDispatcherRequiresConnection(t *testing.T) {
	dispatcher := NewNATSNotificationDispatcher(nil, "", zerolog.Nop())

	err := dispatcher.Dispatch(context.Background(), Notification{Recipient: "student@example.com"})
	require.Error(t, err)
}

func TestSanitizePayloadStripsMarkup(t *testing.T) {
	d := &natsNotificationDispatcher{sanitizer: bluemonday.StrictPolicy()}

	cleaned := d.sanitizePayload(map[string]interface{}{
		"student_name": "<b>Asha</b>",
		"final_score":  9.5,
		"results": []map[string]interface{}{
			{"feedback": `<script>alert("x")</script>looks good`},
		},
	})

	require.Equal(t, "Asha", cleaned["student_name"])
	require.Equal(t, 9.5, cleaned["final_score"])

	results, ok := cleaned["results"].([]map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "looks good", results[0]["feedback"])
}
