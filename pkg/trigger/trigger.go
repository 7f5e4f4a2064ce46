package trigger

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/certiswift/certiswift-api/pkg/httpclient"
	"github.com/certiswift/certiswift-api/pkg/logger"
	"go.uber.org/zap"
)

// Event is the JSON body posted to a trigger URL
type Event struct {
	Event    string      `json:"event"`
	RecordID string      `json:"record_id"`
	Data     interface{} `json:"data,omitempty"`
}

// CallAsync posts event to triggerURL in the background.
// An empty URL disables the trigger. Failures are logged and never surface to the caller.
func CallAsync(triggerURL string, event Event, httpClient httpclient.Client) {
	if triggerURL == "" {
		return
	}

	go func() {
		_ = Call(triggerURL, event, httpClient) //nolint:errcheck // logged inside
	}()
}

// Call posts event to triggerURL and reports whether the receiver answered 2xx.
// Nothing is retried.
func Call(triggerURL string, event Event, httpClient httpclient.Client) bool {
	body, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to encode trigger payload",
			zap.Error(err),
			zap.String("event", event.Event),
			zap.String("record_id", event.RecordID))
		return false
	}

	logger.Info("Calling trigger URL",
		zap.String("url", triggerURL),
		zap.String("event", event.Event),
		zap.String("record_id", event.RecordID))

	resp, err := httpClient.Post(triggerURL, "application/json", bytes.NewReader(body))
	if err != nil {
		logger.Error("Failed to call trigger URL",
			zap.Error(err),
			zap.String("url", triggerURL),
			zap.String("record_id", event.RecordID))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		logger.Info("Trigger URL called successfully",
			zap.String("url", triggerURL),
			zap.String("record_id", event.RecordID),
			zap.Int("status_code", resp.StatusCode))
		return true
	}

	logger.Warn("Trigger URL returned non-success status",
		zap.String("url", triggerURL),
		zap.String("record_id", event.RecordID),
		zap.Int("status_code", resp.StatusCode))
	return false
}
