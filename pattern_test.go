package mediator

import "testing"

func TestClassifyNotification(t *testing.T) {
	cases := []struct {
		name        string
		handlers    int
		subscribers int
		want        NotificationPattern
	}{
		{"no recipients", 0, 0, PatternNone},
		{"handlers only", 2, 0, PatternAutomaticHandlers},
		{"subscribers only", 0, 3, PatternManualSubscribers},
		{"both", 1, 1, PatternHybrid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyNotification(tc.handlers, tc.subscribers); got != tc.want {
				t.Fatalf("ClassifyNotification(%d, %d) = %v, want %v", tc.handlers, tc.subscribers, got, tc.want)
			}
		})
	}
}

func TestPatternString(t *testing.T) {
	cases := map[NotificationPattern]string{
		PatternNone:              "none",
		PatternAutomaticHandlers: "automatic-handlers",
		PatternManualSubscribers: "manual-subscribers",
		PatternHybrid:            "hybrid",
	}
	for pattern, want := range cases {
		if got := pattern.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}
