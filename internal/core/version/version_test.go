package version

import "testing"

func TestInfo_DefaultsService(t *testing.T) {
	if got := Info("").Service; got != "inbox-api" {
		t.Fatalf("Service = %q", got)
	}
	bi := Info("inbox-matcher")
	if bi.Service != "inbox-matcher" || bi.Version == "" || bi.Commit == "" {
		t.Fatalf("unexpected build info %+v", bi)
	}
}
