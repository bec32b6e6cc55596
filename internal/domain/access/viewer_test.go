package access

import "testing"

func TestAdminSet(t *testing.T) {
	admins := NewAdminSet([]string{" U-admin ", "", "U-coach"})
	if len(admins) != 2 {
		t.Fatalf("expected 2 admins, got %d", len(admins))
	}
	v := admins.Viewer("U-admin", "監督")
	if !v.IsAdmin || v.DisplayName != "監督" {
		t.Errorf("unexpected viewer: %+v", v)
	}
	if admins.Viewer("U-player", "選手").IsAdmin {
		t.Error("regular member must not be admin")
	}
	if admins.Contains("") {
		t.Error("empty id must not be admin")
	}
	if !(Viewer{}).Anonymous() {
		t.Error("zero viewer should be anonymous")
	}
}
