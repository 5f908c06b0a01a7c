package report

import "testing"

func TestDeclaredEncoding(t *testing.T) {
	tests := []struct {
		inst string
		want string
	}{
		{`version="1.0" encoding="utf-8"`, "utf-8"},
		{`version='1.0' encoding = 'windows-1252' standalone="yes"`, "windows-1252"},
		{`version="1.0"`, ""},
		{`version="1.0" encoding=utf-8`, ""},
	}

	for _, tt := range tests {
		if got := declaredEncoding([]byte(tt.inst)); got != tt.want {
			t.Errorf("declaredEncoding(%q) = %q, want %q", tt.inst, got, tt.want)
		}
	}
}

func TestSourceCharset_OverridesUTF8(t *testing.T) {
	latin1, err := newSourceCharset("windows-1252")
	if err != nil {
		t.Fatalf("newSourceCharset failed: %v", err)
	}
	utf8, _ := newSourceCharset("UTF-8")
	var unset *sourceCharset

	if !latin1.overridesUTF8("utf-8") || !latin1.overridesUTF8("") {
		t.Error("windows-1252 should override a UTF-8 or missing declaration")
	}
	if latin1.overridesUTF8("ISO-8859-1") {
		t.Error("windows-1252 should not override a matching declaration")
	}
	if utf8.overridesUTF8("") || unset.overridesUTF8("utf-8") {
		t.Error("UTF-8 or unset charsets never override")
	}
}
