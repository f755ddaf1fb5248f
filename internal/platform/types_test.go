package platform

import "testing"

func TestParseMouseButton_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  MouseButton
	}{
		{"", MouseLeft},
		{"left", MouseLeft},
		{"Left", MouseLeft},
		{"LEFT", MouseLeft},
		{"right", MouseRight},
		{"Right", MouseRight},
		{"middle", MouseMiddle},
		{"Middle", MouseMiddle},
	}
	for _, tt := range tests {
		got, err := ParseMouseButton(tt.input)
		if err != nil {
			t.Errorf("ParseMouseButton(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseMouseButton(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseMouseButton_Invalid(t *testing.T) {
	_, err := ParseMouseButton("invalid")
	if err == nil {
		t.Error("ParseMouseButton(\"invalid\") should fail")
	}
}

func TestMouseButton_String(t *testing.T) {
	for _, b := range []MouseButton{MouseLeft, MouseRight, MouseMiddle} {
		back, err := ParseMouseButton(b.String())
		if err != nil || back != b {
			t.Errorf("ParseMouseButton(%q) = %v, %v; want %v", b.String(), back, err, b)
		}
	}
}

func TestAXNode_LabelPreference(t *testing.T) {
	tests := []struct {
		node AXNode
		want string
	}{
		{AXNode{Title: "Save", Description: "save doc", Value: "x"}, "Save"},
		{AXNode{Title: "  ", Description: "Close", Value: "x"}, "Close"},
		{AXNode{Value: "hello"}, "hello"},
		{AXNode{}, ""},
	}
	for _, tt := range tests {
		if got := tt.node.Label(); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
	}
}
