package model

import "testing"

func TestMapRole_KnownRoles(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"AXButton", KindButton},
		{"AXStaticText", KindStaticText},
		{"AXLink", KindLink},
		{"AXImage", KindImage},
		{"AXTextField", KindTextInput},
		{"AXTextArea", KindTextInput},
		{"AXComboBox", KindTextInput},
		{"AXCheckBox", KindCheckbox},
		{"AXSwitch", KindCheckbox},
		{"AXRadioButton", KindRadio},
		{"AXMenu", KindMenu},
		{"AXMenuItem", KindMenu},
		{"AXPopUpButton", KindMenu},
		{"AXSlider", KindSlider},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := MapRole(tt.input)
			if got != tt.want {
				t.Errorf("MapRole(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMapRole_UnknownFallback(t *testing.T) {
	unknowns := []string{"AXGroup", "AXScrollArea", "AXProgressIndicator", "SomethingElse", ""}
	for _, role := range unknowns {
		got := MapRole(role)
		if got != KindUnknown {
			t.Errorf("MapRole(%q) = %q, want %q", role, got, KindUnknown)
		}
	}
}
