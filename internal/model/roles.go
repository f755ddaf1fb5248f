package model

// RoleKinds maps macOS AXRole values to element kinds.
var RoleKinds = map[string]Kind{
	"AXButton":          KindButton,
	"AXMenuButton":      KindMenu,
	"AXPopUpButton":     KindMenu,
	"AXStaticText":      KindStaticText,
	"AXHeading":         KindStaticText,
	"AXTextField":       KindTextInput,
	"AXTextArea":        KindTextInput,
	"AXSearchField":     KindTextInput,
	"AXSecureTextField": KindTextInput,
	"AXComboBox":        KindTextInput,
	"AXLink":            KindLink,
	"AXImage":           KindImage,
	"AXMenu":            KindMenu,
	"AXMenuBar":         KindMenu,
	"AXMenuItem":        KindMenu,
	"AXMenuBarItem":     KindMenu,
	"AXCheckBox":        KindCheckbox,
	"AXSwitch":          KindCheckbox,
	"AXToggle":          KindCheckbox,
	"AXRadioButton":     KindRadio,
	"AXSlider":          KindSlider,
	"AXIncrementor":     KindSlider,
}

// MapRole converts a raw accessibility role to a Kind.
func MapRole(axRole string) Kind {
	if k, ok := RoleKinds[axRole]; ok {
		return k
	}
	return KindUnknown
}
